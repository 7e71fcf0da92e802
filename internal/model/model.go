// Package model содержит доменные сущности сервиса agromart.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account представляет зарегистрированного покупателя и его состояние верификации.
type Account struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	IsVerified   bool

	// OTPHash и OTPExpiry либо оба заданы, либо оба nil.
	OTPHash         *string
	OTPExpiry       *time.Time
	OTPResendCount  int
	LastOTPResendAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPendingOTP сообщает, ожидает ли аккаунт подтверждения кода.
func (a *Account) HasPendingOTP() bool {
	return a.OTPHash != nil && a.OTPExpiry != nil
}

// OrderStatus описывает статус обработки заказа.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid проверяет, что статус входит в известный набор.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal сообщает, что из статуса нет дальнейших переходов.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// CanTransition проверяет допустимость перехода статуса заказа.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentMethodCOD обозначает единственный способ оплаты: наличными при получении.
const PaymentMethodCOD = "COD"

// OrderItem хранит снимок товара из каталога на момент оформления заказа.
type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageRef  string          `json:"image"`
}

// LineTotal возвращает стоимость позиции.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ShippingAddress описывает адрес доставки заказа.
type ShippingAddress struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
	Phone    string `json:"phone"`
}

// Order описывает оформленный заказ покупателя.
type Order struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	OrderNumber     string
	Items           []OrderItem
	ShippingAddress ShippingAddress
	PaymentMethod   string
	Subtotal        decimal.Decimal
	ShippingCost    decimal.Decimal
	Total           decimal.Decimal
	Status          OrderStatus
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Product описывает товар каталога.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Features    []string        `json:"features"`
	InStock     bool            `json:"inStock"`
}
