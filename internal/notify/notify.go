// Package notify отправляет email-уведомления покупателям и операторам магазина.
package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/agromart/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Имена шаблонов писем.
const (
	TemplateOTP               = "otp.html"
	TemplateOrderConfirmation = "order_confirmation.html"
	TemplateOrderAlert        = "order_alert.html"
)

// Message описывает письмо: адресат, тема, шаблон и данные для него.
type Message struct {
	To       string
	Subject  string
	Template string
	Data     interface{}
}

// Sender доставляет письма.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Templates рендерит встроенные HTML-шаблоны писем.
type Templates struct {
	set *template.Template
}

// LoadTemplates разбирает встроенные шаблоны.
func LoadTemplates() (*Templates, error) {
	set, err := template.New("mail").Funcs(template.FuncMap{
		"upper": strings.ToUpper,
		"date": func(t time.Time) string {
			return t.Format("2 January 2006, 15:04")
		},
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &Templates{set: set}, nil
}

// Render возвращает HTML-тело письма.
func (t *Templates) Render(msg Message) (string, error) {
	var buf bytes.Buffer
	if err := t.set.ExecuteTemplate(&buf, msg.Template, msg.Data); err != nil {
		return "", fmt.Errorf("render %s: %w", msg.Template, err)
	}
	return buf.String(), nil
}

// OTPData содержит данные письма с кодом подтверждения.
type OTPData struct {
	Name         string
	Code         string
	ValidMinutes int
}

// Customer содержит контактные данные покупателя в письмах о заказе.
type Customer struct {
	Name  string
	Email string
	Phone string
}

// OrderData содержит данные писем о заказе.
type OrderData struct {
	OrderNumber  string
	CreatedAt    time.Time
	Status       string
	Customer     Customer
	Address      model.ShippingAddress
	Items        []model.OrderItem
	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	FreeShipping bool
	Total        decimal.Decimal
	Notes        string
}

// VerificationMessage собирает письмо с кодом подтверждения email.
func VerificationMessage(acc *model.Account, code string, ttl time.Duration) Message {
	return Message{
		To:       acc.Email,
		Subject:  "Rythu Dipo - Email Verification OTP",
		Template: TemplateOTP,
		Data: OTPData{
			Name:         acc.Name,
			Code:         code,
			ValidMinutes: int(ttl / time.Minute),
		},
	}
}

// OrderConfirmationMessage собирает письмо покупателю о принятом заказе.
func OrderConfirmationMessage(acc *model.Account, order *model.Order) Message {
	return Message{
		To:       acc.Email,
		Subject:  "Order Confirmation - " + order.OrderNumber,
		Template: TemplateOrderConfirmation,
		Data:     orderData(acc, order),
	}
}

// OrderAlertMessage собирает письмо оператору о новом заказе.
func OrderAlertMessage(operatorEmail string, acc *model.Account, order *model.Order) Message {
	return Message{
		To:       operatorEmail,
		Subject:  "New Order Received - " + order.OrderNumber,
		Template: TemplateOrderAlert,
		Data:     orderData(acc, order),
	}
}

func orderData(acc *model.Account, order *model.Order) OrderData {
	return OrderData{
		OrderNumber: order.OrderNumber,
		CreatedAt:   order.CreatedAt,
		Status:      string(order.Status),
		Customer: Customer{
			Name:  acc.Name,
			Email: acc.Email,
			Phone: acc.Phone,
		},
		Address:      order.ShippingAddress,
		Items:        order.Items,
		Subtotal:     order.Subtotal,
		ShippingCost: order.ShippingCost,
		FreeShipping: order.ShippingCost.IsZero(),
		Total:        order.Total,
		Notes:        order.Notes,
	}
}
