package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/agromart/internal/apperr"
	"github.com/mmeshcher/agromart/internal/model"
	"github.com/mmeshcher/agromart/internal/notify"
	"github.com/mmeshcher/agromart/internal/ordernum"
	"github.com/mmeshcher/agromart/internal/repository"
	"github.com/mmeshcher/agromart/internal/validation"
)

// OrderItemInput описывает позицию корзины в запросе на оформление заказа.
type OrderItemInput struct {
	ProductID string          `json:"productId" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	Price     decimal.Decimal `json:"price" validate:"gte=0"`
	Quantity  int             `json:"quantity" validate:"min=1"`
	Image     string          `json:"image" validate:"required"`
}

// AddressInput описывает адрес доставки в запросе на оформление заказа.
type AddressInput struct {
	FullName string `json:"fullName" validate:"required"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	Pincode  string `json:"pincode" validate:"required,pincode"`
	Phone    string `json:"phone" validate:"required,phone"`
}

// CreateOrderInput описывает тело запроса на оформление заказа.
type CreateOrderInput struct {
	Items           []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	ShippingAddress *AddressInput    `json:"shippingAddress" validate:"required"`
	Notes           string           `json:"notes"`
}

// ShippingPolicy рассчитывает стоимость доставки по сумме товаров.
type ShippingPolicy func(subtotal decimal.Decimal) decimal.Decimal

// FreeShipping делает доставку бесплатной.
func FreeShipping(decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

// OrderService оформляет заказы и отдаёт их владельцу.
type OrderService struct {
	repo          OrderRepository
	accounts      AccountRepository
	numbers       *ordernum.Generator
	shipping      ShippingPolicy
	notifier      Notifier
	operatorEmail string
	validate      *validation.Validator
	logger        *zap.Logger
}

// NewOrderService создаёт сервис заказов. operatorEmail получает уведомления
// о новых заказах; пустой адрес отключает эти уведомления.
func NewOrderService(
	repo OrderRepository,
	accounts AccountRepository,
	numbers *ordernum.Generator,
	shipping ShippingPolicy,
	notifier Notifier,
	operatorEmail string,
	logger *zap.Logger,
) *OrderService {
	if shipping == nil {
		shipping = FreeShipping
	}
	return &OrderService{
		repo:          repo,
		accounts:      accounts,
		numbers:       numbers,
		shipping:      shipping,
		notifier:      notifier,
		operatorEmail: operatorEmail,
		validate:      validation.New(),
		logger:        logger,
	}
}

// CreateOrder проверяет корзину, рассчитывает суммы, сохраняет заказ с новым
// номером и ставит в очередь письма покупателю и оператору.
func (s *OrderService) CreateOrder(ctx context.Context, accountID uuid.UUID, in CreateOrderInput) (*model.Order, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	acc, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, apperr.Wrap(apperr.KindInvalidToken, apperr.MsgInvalidToken, err)
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	items := make([]model.OrderItem, 0, len(in.Items))
	subtotal := decimal.Zero
	for _, it := range in.Items {
		item := model.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.Price,
			Quantity:  it.Quantity,
			ImageRef:  it.Image,
		}
		subtotal = subtotal.Add(item.LineTotal())
		items = append(items, item)
	}

	shippingCost := s.shipping(subtotal)

	order := &model.Order{
		AccountID: acc.ID,
		Items:     items,
		ShippingAddress: model.ShippingAddress{
			FullName: strings.TrimSpace(in.ShippingAddress.FullName),
			Address:  strings.TrimSpace(in.ShippingAddress.Address),
			City:     strings.TrimSpace(in.ShippingAddress.City),
			State:    strings.TrimSpace(in.ShippingAddress.State),
			Pincode:  in.ShippingAddress.Pincode,
			Phone:    in.ShippingAddress.Phone,
		},
		PaymentMethod: model.PaymentMethodCOD,
		Subtotal:      subtotal,
		ShippingCost:  shippingCost,
		Total:         subtotal.Add(shippingCost),
		Status:        model.OrderStatusPending,
		Notes:         strings.TrimSpace(in.Notes),
	}

	if err := s.repo.CreateOrder(ctx, order, s.numbers.Assign); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.logger.Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("account_id", acc.ID.String()),
		zap.String("total", order.Total.String()),
		zap.Bool("fallback_number", !s.numbers.IsPrimary(order.OrderNumber)),
	)

	if s.operatorEmail != "" {
		s.notifier.Go(notify.OrderAlertMessage(s.operatorEmail, acc, order))
	}
	s.notifier.Go(notify.OrderConfirmationMessage(acc, order))

	return order, nil
}

// ListMyOrders возвращает заказы аккаунта, новые первыми.
func (s *OrderService) ListMyOrders(ctx context.Context, accountID uuid.UUID) ([]model.Order, error) {
	orders, err := s.repo.ListOrdersByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetOrder возвращает заказ владельца. Чужой, отсутствующий и некорректный
// идентификатор неотличимы: все дают NotFound.
func (s *OrderService) GetOrder(ctx context.Context, accountID uuid.UUID, orderID string) (*model.Order, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, apperr.MsgOrderNotFound, err)
	}

	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperr.Wrap(apperr.KindNotFound, apperr.MsgOrderNotFound, err)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if order.AccountID != accountID {
		return nil, apperr.New(apperr.KindNotFound, apperr.MsgOrderNotFound)
	}
	return order, nil
}

// UpdateOrderStatus переводит заказ в новый статус по запросу оператора.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, status string) (*model.Order, error) {
	next := model.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if !next.Valid() {
		return nil, apperr.New(apperr.KindValidation, "Invalid order status")
	}

	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, apperr.MsgOrderNotFound, err)
	}

	order, err := s.repo.UpdateOrderStatus(ctx, id, next)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return nil, apperr.Wrap(apperr.KindNotFound, apperr.MsgOrderNotFound, err)
		case errors.Is(err, repository.ErrInvalidTransition):
			return nil, apperr.Wrap(apperr.KindConflict,
				fmt.Sprintf("Order status cannot change to %s", next), err)
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	s.logger.Info("order status updated",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", string(order.Status)),
	)
	return order, nil
}
