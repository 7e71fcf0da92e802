// Package handler содержит HTTP-обработчики API сервиса agromart.
package handler

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/agromart/internal/catalog"
	"github.com/mmeshcher/agromart/internal/middleware"
	"github.com/mmeshcher/agromart/internal/model"
	"github.com/mmeshcher/agromart/internal/service"
)

// AccountService определяет операции с аккаунтами, используемые обработчиками.
type AccountService interface {
	Signup(ctx context.Context, in service.SignupInput) (*model.Account, error)
	VerifyOTP(ctx context.Context, email, code string) (string, *model.Account, error)
	ResendOTP(ctx context.Context, email string) (int, error)
	Login(ctx context.Context, email, password string) (string, *model.Account, error)
	Authenticate(ctx context.Context, token string) (*model.Account, error)
	MaxResends() int
}

// OrderService определяет операции с заказами, используемые обработчиками.
type OrderService interface {
	CreateOrder(ctx context.Context, accountID uuid.UUID, in service.CreateOrderInput) (*model.Order, error)
	ListMyOrders(ctx context.Context, accountID uuid.UUID) ([]model.Order, error)
	GetOrder(ctx context.Context, accountID uuid.UUID, orderID string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status string) (*model.Order, error)
}

// Options задаёт параметры HTTP-слоя.
type Options struct {
	Environment    string
	OperatorAPIKey string
	CORSOrigins    []string
}

// Production сообщает, что сервис запущен в боевом окружении.
func (o Options) Production() bool {
	return o.Environment == "production"
}

// Handler реализует HTTP-обработчики API сервиса agromart.
type Handler struct {
	accounts       AccountService
	orders         OrderService
	catalog        catalog.Reader
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	opts           Options
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(accounts AccountService, orders OrderService, products catalog.Reader, logger *zap.Logger, opts Options) *Handler {
	return &Handler{
		accounts:       accounts,
		orders:         orders,
		catalog:        products,
		logger:         logger,
		authMiddleware: middleware.NewAuthMiddleware(accounts),
		opts:           opts,
	}
}
