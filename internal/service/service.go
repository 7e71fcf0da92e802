// Package service реализует бизнес-логику сервиса agromart: аккаунты и заказы.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/mmeshcher/agromart/internal/model"
	"github.com/mmeshcher/agromart/internal/notify"
	"github.com/mmeshcher/agromart/internal/repository"
)

// AccountRepository описывает хранилище аккаунтов.
type AccountRepository interface {
	CreateAccount(ctx context.Context, a *model.Account) error
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	GetAccountByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	UpdateAccount(ctx context.Context, a *model.Account) error
}

// OrderRepository описывает хранилище заказов.
type OrderRepository interface {
	CreateOrder(ctx context.Context, o *model.Order, assign repository.NumberAssigner) error
	ListOrdersByAccount(ctx context.Context, accountID uuid.UUID) ([]model.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, next model.OrderStatus) (*model.Order, error)
}

// Repository описывает контракт доступа к данным, используемый сервисами.
type Repository interface {
	AccountRepository
	OrderRepository
	Close() error
}

// Notifier ставит письмо в очередь фоновой отправки. Ошибки отправки не возвращаются.
type Notifier interface {
	Go(msg notify.Message)
}

// TokenIssuer выпускает и проверяет токены сессии.
type TokenIssuer interface {
	Issue(accountID uuid.UUID) (string, error)
	Parse(token string) (uuid.UUID, error)
}
