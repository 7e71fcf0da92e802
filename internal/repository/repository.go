package repository

import (
	"context"
	"errors"

	"github.com/mmeshcher/agromart/internal/ordernum"
)

var (
	// ErrAccountExists возвращается при попытке создать аккаунт с уже занятым email.
	ErrAccountExists = errors.New("account already exists")
	// ErrAccountNotFound возвращается, если аккаунт не найден.
	ErrAccountNotFound = errors.New("account not found")
	// ErrOrderNotFound возвращается, если заказ не найден.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderNumberTaken возвращается, если номер заказа уже занят.
	ErrOrderNumberTaken = errors.New("order number already taken")
	// ErrInvalidTransition возвращается при недопустимой смене статуса заказа.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// NumberAssigner подбирает номер заказа, проверяя занятость через taken.
// Сигнатура совпадает с ordernum.Generator.Assign.
type NumberAssigner func(ctx context.Context, taken ordernum.TakenFunc) (string, error)
