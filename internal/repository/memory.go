package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmeshcher/agromart/internal/model"
)

// MemoryRepository хранит аккаунты и заказы в памяти процесса.
// Используется без DATABASE_URI и в тестах.
type MemoryRepository struct {
	mu       sync.Mutex
	now      func() time.Time
	accounts map[uuid.UUID]model.Account
	emails   map[string]uuid.UUID
	orders   map[uuid.UUID]model.Order
	numbers  map[string]uuid.UUID
}

// NewMemoryRepository создаёт пустое in-memory хранилище.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		now:      time.Now,
		accounts: make(map[uuid.UUID]model.Account),
		emails:   make(map[string]uuid.UUID),
		orders:   make(map[uuid.UUID]model.Order),
		numbers:  make(map[string]uuid.UUID),
	}
}

// Close ничего не делает.
func (r *MemoryRepository) Close() error {
	return nil
}

func (r *MemoryRepository) CreateAccount(ctx context.Context, a *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.emails[a.Email]; ok {
		return fmt.Errorf("%w: %s", ErrAccountExists, a.Email)
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := r.now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now

	r.accounts[a.ID] = cloneAccount(*a)
	r.emails[a.Email] = a.ID
	return nil
}

func (r *MemoryRepository) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.emails[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	a := cloneAccount(r.accounts[id])
	return &a, nil
}

func (r *MemoryRepository) GetAccountByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	a := cloneAccount(stored)
	return &a, nil
}

func (r *MemoryRepository) UpdateAccount(ctx context.Context, a *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.accounts[a.ID]
	if !ok {
		return ErrAccountNotFound
	}

	a.Email = stored.Email
	a.CreatedAt = stored.CreatedAt
	a.IsVerified = a.IsVerified || stored.IsVerified
	a.UpdatedAt = r.now().UTC()

	r.accounts[a.ID] = cloneAccount(*a)
	return nil
}

func (r *MemoryRepository) orderNumberTaken(ctx context.Context, number string) (bool, error) {
	_, ok := r.numbers[number]
	return ok, nil
}

func (r *MemoryRepository) CreateOrder(ctx context.Context, o *model.Order, assign NumberAssigner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	number, err := assign(ctx, r.orderNumberTaken)
	if err != nil {
		return fmt.Errorf("assign order number: %w", err)
	}
	if _, ok := r.numbers[number]; ok {
		return fmt.Errorf("%w: %s", ErrOrderNumberTaken, number)
	}

	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	now := r.now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now
	o.OrderNumber = number

	r.orders[o.ID] = cloneOrder(*o)
	r.numbers[number] = o.ID
	return nil
}

func (r *MemoryRepository) ListOrdersByAccount(ctx context.Context, accountID uuid.UUID) ([]model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders := make([]model.Order, 0)
	for _, o := range r.orders {
		if o.AccountID == accountID {
			orders = append(orders, cloneOrder(o))
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].OrderNumber > orders[j].OrderNumber
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (r *MemoryRepository) GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	o := cloneOrder(stored)
	return &o, nil
}

func (r *MemoryRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, next model.OrderStatus) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	if !stored.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, stored.Status, next)
	}

	stored.Status = next
	stored.UpdatedAt = r.now().UTC()
	r.orders[id] = stored

	o := cloneOrder(stored)
	return &o, nil
}

func cloneAccount(a model.Account) model.Account {
	if a.OTPHash != nil {
		v := *a.OTPHash
		a.OTPHash = &v
	}
	if a.OTPExpiry != nil {
		v := *a.OTPExpiry
		a.OTPExpiry = &v
	}
	if a.LastOTPResendAt != nil {
		v := *a.LastOTPResendAt
		a.LastOTPResendAt = &v
	}
	return a
}

func cloneOrder(o model.Order) model.Order {
	o.Items = append([]model.OrderItem(nil), o.Items...)
	return o
}
