package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/agromart/internal/model"
	"github.com/mmeshcher/agromart/internal/ordernum"
)

func newAccount(email string) *model.Account {
	return &model.Account{
		Name:         "Ravi",
		Email:        email,
		Phone:        "9876543210",
		PasswordHash: "hash",
	}
}

func newOrder(accountID uuid.UUID) *model.Order {
	return &model.Order{
		AccountID: accountID,
		Items: []model.OrderItem{
			{ProductID: "p1", Name: "Seeds", UnitPrice: decimal.NewFromInt(100), Quantity: 2, ImageRef: "/p1.jpg"},
		},
		PaymentMethod: model.PaymentMethodCOD,
		Subtotal:      decimal.NewFromInt(200),
		ShippingCost:  decimal.Zero,
		Total:         decimal.NewFromInt(200),
		Status:        model.OrderStatusPending,
	}
}

func fixedAssign(numbers ...string) NumberAssigner {
	i := 0
	return func(ctx context.Context, taken ordernum.TakenFunc) (string, error) {
		n := numbers[i%len(numbers)]
		i++
		return n, nil
	}
}

func TestMemory_CreateAccountDuplicateEmail(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	a := newAccount("ravi@x.in")
	require.NoError(t, r.CreateAccount(ctx, a))
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.False(t, a.CreatedAt.IsZero())

	err := r.CreateAccount(ctx, newAccount("ravi@x.in"))
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestMemory_GetAndUpdateAccount(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	a := newAccount("ravi@x.in")
	require.NoError(t, r.CreateAccount(ctx, a))

	got, err := r.GetAccountByEmail(ctx, "ravi@x.in")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	hash := "otp-hash"
	expiry := time.Now().Add(10 * time.Minute)
	got.OTPHash, got.OTPExpiry = &hash, &expiry
	got.IsVerified = true
	require.NoError(t, r.UpdateAccount(ctx, got))

	// Изменение возвращённой копии не влияет на хранилище.
	hash = "mutated"

	byID, err := r.GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, byID.IsVerified)
	require.NotNil(t, byID.OTPHash)
	assert.Equal(t, "otp-hash", *byID.OTPHash)

	byID.IsVerified = false
	require.NoError(t, r.UpdateAccount(ctx, byID))
	again, err := r.GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, again.IsVerified, "verification must never revert")

	_, err = r.GetAccountByEmail(ctx, "nobody@x.in")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = r.GetAccountByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrAccountNotFound)

	assert.ErrorIs(t, r.UpdateAccount(ctx, &model.Account{ID: uuid.New()}), ErrAccountNotFound)
}

func TestMemory_CreateOrderUsesTakenCheck(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	accountID := uuid.New()

	first := newOrder(accountID)
	require.NoError(t, r.CreateOrder(ctx, first, fixedAssign("RD2610180001")))
	assert.Equal(t, "RD2610180001", first.OrderNumber)

	var checked []string
	second := newOrder(accountID)
	err := r.CreateOrder(ctx, second, func(ctx context.Context, taken ordernum.TakenFunc) (string, error) {
		for _, candidate := range []string{"RD2610180001", "RD2610180002"} {
			checked = append(checked, candidate)
			busy, err := taken(ctx, candidate)
			if err != nil {
				return "", err
			}
			if !busy {
				return candidate, nil
			}
		}
		return "", errors.New("exhausted")
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"RD2610180001", "RD2610180002"}, checked)
	assert.Equal(t, "RD2610180002", second.OrderNumber)
}

func TestMemory_CreateOrderRejectsDuplicateNumber(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	accountID := uuid.New()

	require.NoError(t, r.CreateOrder(ctx, newOrder(accountID), fixedAssign("RD2610180001")))

	err := r.CreateOrder(ctx, newOrder(accountID), fixedAssign("RD2610180001"))
	assert.ErrorIs(t, err, ErrOrderNumberTaken)

	orders, err := r.ListOrdersByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestMemory_CreateOrderAssignError(t *testing.T) {
	r := NewMemoryRepository()
	boom := errors.New("rng failure")

	err := r.CreateOrder(context.Background(), newOrder(uuid.New()), func(ctx context.Context, taken ordernum.TakenFunc) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestMemory_ListOrdersNewestFirst(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	step := 0
	r.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	for i := 1; i <= 3; i++ {
		require.NoError(t, r.CreateOrder(ctx, newOrder(owner), fixedAssign(fmt.Sprintf("RD261018000%d", i))))
	}
	require.NoError(t, r.CreateOrder(ctx, newOrder(other), fixedAssign("RD2610189999")))

	orders, err := r.ListOrdersByAccount(ctx, owner)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "RD2610180003", orders[0].OrderNumber)
	assert.Equal(t, "RD2610180001", orders[2].OrderNumber)

	empty, err := r.ListOrdersByAccount(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMemory_UpdateOrderStatus(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	o := newOrder(uuid.New())
	require.NoError(t, r.CreateOrder(ctx, o, fixedAssign("RD2610180001")))

	updated, err := r.UpdateOrderStatus(ctx, o.ID, model.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, updated.Status)

	_, err = r.UpdateOrderStatus(ctx, o.ID, model.OrderStatusDelivered)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = r.UpdateOrderStatus(ctx, o.ID, model.OrderStatusCancelled)
	require.NoError(t, err)

	_, err = r.UpdateOrderStatus(ctx, o.ID, model.OrderStatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = r.UpdateOrderStatus(ctx, uuid.New(), model.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	stored, err := r.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, stored.Status)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization", &pgconn.PgError{Code: pgerrcode.SerializationFailure}, true},
		{"deadlock wrapped", fmt.Errorf("tx: %w", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}), true},
		{"unique violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"context canceled", fmt.Errorf("query: %w", context.Canceled), false},
		{"sentinel", ErrAccountExists, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryable(tt.err))
		})
	}
}

func TestWithRetry(t *testing.T) {
	r := &PostgresRepository{delays: []time.Duration{0, 0}}

	calls := 0
	err := r.withRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &pgconn.PgError{Code: pgerrcode.SerializationFailure}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = r.withRetry(context.Background(), func() error {
		calls++
		return ErrOrderNotFound
	})
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Equal(t, 1, calls)
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "orders_order_number_key"})

	assert.True(t, isUniqueViolation(err, "orders_order_number_key"))
	assert.True(t, isUniqueViolation(err, ""))
	assert.False(t, isUniqueViolation(err, "accounts_email_key"))
	assert.False(t, isUniqueViolation(errors.New("other"), ""))
}
