// Package repository содержит хранилища аккаунтов и заказов: PostgreSQL и in-memory.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mmeshcher/agromart/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// createOrderAttempts ограничивает число вставок заказа при конфликте номера.
const createOrderAttempts = 3

// PostgresRepository предоставляет доступ к хранилищу данных в PostgreSQL.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	now    func() time.Time
	delays []time.Duration
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{
		pool:   pool,
		now:    time.Now,
		delays: []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second},
	}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func (r *PostgresRepository) withRetry(ctx context.Context, fn func() error) error {
	var err error

	for i := 0; i <= len(r.delays); i++ {
		err = fn()
		if err == nil || !isRetryable(err) || i == len(r.delays) {
			return err
		}

		select {
		case <-ctx.Done():
			return err
		case <-time.After(r.delays[i]):
		}
	}
	return err
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}

	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	// Упрощенная проверка на ошибки соединения
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

const accountColumns = `id, name, email, phone, password_hash, is_verified,
	otp_hash, otp_expiry, otp_resend_count, last_otp_resend_at, created_at, updated_at`

func scanAccount(row pgx.Row) (*model.Account, error) {
	var a model.Account
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.Phone, &a.PasswordHash, &a.IsVerified,
		&a.OTPHash, &a.OTPExpiry, &a.OTPResendCount, &a.LastOTPResendAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAccount сохраняет новый аккаунт. Идентификатор и время создания заполняются, если пусты.
func (r *PostgresRepository) CreateAccount(ctx context.Context, a *model.Account) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := r.now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now

	return r.withRetry(ctx, func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO accounts (`+accountColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			a.ID, a.Name, a.Email, a.Phone, a.PasswordHash, a.IsVerified,
			a.OTPHash, a.OTPExpiry, a.OTPResendCount, a.LastOTPResendAt,
			a.CreatedAt, a.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err, "accounts_email_key") {
				return fmt.Errorf("%w: %s", ErrAccountExists, a.Email)
			}
			return fmt.Errorf("create account: %w", err)
		}
		return nil
	})
}

// GetAccountByEmail возвращает аккаунт по нормализованному email.
func (r *PostgresRepository) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`,
		email,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	return a, nil
}

// GetAccountByID возвращает аккаунт по идентификатору.
func (r *PostgresRepository) GetAccountByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account by id: %w", err)
	}
	return a, nil
}

// UpdateAccount сохраняет состояние верификации и OTP аккаунта.
func (r *PostgresRepository) UpdateAccount(ctx context.Context, a *model.Account) error {
	a.UpdatedAt = r.now().UTC()

	return r.withRetry(ctx, func() error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE accounts
			 SET name = $2, phone = $3, password_hash = $4, is_verified = is_verified OR $5,
			     otp_hash = $6, otp_expiry = $7, otp_resend_count = $8, last_otp_resend_at = $9,
			     updated_at = $10
			 WHERE id = $1`,
			a.ID, a.Name, a.Phone, a.PasswordHash, a.IsVerified,
			a.OTPHash, a.OTPExpiry, a.OTPResendCount, a.LastOTPResendAt,
			a.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update account: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrAccountNotFound
		}
		return nil
	})
}

const orderColumns = `id, account_id, order_number, items, shipping_address, payment_method,
	subtotal, shipping_cost, total, status, notes, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o      model.Order
		status string
	)
	err := row.Scan(
		&o.ID, &o.AccountID, &o.OrderNumber, &o.Items, &o.ShippingAddress, &o.PaymentMethod,
		&o.Subtotal, &o.ShippingCost, &o.Total, &status, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)
	return &o, nil
}

// CreateOrder сохраняет заказ, назначая ему номер внутри той же транзакции.
// При конфликте уникального номера вставка повторяется со свежим номером.
func (r *PostgresRepository) CreateOrder(ctx context.Context, o *model.Order, assign NumberAssigner) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	now := r.now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now

	var err error
	for attempt := 0; attempt < createOrderAttempts; attempt++ {
		err = r.withRetry(ctx, func() error {
			return r.insertOrder(ctx, o, assign)
		})
		if !errors.Is(err, ErrOrderNumberTaken) {
			return err
		}
	}
	return err
}

func (r *PostgresRepository) insertOrder(ctx context.Context, o *model.Order, assign NumberAssigner) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	number, err := assign(ctx, func(ctx context.Context, candidate string) (bool, error) {
		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM orders WHERE order_number = $1)`,
			candidate,
		).Scan(&exists)
		return exists, err
	})
	if err != nil {
		return fmt.Errorf("assign order number: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO orders (`+orderColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		o.ID, o.AccountID, number, o.Items, o.ShippingAddress, o.PaymentMethod,
		o.Subtotal, o.ShippingCost, o.Total, string(o.Status), o.Notes, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "orders_order_number_key") {
			return fmt.Errorf("%w: %s", ErrOrderNumberTaken, number)
		}
		return fmt.Errorf("insert order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	o.OrderNumber = number
	return nil
}

// ListOrdersByAccount возвращает заказы аккаунта, новые первыми.
func (r *PostgresRepository) ListOrdersByAccount(ctx context.Context, accountID uuid.UUID) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+`
		 FROM orders
		 WHERE account_id = $1
		 ORDER BY created_at DESC`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return orders, nil
}

// GetOrder возвращает заказ по идентификатору.
func (r *PostgresRepository) GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// UpdateOrderStatus переводит заказ в новый статус под блокировкой строки.
// Недопустимый переход возвращает ErrInvalidTransition.
func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, next model.OrderStatus) (*model.Order, error) {
	var updated *model.Order

	err := r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		o, err := scanOrder(tx.QueryRow(ctx,
			`SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`,
			id,
		))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("lock order: %w", err)
		}

		if !o.Status.CanTransition(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
		}

		o.Status = next
		o.UpdatedAt = r.now().UTC()

		_, err = tx.Exec(ctx,
			`UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`,
			o.ID, string(o.Status), o.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}

		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
