// Package otp управляет одноразовыми кодами подтверждения email для аккаунта.
package otp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/mmeshcher/agromart/internal/model"
	"github.com/mmeshcher/agromart/internal/secret"
)

const (
	// DefaultTTL задаёт срок действия выданного кода.
	DefaultTTL = 10 * time.Minute
	// DefaultCooldown задаёт минимальный интервал между повторными отправками.
	DefaultCooldown = time.Minute
	// DefaultMaxResends ограничивает число повторных отправок за всё время жизни аккаунта.
	DefaultMaxResends = 5

	codeMin   = 100000
	codeRange = 900000
)

// Manager выдаёт, проверяет и ограничивает одноразовые коды.
type Manager struct {
	hasher     secret.Hasher
	ttl        time.Duration
	cooldown   time.Duration
	maxResends int
	now        func() time.Time
	random     io.Reader
}

// Option настраивает Manager.
type Option func(*Manager)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithRandom подменяет источник случайности.
func WithRandom(r io.Reader) Option {
	return func(m *Manager) {
		m.random = r
	}
}

// WithLimits задаёт срок действия кода, интервал и лимит повторных отправок.
func WithLimits(ttl, cooldown time.Duration, maxResends int) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
		if cooldown >= 0 {
			m.cooldown = cooldown
		}
		if maxResends > 0 {
			m.maxResends = maxResends
		}
	}
}

// NewManager создаёт менеджер кодов поверх указанного хешера.
func NewManager(hasher secret.Hasher, opts ...Option) *Manager {
	m := &Manager{
		hasher:     hasher,
		ttl:        DefaultTTL,
		cooldown:   DefaultCooldown,
		maxResends: DefaultMaxResends,
		now:        time.Now,
		random:     rand.Reader,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Now возвращает текущее время по часам менеджера.
func (m *Manager) Now() time.Time {
	return m.now()
}

// TTL возвращает срок действия кода.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// MaxResends возвращает лимит повторных отправок.
func (m *Manager) MaxResends() int {
	return m.maxResends
}

// Issue генерирует новый шестизначный код, сохраняет в аккаунте только его хеш
// и срок действия и возвращает код в открытом виде для отправки.
// Ранее выданный код перестаёт действовать.
func (m *Manager) Issue(a *model.Account) (string, error) {
	n, err := rand.Int(m.random, big.NewInt(codeRange))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64()+codeMin)

	hash, err := m.hasher.Hash(code)
	if err != nil {
		return "", fmt.Errorf("hash otp: %w", err)
	}

	expiry := m.now().Add(m.ttl)
	a.OTPHash = &hash
	a.OTPExpiry = &expiry

	return code, nil
}

// Verify проверяет код. Возвращает false, если код не выдавался, истёк или не совпадает.
// Состояние после успешной проверки очищает вызывающий.
func (m *Manager) Verify(a *model.Account, candidate string) bool {
	if !a.HasPendingOTP() {
		return false
	}
	if m.now().After(*a.OTPExpiry) {
		return false
	}
	return m.hasher.Verify(candidate, *a.OTPHash)
}

// Clear сбрасывает выданный код.
func (m *Manager) Clear(a *model.Account) {
	a.OTPHash = nil
	a.OTPExpiry = nil
}

// CanResend сообщает, можно ли отправить код повторно в момент now.
func (m *Manager) CanResend(a *model.Account, now time.Time) bool {
	if a.OTPResendCount >= m.maxResends {
		return false
	}
	if a.LastOTPResendAt != nil && now.Sub(*a.LastOTPResendAt) < m.cooldown {
		return false
	}
	return true
}

// RecordResend фиксирует повторную отправку. Счётчик не сбрасывается.
func (m *Manager) RecordResend(a *model.Account, now time.Time) {
	a.OTPResendCount++
	a.LastOTPResendAt = &now
}
