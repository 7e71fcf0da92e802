// Package ordernum генерирует человекочитаемые номера заказов.
//
// Основная схема: префикс + ГГММДД + четыре случайные цифры, например RD2610180427.
// При коллизиях перегенерируется только случайная часть. Если все попытки заняты,
// используется резервная схема: префикс + Unix-время в миллисекундах + три
// случайные цифры; резервный номер на уникальность не проверяется.
package ordernum

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"time"
)

const (
	// DefaultPrefix задаёт префикс номеров заказов.
	DefaultPrefix = "RD"
	// MaxAttempts ограничивает число проверяемых кандидатов основной схемы.
	MaxAttempts = 5
)

// TakenFunc сообщает, занят ли номер среди сохранённых заказов.
type TakenFunc func(ctx context.Context, number string) (bool, error)

// Generator выдаёт номера заказов.
type Generator struct {
	prefix   string
	random   io.Reader
	now      func() time.Time
	primary  *regexp.Regexp
	fallback *regexp.Regexp
}

// Option настраивает Generator.
type Option func(*Generator)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithRandom подменяет источник случайности.
func WithRandom(r io.Reader) Option {
	return func(g *Generator) {
		g.random = r
	}
}

// NewGenerator создаёт генератор с указанным префиксом. Пустой префикс заменяется на DefaultPrefix.
func NewGenerator(prefix string, opts ...Option) *Generator {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	g := &Generator{
		prefix:   prefix,
		random:   rand.Reader,
		now:      time.Now,
		primary:  regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `\d{10}$`),
		fallback: regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `\d{13,}$`),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate возвращает кандидата основной схемы для указанной даты.
func (g *Generator) Generate(date time.Time) (string, error) {
	suffix, err := g.digits(10000)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s%04d", g.prefix, date.Format("060102"), suffix), nil
}

// Assign подбирает свободный номер. taken вызывается для каждого кандидата
// основной схемы; ошибки taken пробрасываются вызывающему.
func (g *Generator) Assign(ctx context.Context, taken TakenFunc) (string, error) {
	now := g.now()

	for attempt := 0; attempt < MaxAttempts; attempt++ {
		candidate, err := g.Generate(now)
		if err != nil {
			return "", err
		}

		busy, err := taken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check order number %s: %w", candidate, err)
		}
		if !busy {
			return candidate, nil
		}
	}

	return g.Fallback(now)
}

// Fallback возвращает номер резервной схемы.
func (g *Generator) Fallback(now time.Time) (string, error) {
	suffix, err := g.digits(1000)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d%03d", g.prefix, now.UnixMilli(), suffix), nil
}

// Valid проверяет, что номер соответствует одной из схем генератора.
func (g *Generator) Valid(number string) bool {
	return g.IsPrimary(number) || g.fallback.MatchString(number)
}

// IsPrimary сообщает, что номер выдан по основной схеме.
func (g *Generator) IsPrimary(number string) bool {
	return g.primary.MatchString(number)
}

func (g *Generator) digits(limit int64) (int64, error) {
	n, err := rand.Int(g.random, big.NewInt(limit))
	if err != nil {
		return 0, fmt.Errorf("generate order number: %w", err)
	}
	return n.Int64(), nil
}
