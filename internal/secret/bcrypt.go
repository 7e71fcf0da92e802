// Package secret содержит одностороннее хеширование паролей и одноразовых кодов.
package secret

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost задаёт сложность bcrypt для паролей и кодов.
const DefaultCost = 12

// Hasher хеширует секреты и сравнивает их с сохранённым хешем.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// BcryptHasher реализует Hasher на bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher создаёт хешер с указанной сложностью. Значения вне допустимого
// диапазона bcrypt заменяются на DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash возвращает bcrypt-хеш секрета.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hashed), nil
}

// Verify сравнивает секрет с хешем за постоянное время.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
