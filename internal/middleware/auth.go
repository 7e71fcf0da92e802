// Package middleware содержит HTTP middleware сервиса agromart.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mmeshcher/agromart/internal/apperr"
	"github.com/mmeshcher/agromart/internal/model"
)

type contextKey string

const accountKey contextKey = "account"

// Authenticator проверяет токен сессии и возвращает аккаунт.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Account, error)
}

// AuthMiddleware выполняет проверку bearer-токена из заголовка Authorization.
type AuthMiddleware struct {
	auth Authenticator
}

// NewAuthMiddleware создаёт middleware поверх сервиса аутентификации.
func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Middleware проверяет токен и добавляет аккаунт в контекст запроса.
// Любая ошибка даёт 401 с одним и тем же сообщением.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acc, err := a.auth.Authenticate(r.Context(), bearerToken(r))
		if err != nil {
			status := http.StatusUnauthorized
			message := apperr.MsgInvalidToken
			if apperr.KindOf(err) == apperr.KindInternal {
				status = http.StatusInternalServerError
				message = apperr.MsgInternal
			}
			writeError(w, status, errorBody{Message: message})
			return
		}

		ctx := context.WithValue(r.Context(), accountKey, acc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AccountFromContext извлекает аутентифицированный аккаунт из контекста запроса.
func AccountFromContext(ctx context.Context) (*model.Account, bool) {
	acc, ok := ctx.Value(accountKey).(*model.Account)
	return acc, ok && acc != nil
}
