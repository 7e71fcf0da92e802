package middleware

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyHeader задаёт заголовок с ключом оператора.
const APIKeyHeader = "X-API-Key"

// RequireAPIKey пропускает только запросы с ключом оператора.
// Пустой ключ в конфигурации закрывает доступ полностью.
func RequireAPIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(APIKeyHeader)
			if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				writeError(w, http.StatusUnauthorized, errorBody{Message: "Invalid or missing API key"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
