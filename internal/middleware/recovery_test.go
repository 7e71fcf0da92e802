package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mmeshcher/agromart/internal/apperr"
)

func panicking(w http.ResponseWriter, r *http.Request) {
	panic("boom")
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		name        string
		exposeStack bool
	}{
		{"development exposes stack", true},
		{"production hides stack", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.ErrorLevel)
			h := Recovery(zap.New(core), tt.exposeStack)(http.HandlerFunc(panicking))

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

			res := w.Result()
			defer res.Body.Close()

			assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
			body := decodeError(t, res)
			assert.False(t, body.Success)
			assert.Equal(t, apperr.MsgInternal, body.Message)
			assert.Equal(t, tt.exposeStack, body.Stack != "")
			assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
		})
	}
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/orders", nil))

	entries := logs.FilterMessage("request").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "POST", fields["method"])
		assert.Equal(t, "/api/orders", fields["path"])
		assert.EqualValues(t, http.StatusCreated, fields["status"])
		assert.EqualValues(t, 7, fields["size"])
	}
}
