package handler

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
}

// Health сообщает, что сервис запущен.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	env := h.opts.Environment
	if env == "" {
		env = "development"
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Success:     true,
		Message:     "Rythu Dipo Backend is running!",
		Timestamp:   time.Now().UTC().Format(time.RFC3339Nano),
		Environment: env,
	})
}
