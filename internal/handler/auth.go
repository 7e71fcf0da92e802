package handler

import (
	"net/http"

	"github.com/mmeshcher/agromart/internal/apperr"
	"github.com/mmeshcher/agromart/internal/middleware"
	"github.com/mmeshcher/agromart/internal/service"
)

const msgInvalidBody = "Invalid request body"

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type resendOTPRequest struct {
	Email string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup обрабатывает регистрацию покупателя.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupInput
	if err := decodeBody(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	acc, err := h.accounts.Signup(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err, apperr.MsgInternal)
		return
	}

	writeOK(w, http.StatusCreated,
		"User registered successfully. Please verify your email with the OTP sent.",
		map[string]string{
			"userId": acc.ID.String(),
			"email":  acc.Email,
			"name":   acc.Name,
		})
}

// VerifyOTP подтверждает email кодом и возвращает токен.
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeBody(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	tok, acc, err := h.accounts.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		h.writeError(w, r, err, apperr.MsgInternal)
		return
	}

	writeOK(w, http.StatusOK, "Email verified successfully", map[string]interface{}{
		"token": tok,
		"user":  toUser(acc),
	})
}

// ResendOTP повторно отправляет код подтверждения.
func (h *Handler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req resendOTPRequest
	if err := decodeBody(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	count, err := h.accounts.ResendOTP(r.Context(), req.Email)
	if err != nil {
		h.writeError(w, r, err, apperr.MsgInternal)
		return
	}

	writeOK(w, http.StatusOK, "OTP sent successfully", map[string]int{
		"resendCount": count,
		"maxResends":  h.accounts.MaxResends(),
	})
}

// Login обрабатывает вход подтверждённого покупателя.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	tok, acc, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err, apperr.MsgInternal)
		return
	}

	writeOK(w, http.StatusOK, "Login successful", map[string]interface{}{
		"token": tok,
		"user":  toUser(acc),
	})
}

// Profile возвращает профиль аутентифицированного покупателя.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	acc, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, apperr.MsgInvalidToken)
		return
	}

	writeOK(w, http.StatusOK, "", map[string]interface{}{"user": toUser(acc)})
}
