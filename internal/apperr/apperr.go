// Package apperr описывает классификацию ошибок прикладного уровня и их отображение на HTTP-статусы.
package apperr

import (
	"errors"
	"net/http"
)

// Kind определяет категорию ошибки.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicateEmail
	KindNotFound
	KindAlreadyVerified
	KindInvalidOTP
	KindRateLimited
	KindInvalidCredentials
	KindUnverifiedAccount
	KindInvalidToken
	KindConflict
)

var kindStatus = map[Kind]int{
	KindInternal:           http.StatusInternalServerError,
	KindValidation:         http.StatusBadRequest,
	KindDuplicateEmail:     http.StatusBadRequest,
	KindNotFound:           http.StatusNotFound,
	KindAlreadyVerified:    http.StatusBadRequest,
	KindInvalidOTP:         http.StatusBadRequest,
	KindRateLimited:        http.StatusTooManyRequests,
	KindInvalidCredentials: http.StatusUnauthorized,
	KindUnverifiedAccount:  http.StatusUnauthorized,
	KindInvalidToken:       http.StatusUnauthorized,
	KindConflict:           http.StatusConflict,
}

// HTTPStatus возвращает HTTP-статус, соответствующий категории.
func (k Kind) HTTPStatus() int {
	if status, ok := kindStatus[k]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error описывает ошибку с категорией и сообщением, которое можно показать клиенту.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New создаёт ошибку указанной категории.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap создаёт ошибку указанной категории поверх исходной.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf извлекает категорию из цепочки ошибок. Неизвестные ошибки считаются внутренними.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is проверяет, относится ли ошибка к категории.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// Тексты сообщений, которые клиенты API видят без изменений.
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgInvalidToken       = "Invalid token"
	MsgUnverified         = "Please verify your email before logging in"
	MsgAlreadyVerified    = "Account is already verified"
	MsgInvalidOTP         = "Invalid or expired OTP"
	MsgRateLimited        = "Please wait before requesting another OTP or maximum resend limit reached"
	MsgUserNotFound       = "User not found"
	MsgOrderNotFound      = "Order not found"
	MsgDuplicateEmail     = "User already exists with this email"
	MsgInternal           = "Internal server error. Please try again later."
)
