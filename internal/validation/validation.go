// Package validation содержит проверку входных данных API на основе тегов validator.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/agromart/internal/apperr"
)

var (
	phonePattern   = regexp.MustCompile(`^\d{10}$`)
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
)

// Validator проверяет структуры и собирает все нарушения в одно сообщение.
type Validator struct {
	validate *validator.Validate
}

// New создаёт валидатор с зарегистрированными правилами сервиса.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return IsValidPincode(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Struct проверяет структуру. Возвращает *apperr.Error категории Validation,
// если найдено хотя бы одно нарушение.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Wrap(apperr.KindInternal, "validation failed", err)
	}

	seen := make(map[string]struct{}, len(fieldErrs))
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := message(fe)
		if _, dup := seen[msg]; dup {
			continue
		}
		seen[msg] = struct{}{}
		messages = append(messages, msg)
	}

	return apperr.New(apperr.KindValidation, strings.Join(messages, ", "))
}

var overrides = map[string]string{
	"items.required":           "Order items are required",
	"items.min":                "Order items are required",
	"shippingAddress.required": "Shipping address is required",
	"name.required":            "Name is required",
	"email.required":           "Email is required",
	"password.required":        "Password is required",
	"phone.required":           "Phone number is required",
	"email.email":              "Please enter a valid email",
	"name.min":                 "Name must be at least 2 characters long",
	"password.min":             "Password must be at least 6 characters long",
}

func message(fe validator.FieldError) string {
	if msg, ok := overrides[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}

	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "phone":
		return "Please enter a valid 10-digit phone number"
	case "pincode":
		return "Please enter a valid 6-digit pincode"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must not be negative", label)
	case "email":
		return "Please enter a valid email"
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

// IsValidPhone проверяет номер телефона: ровно 10 цифр.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// IsValidPincode проверяет почтовый индекс: ровно 6 цифр.
func IsValidPincode(pincode string) bool {
	return pincodePattern.MatchString(pincode)
}
