package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/agromart/internal/apperr"
)

type contact struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,phone"`
	Pincode string `json:"pincode" validate:"required,pincode"`
}

type line struct {
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
	Quantity int             `json:"quantity" validate:"min=1"`
}

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"9876543210", true},
		{"0000000000", true},
		{"987654321", false},
		{"98765432101", false},
		{"98765-4321", false},
		{"+919876543", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidPhone(tt.phone), tt.phone)
	}
}

func TestIsValidPincode(t *testing.T) {
	assert.True(t, IsValidPincode("522001"))
	assert.False(t, IsValidPincode("52200"))
	assert.False(t, IsValidPincode("5220011"))
	assert.False(t, IsValidPincode("52200a"))
}

func TestStruct_Valid(t *testing.T) {
	v := New()

	err := v.Struct(contact{Name: "Ravi", Email: "ravi@x.in", Phone: "9876543210", Pincode: "522001"})
	assert.NoError(t, err)
}

func TestStruct_MessagesInFieldOrder(t *testing.T) {
	v := New()

	err := v.Struct(contact{Name: "R", Email: "bad", Phone: "1", Pincode: "2"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t,
		"Name must be at least 2 characters long, Please enter a valid email, "+
			"Please enter a valid 10-digit phone number, Please enter a valid 6-digit pincode",
		err.Error())
}

func TestStruct_RequiredMessages(t *testing.T) {
	err := New().Struct(contact{})
	require.Error(t, err)
	assert.Equal(t, "Name is required, Email is required, Phone number is required, pincode is required", err.Error())
}

func TestStruct_DecimalAndNumbers(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(line{Price: decimal.Zero, Quantity: 1}))

	err := v.Struct(line{Price: decimal.NewFromInt(-5), Quantity: 0})
	require.Error(t, err)
	assert.Equal(t, "price must not be negative, quantity must be at least 1", err.Error())
}
