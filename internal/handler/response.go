package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/agromart/internal/apperr"
	"github.com/mmeshcher/agromart/internal/model"
)

type envelope struct {
	Success              bool        `json:"success"`
	Message              string      `json:"message,omitempty"`
	Data                 interface{} `json:"data,omitempty"`
	RequiresVerification bool        `json:"requiresVerification,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// writeError переводит ошибку сервиса в HTTP-ответ. Неклассифицированные
// ошибки логируются и отдаются клиенту как fallback.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal {
		writeJSON(w, appErr.Kind.HTTPStatus(), envelope{
			Success:              false,
			Message:              appErr.Message,
			RequiresVerification: apperr.Is(err, apperr.KindUnverifiedAccount),
		})
		return
	}

	h.logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeFail(w, http.StatusInternalServerError, fallback)
}

// decodeBody разбирает JSON-тело запроса. Пустое тело даёт нулевое значение.
func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()

	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

type userResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	IsVerified bool   `json:"isVerified"`
}

func toUser(a *model.Account) userResponse {
	return userResponse{
		ID:         a.ID.String(),
		Name:       a.Name,
		Email:      a.Email,
		Phone:      a.Phone,
		IsVerified: a.IsVerified,
	}
}

type orderItemResponse struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

type orderResponse struct {
	ID              string                `json:"id"`
	UserID          string                `json:"userId"`
	OrderNumber     string                `json:"orderNumber"`
	Items           []orderItemResponse   `json:"items"`
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                `json:"paymentMethod"`
	Subtotal        float64               `json:"subtotal"`
	ShippingCost    float64               `json:"shippingCost"`
	Total           float64               `json:"total"`
	Status          string                `json:"status"`
	Notes           string                `json:"notes"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

func toOrder(o *model.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.UnitPrice.InexactFloat64(),
			Quantity:  it.Quantity,
			Image:     it.ImageRef,
		})
	}

	return orderResponse{
		ID:              o.ID.String(),
		UserID:          o.AccountID.String(),
		OrderNumber:     o.OrderNumber,
		Items:           items,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		Subtotal:        o.Subtotal.InexactFloat64(),
		ShippingCost:    o.ShippingCost.InexactFloat64(),
		Total:           o.Total.InexactFloat64(),
		Status:          string(o.Status),
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

type orderSummaryResponse struct {
	ID          string    `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	Total       float64   `json:"total"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type productResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	Features    []string `json:"features"`
	InStock     bool     `json:"inStock"`
}

func toProducts(products []model.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for i := range products {
		out = append(out, toProduct(&products[i]))
	}
	return out
}

func toProduct(p *model.Product) productResponse {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Image:       p.Image,
		Features:    features,
		InStock:     p.InStock,
	}
}
