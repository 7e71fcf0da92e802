package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/agromart/internal/apperr"
	"github.com/mmeshcher/agromart/internal/middleware"
	"github.com/mmeshcher/agromart/internal/service"
)

type updateStatusRequest struct {
	Status string `json:"status"`
}

// CreateOrder оформляет заказ с оплатой при получении.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	acc, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, apperr.MsgInvalidToken)
		return
	}

	var req service.CreateOrderInput
	if err := decodeBody(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), acc.ID, req)
	if err != nil {
		h.writeError(w, r, err, "Failed to create order. Please try again later.")
		return
	}

	writeOK(w, http.StatusCreated, "Order placed successfully", map[string]interface{}{
		"order": orderSummaryResponse{
			ID:          order.ID.String(),
			OrderNumber: order.OrderNumber,
			Total:       order.Total.InexactFloat64(),
			Status:      string(order.Status),
			CreatedAt:   order.CreatedAt,
		},
	})
}

// MyOrders возвращает заказы покупателя, новые первыми.
func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	acc, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, apperr.MsgInvalidToken)
		return
	}

	orders, err := h.orders.ListMyOrders(r.Context(), acc.ID)
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch orders")
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrder(&orders[i]))
	}

	writeOK(w, http.StatusOK, "Orders fetched successfully", map[string]interface{}{"orders": resp})
}

// GetOrder возвращает заказ покупателя по идентификатору.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	acc, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, apperr.MsgInvalidToken)
		return
	}

	order, err := h.orders.GetOrder(r.Context(), acc.ID, chi.URLParam(r, "orderID"))
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch order")
		return
	}

	writeOK(w, http.StatusOK, "Order fetched successfully", map[string]interface{}{"order": toOrder(order)})
}

// UpdateOrderStatus меняет статус заказа по запросу оператора.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	order, err := h.orders.UpdateOrderStatus(r.Context(), chi.URLParam(r, "orderID"), req.Status)
	if err != nil {
		h.writeError(w, r, err, apperr.MsgInternal)
		return
	}

	writeOK(w, http.StatusOK, "Order status updated successfully", map[string]interface{}{"order": toOrder(order)})
}
