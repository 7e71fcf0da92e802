package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/agromart/internal/catalog"
)

// ListProducts возвращает товары с фильтрами category и search.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := catalog.Filter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}

	products, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch products")
		return
	}

	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch products")
		return
	}

	writeOK(w, http.StatusOK, "Products fetched successfully", map[string]interface{}{
		"products":   toProducts(products),
		"total":      len(products),
		"categories": categories,
	})
}

// GetProduct возвращает товар по идентификатору.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			writeFail(w, http.StatusNotFound, "Product not found")
			return
		}
		h.writeError(w, r, err, "Failed to fetch product")
		return
	}

	writeOK(w, http.StatusOK, "Product fetched successfully", map[string]interface{}{"product": toProduct(product)})
}

// FeaturedProducts возвращает товары для главной страницы.
func (h *Handler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Featured(r.Context(), catalog.FeaturedCount)
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch featured products")
		return
	}

	writeOK(w, http.StatusOK, "Featured products fetched successfully", map[string]interface{}{
		"products": toProducts(products),
	})
}
