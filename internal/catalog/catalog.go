// Package catalog предоставляет доступ к каталогу товаров только на чтение.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mmeshcher/agromart/internal/model"
)

// FeaturedCount задаёт число рекомендуемых товаров на главной странице.
const FeaturedCount = 6

// ErrProductNotFound возвращается, если товара с указанным идентификатором нет.
var ErrProductNotFound = errors.New("product not found")

// Filter задаёт условия выборки товаров. Пустые поля и категория "all" не фильтруют.
type Filter struct {
	Category string
	Search   string
}

// Reader описывает источник товаров каталога.
type Reader interface {
	List(ctx context.Context, f Filter) ([]model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	Featured(ctx context.Context, n int) ([]model.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

func decodeProducts(r io.Reader) ([]model.Product, error) {
	var products []model.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func filterProducts(products []model.Product, f Filter) []model.Product {
	category := strings.TrimSpace(f.Category)
	search := strings.ToLower(strings.TrimSpace(f.Search))

	result := make([]model.Product, 0, len(products))
	for _, p := range products {
		if category != "" && !strings.EqualFold(category, "all") && !strings.EqualFold(p.Category, category) {
			continue
		}
		if search != "" && !matches(p, search) {
			continue
		}
		result = append(result, p)
	}
	return result
}

func matches(p model.Product, term string) bool {
	if strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term) {
		return true
	}
	for _, feature := range p.Features {
		if strings.Contains(strings.ToLower(feature), term) {
			return true
		}
	}
	return false
}

func findProduct(products []model.Product, id string) (*model.Product, error) {
	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

func firstProducts(products []model.Product, n int) []model.Product {
	if n < 0 {
		n = 0
	}
	if n > len(products) {
		n = len(products)
	}
	out := make([]model.Product, n)
	copy(out, products[:n])
	return out
}

// categoriesOf возвращает категории в порядке первого появления.
func categoriesOf(products []model.Product) []string {
	seen := make(map[string]struct{}, len(products))
	categories := make([]string, 0)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}
