package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mmeshcher/agromart/internal/model"
)

// ErrCatalogUnavailable возвращается, когда удалённый каталог не отдал список товаров.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// RetryError сообщает, что удалённый каталог ограничил частоту запросов.
type RetryError struct {
	After time.Duration
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("catalog rate limited, retry after %s", e.After)
}

func (e *RetryError) Unwrap() error {
	return ErrCatalogUnavailable
}

// HTTPReader загружает каталог по HTTP при каждом обращении.
type HTTPReader struct {
	url        string
	httpClient *http.Client
}

// NewHTTPReader создаёт клиент удалённого каталога. Адрес без схемы дополняется http://.
func NewHTTPReader(url string, timeout time.Duration) *HTTPReader {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPReader{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (r *HTTPReader) fetch(ctx context.Context) ([]model.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		retryAfter := time.Duration(0)
		if v := resp.Header.Get("Retry-After"); v != "" {
			if seconds, parseErr := strconv.Atoi(v); parseErr == nil {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		return nil, &RetryError{After: retryAfter}
	case http.StatusNotFound, http.StatusNoContent:
		return nil, fmt.Errorf("%w: status %d", ErrCatalogUnavailable, resp.StatusCode)
	default:
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	return decodeProducts(resp.Body)
}

func (r *HTTPReader) List(ctx context.Context, f Filter) ([]model.Product, error) {
	products, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return filterProducts(products, f), nil
}

func (r *HTTPReader) Get(ctx context.Context, id string) (*model.Product, error) {
	products, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return findProduct(products, id)
}

func (r *HTTPReader) Featured(ctx context.Context, n int) ([]model.Product, error) {
	products, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return firstProducts(products, n), nil
}

func (r *HTTPReader) Categories(ctx context.Context) ([]string, error) {
	products, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return categoriesOf(products), nil
}
