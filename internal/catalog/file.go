package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/mmeshcher/agromart/internal/model"
)

// FileReader отдаёт товары из JSON-файла, прочитанного при создании.
type FileReader struct {
	products []model.Product
}

// NewFileReader читает каталог из файла по указанному пути.
func NewFileReader(path string) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()

	products, err := decodeProducts(f)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return &FileReader{products: products}, nil
}

// NewStaticReader создаёт каталог из готового списка товаров.
func NewStaticReader(products []model.Product) *FileReader {
	return &FileReader{products: products}
}

func (r *FileReader) List(ctx context.Context, f Filter) ([]model.Product, error) {
	return filterProducts(r.products, f), nil
}

func (r *FileReader) Get(ctx context.Context, id string) (*model.Product, error) {
	return findProduct(r.products, id)
}

func (r *FileReader) Featured(ctx context.Context, n int) ([]model.Product, error) {
	return firstProducts(r.products, n), nil
}

func (r *FileReader) Categories(ctx context.Context) ([]string, error) {
	return categoriesOf(r.products), nil
}
