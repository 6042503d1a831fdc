package repository

import (
	"context"

	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
)

// ProductFilter acota el listado del catálogo. Campos vacíos no filtran.
type ProductFilter struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
