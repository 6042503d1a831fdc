package repository

import (
	"context"

	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
)

// OrderFilter acota el listado de pedidos. Campos vacíos no filtran.
type OrderFilter struct {
	UserEmail        string
	CoordinatorEmail string
	Status           entity.OrderStatus
	Limit            int
	Offset           int
}

// OrderRepository define el puerto de persistencia para Order (DIP).
// Save inserta o reemplaza el pedido completo (último en escribir gana).
// GetByID devuelve (nil, nil) si el pedido no existe.
type OrderRepository interface {
	Save(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	Exists(ctx context.Context, id string) (bool, error)
	// All devuelve todos los pedidos; el cálculo de disponibilidad los recorre completos.
	All(ctx context.Context) ([]*entity.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
	Delete(ctx context.Context, id string) error
}
