package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/abs-rental-api/internal/application/dto"
	"github.com/jhoicas/abs-rental-api/internal/domain"
	"github.com/jhoicas/abs-rental-api/internal/domain/availability"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/domain/pricing"
	"github.com/jhoicas/abs-rental-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// Service opera el carrito de cada usuario contra el catálogo y la disponibilidad vigente.
type Service struct {
	store    *SessionStore
	products repository.ProductRepository
	orders   repository.OrderRepository
}

// NewService construye el caso de uso del carrito.
func NewService(store *SessionStore, products repository.ProductRepository, orders repository.OrderRepository) *Service {
	return &Service{store: store, products: products, orders: orders}
}

// Session expone el carrito de user (lo usa el checkout).
func (s *Service) Session(user *entity.User) *Session {
	return s.store.Get(user.Email)
}

// View devuelve el carrito cotizado con el descuento del usuario.
func (s *Service) View(_ context.Context, user *entity.User) *dto.CartResponse {
	sess := s.store.Get(user.Email)
	return toCartResponse(sess, user.DiscountPercentage)
}

// AddItem agrega un producto; la cantidad se topa en lo disponible para las fechas del carrito.
func (s *Service) AddItem(ctx context.Context, user *entity.User, in dto.AddCartItemRequest) (*dto.CartResponse, error) {
	if in.Quantity < 1 {
		return nil, domain.NewValidationError("quantity", "debe ser al menos 1")
	}
	p, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	sess := s.store.Get(user.Email)
	avail, err := s.available(ctx, *p, sess)
	if err != nil {
		return nil, err
	}
	if _, err := sess.Add(*p, in.Quantity, in.FileURL, avail); err != nil {
		return nil, err
	}
	return toCartResponse(sess, user.DiscountPercentage), nil
}

// SetQuantity fija la cantidad de un ítem ya presente.
func (s *Service) SetQuantity(ctx context.Context, user *entity.User, productID string, qty int) (*dto.CartResponse, error) {
	sess := s.store.Get(user.Email)
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	avail, err := s.available(ctx, *p, sess)
	if err != nil {
		return nil, err
	}
	if _, err := sess.SetQuantity(productID, qty, avail); err != nil {
		return nil, err
	}
	return toCartResponse(sess, user.DiscountPercentage), nil
}

// RemoveItem quita un producto del carrito.
func (s *Service) RemoveItem(_ context.Context, user *entity.User, productID string) *dto.CartResponse {
	sess := s.store.Get(user.Email)
	sess.Remove(productID)
	return toCartResponse(sess, user.DiscountPercentage)
}

// SetDates fija el rango del evento (YYYY-MM-DD o RFC3339).
func (s *Service) SetDates(_ context.Context, user *entity.User, in dto.SetCartDatesRequest) (*dto.CartResponse, error) {
	start, err := pricing.ParseDate(in.StartDate)
	if err != nil {
		return nil, domain.NewValidationError("start_date", "formato esperado YYYY-MM-DD")
	}
	end, err := pricing.ParseDate(in.EndDate)
	if err != nil {
		return nil, domain.NewValidationError("end_date", "formato esperado YYYY-MM-DD")
	}
	sess := s.store.Get(user.Email)
	if err := sess.SetDates(start, end); err != nil {
		return nil, err
	}
	return toCartResponse(sess, user.DiscountPercentage), nil
}

// Clear vacía el carrito.
func (s *Service) Clear(user *entity.User) {
	s.store.Get(user.Email).Clear()
}

// available calcula las unidades libres para las fechas del carrito; sin fechas se usa el stock.
func (s *Service) available(ctx context.Context, p entity.Product, sess *Session) (int, error) {
	start, end := sess.Dates()
	if start.IsZero() || end.IsZero() {
		return p.Stock, nil
	}
	orders, err := s.orders.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("cart: listar pedidos: %w", err)
	}
	return availability.Available(p, orders, start, end), nil
}

func toCartResponse(sess *Session, discount decimal.Decimal) *dto.CartResponse {
	items := sess.Items()
	start, end := sess.Dates()
	quote := pricing.Quote(items, pricing.EventDays(start, end), discount)

	out := &dto.CartResponse{
		Items:              make([]dto.CartItemResponse, 0, len(items)),
		StartDate:          formatDate(start),
		EndDate:            formatDate(end),
		EventDays:          quote.EventDays,
		Subtotal:           quote.Subtotal,
		DiscountPercentage: quote.DiscountPercent,
		Discount:           quote.Discount,
		Total:              quote.Total,
	}
	for i, it := range items {
		out.Items = append(out.Items, dto.CartItemResponse{
			ProductID: it.ID,
			Name:      it.Name,
			Category:  it.Category,
			Quantity:  it.Quantity,
			FileURL:   it.FileURL,
			UnitPrice: quote.Lines[i].UnitPrice,
			Subtotal:  quote.Lines[i].Subtotal,
		})
	}
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
