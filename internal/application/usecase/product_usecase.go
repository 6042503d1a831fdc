package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/abs-rental-api/internal/application/dto"
	"github.com/jhoicas/abs-rental-api/internal/domain"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD del catálogo. Stock 999 marca un producto ilimitado.
type ProductUseCase struct {
	repo  repository.ProductRepository
	clock domain.Clock
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, clock: domain.SystemClock}
}

// Create agrega un producto al catálogo. Sin ID explícito se genera un UUID.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.New().String()
	} else {
		existing, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := uc.clock.Now()
	product := &entity.Product{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Category:    in.Category,
		Description: in.Description,
		Image:       in.Image,
		Stock:       in.Stock,
		PriceRent:   in.PriceRent,
		Width:       in.Width,
		Height:      in.Height,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID. (nil, nil) si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update aplica los campos no nulos. (nil, nil) si el producto no existe.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Image != nil {
		product.Image = *in.Image
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if in.PriceRent != nil {
		product.PriceRent = *in.PriceRent
	}
	if in.Width != nil {
		product.Width = in.Width
	}
	if in.Height != nil {
		product.Height = in.Height
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	product.UpdatedAt = uc.clock.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista el catálogo con filtro de categoría/búsqueda y paginación.
func (uc *ProductUseCase) List(ctx context.Context, filter repository.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Category != "" && !entity.IsValidCategory(filter.Category) {
		return nil, domain.NewValidationError("category", "categoría desconocida")
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func validateProduct(p *entity.Product) error {
	if p.Name == "" {
		return domain.NewValidationError("name", "requerido")
	}
	if !entity.IsValidCategory(p.Category) {
		return domain.NewValidationError("category", "categoría desconocida")
	}
	if p.Stock < 0 || p.Stock > entity.UnlimitedStock {
		return domain.NewValidationError("stock", "debe estar entre 0 y 999")
	}
	if p.PriceRent.IsNegative() {
		return domain.NewValidationError("price_rent", "no puede ser negativo")
	}
	if (p.Width != nil && !p.Width.IsPositive()) || (p.Height != nil && !p.Height.IsPositive()) {
		return domain.NewValidationError("dimensions", "ancho y alto deben ser positivos")
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Image:       p.Image,
		Stock:       p.Stock,
		Unlimited:   p.IsUnlimited(),
		PriceRent:   p.PriceRent,
		Width:       p.Width,
		Height:      p.Height,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
