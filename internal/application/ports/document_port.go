package ports

import (
	"context"

	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/domain/pricing"
)

// GuideRenderer genera la guía de despacho de un pedido (PDF).
type GuideRenderer interface {
	RenderDispatchGuide(ctx context.Context, order *entity.Order, quote pricing.Breakdown) ([]byte, error)
}
