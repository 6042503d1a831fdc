package availability

import (
	"time"

	"github.com/samber/lo"

	"github.com/jhoicas/abs-rental-api/internal/domain"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
)

// Reserved suma lo que los pedidos activos que se cruzan con [start, end] tienen apartado de productID.
func Reserved(productID string, orders []*entity.Order, start, end time.Time) int {
	active := lo.Filter(orders, func(o *entity.Order, _ int) bool {
		return o != nil && o.Status.ReservesStock() && o.Overlaps(start, end)
	})
	return lo.SumBy(active, func(o *entity.Order) int {
		return o.QuantityOf(productID)
	})
}

// Available devuelve las unidades libres del producto en el rango. Nunca es negativo
// ni supera el stock; los productos ilimitados siempre devuelven el centinela.
func Available(product entity.Product, orders []*entity.Order, start, end time.Time) int {
	if product.IsUnlimited() {
		return entity.UnlimitedStock
	}
	free := product.Stock - Reserved(product.ID, orders, start, end)
	return min(max(free, 0), max(product.Stock, 0))
}

// CheckCart lista cada ítem cuya cantidad supera lo disponible. catalog aporta el stock
// vigente; si un producto no está en catalog se usa la copia del ítem.
func CheckCart(items []entity.CartItem, catalog map[string]entity.Product, orders []*entity.Order, start, end time.Time) []domain.Shortage {
	requested := make(map[string]int, len(items))
	order := make([]string, 0, len(items))
	snapshot := make(map[string]entity.Product, len(items))
	for _, it := range items {
		if _, seen := requested[it.ID]; !seen {
			order = append(order, it.ID)
			snapshot[it.ID] = it.Product
		}
		requested[it.ID] += it.Quantity
	}

	var shortages []domain.Shortage
	for _, id := range order {
		p, ok := catalog[id]
		if !ok {
			p = snapshot[id]
		}
		avail := Available(p, orders, start, end)
		if requested[id] > avail {
			shortages = append(shortages, domain.Shortage{
				ProductID: id,
				Name:      p.Name,
				Requested: requested[id],
				Available: avail,
			})
		}
	}
	return shortages
}
