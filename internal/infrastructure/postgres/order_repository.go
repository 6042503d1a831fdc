package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

var orderColumns = []string{
	"id", "user_email", "assigned_coordinator_email", "status", "order_type",
	"start_date", "end_date", "origin_location", "destination_location",
	"total_amount::text", "items", "workflow", "created_at", "updated_at",
}

// OrderRepo guarda pedidos con items y flujo logístico como JSONB.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Save inserta o reemplaza el pedido completo (última escritura gana).
func (r *OrderRepo) Save(ctx context.Context, o *entity.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("serializar items: %w", err)
	}
	wf, err := json.Marshal(o.Workflow)
	if err != nil {
		return fmt.Errorf("serializar flujo: %w", err)
	}
	query, args, err := psql.Insert("orders").
		Columns("id", "user_email", "assigned_coordinator_email", "status", "order_type",
			"start_date", "end_date", "origin_location", "destination_location",
			"total_amount", "items", "workflow", "created_at", "updated_at").
		Values(o.ID, o.UserEmail, o.AssignedCoordinatorEmail, string(o.Status), string(o.OrderType),
			o.StartDate, o.EndDate, o.OriginLocation, o.DestinationLocation,
			o.TotalAmount, items, wf, o.CreatedAt, o.UpdatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			assigned_coordinator_email = EXCLUDED.assigned_coordinator_email,
			status = EXCLUDED.status,
			order_type = EXCLUDED.order_type,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			origin_location = EXCLUDED.origin_location,
			destination_location = EXCLUDED.destination_location,
			total_amount = EXCLUDED.total_amount,
			items = EXCLUDED.items,
			workflow = EXCLUDED.workflow,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

// GetByID devuelve (nil, nil) si el pedido no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	query, args, err := psql.Select(orderColumns...).From("orders").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	o, err := scanOrder(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *OrderRepo) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists order: %w", err)
	}
	return ok, nil
}

// All devuelve todos los pedidos; lo usa el cálculo de disponibilidad.
func (r *OrderRepo) All(ctx context.Context) ([]*entity.Order, error) {
	query, args, err := psql.Select(orderColumns...).From("orders").OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, err
	}
	return r.query(ctx, query, args)
}

// List filtra por cliente, coordinador y estado, los más recientes primero.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	b := psql.Select(orderColumns...).From("orders").OrderBy("created_at DESC")
	if f.UserEmail != "" {
		b = b.Where(sq.Eq{"user_email": normalizeEmail(f.UserEmail)})
	}
	if f.CoordinatorEmail != "" {
		b = b.Where(sq.Eq{"assigned_coordinator_email": normalizeEmail(f.CoordinatorEmail)})
	}
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": string(f.Status)})
	}
	if f.Limit > 0 {
		limit, offset := pageArgs(f.Limit, f.Offset)
		b = b.Limit(limit).Offset(offset)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return r.query(ctx, query, args)
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func (r *OrderRepo) query(ctx context.Context, query string, args []any) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	var (
		o                   entity.Order
		status, kind, total string
		items, workflowBlob []byte
	)
	if err := row.Scan(&o.ID, &o.UserEmail, &o.AssignedCoordinatorEmail, &status, &kind,
		&o.StartDate, &o.EndDate, &o.OriginLocation, &o.DestinationLocation,
		&total, &items, &workflowBlob, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	o.OrderType = entity.OrderType(kind)
	var err error
	if o.TotalAmount, err = parseDecimal(total); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("items de %s: %w", o.ID, err)
	}
	if err := json.Unmarshal(workflowBlob, &o.Workflow); err != nil {
		return nil, fmt.Errorf("flujo de %s: %w", o.ID, err)
	}
	return &o, nil
}
