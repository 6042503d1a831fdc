package postgres_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/abs-rental-api/internal/domain"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/domain/repository"
	"github.com/jhoicas/abs-rental-api/internal/domain/workflow"
	"github.com/jhoicas/abs-rental-api/internal/infrastructure/postgres"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

var (
	ts          = time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	productCols = []string{"id", "name", "category", "description", "image", "stock", "price_rent", "width", "height", "created_at", "updated_at"}
)

func strPtr(s string) *string { return &s }

// withKey arma los argumentos esperados: la clave exacta y n-1 parámetros cualesquiera.
func withKey(key any, n int) []any {
	args := []any{key}
	for i := 1; i < n; i++ {
		args = append(args, pgxmock.AnyArg())
	}
	return args
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductRepo_GetByID(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewProductRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1`).WithArgs("silla").
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow("silla", "Silla Tiffany", entity.CategoryMobiliario, "", "", 40, "14000.00", strPtr("0.45"), (*string)(nil), ts, ts))
	mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1`).WithArgs("nada").WillReturnError(pgx.ErrNoRows)

	p, err := repo.GetByID(context.Background(), "silla")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.PriceRent.Equal(decimal.NewFromInt(14000)))
	require.NotNil(t, p.Width)
	assert.Equal(t, "0.45", p.Width.String())
	assert.Nil(t, p.Height)

	missing, err := repo.GetByID(context.Background(), "nada")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductRepo_CreateDuplicado(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewProductRepository(mock)

	mock.ExpectExec("INSERT INTO products").WithArgs(withKey("silla", 11)...).WillReturnError(&pgconn.PgError{Code: "23505"})
	err := repo.Create(context.Background(), &entity.Product{ID: "silla", Name: "Silla"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductRepo_UpdateInexistente(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewProductRepository(mock)

	mock.ExpectExec("UPDATE products SET").WithArgs(withKey("nada", 10)...).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	err := repo.Update(context.Background(), &entity.Product{ID: "nada"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductRepo_ListFiltraPorCategoriaYTexto(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewProductRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM products WHERE category = \$1 AND \(name ILIKE \$2 OR description ILIKE \$3\) ORDER BY name LIMIT 20 OFFSET 0`).
		WithArgs(entity.CategoryMobiliario, "%mesa%", "%mesa%").
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow("mesa", "Mesa redonda", entity.CategoryMobiliario, "", "", 10, "30000", (*string)(nil), (*string)(nil), ts, ts))

	list, err := repo.List(context.Background(), repository.ProductFilter{Category: entity.CategoryMobiliario, Search: "mesa", Limit: 20})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Mesa redonda", list[0].Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios
// ──────────────────────────────────────────────────────────────────────────────

func TestUserRepo_GetByEmailNormaliza(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewUserRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).WithArgs("ana@abs.co").
		WillReturnRows(pgxmock.NewRows([]string{"email", "password_hash", "name", "phone", "role", "status", "discount_percentage", "created_at", "updated_at"}).
			AddRow("ana@abs.co", "hash", "Ana", "", entity.RoleUser, entity.UserStatusActive, "12.50", ts, ts))

	u, err := repo.GetByEmail(context.Background(), "  Ana@ABS.co ")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "12.5", u.DiscountPercentage.String())
}

func TestUserRepo_CreateDuplicado(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewUserRepository(mock)

	mock.ExpectExec("INSERT INTO users").WithArgs(withKey("ana@abs.co", 9)...).WillReturnError(&pgconn.PgError{Code: "23505"})
	err := repo.Create(context.Background(), &entity.User{Email: "ana@abs.co"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pedidos
// ──────────────────────────────────────────────────────────────────────────────

func TestOrderRepo_SaveYGetByID(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewOrderRepository(mock)
	ctx := context.Background()

	o := &entity.Order{
		ID:        "ABS-Q7W2E9",
		UserEmail: "ana@abs.co",
		Status:    entity.StatusPendiente,
		OrderType: entity.OrderTypeRental,
		StartDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC),
		Items: []entity.CartItem{{
			Product:  entity.Product{ID: "silla", Name: "Silla", Category: entity.CategoryMobiliario, Stock: 10, PriceRent: decimal.NewFromInt(14000)},
			Quantity: 4,
		}},
		TotalAmount: decimal.NewFromInt(59200),
		Workflow:    workflow.NewWorkflow(),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	items, _ := json.Marshal(o.Items)
	wf, _ := json.Marshal(o.Workflow)

	mock.ExpectExec(`INSERT INTO orders .+ ON CONFLICT \(id\) DO UPDATE SET`).
		WithArgs(o.ID, o.UserEmail, "", "Pendiente", "rental", o.StartDate, o.EndDate, "", "",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), ts, ts).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`SELECT .+ FROM orders WHERE id = \$1`).WithArgs(o.ID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_email", "assigned_coordinator_email", "status", "order_type",
			"start_date", "end_date", "origin_location", "destination_location", "total_amount", "items", "workflow", "created_at", "updated_at"}).
			AddRow(o.ID, o.UserEmail, "", "Pendiente", "rental", o.StartDate, o.EndDate, "", "", "59200.00", items, wf, ts, ts))

	require.NoError(t, repo.Save(ctx, o))
	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.StatusPendiente, got.Status)
	assert.True(t, got.TotalAmount.Equal(o.TotalAmount))
	require.Len(t, got.Items, 1)
	assert.Equal(t, 4, got.Items[0].Quantity)
	assert.Len(t, got.Workflow, 5)
	assert.Equal(t, entity.StagePending, got.Workflow[entity.StageBodegaCheck].Status)
}

func TestOrderRepo_ListYExists(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewOrderRepository(mock)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT .+ FROM orders WHERE user_email = \$1 AND status = \$2 ORDER BY created_at DESC`).
		WithArgs("ana@abs.co", "Cotización").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("ABS-000001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	list, err := repo.List(ctx, repository.OrderFilter{UserEmail: "Ana@abs.co", Status: entity.StatusCotizacion})
	require.NoError(t, err)
	assert.Empty(t, list)

	ok, err := repo.Exists(ctx, "ABS-000001")
	require.NoError(t, err)
	assert.True(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// Bandeja de salida
// ──────────────────────────────────────────────────────────────────────────────

func TestOutboxRepo_StatsYMarcas(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewOutboxRepository(mock)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT\s+count\(\*\) FILTER`).
		WillReturnRows(pgxmock.NewRows([]string{"pending", "failed", "sent", "last_error"}).AddRow(3, 1, 12, "broker caído"))
	mock.ExpectExec("UPDATE sync_outbox SET state").WithArgs("id-1", entity.OutboxSent, ts).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec("UPDATE sync_outbox SET attempts").WithArgs("id-2", 2, ts, "timeout").
		WillReturnError(errors.New("conexión cerrada"))

	st, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, repository.OutboxStats{Pending: 3, Failed: 1, Sent: 12, LastError: "broker caído"}, st)

	assert.ErrorIs(t, repo.MarkSent(ctx, "id-1", ts), domain.ErrNotFound)
	assert.ErrorIs(t, repo.MarkRetry(ctx, "id-2", 2, ts, "timeout"), domain.ErrStorage)
}

func TestOutboxRepo_Due(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewOutboxRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM sync_outbox WHERE state = \$1 AND next_attempt_at <= \$2 ORDER BY created_at LIMIT 10`).
		WithArgs(entity.OutboxPending, ts).
		WillReturnRows(pgxmock.NewRows([]string{"id", "order_id", "kind", "payload", "state", "attempts", "next_attempt_at", "last_error", "created_at", "sent_at"}).
			AddRow("id-1", "ABS-000001", "order.created", []byte(`{}`), entity.OutboxPending, 0, ts, "", ts, (*time.Time)(nil)))

	due, err := repo.Due(context.Background(), ts, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "ABS-000001", due[0].OrderID)
	assert.Nil(t, due[0].SentAt)
}
