package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/abs-rental-api/internal/domain"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/domain/repository"
	"github.com/jhoicas/abs-rental-api/internal/domain/workflow"
	"github.com/jhoicas/abs-rental-api/internal/infrastructure/memory"
)

func TestOrderRepo_DevuelveCopias(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()
	o := &entity.Order{ID: "ABS-AAAAAA", UserEmail: "a@x.co", Status: entity.StatusPendiente, Workflow: workflow.NewWorkflow()}
	require.NoError(t, repo.Save(ctx, o))

	got, err := repo.GetByID(ctx, "ABS-AAAAAA")
	require.NoError(t, err)
	got.Workflow[entity.StageBodegaCheck].Photos = append(got.Workflow[entity.StageBodegaCheck].Photos, "x")

	again, _ := repo.GetByID(ctx, "ABS-AAAAAA")
	assert.Empty(t, again.Workflow[entity.StageBodegaCheck].Photos, "modificar la copia no altera el almacén")

	missing, err := repo.GetByID(ctx, "ABS-ZZZZZZ")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderRepo_ListFiltraYPagina(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, email := range []string{"a@x.co", "b@x.co", "a@x.co", "a@x.co"} {
		require.NoError(t, repo.Save(ctx, &entity.Order{
			ID: string(rune('A'+i)) + "-order", UserEmail: email, Status: entity.StatusPendiente, CreatedAt: base.AddDate(0, 0, i),
		}))
	}

	mine, err := repo.List(ctx, repository.OrderFilter{UserEmail: "a@x.co"})
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, "D-order", mine[0].ID, "más reciente primero")

	page, _ := repo.List(ctx, repository.OrderFilter{Limit: 2, Offset: 3})
	assert.Len(t, page, 1)
}

func TestBlobStore_CuotaExcedida(t *testing.T) {
	ctx := context.Background()
	store := memory.NewBlobStore(10)

	require.NoError(t, store.Put(ctx, "a", []byte("12345678"), "image/jpeg"))
	err := store.Put(ctx, "b", []byte("123"), "image/jpeg")
	assert.True(t, domain.IsQuotaExceeded(err))

	require.NoError(t, store.Put(ctx, "a", []byte("1234567890"), "image/jpeg"), "reemplazar libera el espacio anterior")
	data, ct, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, data, 10)
	assert.Equal(t, "image/jpeg", ct)
}

func TestUserRepo_EmailDuplicado(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()
	require.NoError(t, repo.Create(ctx, &entity.User{Email: "Ana@X.co"}))

	assert.ErrorIs(t, repo.Create(ctx, &entity.User{Email: "ana@x.co"}), domain.ErrEmailAlreadyExists)
	u, err := repo.GetByEmail(ctx, "ANA@x.co")
	require.NoError(t, err)
	assert.NotNil(t, u)
}
