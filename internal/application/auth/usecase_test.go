package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/abs-rental-api/internal/application/auth"
	"github.com/jhoicas/abs-rental-api/internal/application/dto"
	"github.com/jhoicas/abs-rental-api/internal/domain"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/infrastructure/memory"
	"github.com/jhoicas/abs-rental-api/pkg/jwt"
)

const secret = "test-secret"

func newAuth(t *testing.T) (*auth.AuthUseCase, *memory.UserRepo) {
	t.Helper()
	repo := memory.NewUserRepository()
	return auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "abs-rental-api"}), repo
}

func TestRegisterYLogin(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "Ana@Eventos.co", Password: "secreto123", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, u.Role, "el registro público siempre crea clientes")
	assert.Equal(t, "ana@eventos.co", u.Email)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@eventos.co", Password: "secreto123"})
	require.NoError(t, err)
	email, role, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "ana@eventos.co", email)
	assert.Equal(t, entity.RoleUser, role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@eventos.co", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@eventos.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@eventos.co", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_CuentaEnEsperaBloqueada(t *testing.T) {
	uc, repo := newAuth(t)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "pepe@eventos.co", Password: "secreto123"})
	require.NoError(t, err)

	u, _ := repo.GetByEmail(ctx, "pepe@eventos.co")
	u.Status = entity.UserStatusOnHold
	require.NoError(t, repo.Update(ctx, u))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "pepe@eventos.co", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
