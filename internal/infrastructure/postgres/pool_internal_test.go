package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/abs-rental-api/pkg/config"
)

func TestPoolConfigFrom_DSNYLimites(t *testing.T) {
	cfg := config.DBConfig{Host: "db", Port: 5432, User: "abs", Password: "p@ss", DBName: "abs_rental", SSLMode: "disable", MaxConns: 7}

	pc, err := poolConfigFrom(cfg)
	require.NoError(t, err)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.Equal(t, "p@ss", pc.ConnConfig.Password, "la contraseña se escapa en el DSN y vuelve intacta")
	assert.EqualValues(t, 7, pc.MaxConns)
	assert.NotNil(t, pc.AfterConnect)
}

func TestPoolConfigFrom_DatabaseURLTienePrioridad(t *testing.T) {
	pc, err := poolConfigFrom(config.DBConfig{DatabaseURL: "postgres://u:p@remote:6543/abs?sslmode=disable", Host: "ignorado"})
	require.NoError(t, err)
	assert.Equal(t, "remote", pc.ConnConfig.Host)
	assert.EqualValues(t, 6543, pc.ConnConfig.Port)
	assert.EqualValues(t, 10, pc.MaxConns)
}

func TestPoolConfigFrom_DSNInvalido(t *testing.T) {
	_, err := poolConfigFrom(config.DBConfig{DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}
