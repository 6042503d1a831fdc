package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/abs-rental-api/pkg/logger"
)

func TestLogger_JSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})

	log.Component("outbox").Info().Str("order_id", "ABS-7K2Q9Z").Msg("evento encolado")
	log.Debug().Msg("no debe aparecer")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line), "una sola línea JSON")
	assert.Equal(t, "outbox", line["component"])
	assert.Equal(t, "ABS-7K2Q9Z", line["order_id"])
	assert.Equal(t, "info", line["level"])
}

func TestNop_NoEscribe(t *testing.T) {
	assert.NotPanics(t, func() { logger.Nop().Error().Msg("silencio") })
}

func TestForOrder_YServicio(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "DEBUG", Service: "abs-rental", Output: &buf})

	log.ForOrder("ABS-AB12CD").Debug().Str("stage", "bodega_check").Msg("etapa guardada")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "abs-rental", line["service"])
	assert.Equal(t, "ABS-AB12CD", line["order_id"])
	assert.Equal(t, "debug", line["level"], "el nivel se acepta en mayúsculas")
}

func TestNivelDesconocido_UsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "verbose", Output: &buf})
	log.Debug().Msg("oculto")
	log.Info().Msg("visible")
	assert.NotContains(t, buf.String(), "oculto")
	assert.Contains(t, buf.String(), "visible")
}
