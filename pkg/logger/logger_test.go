package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/pkg/logger"
)

func TestNew_ProduccionEscribeJSON(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", Out: &buf})

	l.Info().Str("sale_id", "s-1").Msg("venta registrada")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "s-1", line["sale_id"])
	assert.Equal(t, "venta registrada", line["message"])
}

func TestNew_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "WARN", Out: &buf})

	l.Info().Msg("no aparece")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("aparece")
	assert.Contains(t, buf.String(), "aparece")
}

func TestNew_DesarrolloEsLegible(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "development", Out: &buf})

	zl := l.Zerolog()
	zl.Info().Msg("hola")
	assert.Contains(t, buf.String(), "hola")
	assert.NotContains(t, buf.String(), `"message"`)
}
