package logger_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/idcr-client/pkg/logger"
)

func TestNew_ProduccionEscribeJSON(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", Out: &buf})

	l.Info().Str("path", "/api/stats").Msg("petición")

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "info", ev["level"])
	assert.Equal(t, "/api/stats", ev["path"])
}

func TestNew_NivelFiltraEventos(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "warn", Out: &buf})

	l.Debug().Msg("oculto")
	l.Info().Msg("oculto")
	assert.Empty(t, buf.String())

	l.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNew_ArchivoRotado(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "idcr.log")
	l := logger.New(logger.Config{Env: "production", Level: "info", Out: &buf, File: file})

	l.Info().Msg("a disco")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "a disco")
	assert.Contains(t, buf.String(), "a disco")
}
