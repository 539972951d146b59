package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/munidigital/portal-denuncias/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestDebugSuppressedInProduction(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, false)

	log.Debug("should not appear", nil)
	require.Empty(t, buf.String())

	log.Info("always appears", nil)
	require.Contains(t, buf.String(), "always appears")
}

func TestDebugEmittedInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, true)

	log.Debug("dev detail", logging.Context{"clave": "valor"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "dev detail", entry["message"])
	require.Equal(t, "valor", entry["clave"])
	require.Equal(t, "debug", entry["level"])
	require.NotEmpty(t, entry["time"])
}

func TestErrorMessageAlwaysStackOnlyInDev(t *testing.T) {
	var prod bytes.Buffer
	logging.New(&prod, false).Error("fallo", errBoom{}, nil)
	require.Contains(t, prod.String(), "boom")
	require.NotContains(t, prod.String(), "stack")

	var dev bytes.Buffer
	logging.New(&dev, true).Error("fallo", errBoom{}, nil)
	require.Contains(t, dev.String(), "boom")
	require.Contains(t, dev.String(), "stack")
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
