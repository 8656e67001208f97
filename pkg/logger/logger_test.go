package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_ProduccionEscribeJSONConServicio(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Service: "imarket-api", Output: &buf})

	l.Debug().Msg("no debe salir")
	l.Info().Str("store", "local1").Msg("venta registrada")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), "una sola línea JSON")
	assert.Equal(t, "imarket-api", line["service"])
	assert.Equal(t, "local1", line["store"])
	assert.Equal(t, "venta registrada", line["message"])
}

func TestNew_InstalaLoggerGlobal(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Env: "production", Level: "warn", Output: &buf})

	log.Info().Msg("filtrado")
	log.Warn().Msg("cotización vencida")

	assert.NotContains(t, buf.String(), "filtrado")
	assert.Contains(t, buf.String(), "cotización vencida")
}
