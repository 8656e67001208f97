package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSellRate_OK(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"moneda":"USD","casa":"blue","compra":1400,"venta":1425.5,"fechaActualizacion":"2026-10-16T12:00:00.000Z"}`)

	rate, err := NewDolarClient(srv.URL).SellRate(context.Background())
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("1425.5")))
}

func TestSellRate_Errores(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"http 500", http.StatusInternalServerError, `{"error":"down"}`},
		{"json inválido", http.StatusOK, `<html>`},
		{"venta cero", http.StatusOK, `{"compra":0,"venta":0}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := serve(t, tc.status, tc.body)
			_, err := NewDolarClient(srv.URL).SellRate(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestSellRate_SinURL(t *testing.T) {
	_, err := NewDolarClient("").SellRate(context.Background())
	assert.Error(t, err)
}
