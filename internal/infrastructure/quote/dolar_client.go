// Package quote consulta la cotización del dólar en una API pública (formato dolarapi.com).
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/iMarket-api/internal/application/ports"
)

var _ ports.RateQuoter = (*DolarClient)(nil)

// DolarClient adaptador HTTP del puerto RateQuoter.
type DolarClient struct {
	url        string
	httpClient *http.Client
}

// NewDolarClient construye el cliente. url apunta a un endpoint que devuelve {"compra":..,"venta":..}.
func NewDolarClient(url string) *DolarClient {
	return &DolarClient{
		url: url,
		httpClient: &http.Client{
			// El refresco impone además su propio context.WithTimeout.
			Timeout: 15 * time.Second,
		},
	}
}

type dolarResponse struct {
	Compra             decimal.Decimal `json:"compra"`
	Venta              decimal.Decimal `json:"venta"`
	Casa               string          `json:"casa"`
	FechaActualizacion string          `json:"fechaActualizacion"`
}

// SellRate devuelve el valor de venta.
func (c *DolarClient) SellRate(ctx context.Context) (decimal.Decimal, error) {
	if c.url == "" {
		return decimal.Zero, fmt.Errorf("quote: RATE_QUOTE_URL no configurado")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("quote: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return decimal.Zero, fmt.Errorf("quote: timeout o cancelación: %w", ctx.Err())
		}
		return decimal.Zero, fmt.Errorf("quote: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16*1024))
	if err != nil {
		return decimal.Zero, fmt.Errorf("quote: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("quote: HTTP %d: %s", resp.StatusCode, string(raw))
	}

	var body dolarResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return decimal.Zero, fmt.Errorf("quote: deserializar respuesta: %w", err)
	}
	if !body.Venta.IsPositive() {
		return decimal.Zero, fmt.Errorf("quote: valor de venta inválido: %s", body.Venta)
	}
	return body.Venta, nil
}
