// Package metrics expone contadores Prometheus de ventas y de requests HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/iMarket-api/internal/application/ports"
	"github.com/jhoicas/iMarket-api/internal/domain/entity"
)

var _ ports.SaleObserver = (*Metrics)(nil)

// Metrics registro propio (no el global) para poder instanciarlo en tests.
type Metrics struct {
	registry      *prometheus.Registry
	salesTotal    *prometheus.CounterVec
	salesARS      *prometheus.CounterVec
	unitsSold     *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

// New registra los colectores de la aplicación más los de proceso y runtime de Go.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		salesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "imarket",
			Name:      "sales_total",
			Help:      "Ventas confirmadas por origen y medio de pago.",
		}, []string{"source", "payment_method", "store"}),
		salesARS: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "imarket",
			Name:      "sales_amount_ars_total",
			Help:      "Monto vendido en ARS.",
		}, []string{"store"}),
		unitsSold: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "imarket",
			Name:      "units_sold_total",
			Help:      "Unidades vendidas por categoría.",
		}, []string{"category"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "imarket",
			Name:      "http_requests_total",
			Help:      "Requests HTTP por ruta y status.",
		}, []string{"method", "route", "status"}),
		httpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "imarket",
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de requests HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		m.salesTotal, m.salesARS, m.unitsSold, m.httpRequests, m.httpDurations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry para tests y para exponer colectores adicionales.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// SaleCommitted se invoca después del commit de cada venta.
func (m *Metrics) SaleCommitted(sale *entity.Sale) {
	m.salesTotal.WithLabelValues(sale.Source, sale.PaymentMethod, sale.Store).Inc()
	amount, _ := sale.TotalAmount.Float64()
	m.salesARS.WithLabelValues(sale.Store).Add(amount)
	for _, it := range sale.Items {
		m.unitsSold.WithLabelValues(it.Category).Add(float64(it.Quantity))
	}
}

// Middleware mide cada request. Usa la ruta registrada (no el path) para acotar la cardinalidad.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		m.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.httpDurations.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler GET /metrics.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
