// Package metrics exposes Prometheus counters for the ledger and the
// fiber middleware that records HTTP request metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Transfer results used as the "result" label.
const (
	ResultSuccess      = "success"
	ResultNotFound     = "account_not_found"
	ResultInsufficient = "insufficient_balance"
	ResultInvalid      = "invalid"
	ResultError        = "error"
)

// Recorder owns the ledger collectors and the registry they live in.
type Recorder struct {
	registry *prometheus.Registry

	httpRequestDuration *prometheus.HistogramVec
	transfersTotal      *prometheus.CounterVec
	accountsCreated     prometheus.Counter
	notificationsTotal  *prometheus.CounterVec
}

// NewRecorder registers the ledger collectors on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"method", "path", "status"},
		),
		transfersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transfers_total",
				Help: "Total number of transfer attempts by result",
			},
			[]string{"result"},
		),
		accountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		notificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_notifications_total",
				Help: "Total number of transfer notifications by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// RegisterAccountGauge exposes the live number of accounts.
func (r *Recorder) RegisterAccountGauge(count func() float64) {
	r.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "ledger_accounts",
		Help: "Number of accounts currently held by the store",
	}, count))
}

func (r *Recorder) TransferAttempt(result string) {
	r.transfersTotal.WithLabelValues(result).Inc()
}

func (r *Recorder) AccountCreated() {
	r.accountsCreated.Inc()
}

func (r *Recorder) NotificationSent(ok bool) {
	outcome := "sent"
	if !ok {
		outcome = "failed"
	}
	r.notificationsTotal.WithLabelValues(outcome).Inc()
}

// Middleware records request latency by route.
func (r *Recorder) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		r.httpRequestDuration.WithLabelValues(
			c.Method(),
			c.Route().Path,
			strconv.Itoa(status),
		).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the Prometheus exposition format.
func (r *Recorder) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
}

// Gatherer gives tests access to the collected metrics.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}
