package telemetry

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/menuhub/backend/internal/domain/finance"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/domain/trade"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the Prometheus registry with HTTP and business collectors.
// It subscribes to the event bus to count orders, payments and cash movements.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	ordersPlaced   *prometheus.CounterVec
	orderAmount    *prometheus.HistogramVec
	orderStatus    *prometheus.CounterVec
	ordersPaid     *prometheus.CounterVec
	revenue        *prometheus.CounterVec
	registerEvents *prometheus.CounterVec
	cashMovements  *prometheus.CounterVec
	tenantEvents   *prometheus.CounterVec
}

// NewMetrics creates the collectors under namespace and registers them with Go and process collectors
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "http", Name: "inflight_requests",
			Help: "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "route"}),
		ordersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "orders", Name: "placed_total",
			Help: "Orders placed, by order type.",
		}, []string{"order_type"}),
		orderAmount: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "orders", Name: "total_amount",
			Help:    "Order totals at placement.",
			Buckets: prometheus.ExponentialBuckets(500, 2, 10),
		}, []string{"order_type"}),
		orderStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "orders", Name: "status_transitions_total",
			Help: "Order status transitions, by target status.",
		}, []string{"status"}),
		ordersPaid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "orders", Name: "paid_total",
			Help: "Orders marked as paid, by payment method.",
		}, []string{"payment_method"}),
		revenue: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "orders", Name: "revenue_total",
			Help: "Sum of paid order totals.",
		}, []string{"payment_method"}),
		registerEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cash", Name: "register_sessions_total",
			Help: "Cash register openings and closings.",
		}, []string{"event"}),
		cashMovements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cash", Name: "movements_total",
			Help: "Cash movements recorded, by type.",
		}, []string{"type"}),
		tenantEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "tenants", Name: "events_total",
			Help: "Tenant lifecycle events.",
		}, []string{"event"}),
	}

	m.registry.MustRegister(
		m.httpInFlight, m.httpRequests, m.httpDuration,
		m.ordersPlaced, m.orderAmount, m.orderStatus, m.ordersPaid, m.revenue,
		m.registerEvents, m.cashMovements, m.tenantEvents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// GinMiddleware records request count and latency per matched route
func (m *Metrics) GinMiddleware(skipPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == skipPath {
			c.Next()
			return
		}
		start := time.Now()
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handle implements shared.EventHandler
func (m *Metrics) Handle(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *trade.OrderPlacedEvent:
		m.ordersPlaced.WithLabelValues(string(e.OrderType)).Inc()
		m.orderAmount.WithLabelValues(string(e.OrderType)).Observe(e.Total.InexactFloat64())
	case *trade.OrderStatusChangedEvent:
		m.orderStatus.WithLabelValues(string(e.NewStatus)).Inc()
	case *trade.OrderPaidEvent:
		m.ordersPaid.WithLabelValues(string(e.PaymentMethod)).Inc()
		m.revenue.WithLabelValues(string(e.PaymentMethod)).Add(e.Total.InexactFloat64())
	case *finance.CashRegisterOpenedEvent:
		m.registerEvents.WithLabelValues("opened").Inc()
	case *finance.CashRegisterClosedEvent:
		m.registerEvents.WithLabelValues("closed").Inc()
	case *finance.CashMovementRecordedEvent:
		m.cashMovements.WithLabelValues(string(e.Type)).Inc()
	case *identity.TenantCreatedEvent:
		m.tenantEvents.WithLabelValues("created").Inc()
	case *identity.TenantPlanChangedEvent:
		m.tenantEvents.WithLabelValues("plan_changed").Inc()
	}
	return nil
}

// EventTypes implements shared.EventHandler
func (m *Metrics) EventTypes() []string {
	return []string{
		trade.EventTypeOrderPlaced,
		trade.EventTypeOrderStatusChanged,
		trade.EventTypeOrderPaid,
		finance.EventTypeCashRegisterOpened,
		finance.EventTypeCashRegisterClosed,
		finance.EventTypeCashMovementRecorded,
		identity.EventTypeTenantCreated,
		identity.EventTypeTenantPlanChanged,
	}
}
