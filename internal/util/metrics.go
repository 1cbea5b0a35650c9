package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pedidos_created_total",
		Help: "Total number of orders placed",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pedidos_failed_total",
		Help: "Total number of rejected order attempts",
	}, []string{"reason"})

	OrderStatusChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pedido_status_changes_total",
		Help: "Total number of order status transitions",
	}, []string{"to"})

	ReturnsRequestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "devoluciones_requested_total",
		Help: "Total number of return requests",
	})

	ReturnsResolvedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devoluciones_resolved_total",
		Help: "Total number of resolved returns",
	}, []string{"estado"})

	LotsRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lotes_registered_total",
		Help: "Total number of inventory lots registered",
	})

	LotUnitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lote_units_total",
		Help: "Total units added through lot registration",
	})

	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Total number of login attempts",
	}, []string{"result"})

	ReviewsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resenas_created_total",
		Help: "Total number of reviews submitted",
	})

	OrderPlacementLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pedido_placement_latency_seconds",
		Help:    "Latency of order placement including stock bookkeeping",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
