package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatclient_http_requests_total",
			Help: "Total number of HTTP requests handled by the gateway.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatclient_http_request_duration_seconds",
			Help:    "Gateway HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	serviceCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatclient_service_calls_total",
			Help: "Total number of room-service calls by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)
	feedEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatclient_feed_events_total",
			Help: "Total number of push-feed events received.",
		},
		[]string{"kind"},
	)
	feedReconnectsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chatclient_feed_reconnects_total",
			Help: "Total number of push-feed reconnect attempts.",
		},
	)
	roomsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatclient_rooms",
			Help: "Number of rooms in the published room list.",
		},
	)
	reconcileRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chatclient_reconcile_runs_total",
			Help: "Total number of room-list reconciliation passes.",
		},
	)
	reconcileLeaveFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chatclient_reconcile_leave_failures_total",
			Help: "Total number of failed orphaned-room leave attempts.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		serviceCallsTotal,
		feedEventsTotal,
		feedReconnectsTotal,
		roomsGauge,
		reconcileRunsTotal,
		reconcileLeaveFailuresTotal,
	)
}

// HTTPMetricsMiddleware records request counts and latencies per route.
func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// ObserveServiceCall records the outcome of one room-service call.
func ObserveServiceCall(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	serviceCallsTotal.WithLabelValues(op, outcome).Inc()
}

func IncFeedEvent(kind string) {
	feedEventsTotal.WithLabelValues(kind).Inc()
}

func IncFeedReconnect() {
	feedReconnectsTotal.Inc()
}

func SetRoomCount(n int) {
	roomsGauge.Set(float64(n))
}

func IncReconcileRun() {
	reconcileRunsTotal.Inc()
}

func IncReconcileLeaveFailure() {
	reconcileLeaveFailuresTotal.Inc()
}
