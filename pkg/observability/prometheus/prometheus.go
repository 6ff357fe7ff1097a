// Package prometheus implements the observability hooks with Prometheus
// collectors.
//
//	m := prometheus.New(prom.DefaultRegisterer)
//	m.Install()
//
// Install registers m for every hook category. The collectors are exposed by
// the serve command on /metrics.
package prometheus

import (
	"context"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/kruskalviz/pkg/observability"
)

const namespace = "kruskalviz"

const (
	labelResult  = "result"
	labelBackend = "backend"
	labelOp      = "op"
	labelKeyType = "key_type"
	labelMethod  = "method"
	labelRoute   = "route"
	labelCode    = "code"
)

// Metrics holds every collector. It implements all hook interfaces.
type Metrics struct {
	runsStarted   prom.Counter
	runsFinished  prom.Counter
	runsStopped   prom.Counter
	decisions     *prom.CounterVec
	runDuration   prom.Histogram
	mstWeight     prom.Gauge
	storeOps      *prom.CounterVec
	storeDuration *prom.HistogramVec
	cacheRequests *prom.CounterVec
	cacheBytes    *prom.CounterVec
	httpRequests  *prom.CounterVec
	httpDuration  *prom.HistogramVec
	httpInFlight  prom.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prom.Registerer) *Metrics {
	m := &Metrics{
		runsStarted: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "runs_started_total",
			Help:      "Number of algorithm runs started.",
		}),
		runsFinished: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "runs_finished_total",
			Help:      "Number of runs that processed every edge.",
		}),
		runsStopped: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "runs_stopped_total",
			Help:      "Number of runs stopped or cancelled before finishing.",
		}),
		decisions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "edge_decisions_total",
			Help:      "Edges decided, by outcome.",
		}, []string{labelResult}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time from start to finish of completed runs.",
			Buckets:   prom.ExponentialBuckets(0.1, 2, 12),
		}),
		mstWeight: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_mst_weight",
			Help:      "Total weight of the most recently finished spanning forest.",
		}),
		storeOps: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Named graph store operations, by backend, operation and outcome.",
		}, []string{labelBackend, labelOp, labelResult}),
		storeDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Latency of named graph store operations.",
			Buckets:   prom.DefBuckets,
		}, []string{labelBackend, labelOp}),
		cacheRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Render cache lookups, by key type and outcome.",
		}, []string{labelKeyType, labelResult}),
		cacheBytes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the render cache.",
		}, []string{labelKeyType}),
		httpRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route and status code.",
		}, []string{labelMethod, labelRoute, labelCode}),
		httpDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prom.DefBuckets,
		}, []string{labelMethod, labelRoute}),
		httpInFlight: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),
	}
	reg.MustRegister(
		m.runsStarted,
		m.runsFinished,
		m.runsStopped,
		m.decisions,
		m.runDuration,
		m.mstWeight,
		m.storeOps,
		m.storeDuration,
		m.cacheRequests,
		m.cacheBytes,
		m.httpRequests,
		m.httpDuration,
		m.httpInFlight,
	)
	return m
}

// Install registers m as the global engine, store, cache and HTTP hooks.
func (m *Metrics) Install() {
	observability.SetEngineHooks(m)
	observability.SetStoreHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// =============================================================================
// Engine
// =============================================================================

func (m *Metrics) OnRunStart(context.Context, string, int, int) {
	m.runsStarted.Inc()
}

func (m *Metrics) OnEdgeDecision(_ context.Context, _ string, accepted bool) {
	if accepted {
		m.decisions.WithLabelValues("accepted").Inc()
	} else {
		m.decisions.WithLabelValues("rejected").Inc()
	}
}

func (m *Metrics) OnRunFinish(_ context.Context, _ string, _ int, totalWeight float64, d time.Duration) {
	m.runsFinished.Inc()
	m.runDuration.Observe(d.Seconds())
	m.mstWeight.Set(totalWeight)
}

func (m *Metrics) OnRunStop(context.Context, string, int) {
	m.runsStopped.Inc()
}

// =============================================================================
// Store
// =============================================================================

func (m *Metrics) OnSave(_ context.Context, backend, _ string, d time.Duration, err error) {
	m.observeStore(backend, "save", d, err)
}

func (m *Metrics) OnLoad(_ context.Context, backend, _ string, d time.Duration, err error) {
	m.observeStore(backend, "load", d, err)
}

func (m *Metrics) observeStore(backend, op string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeOps.WithLabelValues(backend, op, result).Inc()
	m.storeDuration.WithLabelValues(backend, op).Observe(d.Seconds())
}

// =============================================================================
// Cache
// =============================================================================

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// =============================================================================
// HTTP
// =============================================================================

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.httpInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpInFlight.Dec()
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.EngineHooks = (*Metrics)(nil)
	_ observability.StoreHooks  = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)
