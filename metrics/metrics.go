package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "swapcore"

// Metrics counts the engine's remote interactions. All methods are nil-safe
// so instrumentation stays optional for library consumers.
type Metrics struct {
	pricesRequested prometheus.Counter
	quotesCreated   prometheus.Counter

	// if liquidity misses spike, the aggregator lost routes for a pair we
	// quote often; worth alerting on
	liquidityMisses *prometheus.CounterVec

	swapsSubmitted *prometheus.CounterVec
	waitTimeouts   prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		pricesRequested: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "prices_requested_total",
				Help:      "The number of price estimates requested from the aggregator",
			}),

		quotesCreated: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quotes_created_total",
				Help:      "The number of executable swap quotes created",
			}),

		liquidityMisses: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "liquidity_misses_total",
				Help:      "The number of responses reporting no liquidity, by operation",
			}, []string{"operation"}),

		swapsSubmitted: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "swaps_submitted_total",
				Help:      "The number of swaps submitted on-chain, by execution strategy",
			}, []string{"strategy"}),

		waitTimeouts: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wait_timeouts_total",
				Help:      "The number of user operation waits that hit the deadline",
			}),
	}
}

func (m *Metrics) IncPricesRequested() {
	if m == nil {
		return
	}
	m.pricesRequested.Inc()
}

func (m *Metrics) IncQuotesCreated() {
	if m == nil {
		return
	}
	m.quotesCreated.Inc()
}

func (m *Metrics) IncLiquidityMiss(operation string) {
	if m == nil {
		return
	}
	m.liquidityMisses.WithLabelValues(operation).Inc()
}

func (m *Metrics) IncSwapsSubmitted(strategy string) {
	if m == nil {
		return
	}
	m.swapsSubmitted.WithLabelValues(strategy).Inc()
}

func (m *Metrics) IncWaitTimeouts() {
	if m == nil {
		return
	}
	m.waitTimeouts.Inc()
}
