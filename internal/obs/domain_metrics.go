package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CheckoutTotal counts checkout outcomes by payment strategy.
	CheckoutTotal *prometheus.CounterVec
	// PriceMismatchTotal counts rejected checkouts where the client total
	// disagreed with the server computation.
	PriceMismatchTotal prometheus.Counter
	// ChargeTotal counts off-session charge attempts by trigger and result.
	ChargeTotal *prometheus.CounterVec
	// ChargeLatency records gateway charge latency in milliseconds.
	ChargeLatency *prometheus.HistogramVec
	// AutodebitBatchOrders tracks per-run batch sizes by result.
	AutodebitBatchOrders *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Count of checkout outcomes by order type, user type and result.",
		}, []string{"order_type", "user_type", "result"})
		PriceMismatchTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_price_mismatch_total",
			Help:      "Count of checkouts rejected for a client/server total mismatch.",
		})
		ChargeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charge_total",
			Help:      "Count of off-session charge attempts by trigger and result.",
		}, []string{"trigger", "result"})
		ChargeLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "charge_duration_ms",
			Help:      "Latency for gateway charge attempts in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"result"})
		AutodebitBatchOrders = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "autodebit_batch_orders_total",
			Help:      "Orders processed by the autodebit batch by result.",
		}, []string{"result"})

		mustRegisterCollector(reg, CheckoutTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CheckoutTotal = v
			}
		})
		mustRegisterCollector(reg, PriceMismatchTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				PriceMismatchTotal = v
			}
		})
		mustRegisterCollector(reg, ChargeTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ChargeTotal = v
			}
		})
		mustRegisterCollector(reg, ChargeLatency, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				ChargeLatency = v
			}
		})
		mustRegisterCollector(reg, AutodebitBatchOrders, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				AutodebitBatchOrders = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register metric: %w", err))
	}
}
