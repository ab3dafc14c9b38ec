package resilience

import "github.com/prometheus/client_golang/prometheus"

var (
	GatewayBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "payment_gateway_breaker_state",
			Help: "Breaker state per gateway target: 0=closed,1=open,2=half-open",
		},
		[]string{"target"},
	)
	GatewayBreakerTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_gateway_breaker_transition_total",
			Help: "Breaker state transitions per gateway target",
		},
		[]string{"target", "from", "to"},
	)
	GatewayBreakerOpened = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_gateway_breaker_open_total",
			Help: "Times the gateway breaker tripped open",
		},
		[]string{"target"},
	)
)

func init() {
	prometheus.MustRegister(GatewayBreakerState, GatewayBreakerTransitions, GatewayBreakerOpened)
}
