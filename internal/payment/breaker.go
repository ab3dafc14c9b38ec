package payment

import (
	"context"
	"errors"

	"github.com/noah-isme/backend-pledge/internal/resilience"
)

// BreakerGateway guards a Gateway with a circuit breaker. A declined
// card is a healthy gateway conversation; only transport-level failures
// count against the breaker.
type BreakerGateway struct {
	Next    Gateway
	Breaker *resilience.Breaker
}

func (g BreakerGateway) ChargeOffSession(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	if g.Next == nil {
		return ChargeResult{}, errors.New("payment gateway is not configured")
	}
	if g.Breaker == nil {
		return g.Next.ChargeOffSession(ctx, req)
	}
	if !g.Breaker.Allow(ctx) {
		return ChargeResult{}, resilience.ErrOpenCircuit
	}
	result, err := g.Next.ChargeOffSession(ctx, req)
	var ce *ChargeError
	g.Breaker.Report(ctx, err == nil || errors.As(err, &ce))
	return result, err
}
