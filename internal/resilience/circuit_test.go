package resilience_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-pledge/internal/resilience"
)

func TestBreakerTripsAndRecovers(t *testing.T) {
	breaker := resilience.NewBreaker(2, 0.5, 50*time.Millisecond).WithTarget("stripe")
	ctx := context.Background()

	require.True(t, breaker.Allow(ctx))
	breaker.Report(ctx, false)
	require.True(t, breaker.Allow(ctx))
	breaker.Report(ctx, false)

	require.False(t, breaker.Allow(ctx), "two straight gateway failures should trip the breaker")

	time.Sleep(60 * time.Millisecond)
	require.True(t, breaker.Allow(ctx), "cool-off elapsed, a probe should be admitted")
	breaker.Report(ctx, true)
	require.True(t, breaker.Allow(ctx), "successful probe should close the breaker")
}

func TestBreakerReopensOnFailedProbe(t *testing.T) {
	breaker := resilience.NewBreaker(1, 0.5, 30*time.Millisecond).WithTarget("stripe")
	ctx := context.Background()

	breaker.Report(ctx, false)
	require.False(t, breaker.Allow(ctx))

	time.Sleep(40 * time.Millisecond)
	require.True(t, breaker.Allow(ctx))
	breaker.Report(ctx, false)

	require.False(t, breaker.Allow(ctx), "failed probe should reopen immediately")
}

func TestBreakerStaysClosedUnderMixedOutcomes(t *testing.T) {
	breaker := resilience.NewBreaker(4, 0.75, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		breaker.Report(ctx, true)
	}
	breaker.Report(ctx, false)

	require.True(t, breaker.Allow(ctx), "a quarter of calls failing stays under the threshold")
}
