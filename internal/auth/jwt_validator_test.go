package auth

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/require"
)

func pledgeValidator() TokenValidator {
	return TokenValidator{
		Issuer:    "backend-pledge",
		Audience:  "pledge-storefront",
		ClockSkew: time.Second,
		Algorithm: jwa.HS256,
	}
}

func buildToken(t *testing.T, mutate func(*jwt.Builder)) jwt.Token {
	t.Helper()
	now := time.Now()
	builder := jwt.NewBuilder().
		Issuer("backend-pledge").
		Audience([]string{"pledge-storefront"}).
		Subject("7").
		IssuedAt(now).
		NotBefore(now).
		Expiration(now.Add(time.Minute))
	if mutate != nil {
		mutate(builder)
	}
	token, err := builder.Build()
	require.NoError(t, err)
	return token
}

func TestTokenValidatorAcceptsWellFormedToken(t *testing.T) {
	token := buildToken(t, nil)
	require.NoError(t, pledgeValidator().Validate(token, jwa.HS256, time.Now()))
}

func TestTokenValidatorRejectsForeignIssuer(t *testing.T) {
	token := buildToken(t, func(b *jwt.Builder) { b.Issuer("someone-else") })
	require.Error(t, pledgeValidator().Validate(token, jwa.HS256, time.Now()))
}

func TestTokenValidatorRejectsWrongAudience(t *testing.T) {
	token := buildToken(t, func(b *jwt.Builder) { b.Audience([]string{"other-app"}) })
	require.Error(t, pledgeValidator().Validate(token, jwa.HS256, time.Now()))
}

func TestTokenValidatorRejectsExpired(t *testing.T) {
	now := time.Now()
	token := buildToken(t, func(b *jwt.Builder) {
		b.IssuedAt(now.Add(-2 * time.Hour))
		b.NotBefore(now.Add(-2 * time.Hour))
		b.Expiration(now.Add(-time.Minute))
	})
	require.Error(t, pledgeValidator().Validate(token, jwa.HS256, now))
}

func TestTokenValidatorRejectsNotYetValid(t *testing.T) {
	now := time.Now()
	token := buildToken(t, func(b *jwt.Builder) {
		b.NotBefore(now.Add(5 * time.Minute))
		b.Expiration(now.Add(10 * time.Minute))
	})
	require.Error(t, pledgeValidator().Validate(token, jwa.HS256, now))
}

func TestTokenValidatorRejectsAlgorithmSwap(t *testing.T) {
	token := buildToken(t, nil)
	require.Error(t, pledgeValidator().Validate(token, jwa.RS256, time.Now()))
}
