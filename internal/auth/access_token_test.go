package auth

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(Config{
		Secret:         "super-secret-key",
		AccessTokenTTL: time.Minute,
		Issuer:         "backend-pledge",
		Audience:       "pledge-storefront",
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	fixed := time.Now()
	svc.WithNow(func() time.Time { return fixed })
	return svc
}

func TestServiceParseAccessTokenSuccess(t *testing.T) {
	svc := newTestService(t)

	token, _, err := svc.IssueToken("42", false)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	claims, err := svc.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != "42" {
		t.Fatalf("unexpected subject: %s", claims.UserID)
	}
	if claims.Admin {
		t.Fatal("expected non-admin claims")
	}
}

func TestServiceIssueTokenCarriesAdminClaim(t *testing.T) {
	svc := newTestService(t)

	token, _, err := svc.IssueToken("1", true)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	claims, err := svc.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if !claims.Admin {
		t.Fatal("expected admin claims")
	}
}

func TestServiceParseAccessTokenRejectsAlgorithmMismatch(t *testing.T) {
	svc := newTestService(t)
	fixed := svc.now()

	built, err := jwt.NewBuilder().
		Subject("42").
		Issuer(svc.issuer).
		Audience([]string{svc.audience}).
		IssuedAt(fixed).
		NotBefore(fixed.Add(-svc.clockSkew)).
		Expiration(fixed.Add(svc.accessTTL)).
		Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	signed, err := jwt.Sign(built, jwt.WithKey(jwa.HS384, svc.secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := svc.ParseAccessToken(string(signed)); err == nil {
		t.Fatal("expected algorithm mismatch error")
	}
}

func TestServiceParseAccessTokenRejectsExpired(t *testing.T) {
	svc := newTestService(t)

	token, _, err := svc.IssueToken("42", false)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	svc.WithNow(func() time.Time { return time.Now().Add(2 * time.Minute) })
	if _, err := svc.ParseAccessToken(token); err == nil {
		t.Fatal("expected expiry error")
	}
}
