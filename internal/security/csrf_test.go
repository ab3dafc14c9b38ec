package security

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func csrfHandler() http.Handler {
	return CSRF{}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCSRFBlocksCookieCheckoutWithoutToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "jwt"})
	rr := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCSRFAllowsMatchingTokenPair(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req.Header.Set("X-CSRF-Token", "pair-token")
	req.AddCookie(&http.Cookie{Name: "X-CSRF-Token", Value: "pair-token"})
	rr := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestCSRFRejectsMismatchedToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req.Header.Set("X-CSRF-Token", "expected")
	req.AddCookie(&http.Cookie{Name: "X-CSRF-Token", Value: "tampered"})
	rr := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCSRFSkipsBearerRequests(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req.Header.Set("Authorization", "Bearer abc.def")
	rr := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestCSRFSkipsReads(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/abc", nil)
	rr := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
}
