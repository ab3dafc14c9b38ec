package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Stripe implements Gateway against the payment intents API using a
// stored customer and payment method, confirmed off-session.
type Stripe struct {
	SecretKey string
	BaseURL   string
	Client    *http.Client
}

const stripeDefaultBaseURL = "https://api.stripe.com"

func (s Stripe) ChargeOffSession(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	if strings.TrimSpace(s.SecretKey) == "" {
		return ChargeResult{}, errors.New("payment gateway is not configured")
	}
	if req.CustomerID == "" || req.PaymentMethodID == "" {
		return ChargeResult{}, errors.New("order has no stored payment method")
	}
	if req.Amount <= 0 {
		return ChargeResult{}, fmt.Errorf("invalid charge amount %d", req.Amount)
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.Amount, 10))
	form.Set("currency", strings.ToLower(req.Currency))
	form.Set("customer", req.CustomerID)
	form.Set("payment_method", req.PaymentMethodID)
	form.Set("off_session", "true")
	form.Set("confirm", "true")
	if req.Description != "" {
		form.Set("description", req.Description)
	}
	if req.OrderID != "" {
		form.Set("metadata[order_id]", req.OrderID)
	}

	base := strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	if base == "" {
		base = stripeDefaultBaseURL
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return ChargeResult{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.SecretKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if req.OrderID != "" {
		httpReq.Header.Set("Idempotency-Key", "charge-"+req.OrderID)
	}

	client := s.Client
	if client == nil {
		client = &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return ChargeResult{}, fmt.Errorf("payment intent request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ChargeResult{}, fmt.Errorf("read payment intent response: %w", err)
	}

	var payload struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Error  *struct {
			Code        string `json:"code"`
			DeclineCode string `json:"decline_code"`
			Message     string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ChargeResult{}, fmt.Errorf("decode payment intent response: %w", err)
	}

	if payload.Error != nil {
		code := payload.Error.DeclineCode
		if code == "" {
			code = payload.Error.Code
		}
		if code == "" {
			code = "gateway_error"
		}
		return ChargeResult{}, &ChargeError{Code: code, Message: payload.Error.Message}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ChargeResult{}, &ChargeError{Code: "gateway_error", Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}
	if payload.Status != "succeeded" {
		return ChargeResult{}, &ChargeError{Code: payload.Status, Message: "payment intent did not succeed"}
	}
	return ChargeResult{TransactionID: payload.ID}, nil
}
