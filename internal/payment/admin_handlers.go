package payment

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-pledge/internal/common"
	"github.com/noah-isme/backend-pledge/internal/lock"
	"github.com/noah-isme/backend-pledge/internal/order"
)

// AdminHandler exposes the operator surface for the autodebit batch:
// triggering a run, retrying a single order, and the consistency report.
type AdminHandler struct {
	Batch   *AutodebitService
	Orders  order.Store
	Locks   lock.Locker
	LockTTL time.Duration
}

const batchLockKey = "autodebit:batch"

// RunBatch triggers one autodebit pass. A redis lock guarantees only
// one run executes at a time across all instances.
func (h *AdminHandler) RunBatch(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Batch == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "autodebit service unavailable", nil)
		return
	}
	ttl := h.LockTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	var summary Summary
	err := h.Locks.TryLock(r.Context(), batchLockKey, ttl, func(ctx context.Context) error {
		var runErr error
		summary, runErr = h.Batch.Run(ctx)
		return runErr
	})
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			common.JSONError(w, http.StatusConflict, "BATCH_RUNNING", "an autodebit batch is already running", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, summary)
}

// RetryOrder re-attempts the charge for one failed order.
func (h *AdminHandler) RetryOrder(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Batch == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "autodebit service unavailable", nil)
		return
	}
	id := chi.URLParam(r, "id")
	outcome, err := h.Batch.RetryOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
			return
		}
		common.JSONError(w, http.StatusConflict, "NOT_RETRYABLE", err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, outcome)
}

type consistencyReport struct {
	Scanned  int      `json:"scanned"`
	Warnings []string `json:"warnings"`
}

// ConsistencyReport scans paid orders for rows whose status never
// reached charged. The anomaly is reported, never auto-corrected.
func (h *AdminHandler) ConsistencyReport(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Orders == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order store unavailable", nil)
		return
	}
	limit := int32(500)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 32); err == nil && parsed > 0 && parsed <= 5000 {
			limit = int32(parsed)
		}
	}
	paid := true
	orders, err := h.Orders.List(r.Context(), order.ListFilter{Paid: &paid, Limit: limit})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}
	report := consistencyReport{Scanned: len(orders), Warnings: []string{}}
	for _, o := range orders {
		if msg, bad := o.ConsistencyIssue(); bad {
			report.Warnings = append(report.Warnings, msg)
		}
	}
	common.JSON(w, http.StatusOK, report)
}
