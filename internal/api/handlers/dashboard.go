package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/a2s-soft/subtrack/internal/engine"
)

// GetDashboard assembles the overview: stats, alerts, the financial health
// analysis, and the recent-activity feed. ?from= and ?to= (RFC 3339) narrow
// subscriptions by start date and payments by payment date.
func (h *Handler) GetDashboard(c *gin.Context) {
	window, err := windowFromQuery(c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from/to date"})
		return
	}

	ctx := c.Request.Context()

	// The three entity sets are independent, fetch them concurrently
	var (
		wg      sync.WaitGroup
		snap    engine.Snapshot
		errOnce sync.Once
		loadErr error
	)

	fail := func(err error) {
		errOnce.Do(func() { loadErr = err })
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		clients, err := h.repo.GetClients(ctx)
		if err != nil {
			fail(err)
			return
		}
		snap.Clients = clients
	}()
	go func() {
		defer wg.Done()
		subs, err := h.repo.GetSubscriptions(ctx)
		if err != nil {
			fail(err)
			return
		}
		snap.Subscriptions = subs
	}()
	go func() {
		defer wg.Done()
		payments, err := h.repo.GetPayments(ctx)
		if err != nil {
			fail(err)
			return
		}
		snap.Payments = payments
	}()
	wg.Wait()

	if loadErr != nil {
		h.logger.Error("Failed to load dashboard snapshot", zap.Error(loadErr))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	dashboard := h.analyzer.BuildDashboard(snap, time.Now(), window)

	h.metrics.RecordHealthAnalysis(
		float64(dashboard.Analysis.Score),
		dashboard.Analysis.Revenue30d,
		dashboard.Analysis.LateRatePct,
		dashboard.Analysis.AtRiskClients,
	)

	c.JSON(http.StatusOK, dashboard)
}

// GetAnalysis returns the financial health analysis alone.
func (h *Handler) GetAnalysis(c *gin.Context) {
	ctx := c.Request.Context()

	payments, err := h.repo.GetPayments(ctx)
	if err != nil {
		h.logger.Error("Failed to load payments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	subs, err := h.repo.GetSubscriptions(ctx)
	if err != nil {
		h.logger.Error("Failed to load subscriptions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	clients, err := h.repo.GetClients(ctx)
	if err != nil {
		h.logger.Error("Failed to load clients", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	analysis := h.analyzer.Analyze(payments, subs, clients, time.Now())

	h.metrics.RecordHealthAnalysis(
		float64(analysis.Score),
		analysis.Revenue30d,
		analysis.LateRatePct,
		analysis.AtRiskClients,
	)

	c.JSON(http.StatusOK, analysis)
}

func windowFromQuery(fromStr, toStr string) (*engine.DateWindow, error) {
	if fromStr == "" && toStr == "" {
		return nil, nil
	}

	window := &engine.DateWindow{}
	if fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return nil, err
		}
		window.From = &from
	}
	if toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return nil, err
		}
		window.To = &to
	}
	return window, nil
}
