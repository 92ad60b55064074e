package handlers

import (
	"go.uber.org/zap"

	"github.com/a2s-soft/subtrack/internal/authz"
	"github.com/a2s-soft/subtrack/internal/engine"
	"github.com/a2s-soft/subtrack/internal/metrics"
	"github.com/a2s-soft/subtrack/internal/store/postgres"
)

type Handler struct {
	repo     *postgres.Repository
	metrics  *metrics.Collector
	analyzer *engine.Analyzer
	policy   authz.Policy
	logger   *zap.Logger
}

func NewHandler(repo *postgres.Repository, collector *metrics.Collector, analyzer *engine.Analyzer, logger *zap.Logger) *Handler {
	return &Handler{
		repo:     repo,
		metrics:  collector,
		analyzer: analyzer,
		policy:   authz.NewPolicy(),
		logger:   logger,
	}
}
