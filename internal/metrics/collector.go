package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Collector struct {
	httpRequestDuration *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec

	alertsByPriority *prometheus.GaugeVec
	expiringSoon     prometheus.Gauge

	healthScore  prometheus.Gauge
	revenue30d   prometheus.Gauge
	lateRate     prometheus.Gauge
	atRiskCount  prometheus.Gauge

	remindersSent    *prometheus.CounterVec
	remindersSkipped prometheus.Counter
	reminderQueue    prometheus.Gauge
	scanDuration     prometheus.Histogram
}

func NewCollector() *Collector {
	return &Collector{
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "subtrack_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method", "path", "status"},
		),

		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subtrack_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		alertsByPriority: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "subtrack_renewal_alerts",
				Help: "Number of renewal alerts by priority",
			},
			[]string{"priority"},
		),

		expiringSoon: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "subtrack_subscriptions_expiring_30d",
				Help: "Active subscriptions expiring within 30 days",
			},
		),

		healthScore: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "subtrack_financial_health_score",
				Help: "Financial health score (0-100)",
			},
		),

		revenue30d: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "subtrack_revenue_30d",
				Help: "Valid payment revenue over the last 30 days",
			},
		),

		lateRate: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "subtrack_late_payment_rate",
				Help: "Share of payments pending or cancelled, in percent",
			},
		),

		atRiskCount: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "subtrack_at_risk_clients",
				Help: "Active subscriptions expiring within 15 days",
			},
		),

		remindersSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subtrack_reminders_sent_total",
				Help: "Total number of renewal reminders recorded",
			},
			[]string{"alert_type", "priority"},
		),

		remindersSkipped: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "subtrack_reminders_skipped_total",
				Help: "Reminders skipped by the dedup window",
			},
		),

		reminderQueue: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "subtrack_reminder_queue_size",
				Help: "Current size of the reminder queue",
			},
		),

		scanDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "subtrack_reminder_scan_duration_seconds",
				Help:    "Duration of reminder scan cycles in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),
	}
}

func (c *Collector) RecordHTTPRequest(method, path, status string, durationSeconds float64) {
	labels := prometheus.Labels{"method": method, "path": path, "status": status}
	c.httpRequestDuration.With(labels).Observe(durationSeconds)
	c.httpRequestsTotal.With(labels).Inc()
}

// RecordAlertCounts publishes the current alert breakdown. Missing
// priorities are reset to zero so stale values never linger.
func (c *Collector) RecordAlertCounts(counts map[string]int, total int) {
	for _, priority := range []string{"critical", "high", "medium", "low"} {
		c.alertsByPriority.With(prometheus.Labels{"priority": priority}).Set(float64(counts[priority]))
	}
	c.expiringSoon.Set(float64(total))
}

func (c *Collector) RecordHealthAnalysis(score float64, revenue30d, lateRatePct float64, atRisk int) {
	c.healthScore.Set(score)
	c.revenue30d.Set(revenue30d)
	c.lateRate.Set(lateRatePct)
	c.atRiskCount.Set(float64(atRisk))
}

func (c *Collector) RecordReminderSent(alertType, priority string) {
	c.remindersSent.With(prometheus.Labels{"alert_type": alertType, "priority": priority}).Inc()
}

func (c *Collector) RecordReminderSkipped() {
	c.remindersSkipped.Inc()
}

func (c *Collector) RecordQueueSize(size int64) {
	c.reminderQueue.Set(float64(size))
}

func (c *Collector) RecordScanDuration(seconds float64) {
	c.scanDuration.Observe(seconds)
}
