package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/a2s-soft/subtrack/internal/core"
	"github.com/google/uuid"
)

// Snapshot is the full in-memory entity set fetched once and passed into the
// engine for one computation pass. The engine never mutates it.
type Snapshot struct {
	Clients       []core.Client
	Subscriptions []core.Subscription
	Payments      []core.Payment
}

// DateWindow bounds dashboard stats by subscription start date and payment
// date. Nil bounds are unbounded; both bounds are inclusive.
type DateWindow struct {
	From *time.Time
	To   *time.Time
}

func (w *DateWindow) contains(t time.Time) bool {
	if w == nil {
		return true
	}
	if w.From != nil && t.Before(*w.From) {
		return false
	}
	if w.To != nil && t.After(*w.To) {
		return false
	}
	return true
}

type Stats struct {
	TotalClients        int     `json:"total_clients"`
	ActiveSubscriptions int     `json:"active_subscriptions"`
	Revenue             float64 `json:"revenue"`
	Alerts              int     `json:"alerts"`
}

type Activity struct {
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Dashboard is the aggregated read model behind the overview screen.
type Dashboard struct {
	Stats            Stats      `json:"stats"`
	Alerts           []Alert    `json:"alerts"`
	Analysis         Analysis   `json:"analysis"`
	RecentActivities []Activity `json:"recent_activities"`
}

const recentActivityLimit = 6

// BuildDashboard composes the alert classifier, the health analyzer, and the
// recent-activity ranking over one snapshot. The window, when set, narrows
// subscriptions by start date and payments by payment date; the client count
// is never windowed.
func (a *Analyzer) BuildDashboard(snap Snapshot, now time.Time, window *DateWindow) Dashboard {
	subs := snap.Subscriptions
	payments := snap.Payments
	if window != nil {
		subs = filterSubscriptions(subs, window)
		payments = filterPayments(payments, window)
	}

	activeSubs := 0
	for _, s := range subs {
		if s.Status == core.SubscriptionActive {
			activeSubs++
		}
	}

	var revenue float64
	for _, p := range payments {
		if p.Status == core.PaymentValid {
			revenue += a.amount(p.Amount, "payment", p.ID.String())
		}
	}

	alerts := ClassifyAlerts(subs, now)

	return Dashboard{
		Stats: Stats{
			TotalClients:        len(snap.Clients),
			ActiveSubscriptions: activeSubs,
			Revenue:             revenue,
			Alerts:              len(alerts),
		},
		Alerts:           alerts,
		Analysis:         a.Analyze(payments, subs, snap.Clients, now),
		RecentActivities: recentActivities(snap.Clients, subs, payments, now),
	}
}

func filterSubscriptions(subs []core.Subscription, window *DateWindow) []core.Subscription {
	out := make([]core.Subscription, 0, len(subs))
	for _, s := range subs {
		if window.contains(s.StartDate) {
			out = append(out, s)
		}
	}
	return out
}

func filterPayments(payments []core.Payment, window *DateWindow) []core.Payment {
	out := make([]core.Payment, 0, len(payments))
	for _, p := range payments {
		if window.contains(p.PaidAt) {
			out = append(out, p)
		}
	}
	return out
}

// recentActivities merges the 2 newest clients, subscriptions, and payments
// into one feed. Ordering is two buckets: entries younger than a day first,
// older entries after, stable within each bucket. The buckets are decided
// from elapsed time rather than from formatted age strings, which the
// previous implementation compared and which broke under localization.
func recentActivities(clients []core.Client, subs []core.Subscription, payments []core.Payment, now time.Time) []Activity {
	clientName := make(map[uuid.UUID]string, len(clients))
	for _, c := range clients {
		clientName[c.ID] = c.FullName()
	}
	subClient := make(map[uuid.UUID]uuid.UUID, len(subs))
	for _, s := range subs {
		subClient[s.ID] = s.ClientID
	}

	activities := []Activity{}

	for _, c := range newestClients(clients, 2) {
		activities = append(activities, Activity{
			Type:        "client",
			Title:       "New client added",
			Description: c.FullName(),
			OccurredAt:  c.CreatedAt,
		})
	}

	for _, s := range newestSubscriptions(subs, 2) {
		desc := s.PlanName
		if name, ok := clientName[s.ClientID]; ok {
			desc = name + " - " + s.PlanName
		}
		activities = append(activities, Activity{
			Type:        "subscription",
			Title:       "Subscription created",
			Description: desc,
			OccurredAt:  s.CreatedAt,
		})
	}

	for _, p := range newestPayments(payments, 2) {
		desc := fmt.Sprintf("%.0f", p.Amount)
		if clientID, ok := subClient[p.SubscriptionID]; ok {
			if name, ok := clientName[clientID]; ok {
				desc = fmt.Sprintf("%s - %.0f", name, p.Amount)
			}
		}
		activities = append(activities, Activity{
			Type:        "payment",
			Title:       "Payment received",
			Description: desc,
			OccurredAt:  p.PaidAt,
		})
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return recencyBucket(activities[i].OccurredAt, now) < recencyBucket(activities[j].OccurredAt, now)
	})

	if len(activities) > recentActivityLimit {
		activities = activities[:recentActivityLimit]
	}
	return activities
}

func recencyBucket(t, now time.Time) int {
	if now.Sub(t) < 24*time.Hour {
		return 0
	}
	return 1
}

func newestClients(clients []core.Client, n int) []core.Client {
	sorted := append([]core.Client{}, clients...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func newestSubscriptions(subs []core.Subscription, n int) []core.Subscription {
	sorted := append([]core.Subscription{}, subs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func newestPayments(payments []core.Payment, n int) []core.Payment {
	sorted := append([]core.Payment{}, payments...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PaidAt.After(sorted[j].PaidAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
