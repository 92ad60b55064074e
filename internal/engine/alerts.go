package engine

import (
	"sort"
	"time"

	"github.com/a2s-soft/subtrack/internal/core"
)

type AlertType string

const (
	AlertExpired   AlertType = "expired"
	AlertUrgent    AlertType = "urgent"
	AlertImportant AlertType = "important"
	AlertAttention AlertType = "attention"
)

type AlertPriority string

const (
	PriorityCritical AlertPriority = "critical"
	PriorityHigh     AlertPriority = "high"
	PriorityMedium   AlertPriority = "medium"
	PriorityLow      AlertPriority = "low"
)

var priorityRank = map[AlertPriority]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
}

// PriorityRank maps a priority to its sort rank, lower first. Unknown
// priorities sort last.
func PriorityRank(p AlertPriority) int {
	if rank, ok := priorityRank[p]; ok {
		return rank
	}
	return len(priorityRank)
}

// Alert is a derived, non-persisted flag on a subscription nearing or past
// its end date. It is recomputed from the snapshot on every call.
type Alert struct {
	Subscription  core.Subscription `json:"subscription"`
	Type          AlertType         `json:"type"`
	Priority      AlertPriority     `json:"priority"`
	DaysRemaining int               `json:"days_remaining"`
}

// AlertCounts is the per-priority breakdown shown above the alert list.
type AlertCounts struct {
	Total     int `json:"total"`
	Critical  int `json:"critical"`
	High      int `json:"high"`
	Medium    int `json:"medium"`
	Low       int `json:"low"`
}

// DaysRemaining counts calendar days between now and end, discarding the
// time of day on both sides. End of today is 0, yesterday is -1.
func DaysRemaining(end, now time.Time) int {
	ny, nm, nd := now.Date()
	ey, em, ed := end.Date()
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	last := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return int(last.Sub(today).Hours() / 24)
}

// Classify buckets one subscription by time to expiry. The second return is
// false when no alert applies: the subscription is not active, or more than
// 30 days remain.
func Classify(sub core.Subscription, now time.Time) (Alert, bool) {
	if sub.Status != core.SubscriptionActive {
		return Alert{}, false
	}

	days := DaysRemaining(sub.EndDate, now)

	var typ AlertType
	var priority AlertPriority
	switch {
	case days < 0:
		typ, priority = AlertExpired, PriorityCritical
	case days <= 7:
		typ, priority = AlertUrgent, PriorityHigh
	case days <= 15:
		typ, priority = AlertImportant, PriorityMedium
	case days <= 30:
		typ, priority = AlertAttention, PriorityLow
	default:
		return Alert{}, false
	}

	return Alert{
		Subscription:  sub,
		Type:          typ,
		Priority:      priority,
		DaysRemaining: days,
	}, true
}

// ClassifyAlerts classifies every active subscription and orders the result
// by priority, then by ascending days remaining. Equal keys keep input
// order.
func ClassifyAlerts(subs []core.Subscription, now time.Time) []Alert {
	alerts := []Alert{}
	for _, sub := range subs {
		if alert, ok := Classify(sub, now); ok {
			alerts = append(alerts, alert)
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if priorityRank[alerts[i].Priority] != priorityRank[alerts[j].Priority] {
			return priorityRank[alerts[i].Priority] < priorityRank[alerts[j].Priority]
		}
		return alerts[i].DaysRemaining < alerts[j].DaysRemaining
	})

	return alerts
}

// CountAlerts tallies alerts per priority.
func CountAlerts(alerts []Alert) AlertCounts {
	counts := AlertCounts{Total: len(alerts)}
	for _, a := range alerts {
		switch a.Priority {
		case PriorityCritical:
			counts.Critical++
		case PriorityHigh:
			counts.High++
		case PriorityMedium:
			counts.Medium++
		case PriorityLow:
			counts.Low++
		}
	}
	return counts
}
