package engine

import (
	"testing"
	"time"

	"github.com/a2s-soft/subtrack/internal/core"
	"github.com/google/uuid"
)

var testNow = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func activeSub(end time.Time) core.Subscription {
	return core.Subscription{
		ID:        uuid.New(),
		ClientID:  uuid.New(),
		PlanName:  "erp",
		StartDate: end.AddDate(-1, 0, 0),
		EndDate:   end,
		Status:    core.SubscriptionActive,
	}
}

// TestClassifyBoundaries pins the bucket edges at 7, 15, and 30 days.
func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		days     int
		wantType AlertType
		wantPrio AlertPriority
		wantOK   bool
	}{
		{-5, AlertExpired, PriorityCritical, true},
		{-1, AlertExpired, PriorityCritical, true},
		{0, AlertUrgent, PriorityHigh, true},
		{7, AlertUrgent, PriorityHigh, true},
		{8, AlertImportant, PriorityMedium, true},
		{15, AlertImportant, PriorityMedium, true},
		{16, AlertAttention, PriorityLow, true},
		{30, AlertAttention, PriorityLow, true},
		{31, "", "", false},
	}

	for _, tc := range cases {
		sub := activeSub(testNow.AddDate(0, 0, tc.days))
		alert, ok := Classify(sub, testNow)
		if ok != tc.wantOK {
			t.Errorf("days=%d: expected ok=%v, got %v", tc.days, tc.wantOK, ok)
			continue
		}
		if !ok {
			continue
		}
		if alert.Type != tc.wantType {
			t.Errorf("days=%d: expected type %s, got %s", tc.days, tc.wantType, alert.Type)
		}
		if alert.Priority != tc.wantPrio {
			t.Errorf("days=%d: expected priority %s, got %s", tc.days, tc.wantPrio, alert.Priority)
		}
		if alert.DaysRemaining != tc.days {
			t.Errorf("days=%d: expected days_remaining %d, got %d", tc.days, tc.days, alert.DaysRemaining)
		}
	}
}

// TestClassifyIgnoresTimeOfDay checks that only the calendar date matters.
func TestClassifyIgnoresTimeOfDay(t *testing.T) {
	// Ends at 00:01 seven days from now; the 10:30 time of "now" must not
	// push it into the next bucket.
	end := time.Date(2025, 6, 22, 0, 1, 0, 0, time.UTC)
	alert, ok := Classify(activeSub(end), testNow)
	if !ok {
		t.Fatal("expected an alert")
	}
	if alert.DaysRemaining != 7 {
		t.Errorf("expected 7 days remaining, got %d", alert.DaysRemaining)
	}
	if alert.Type != AlertUrgent {
		t.Errorf("expected urgent, got %s", alert.Type)
	}
}

func TestInactiveSubscriptionsNeverAlert(t *testing.T) {
	for _, status := range []core.SubscriptionStatus{
		core.SubscriptionExpired,
		core.SubscriptionSuspended,
		core.SubscriptionCancelled,
	} {
		sub := activeSub(testNow.AddDate(0, 0, -10))
		sub.Status = status
		if _, ok := Classify(sub, testNow); ok {
			t.Errorf("status %s: expected no alert", status)
		}
	}
}

func TestExpiredSubscription(t *testing.T) {
	sub := activeSub(testNow.AddDate(0, 0, -5))
	alert, ok := Classify(sub, testNow)
	if !ok {
		t.Fatal("expected an alert")
	}
	if alert.Type != AlertExpired || alert.Priority != PriorityCritical {
		t.Errorf("expected expired/critical, got %s/%s", alert.Type, alert.Priority)
	}
	if alert.DaysRemaining != -5 {
		t.Errorf("expected -5 days remaining, got %d", alert.DaysRemaining)
	}
}

// TestAlertOrdering checks priority-major, days-minor ordering.
func TestAlertOrdering(t *testing.T) {
	subs := []core.Subscription{
		activeSub(testNow.AddDate(0, 0, 20)), // low
		activeSub(testNow.AddDate(0, 0, -5)), // critical, 5 days expired
		activeSub(testNow.AddDate(0, 0, 3)),  // high
		activeSub(testNow.AddDate(0, 0, -2)), // critical, 2 days expired
	}

	alerts := ClassifyAlerts(subs, testNow)
	if len(alerts) != 4 {
		t.Fatalf("expected 4 alerts, got %d", len(alerts))
	}

	wantDays := []int{-5, -2, 3, 20}
	wantPrios := []AlertPriority{PriorityCritical, PriorityCritical, PriorityHigh, PriorityLow}
	for i := range alerts {
		if alerts[i].Priority != wantPrios[i] {
			t.Errorf("position %d: expected priority %s, got %s", i, wantPrios[i], alerts[i].Priority)
		}
		if alerts[i].DaysRemaining != wantDays[i] {
			t.Errorf("position %d: expected %d days, got %d", i, wantDays[i], alerts[i].DaysRemaining)
		}
	}
}

// TestAlertOrderingStable verifies equal keys keep input order.
func TestAlertOrderingStable(t *testing.T) {
	first := activeSub(testNow.AddDate(0, 0, 3))
	second := activeSub(testNow.AddDate(0, 0, 3))
	alerts := ClassifyAlerts([]core.Subscription{first, second}, testNow)
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	if alerts[0].Subscription.ID != first.ID || alerts[1].Subscription.ID != second.ID {
		t.Error("equal-key alerts did not preserve input order")
	}
}

func TestCountAlerts(t *testing.T) {
	subs := []core.Subscription{
		activeSub(testNow.AddDate(0, 0, -1)),
		activeSub(testNow.AddDate(0, 0, 2)),
		activeSub(testNow.AddDate(0, 0, 10)),
		activeSub(testNow.AddDate(0, 0, 25)),
		activeSub(testNow.AddDate(0, 0, 25)),
	}
	counts := CountAlerts(ClassifyAlerts(subs, testNow))
	if counts.Total != 5 || counts.Critical != 1 || counts.High != 1 || counts.Medium != 1 || counts.Low != 2 {
		t.Errorf("unexpected counts: %+v", counts)
	}
}
