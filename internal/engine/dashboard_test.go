package engine

import (
	"testing"
	"time"

	"github.com/a2s-soft/subtrack/internal/core"
	"github.com/google/uuid"
)

func TestBuildDashboardEmptySnapshot(t *testing.T) {
	d := NewAnalyzer(nil).BuildDashboard(Snapshot{}, testNow, nil)

	if d.Stats != (Stats{}) {
		t.Errorf("expected all-zero stats, got %+v", d.Stats)
	}
	if d.Analysis.Score != 0 {
		t.Errorf("expected score 0, got %d", d.Analysis.Score)
	}
	if len(d.Analysis.Insights) != 1 || d.Analysis.Insights[0] != NoDataInsight {
		t.Errorf("expected single no-data insight, got %v", d.Analysis.Insights)
	}
	if len(d.Analysis.Recommendations) != 0 {
		t.Error("expected no recommendations")
	}
	if len(d.RecentActivities) != 0 {
		t.Error("expected no activities")
	}
}

func TestBuildDashboardStats(t *testing.T) {
	clients := []core.Client{
		{ID: uuid.New(), CreatedAt: testNow.AddDate(0, 0, -100)},
		{ID: uuid.New(), CreatedAt: testNow.AddDate(0, 0, -100)},
	}
	subs := []core.Subscription{
		activeSub(testNow.AddDate(0, 0, 60)), // active, no alert
		activeSub(testNow.AddDate(0, 0, 10)), // active, alerting
	}
	cancelled := activeSub(testNow.AddDate(0, 0, 10))
	cancelled.Status = core.SubscriptionCancelled
	subs = append(subs, cancelled)

	payments := []core.Payment{
		validPayment(1000, testNow.AddDate(0, 0, -2), core.MethodTransfer),
	}
	refunded := validPayment(500, testNow.AddDate(0, 0, -2), core.MethodTransfer)
	refunded.Status = core.PaymentRefunded
	payments = append(payments, refunded)

	d := NewAnalyzer(nil).BuildDashboard(Snapshot{
		Clients:       clients,
		Subscriptions: subs,
		Payments:      payments,
	}, testNow, nil)

	if d.Stats.TotalClients != 2 {
		t.Errorf("expected 2 clients, got %d", d.Stats.TotalClients)
	}
	if d.Stats.ActiveSubscriptions != 2 {
		t.Errorf("expected 2 active subscriptions, got %d", d.Stats.ActiveSubscriptions)
	}
	if d.Stats.Revenue != 1000 {
		t.Errorf("expected revenue 1000, got %f", d.Stats.Revenue)
	}
	if d.Stats.Alerts != 1 {
		t.Errorf("expected 1 alert, got %d", d.Stats.Alerts)
	}
}

func TestBuildDashboardDateWindow(t *testing.T) {
	from := testNow.AddDate(0, 0, -7)
	inWindow := activeSub(testNow.AddDate(0, 0, 60))
	inWindow.StartDate = testNow.AddDate(0, 0, -3)
	outOfWindow := activeSub(testNow.AddDate(0, 0, 60))
	outOfWindow.StartDate = testNow.AddDate(0, 0, -30)

	payments := []core.Payment{
		validPayment(100, testNow.AddDate(0, 0, -3), core.MethodTransfer),
		validPayment(900, testNow.AddDate(0, 0, -20), core.MethodTransfer),
	}

	d := NewAnalyzer(nil).BuildDashboard(Snapshot{
		Clients:       []core.Client{{ID: uuid.New()}},
		Subscriptions: []core.Subscription{inWindow, outOfWindow},
		Payments:      payments,
	}, testNow, &DateWindow{From: &from})

	if d.Stats.ActiveSubscriptions != 1 {
		t.Errorf("expected 1 subscription in window, got %d", d.Stats.ActiveSubscriptions)
	}
	if d.Stats.Revenue != 100 {
		t.Errorf("expected windowed revenue 100, got %f", d.Stats.Revenue)
	}
	// Client count is never windowed.
	if d.Stats.TotalClients != 1 {
		t.Errorf("expected 1 client, got %d", d.Stats.TotalClients)
	}
}

func TestDateWindowInclusiveBounds(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	w := &DateWindow{From: &from, To: &to}

	if !w.contains(from) || !w.contains(to) {
		t.Error("window bounds must be inclusive")
	}
	if w.contains(from.Add(-time.Second)) || w.contains(to.Add(time.Second)) {
		t.Error("window must exclude values outside the bounds")
	}

	half := &DateWindow{From: &from}
	if !half.contains(to.AddDate(10, 0, 0)) {
		t.Error("missing bound must be unbounded")
	}
}

func TestRecentActivitiesFeed(t *testing.T) {
	client := core.Client{
		ID:        uuid.New(),
		FirstName: "Amine",
		LastName:  "Benali",
		CreatedAt: testNow.Add(-2 * time.Hour),
	}
	oldClient := core.Client{
		ID:        uuid.New(),
		FirstName: "Karim",
		LastName:  "Cherif",
		CreatedAt: testNow.AddDate(0, 0, -40),
	}

	sub := activeSub(testNow.AddDate(0, 0, 60))
	sub.ClientID = client.ID
	sub.CreatedAt = testNow.AddDate(0, 0, -3)

	payment := validPayment(5000, testNow.Add(-30*time.Minute), core.MethodTransfer)
	payment.SubscriptionID = sub.ID

	d := NewAnalyzer(nil).BuildDashboard(Snapshot{
		Clients:       []core.Client{client, oldClient},
		Subscriptions: []core.Subscription{sub},
		Payments:      []core.Payment{payment},
	}, testNow, nil)

	if len(d.RecentActivities) != 4 {
		t.Fatalf("expected 4 activities, got %d", len(d.RecentActivities))
	}

	// Sub-day entries come first: the 2h-old client and the 30min-old
	// payment, in their merge order (clients before payments).
	if d.RecentActivities[0].Type != "client" || d.RecentActivities[1].Type != "payment" {
		t.Errorf("expected recent client then payment first, got %s then %s",
			d.RecentActivities[0].Type, d.RecentActivities[1].Type)
	}
	for _, act := range d.RecentActivities[2:] {
		if testNow.Sub(act.OccurredAt) < 24*time.Hour {
			t.Errorf("old bucket contains a sub-day entry: %+v", act)
		}
	}

	if d.RecentActivities[1].Description != "Benali Amine - 5000" {
		t.Errorf("unexpected payment description: %q", d.RecentActivities[1].Description)
	}
}

func TestRecentActivitiesTruncatedToSix(t *testing.T) {
	var clients []core.Client
	var subs []core.Subscription
	var payments []core.Payment
	for i := 0; i < 5; i++ {
		clients = append(clients, core.Client{ID: uuid.New(), CreatedAt: testNow.Add(-time.Duration(i) * time.Hour)})
		s := activeSub(testNow.AddDate(0, 0, 60))
		s.CreatedAt = testNow.Add(-time.Duration(i) * time.Hour)
		subs = append(subs, s)
		payments = append(payments, validPayment(10, testNow.Add(-time.Duration(i)*time.Hour), core.MethodCash))
	}

	d := NewAnalyzer(nil).BuildDashboard(Snapshot{
		Clients:       clients,
		Subscriptions: subs,
		Payments:      payments,
	}, testNow, nil)

	if len(d.RecentActivities) != 6 {
		t.Errorf("expected feed truncated to 6, got %d", len(d.RecentActivities))
	}
}
