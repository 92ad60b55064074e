package engine

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/a2s-soft/subtrack/internal/core"
	"github.com/google/uuid"
)

func validPayment(amount float64, paidAt time.Time, method core.PaymentMethod) core.Payment {
	return core.Payment{
		ID:             uuid.New(),
		SubscriptionID: uuid.New(),
		Amount:         amount,
		PaidAt:         paidAt,
		Method:         method,
		Status:         core.PaymentValid,
	}
}

func TestAnalyzeNoPayments(t *testing.T) {
	a := NewAnalyzer(nil)
	res := a.Analyze(nil, nil, nil, testNow)

	if res.Score != 0 {
		t.Errorf("expected score 0, got %d", res.Score)
	}
	if res.Trend != TrendNeutral {
		t.Errorf("expected neutral trend, got %s", res.Trend)
	}
	if len(res.Insights) != 1 || res.Insights[0] != NoDataInsight {
		t.Errorf("expected single no-data insight, got %v", res.Insights)
	}
	if len(res.Predictions) != 0 || len(res.Recommendations) != 0 {
		t.Error("expected empty predictions and recommendations")
	}
}

// TestAnalyzeSinglePayment is the reference scenario: one valid payment of
// 100000 ten days ago, one active subscription, one client.
func TestAnalyzeSinglePayment(t *testing.T) {
	payments := []core.Payment{
		validPayment(100000, testNow.AddDate(0, 0, -10), core.MethodTransfer),
	}
	subs := []core.Subscription{activeSub(testNow.AddDate(0, 0, 100))}
	clients := []core.Client{{ID: uuid.New()}}

	res := NewAnalyzer(nil).Analyze(payments, subs, clients, testNow)

	if res.Revenue30d != 100000 {
		t.Errorf("expected revenue_30d 100000, got %f", res.Revenue30d)
	}
	if res.Revenue60d != 0 {
		t.Errorf("expected revenue_60d 0, got %f", res.Revenue60d)
	}
	if res.GrowthPct != 0 {
		t.Errorf("expected growth 0, got %f", res.GrowthPct)
	}
	if res.Trend != TrendStable {
		t.Errorf("expected stable trend, got %s", res.Trend)
	}
	if res.LateRatePct != 0 {
		t.Errorf("expected late rate 0, got %f", res.LateRatePct)
	}
	if res.PreferredMethod != core.MethodTransfer {
		t.Errorf("expected transfer, got %s", res.PreferredMethod)
	}
	// prediction = 100000/1 * 1 active subscription
	if len(res.Predictions) != 1 || res.Predictions[0].Amount != 100000 {
		t.Errorf("unexpected predictions: %+v", res.Predictions)
	}
}

// TestGrowthTrendBoundaries: exactly +10 and -10 are both stable.
func TestGrowthTrendBoundaries(t *testing.T) {
	cases := []struct {
		rev30, rev60 float64
		want         Trend
	}{
		{110, 100, TrendStable}, // +10.0
		{90, 100, TrendStable},  // -10.0
		{111, 100, TrendUp},
		{89, 100, TrendDown},
	}

	for _, tc := range cases {
		payments := []core.Payment{
			validPayment(tc.rev30, testNow.AddDate(0, 0, -10), core.MethodTransfer),
			validPayment(tc.rev60, testNow.AddDate(0, 0, -45), core.MethodTransfer),
		}
		res := NewAnalyzer(nil).Analyze(payments, nil, nil, testNow)
		if res.Trend != tc.want {
			t.Errorf("rev30=%v rev60=%v: expected trend %s, got %s", tc.rev30, tc.rev60, tc.want, res.Trend)
		}
	}
}

func TestScoreAlwaysInRange(t *testing.T) {
	// Heavy growth and lots of recent payments push the raw score above 100.
	var payments []core.Payment
	for i := 0; i < 50; i++ {
		payments = append(payments, validPayment(10000, testNow.AddDate(0, 0, -5), core.MethodCard))
	}
	payments = append(payments, validPayment(1, testNow.AddDate(0, 0, -45), core.MethodCard))

	res := NewAnalyzer(nil).Analyze(payments, nil, nil, testNow)
	if res.Score < 0 || res.Score > 100 {
		t.Errorf("score out of range: %d", res.Score)
	}

	// All payments cancelled drags the raw score below 0.
	var bad []core.Payment
	for i := 0; i < 20; i++ {
		p := validPayment(100, testNow.AddDate(0, 0, -5), core.MethodCash)
		p.Status = core.PaymentCancelled
		bad = append(bad, p)
	}
	res = NewAnalyzer(nil).Analyze(bad, nil, nil, testNow)
	if res.Score < 0 || res.Score > 100 {
		t.Errorf("score out of range: %d", res.Score)
	}
}

func TestLateRate(t *testing.T) {
	payments := []core.Payment{
		validPayment(100, testNow.AddDate(0, 0, -5), core.MethodTransfer),
		validPayment(100, testNow.AddDate(0, 0, -5), core.MethodTransfer),
	}
	pending := validPayment(100, testNow.AddDate(0, 0, -5), core.MethodTransfer)
	pending.Status = core.PaymentPending
	cancelled := validPayment(100, testNow.AddDate(0, 0, -5), core.MethodTransfer)
	cancelled.Status = core.PaymentCancelled
	payments = append(payments, pending, cancelled)

	res := NewAnalyzer(nil).Analyze(payments, nil, nil, testNow)
	if res.LateRatePct != 50 {
		t.Errorf("expected late rate 50, got %f", res.LateRatePct)
	}
}

func TestPreferredMethodTieBreak(t *testing.T) {
	// One card and one cash payment: cash wins the tie because it comes
	// first in the default method ordering.
	payments := []core.Payment{
		validPayment(100, testNow.AddDate(0, 0, -5), core.MethodCard),
		validPayment(100, testNow.AddDate(0, 0, -5), core.MethodCash),
	}
	res := NewAnalyzer(nil).Analyze(payments, nil, nil, testNow)
	if res.PreferredMethod != core.MethodCash {
		t.Errorf("expected cash, got %s", res.PreferredMethod)
	}

	// Refunded payments never count towards the preference; with no valid
	// payments the default is transfer.
	refunded := validPayment(100, testNow.AddDate(0, 0, -5), core.MethodCard)
	refunded.Status = core.PaymentRefunded
	res = NewAnalyzer(nil).Analyze([]core.Payment{refunded}, nil, nil, testNow)
	if res.PreferredMethod != core.MethodTransfer {
		t.Errorf("expected transfer fallback, got %s", res.PreferredMethod)
	}
}

func TestAtRiskCount(t *testing.T) {
	subs := []core.Subscription{
		activeSub(testNow.AddDate(0, 0, 5)),   // at risk
		activeSub(testNow.AddDate(0, 0, 15)),  // at risk, boundary
		activeSub(testNow.AddDate(0, 0, 16)),  // not at risk
		activeSub(testNow.AddDate(0, 0, -2)),  // expired, not at risk
		activeSub(testNow.AddDate(0, 0, 100)), // not at risk
	}
	suspended := activeSub(testNow.AddDate(0, 0, 5))
	suspended.Status = core.SubscriptionSuspended
	subs = append(subs, suspended)

	payments := []core.Payment{validPayment(100, testNow.AddDate(0, 0, -5), core.MethodTransfer)}
	res := NewAnalyzer(nil).Analyze(payments, subs, nil, testNow)
	if res.AtRiskClients != 2 {
		t.Errorf("expected 2 at-risk subscriptions, got %d", res.AtRiskClients)
	}
}

func TestInsightOrderAndRecommendations(t *testing.T) {
	// Declining revenue with heavy delinquency triggers the decline and
	// delinquency insights plus the matching recommendations.
	payments := []core.Payment{
		validPayment(50, testNow.AddDate(0, 0, -10), core.MethodTransfer),
		validPayment(100, testNow.AddDate(0, 0, -45), core.MethodTransfer),
	}
	for i := 0; i < 2; i++ {
		p := validPayment(100, testNow.AddDate(0, 0, -5), core.MethodTransfer)
		p.Status = core.PaymentPending
		payments = append(payments, p)
	}

	subs := []core.Subscription{activeSub(testNow.AddDate(0, 0, 10))}
	clients := []core.Client{{ID: uuid.New()}}
	res := NewAnalyzer(nil).Analyze(payments, subs, clients, testNow)

	if len(res.Insights) < 3 {
		t.Fatalf("expected at least 3 insights, got %v", res.Insights)
	}
	// Decline first, delinquency second, preferred method last.
	if res.Insights[0] != "Revenue down 50.0% over the last 30 days" {
		t.Errorf("unexpected first insight: %q", res.Insights[0])
	}
	if res.Insights[1] != "High delinquency: 50.0% of payments are pending or cancelled" {
		t.Errorf("unexpected second insight: %q", res.Insights[1])
	}
	if res.Insights[len(res.Insights)-1] != "Preferred payment method: transfer" {
		t.Errorf("unexpected last insight: %q", res.Insights[len(res.Insights)-1])
	}

	// growth < 0, lateRate > 15, atRisk > 0, subs > clients*0.7: all four
	// recommendations fire, in order.
	if len(res.Recommendations) != 4 {
		t.Fatalf("expected 4 recommendations, got %d", len(res.Recommendations))
	}
	wantTitles := []string{
		"Re-engage dormant clients",
		"Automate payment reminders",
		"Run a renewal campaign",
		"Excellent conversion rate",
	}
	for i, want := range wantTitles {
		if res.Recommendations[i].Title != want {
			t.Errorf("recommendation %d: expected %q, got %q", i, want, res.Recommendations[i].Title)
		}
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	payments := []core.Payment{
		validPayment(120, testNow.AddDate(0, 0, -3), core.MethodCheck),
		validPayment(80, testNow.AddDate(0, 0, -40), core.MethodCash),
	}
	subs := []core.Subscription{activeSub(testNow.AddDate(0, 0, 12))}
	clients := []core.Client{{ID: uuid.New()}}

	a := NewAnalyzer(nil)
	first := a.Analyze(payments, subs, clients, testNow)
	second := a.Analyze(payments, subs, clients, testNow)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical snapshot and now produced different results")
	}
}

func TestMalformedAmountCoercedToZero(t *testing.T) {
	p := validPayment(math.NaN(), testNow.AddDate(0, 0, -5), core.MethodTransfer)
	res := NewAnalyzer(nil).Analyze([]core.Payment{p}, nil, nil, testNow)
	if res.Revenue30d != 0 {
		t.Errorf("expected NaN amount coerced to 0, got %f", res.Revenue30d)
	}
	if res.Score < 0 || res.Score > 100 {
		t.Errorf("score out of range: %d", res.Score)
	}
}
