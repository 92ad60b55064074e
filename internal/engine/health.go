package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/a2s-soft/subtrack/internal/core"
	"go.uber.org/zap"
)

type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendStable  Trend = "stable"
	TrendNeutral Trend = "neutral"
)

// Analysis is the financial health read model: a 0-100 composite score plus
// the figures it was derived from.
type Analysis struct {
	Score           int                `json:"score"`
	Trend           Trend              `json:"trend"`
	GrowthPct       float64            `json:"growth_pct"`
	LateRatePct     float64            `json:"late_rate_pct"`
	Revenue30d      float64            `json:"revenue_30d"`
	Revenue60d      float64            `json:"revenue_60d"`
	AtRiskClients   int                `json:"at_risk_clients"`
	PreferredMethod core.PaymentMethod `json:"preferred_method"`
	Predictions     []Prediction       `json:"predictions"`
	Insights        []string           `json:"insights"`
	Recommendations []Recommendation   `json:"recommendations"`
}

type Prediction struct {
	Period     string  `json:"period"`
	Amount     float64 `json:"amount"`
	Confidence string  `json:"confidence"`
}

type Recommendation struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NoDataInsight is the single insight returned when the payment snapshot is
// empty.
const NoDataInsight = "no data available"

// Analyzer derives read-only views from an entity snapshot. All methods are
// pure functions of (snapshot, now); the logger only reports coerced
// malformed amounts.
type Analyzer struct {
	logger *zap.Logger
}

func NewAnalyzer(logger *zap.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

// amount coerces malformed numeric values to 0 instead of letting them
// poison every aggregate downstream.
func (a *Analyzer) amount(v float64, kind string, id string) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		if a.logger != nil {
			a.logger.Warn("Malformed amount coerced to 0",
				zap.String("entity", kind),
				zap.String("id", id),
			)
		}
		return 0
	}
	return v
}

// Analyze computes the financial health of the business from a payment,
// subscription, and client snapshot as of now.
func (a *Analyzer) Analyze(payments []core.Payment, subs []core.Subscription, clients []core.Client, now time.Time) Analysis {
	if len(payments) == 0 {
		return Analysis{
			Trend:           TrendNeutral,
			PreferredMethod: core.MethodTransfer,
			Predictions:     []Prediction{},
			Insights:        []string{NoDataInsight},
			Recommendations: []Recommendation{},
		}
	}

	last30 := now.Add(-30 * 24 * time.Hour)
	last60 := now.Add(-60 * 24 * time.Hour)

	// Windowed revenue over valid payments
	var revenue30, revenue60 float64
	count30 := 0
	methodCounts := map[core.PaymentMethod]int{}
	late := 0

	for _, p := range payments {
		if p.Status == core.PaymentPending || p.Status == core.PaymentCancelled {
			late++
		}
		if p.Status != core.PaymentValid {
			continue
		}
		methodCounts[p.Method]++
		amount := a.amount(p.Amount, "payment", p.ID.String())
		if !p.PaidAt.Before(last30) {
			revenue30 += amount
			count30++
		} else if !p.PaidAt.Before(last60) {
			revenue60 += amount
		}
	}

	growth := 0.0
	if revenue60 > 0 {
		growth = (revenue30 - revenue60) / revenue60 * 100
	}
	trend := TrendStable
	if growth > 10 {
		trend = TrendUp
	} else if growth < -10 {
		trend = TrendDown
	}

	lateRate := float64(late) / float64(len(payments)) * 100

	preferred := preferredMethod(methodCounts)

	activeSubs := 0
	atRisk := 0
	for _, s := range subs {
		if s.Status != core.SubscriptionActive {
			continue
		}
		activeSubs++
		days := DaysRemaining(s.EndDate, now)
		if days > 0 && days <= 15 {
			atRisk++
		}
	}

	avgPayment := revenue30 / math.Max(float64(count30), 1)
	prediction := avgPayment * float64(activeSubs)

	score := 50.0
	score += math.Min(growth, 30)
	score -= lateRate * 0.5
	score += math.Min(float64(count30)/10*5, 20)
	score = math.Max(0, math.Min(100, score))

	insights := buildInsights(growth, lateRate, atRisk, preferred)
	recommendations := buildRecommendations(growth, lateRate, atRisk, len(subs), len(clients))

	confidence := "low"
	if score > 70 {
		confidence = "high"
	} else if score > 40 {
		confidence = "medium"
	}

	return Analysis{
		Score:           int(math.Round(score)),
		Trend:           trend,
		GrowthPct:       growth,
		LateRatePct:     lateRate,
		Revenue30d:      revenue30,
		Revenue60d:      revenue60,
		AtRiskClients:   atRisk,
		PreferredMethod: preferred,
		Predictions: []Prediction{
			{Period: "next 30 days", Amount: prediction, Confidence: confidence},
		},
		Insights:        insights,
		Recommendations: recommendations,
	}
}

// preferredMethod picks the most frequent method among valid payments. Ties
// go to the method listed first in core.PaymentMethods; with no valid
// payments at all the default is transfer.
func preferredMethod(counts map[core.PaymentMethod]int) core.PaymentMethod {
	best := core.MethodTransfer
	bestCount := counts[core.MethodTransfer]
	for _, m := range core.PaymentMethods {
		if counts[m] > bestCount {
			best = m
			bestCount = counts[m]
		}
	}
	return best
}

func buildInsights(growth, lateRate float64, atRisk int, preferred core.PaymentMethod) []string {
	insights := []string{}

	if growth > 15 {
		insights = append(insights, fmt.Sprintf("Strong growth: revenue up %.1f%% over the last 30 days", growth))
	} else if growth < -15 {
		insights = append(insights, fmt.Sprintf("Revenue down %.1f%% over the last 30 days", math.Abs(growth)))
	}

	if lateRate > 20 {
		insights = append(insights, fmt.Sprintf("High delinquency: %.1f%% of payments are pending or cancelled", lateRate))
	} else if lateRate < 5 {
		insights = append(insights, fmt.Sprintf("Excellent punctuality: only %.1f%% of payments are late", lateRate))
	}

	if atRisk > 5 {
		insights = append(insights, fmt.Sprintf("%d subscriptions are up for renewal within 15 days", atRisk))
	}

	insights = append(insights, fmt.Sprintf("Preferred payment method: %s", preferred))

	return insights
}

func buildRecommendations(growth, lateRate float64, atRisk, subCount, clientCount int) []Recommendation {
	recs := []Recommendation{}

	if growth < 0 {
		recs = append(recs, Recommendation{
			Icon:        "target",
			Title:       "Re-engage dormant clients",
			Description: "Contact clients without a recent renewal to understand their needs",
		})
	}

	if lateRate > 15 {
		recs = append(recs, Recommendation{
			Icon:        "zap",
			Title:       "Automate payment reminders",
			Description: "Set up automatic reminders ahead of each due date",
		})
	}

	if atRisk > 0 {
		recs = append(recs, Recommendation{
			Icon:        "phone",
			Title:       "Run a renewal campaign",
			Description: fmt.Sprintf("%d clients need immediate attention", atRisk),
		})
	}

	if float64(subCount) > float64(clientCount)*0.7 {
		recs = append(recs, Recommendation{
			Icon:        "rocket",
			Title:       "Excellent conversion rate",
			Description: "Keep the current strategy and target new clients",
		})
	}

	return recs
}
