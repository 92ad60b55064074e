package queue

import (
	"encoding/json"
	"testing"
	"time"
)

func TestJobRoundTripKeepsAlertFields(t *testing.T) {
	job := Job{
		ID:             "j1",
		SubscriptionID: "s1",
		ClientID:       "c1",
		AlertType:      "urgent",
		Priority:       "high",
		PriorityRank:   1,
		DaysRemaining:  3,
		CreatedAt:      time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(job)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Job
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != job {
		t.Errorf("round trip changed the job: %+v", got)
	}
}

func TestScoreOrdersCriticalFirst(t *testing.T) {
	now := time.Now()
	older := Job{PriorityRank: 3, CreatedAt: now.Add(-time.Hour)}
	critical := Job{PriorityRank: 0, CreatedAt: now}

	scoreOlder := float64(older.PriorityRank)*1e12 + float64(older.CreatedAt.Unix())
	scoreCritical := float64(critical.PriorityRank)*1e12 + float64(critical.CreatedAt.Unix())

	if scoreCritical >= scoreOlder {
		t.Error("critical job must sort before an older low-priority job")
	}
}
