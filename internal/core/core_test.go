package core

import (
	"testing"
	"time"
)

func TestClientFullName(t *testing.T) {
	c := Client{FirstName: "Amine", LastName: "Benali"}
	if got := c.FullName(); got != "Benali Amine" {
		t.Errorf("FullName() = %q, want %q", got, "Benali Amine")
	}

	c = Client{LastName: "Benali"}
	if got := c.FullName(); got != "Benali" {
		t.Errorf("FullName() without first name = %q, want %q", got, "Benali")
	}
}

func TestSubscriptionValidate(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	s := Subscription{StartDate: start, EndDate: start.AddDate(1, 0, 0)}
	if err := s.Validate(); err != nil {
		t.Errorf("valid range rejected: %v", err)
	}

	// Same-day subscriptions are allowed
	s = Subscription{StartDate: start, EndDate: start}
	if err := s.Validate(); err != nil {
		t.Errorf("same-day range rejected: %v", err)
	}

	s = Subscription{StartDate: start, EndDate: start.AddDate(0, 0, -1)}
	if err := s.Validate(); err != ErrEndBeforeStart {
		t.Errorf("Validate() = %v, want ErrEndBeforeStart", err)
	}
}

func TestStringSliceRoundTrip(t *testing.T) {
	regions := StringSlice{"Alger", "Oran"}

	v, err := regions.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var got StringSlice
	if err := got.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) != 2 || got[0] != "Alger" || got[1] != "Oran" {
		t.Errorf("round trip changed the slice: %v", got)
	}
}

func TestStringSliceScanNil(t *testing.T) {
	var s StringSlice
	if err := s.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if s == nil || len(s) != 0 {
		t.Errorf("Scan(nil) = %v, want empty slice", s)
	}
}
