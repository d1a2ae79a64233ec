package domain

import (
	"testing"
	"time"
)

func TestFillTimeLeft(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		expires time.Time
		status  string
		want    string
	}{
		{now.Add(76 * time.Hour), DealStatusActive, "3d 4h"},
		{now.Add(2*time.Hour + 5*time.Minute), DealStatusActive, "2h 5m"},
		{now.Add(10 * time.Minute), DealStatusActive, "10m"},
		{now.Add(-time.Minute), DealStatusActive, "expired"},
		{now.Add(time.Hour), DealStatusCompleted, "expired"},
	}
	for i, tc := range cases {
		d := Deal{Status: tc.status, ExpiresAt: tc.expires}
		d.FillTimeLeft(now)
		if d.TimeLeft != tc.want {
			t.Errorf("case %d: got %q, want %q", i, d.TimeLeft, tc.want)
		}
	}
}

func TestValidDealTransition(t *testing.T) {
	allowed := [][2]string{
		{DealStatusPending, DealStatusActive},
		{DealStatusPending, DealStatusCancelled},
		{DealStatusActive, DealStatusCompleted},
		{DealStatusActive, DealStatusCancelled},
		{DealStatusActive, DealStatusActive},
	}
	for _, tr := range allowed {
		if !ValidDealTransition(tr[0], tr[1]) {
			t.Errorf("%s -> %s should be allowed", tr[0], tr[1])
		}
	}

	denied := [][2]string{
		{DealStatusCompleted, DealStatusActive},
		{DealStatusCancelled, DealStatusActive},
		{DealStatusCompleted, DealStatusPending},
		{DealStatusActive, DealStatusPending},
		{DealStatusPending, DealStatusCompleted},
	}
	for _, tr := range denied {
		if ValidDealTransition(tr[0], tr[1]) {
			t.Errorf("%s -> %s must be rejected", tr[0], tr[1])
		}
	}
}

func TestValidDealStatus(t *testing.T) {
	for _, s := range []string{"active", "pending", "completed", "cancelled"} {
		if !ValidDealStatus(s) {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []string{"", "Active", "expired", "done"} {
		if ValidDealStatus(s) {
			t.Errorf("%s should be invalid", s)
		}
	}
}
