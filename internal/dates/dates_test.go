package dates

import (
	"testing"
	"time"
)

func testResolver(t *testing.T, now time.Time) *Resolver {
	t.Helper()
	r, err := NewResolver("UTC")
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	r.now = func() time.Time { return now }
	return r
}

// Fixed reference point: a Wednesday at 10:00 UTC.
var refNow = time.Date(2024, time.June, 12, 10, 0, 0, 0, time.UTC)

func TestResolve_RFC3339PassesThrough(t *testing.T) {
	r := testResolver(t, refNow)

	got, err := r.Resolve("2024-07-01T15:30:00Z")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := time.Date(2024, time.July, 1, 15, 30, 0, 0, time.UTC)
	if !got.Time.Equal(want) {
		t.Errorf("got %v, want %v", got.Time, want)
	}
	if got.AllDay {
		t.Error("timestamp with a time of day must not be all-day")
	}
}

func TestResolve_BareDateIsAllDay(t *testing.T) {
	r := testResolver(t, refNow)

	got, err := r.Resolve("2024-07-01")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !got.AllDay {
		t.Error("bare date must resolve all-day")
	}
	if got.Time.Year() != 2024 || got.Time.Month() != time.July || got.Time.Day() != 1 {
		t.Errorf("got %v", got.Time)
	}
}

func TestResolve_TomorrowAtThreePM(t *testing.T) {
	r := testResolver(t, refNow)

	got, err := r.Resolve("tomorrow at 3pm")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.AllDay {
		t.Error("time-of-day expression must not be all-day")
	}
	if got.Time.Day() != 13 || got.Time.Hour() != 15 {
		t.Errorf("expected June 13 15:00, got %v", got.Time)
	}
}

func TestResolve_NextFridayIsAllDay(t *testing.T) {
	r := testResolver(t, refNow)

	got, err := r.Resolve("next friday")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !got.AllDay {
		t.Error("day expression without a time must be all-day")
	}
	if got.Time.Weekday() != time.Friday {
		t.Errorf("expected a Friday, got %v", got.Time.Weekday())
	}
	if !got.Time.After(refNow) {
		t.Errorf("resolved day must be in the future, got %v", got.Time)
	}
	if got.Time.Hour() != 0 || got.Time.Minute() != 0 {
		t.Errorf("all-day time must be midnight, got %v", got.Time)
	}
}

func TestPreferFuture(t *testing.T) {
	r := testResolver(t, refNow)
	past := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)

	// A year-less date that already passed rolls into next year.
	got := r.preferFuture(past, "January 5", refNow)
	if got.Year() != 2025 {
		t.Errorf("expected roll to 2025, got %v", got)
	}

	// An explicit year is taken literally even when it is in the past.
	got = r.preferFuture(past, "January 5, 2024", refNow)
	if !got.Equal(past) {
		t.Errorf("explicit year must not roll, got %v", got)
	}

	// Future dates are left alone.
	future := time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)
	if got = r.preferFuture(future, "August 1", refNow); !got.Equal(future) {
		t.Errorf("future date must not roll, got %v", got)
	}
}

func TestResolve_EmptyAndGarbage(t *testing.T) {
	r := testResolver(t, refNow)

	if _, err := r.Resolve(""); err == nil {
		t.Error("empty expression must fail")
	}
	if _, err := r.Resolve("qwxzzrk flibble"); err == nil {
		t.Error("nonsense expression must fail")
	}
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"1 hour", time.Hour},
		{"90 minutes", 90 * time.Minute},
		{"1h30m", 90 * time.Minute},
		{"2 hours 15 minutes", 2*time.Hour + 15*time.Minute},
		{"30 mins", 30 * time.Minute},
		{"", DefaultEventDuration},
		{"a while", DefaultEventDuration},
	}
	for _, tc := range cases {
		if got := ParseDuration(tc.in); got != tc.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestEndTime(t *testing.T) {
	start := time.Date(2024, time.June, 12, 14, 0, 0, 0, time.UTC)

	if got := EndTime(start, "30 minutes"); !got.Equal(start.Add(30 * time.Minute)) {
		t.Errorf("got %v", got)
	}
	if got := EndTime(start, ""); !got.Equal(start.Add(time.Hour)) {
		t.Errorf("default duration should be one hour, got %v", got)
	}
}
