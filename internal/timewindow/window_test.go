package timewindow

import (
	"errors"
	"testing"
	"time"
)

func TestResolveConvertsLocalToUTC(t *testing.T) {
	w, err := Resolve(Input{
		Day:   "2025-06-10",
		Start: "10:00",
		End:   "11:00",
		Zone:  "Africa/Johannesburg", // UTC+2, no DST
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantStart := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	if !w.StartUTC.Equal(wantStart) || !w.EndUTC.Equal(wantEnd) {
		t.Fatalf("got %v / %v, want %v / %v", w.StartUTC, w.EndUTC, wantStart, wantEnd)
	}
	if !w.EndUTC.After(w.StartUTC) {
		t.Fatalf("end must be strictly after start")
	}
}

func TestResolveRejectsBadInput(t *testing.T) {
	cases := []Input{
		{Day: "2025-06-10", Start: "11:00", End: "10:00", Zone: "UTC"},       // inverted
		{Day: "2025-06-10", Start: "10:00", End: "10:00", Zone: "UTC"},       // equal
		{Day: "2025-06-10", Start: "25:99", End: "11:00", Zone: "UTC"},       // bad time
		{Day: "not-a-day", Start: "10:00", End: "11:00", Zone: "UTC"},        // bad day
		{Day: "2025-06-10", Start: "10:00", End: "11:00", Zone: "Mars/Base"}, // bad zone
	}
	for _, in := range cases {
		if _, err := Resolve(in); !errors.Is(err, ErrInvalidWindow) {
			t.Fatalf("input %+v: expected ErrInvalidWindow, got %v", in, err)
		}
	}
}

func TestQueryIntervalWidensByBuffer(t *testing.T) {
	from, to, err := QueryInterval(Input{
		Day:        "2025-06-10",
		Start:      "10:00",
		End:        "11:00",
		Zone:       "UTC",
		BufferDays: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantFrom := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	if !from.Equal(wantFrom) {
		t.Fatalf("from = %v, want %v", from, wantFrom)
	}
	if to.Before(time.Date(2025, 6, 10, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("to = %v, want end of day", to)
	}
}

func TestContainsIsInclusive(t *testing.T) {
	w, err := Resolve(Input{Day: "2025-06-10", Start: "10:00", End: "11:00", Zone: "UTC"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !w.Contains(w.StartUTC) || !w.Contains(w.EndUTC) {
		t.Fatalf("window bounds must be inclusive")
	}
	if w.Contains(w.EndUTC.Add(time.Millisecond)) {
		t.Fatalf("instant past the end must be outside")
	}
}

func TestHourLabel(t *testing.T) {
	w, err := Resolve(Input{Day: "2025-06-10", Start: "10:00", End: "11:00", Zone: "Africa/Johannesburg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// label reflects UTC hours, not local ones
	if got := w.HourLabel(); got != "08-09" {
		t.Fatalf("HourLabel = %q, want %q", got, "08-09")
	}
}
