// Package timewindow converts a local calendar day plus an HH:mm range in an
// IANA timezone into absolute UTC instants. It is the only place timezone
// arithmetic happens; everything downstream compares UTC.
package timewindow

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidWindow marks unusable window input: an unparsable day, time or
// zone, or an end that does not come after the start.
var ErrInvalidWindow = errors.New("invalid time window")

const layout = "2006-01-02 15:04"

// Input is a local window description as supplied by the operator.
type Input struct {
	Day        string // "YYYY-MM-DD" in the org timezone
	Start      string // 24h "HH:mm" in the org timezone
	End        string // 24h "HH:mm" in the org timezone
	Zone       string // IANA name, e.g. "Africa/Johannesburg"
	BufferDays int    // widen the query interval backwards by this many days
}

// Window is the resolved absolute interval. End is strictly after Start.
type Window struct {
	StartUTC time.Time
	EndUTC   time.Time
}

// Resolve converts the local description to UTC.
func Resolve(in Input) (Window, error) {
	loc, err := time.LoadLocation(in.Zone)
	if err != nil {
		return Window{}, fmt.Errorf("%w: zone %q: %v", ErrInvalidWindow, in.Zone, err)
	}
	start, err := time.ParseInLocation(layout, in.Day+" "+in.Start, loc)
	if err != nil {
		return Window{}, fmt.Errorf("%w: start %q: %v", ErrInvalidWindow, in.Start, err)
	}
	end, err := time.ParseInLocation(layout, in.Day+" "+in.End, loc)
	if err != nil {
		return Window{}, fmt.Errorf("%w: end %q: %v", ErrInvalidWindow, in.End, err)
	}
	if !end.After(start) {
		return Window{}, fmt.Errorf("%w: end %s not after start %s", ErrInvalidWindow, in.End, in.Start)
	}
	return Window{StartUTC: start.UTC(), EndUTC: end.UTC()}, nil
}

// QueryInterval returns the widened interval handed to the remote query:
// [start of day - BufferDays, end of day] in UTC. Conversations can start
// days before the target window, so the exact window is never sent remotely.
func QueryInterval(in Input) (time.Time, time.Time, error) {
	if _, err := Resolve(in); err != nil {
		return time.Time{}, time.Time{}, err
	}
	loc, _ := time.LoadLocation(in.Zone)
	day, _ := time.ParseInLocation("2006-01-02", in.Day, loc)
	from := day.AddDate(0, 0, -in.BufferDays)
	to := day.AddDate(0, 0, 1).Add(-time.Millisecond)
	return from.UTC(), to.UTC(), nil
}

// Contains reports whether t falls inside the window, inclusive on both ends.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.StartUTC) && !t.After(w.EndUTC)
}

// HourLabel renders the "HH-HH" bucket used in report and file names. It is
// derived from the UTC hours, so it is a display label, not a unique key.
func (w Window) HourLabel() string {
	return fmt.Sprintf("%02d-%02d", w.StartUTC.Hour(), w.EndUTC.Hour())
}
