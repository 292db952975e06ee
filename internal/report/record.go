// Package report defines the flat per-recording report row and the writers
// that persist one row set per batch chunk.
package report

import (
	"strconv"
	"time"
)

// Record is one report row. Column order and presence are a stable contract
// with downstream consumers; Header and row must stay in lockstep.
type Record struct {
	ConversationID    string
	RecordingID       string
	ConversationStart time.Time
	ConversationEnd   time.Time
	StartTime         time.Time
	EndTime           time.Time
	MediaType         string
	DurationMs        int64
	AgentID           string
	AgentName         string
	TeamLeaderName    string
	CallDirection     string
	WrapupCode        string
	WrapupName        string
	FileName          string
	FilePath          string
}

// Header returns the 16 column titles in output order.
func Header() []string {
	return []string{
		"Conversation ID",
		"Recording ID",
		"Conversation Start",
		"Conversation End",
		"Rec Start Time",
		"Rec End Time",
		"Media Type",
		"Duration (ms)",
		"Agent ID",
		"Agent Name",
		"Team Leader Name",
		"Call Direction",
		"Wrapup Code",
		"Wrapup Name",
		"File Name",
		"File Path",
	}
}

func (r Record) row() []string {
	return []string{
		r.ConversationID,
		r.RecordingID,
		formatTime(r.ConversationStart),
		formatTime(r.ConversationEnd),
		formatTime(r.StartTime),
		formatTime(r.EndTime),
		r.MediaType,
		strconv.FormatInt(r.DurationMs, 10),
		r.AgentID,
		r.AgentName,
		r.TeamLeaderName,
		r.CallDirection,
		r.WrapupCode,
		r.WrapupName,
		r.FileName,
		r.FilePath,
	}
}

// DurationMs is the span between two instants in milliseconds, or zero when
// either is missing or the order is inverted.
func DurationMs(start, end time.Time) int64 {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return 0
	}
	return end.Sub(start).Milliseconds()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
