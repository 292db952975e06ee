// Package recordings correlates recording metadata with validated sessions
// and drives the batch download pipeline: chunked job submission, polling,
// verified downloads and per-chunk report assembly.
package recordings

import (
	"context"
	"fmt"
	"time"

	"recording-extract-go/internal/analytics"
	"recording-extract-go/internal/genesys"
	"recording-extract-go/internal/logger"
	"recording-extract-go/internal/timewindow"
)

// Recording is one audio recording kept after in-window filtering. SessionID
// is the provider's cross-reference to a session's peer ID; correlation
// matches on (ConversationID, SessionID == PeerID).
type Recording struct {
	ConversationID string
	RecordingID    string
	MediaType      string
	FileState      string
	ArchiveDate    string
	DeleteDate     string
	SessionID      string
	StartTime      time.Time
	EndTime        time.Time
}

// MetadataAPI is the recording-metadata slice of the platform client.
type MetadataAPI interface {
	ConversationRecordings(ctx context.Context, conversationID string) ([]genesys.RecordingMetadata, error)
}

// Mode selects how strictly recordings are correlated against sessions.
type Mode int

const (
	// Unconditional keeps every in-window audio recording for the queried
	// conversations, whether or not a validated session references it.
	Unconditional Mode = iota
	// Filtered additionally requires a (conversationId, sessionId) match
	// against some validated session's (conversationId, peerId), dropping
	// recordings that belong to non-selected agents.
	Filtered
)

// CorrelateRecordings fetches metadata once per distinct conversation and
// keeps audio recordings whose end time falls inside the exact window. Both
// modes share this fetch-and-filter path; Filtered only adds the session
// match on top.
func CorrelateRecordings(ctx context.Context, api MetadataAPI, sessions []analytics.ValidSession, w timewindow.Window, mode Mode) ([]Recording, error) {
	log := logger.New().WithField("component", "recordings.correlate")

	var ids []string
	seen := make(map[string]bool)
	for _, s := range sessions {
		if s.ConversationID != "" && !seen[s.ConversationID] {
			seen[s.ConversationID] = true
			ids = append(ids, s.ConversationID)
		}
	}

	wanted := make(map[string]bool, len(sessions))
	if mode == Filtered {
		for _, s := range sessions {
			wanted[pairKey(s.ConversationID, s.PeerID)] = true
		}
	}

	var out []Recording
	for _, id := range ids {
		metas, err := api.ConversationRecordings(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("recording metadata for %s: %w", id, err)
		}
		for _, m := range metas {
			if m.Media != "audio" || m.SessionID == "" || m.ID == "" {
				continue
			}
			if !w.Contains(m.EndTime) {
				continue
			}
			if mode == Filtered && !wanted[pairKey(id, m.SessionID)] {
				log.WithField("conversation_id", id).
					WithField("session_id", m.SessionID).
					Debug("recording for non-selected session skipped")
				continue
			}
			out = append(out, Recording{
				ConversationID: id,
				RecordingID:    m.ID,
				MediaType:      m.Media,
				FileState:      m.FileState,
				ArchiveDate:    m.ArchiveDate,
				DeleteDate:     m.DeleteDate,
				SessionID:      m.SessionID,
				StartTime:      m.StartTime,
				EndTime:        m.EndTime,
			})
		}
	}
	return out, nil
}

func pairKey(conversationID, sessionID string) string {
	return conversationID + "::" + sessionID
}
