package analytics

import (
	"time"

	"recording-extract-go/internal/genesys"
	"recording-extract-go/internal/timewindow"
)

// ValidSession is the unit the rest of the pipeline operates on: one
// (participant, session) pair with at least one interact segment ending
// inside the target window. Every field traces back to exactly one
// segment/session/participant/conversation combination. A conversation can
// yield several of these when multiple agent legs qualify.
type ValidSession struct {
	ConversationID    string
	ConversationStart time.Time
	ConversationEnd   time.Time
	ParticipantID     string
	UserID            string
	SessionID         string
	PeerID            string
	WrapupCode        string
	Direction         string
	SegmentStart      time.Time
	SegmentEnd        time.Time
}

// ValidSessions narrows one page of raw conversations to the sessions that
// matter. userIDs, when non-empty, is a strict allow-list: agent participants
// outside it are rejected even when their user ID is present on the wire.
func ValidSessions(page []genesys.Conversation, w timewindow.Window, userIDs []string) []ValidSession {
	allowed := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		allowed[id] = true
	}

	var out []ValidSession
	for _, conv := range page {
		for _, p := range conv.Participants {
			if !validParticipant(p, allowed) {
				continue
			}
			for _, s := range p.Sessions {
				vs, ok := validSession(s, w)
				if !ok {
					continue
				}
				vs.ConversationID = conv.ConversationID
				vs.ConversationStart = conv.ConversationStart
				vs.ConversationEnd = conv.ConversationEnd
				vs.ParticipantID = p.ParticipantID
				vs.UserID = p.UserID
				out = append(out, vs)
			}
		}
	}
	return out
}

func validParticipant(p genesys.Participant, allowed map[string]bool) bool {
	if p.Purpose != "agent" || p.ParticipantID == "" || p.UserID == "" {
		return false
	}
	if len(allowed) > 0 {
		return allowed[p.UserID]
	}
	return true
}

// validSession scans segments in wire order. The last qualifying interact
// segment wins the recorded bounds, and the last qualifying wrapup segment
// with a non-empty code wins the disposition.
func validSession(s genesys.Session, w timewindow.Window) (ValidSession, bool) {
	if s.SessionID == "" || s.PeerID == "" || len(s.Segments) == 0 {
		return ValidSession{}, false
	}
	vs := ValidSession{
		SessionID: s.SessionID,
		PeerID:    s.PeerID,
		Direction: s.Direction,
	}
	valid := false
	for _, seg := range s.Segments {
		if !w.Contains(seg.SegmentEnd) {
			continue
		}
		switch seg.SegmentType {
		case "interact":
			valid = true
			vs.SegmentStart = seg.SegmentStart
			vs.SegmentEnd = seg.SegmentEnd
		case "wrapup":
			if seg.WrapUpCode != "" {
				vs.WrapupCode = seg.WrapUpCode
			}
		}
	}
	return vs, valid
}
