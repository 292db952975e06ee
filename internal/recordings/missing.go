package recordings

import "recording-extract-go/internal/analytics"

// MissingRecordings returns the validated sessions whose (conversationId,
// peerId) pair never correlated to any recording's (conversationId,
// sessionId). Sessions with a blank ID on either side count as missing; they
// can never match.
func MissingRecordings(sessions []analytics.ValidSession, recs []Recording) []analytics.ValidSession {
	have := make(map[string]bool, len(recs))
	for _, r := range recs {
		if r.ConversationID != "" && r.SessionID != "" {
			have[pairKey(r.ConversationID, r.SessionID)] = true
		}
	}

	var out []analytics.ValidSession
	for _, s := range sessions {
		if s.ConversationID == "" || s.PeerID == "" || !have[pairKey(s.ConversationID, s.PeerID)] {
			out = append(out, s)
		}
	}
	return out
}
