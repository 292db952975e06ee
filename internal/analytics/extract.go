package analytics

import (
	"context"
	"errors"
	"fmt"

	"recording-extract-go/internal/genesys"
	"recording-extract-go/internal/logger"
	"recording-extract-go/internal/timewindow"
)

// ErrMalformedPage signals a contract break with the analytics sink: a page
// that decoded but fails structural validation. Fatal for the run.
var ErrMalformedPage = errors.New("malformed analytics page")

// API is the slice of the platform client the extractor consumes.
type API interface {
	QueryConversations(ctx context.Context, query *genesys.ConversationQuery) (*genesys.ConversationQueryResponse, error)
}

// ExtractInteractions pages through the conversation-details query until a
// missing, empty or short page signals end-of-data. Each page is validated
// and filtered immediately; only the sessions inside the exact window are
// accumulated, so memory tracks the filtered result, not the raw volume.
func ExtractInteractions(ctx context.Context, api API, p Params) ([]ValidSession, error) {
	window, err := timewindow.Resolve(p.Window)
	if err != nil {
		return nil, err
	}
	query, err := BuildQuery(p)
	if err != nil {
		return nil, err
	}
	log := logger.New().WithField("component", "analytics.extract")

	var out []ValidSession
	for {
		res, err := api.QueryConversations(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("analytics query page %d: %w", query.Paging.PageNumber, err)
		}
		if res == nil || len(res.Conversations) == 0 {
			break
		}
		if err := validatePage(res.Conversations); err != nil {
			return nil, fmt.Errorf("page %d: %w", query.Paging.PageNumber, err)
		}

		valid := ValidSessions(res.Conversations, window, p.UserIDs)
		out = append(out, valid...)
		log.WithField("page", query.Paging.PageNumber).
			WithField("raw", len(res.Conversations)).
			WithField("valid", len(valid)).
			Debug("page processed")

		if len(res.Conversations) < query.Paging.PageSize {
			break
		}
		query.Paging.PageNumber++
	}
	return out, nil
}

// validatePage enforces the invariants the rest of the pipeline relies on.
func validatePage(page []genesys.Conversation) error {
	for i, conv := range page {
		if conv.ConversationID == "" {
			return fmt.Errorf("%w: conversation %d has no conversationId", ErrMalformedPage, i)
		}
	}
	return nil
}
