// Package analytics builds the conversation-details query, pages through its
// results and narrows them to the sessions inside the target window.
package analytics

import (
	"time"

	"recording-extract-go/internal/genesys"
	"recording-extract-go/internal/timewindow"
)

const DefaultPageSize = 100

// intervalLayout matches the millisecond ISO form the analytics API expects.
const intervalLayout = "2006-01-02T15:04:05.000Z"

// Params describes one extraction: the target window plus the optional
// queue/user filters. UserIDs doubles as the validation allow-list.
type Params struct {
	Window   timewindow.Input
	QueueIDs []string
	UserIDs  []string
	PageSize int
}

// BuildQuery constructs the provider query body. The interval is the widened
// [day-buffer, day] span, never the exact window: long-lived conversations
// start well before the hour being extracted. Filter categories are OR'd
// internally and AND'd against each other by the platform.
func BuildQuery(p Params) (*genesys.ConversationQuery, error) {
	from, to, err := timewindow.QueryInterval(p.Window)
	if err != nil {
		return nil, err
	}

	segmentFilters := []genesys.Filter{{
		Type: "or",
		Predicates: []genesys.Predicate{{
			Type:      "dimension",
			Dimension: "mediaType",
			Operator:  "matches",
			Value:     "voice",
		}},
	}}
	if preds := dimensionPredicates("queueId", p.QueueIDs); len(preds) > 0 {
		segmentFilters = append(segmentFilters, genesys.Filter{Type: "or", Predicates: preds})
	}
	if preds := dimensionPredicates("userId", p.UserIDs); len(preds) > 0 {
		segmentFilters = append(segmentFilters, genesys.Filter{Type: "or", Predicates: preds})
	}

	conversationFilters := []genesys.Filter{{
		Type: "or",
		Predicates: []genesys.Predicate{
			{Type: "metric", Metric: "tAnswered", Operator: "exists"},
			{Type: "metric", Metric: "tTalk", Operator: "exists"},
		},
	}}

	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &genesys.ConversationQuery{
		Interval:            formatInterval(from, to),
		Order:               "asc",
		OrderBy:             "conversationStart",
		SegmentFilters:      segmentFilters,
		ConversationFilters: conversationFilters,
		Paging:              genesys.Paging{PageSize: pageSize, PageNumber: 1},
	}, nil
}

func dimensionPredicates(dimension string, values []string) []genesys.Predicate {
	var preds []genesys.Predicate
	for _, v := range values {
		preds = append(preds, genesys.Predicate{
			Type:      "dimension",
			Dimension: dimension,
			Operator:  "matches",
			Value:     v,
		})
	}
	return preds
}

func formatInterval(from, to time.Time) string {
	return from.UTC().Format(intervalLayout) + "/" + to.UTC().Format(intervalLayout)
}
