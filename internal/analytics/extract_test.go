package analytics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"recording-extract-go/internal/genesys"
	"recording-extract-go/internal/timewindow"
)

type fakeAnalytics struct {
	pages [][]genesys.Conversation
	calls int
}

func (f *fakeAnalytics) QueryConversations(_ context.Context, q *genesys.ConversationQuery) (*genesys.ConversationQueryResponse, error) {
	if q.Paging.PageNumber != f.calls+1 {
		return nil, errors.New("pages must be requested in order")
	}
	f.calls++
	if f.calls > len(f.pages) {
		return &genesys.ConversationQueryResponse{}, nil
	}
	return &genesys.ConversationQueryResponse{Conversations: f.pages[f.calls-1]}, nil
}

func extractParams(pageSize int) Params {
	return Params{
		Window: timewindow.Input{
			Day: "2025-06-10", Start: "10:00", End: "11:00", Zone: "UTC", BufferDays: 1,
		},
		PageSize: pageSize,
	}
}

func TestExtractInteractionsStopsOnShortPage(t *testing.T) {
	full := make([]genesys.Conversation, 2)
	for i := range full {
		full[i] = agentConversation(string(rune('a'+i)), "u1", interact(inWindow(5), inWindow(10)))
	}
	short := []genesys.Conversation{
		agentConversation("z", "u1", interact(inWindow(5), inWindow(10))),
	}
	api := &fakeAnalytics{pages: [][]genesys.Conversation{full, short}}

	got, err := ExtractInteractions(context.Background(), api, extractParams(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.calls != 2 {
		t.Fatalf("expected 2 page fetches, got %d", api.calls)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 valid sessions, got %d", len(got))
	}
}

func TestExtractInteractionsStopsOnEmptyPage(t *testing.T) {
	full := []genesys.Conversation{
		agentConversation("a", "u1", interact(inWindow(5), inWindow(10))),
		agentConversation("b", "u1", interact(inWindow(5), inWindow(10))),
	}
	api := &fakeAnalytics{pages: [][]genesys.Conversation{full, nil}}

	got, err := ExtractInteractions(context.Background(), api, extractParams(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 valid sessions, got %d", len(got))
	}
}

func TestExtractInteractionsFiltersWhilePaging(t *testing.T) {
	// one agent with a qualifying interact segment, one customer-only
	page := []genesys.Conversation{
		agentConversation("a", "u1", interact(inWindow(5), inWindow(10))),
		{
			ConversationID: "b",
			Participants: []genesys.Participant{{
				ParticipantID: "p-b",
				Purpose:       "customer",
				Sessions: []genesys.Session{{
					SessionID: "s-b", PeerID: "peer-b",
					Segments: []genesys.Segment{interact(inWindow(5), inWindow(10))},
				}},
			}},
		},
	}
	api := &fakeAnalytics{pages: [][]genesys.Conversation{page}}

	got, err := ExtractInteractions(context.Background(), api, extractParams(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ConversationID != "a" {
		t.Fatalf("expected exactly the agent session, got %+v", got)
	}
}

func TestExtractInteractionsMalformedPage(t *testing.T) {
	page := []genesys.Conversation{{ConversationID: ""}}
	api := &fakeAnalytics{pages: [][]genesys.Conversation{page}}

	_, err := ExtractInteractions(context.Background(), api, extractParams(100))
	if !errors.Is(err, ErrMalformedPage) {
		t.Fatalf("expected ErrMalformedPage, got %v", err)
	}
}

func TestBuildQueryShape(t *testing.T) {
	q, err := BuildQuery(Params{
		Window: timewindow.Input{
			Day: "2025-06-10", Start: "10:00", End: "11:00", Zone: "UTC", BufferDays: 2,
		},
		QueueIDs: []string{"q1", "q2"},
		UserIDs:  []string{"u1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Order != "asc" || q.OrderBy != "conversationStart" {
		t.Fatalf("unexpected ordering: %s/%s", q.Order, q.OrderBy)
	}
	if q.Paging.PageSize != DefaultPageSize || q.Paging.PageNumber != 1 {
		t.Fatalf("unexpected paging: %+v", q.Paging)
	}
	if !strings.HasPrefix(q.Interval, "2025-06-08T00:00:00.000Z/") {
		t.Fatalf("interval must start at day-buffer: %s", q.Interval)
	}
	// media filter + queue filter + user filter
	if len(q.SegmentFilters) != 3 {
		t.Fatalf("expected 3 segment filter groups, got %d", len(q.SegmentFilters))
	}
	if len(q.SegmentFilters[1].Predicates) != 2 {
		t.Fatalf("queue group must OR 2 predicates, got %d", len(q.SegmentFilters[1].Predicates))
	}
	if len(q.ConversationFilters) != 1 || len(q.ConversationFilters[0].Predicates) != 2 {
		t.Fatalf("conversation metric filter malformed: %+v", q.ConversationFilters)
	}
}

func TestBuildQueryOmitsEmptyFilterGroups(t *testing.T) {
	q, err := BuildQuery(extractParams(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.SegmentFilters) != 1 {
		t.Fatalf("expected only the media filter, got %d groups", len(q.SegmentFilters))
	}
}
