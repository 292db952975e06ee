package genesys

import "time"

// Analytics conversation-details wire shapes. Fields not listed here are
// ignored on decode; the platform sends far more than we read.

type Conversation struct {
	ConversationID    string        `json:"conversationId"`
	ConversationStart time.Time     `json:"conversationStart,omitempty"`
	ConversationEnd   time.Time     `json:"conversationEnd,omitempty"`
	Participants      []Participant `json:"participants,omitempty"`
}

type Participant struct {
	ParticipantID   string    `json:"participantId,omitempty"`
	ParticipantName string    `json:"participantName,omitempty"`
	Purpose         string    `json:"purpose,omitempty"` // "customer" | "agent" | ...
	UserID          string    `json:"userId,omitempty"`
	Sessions        []Session `json:"sessions,omitempty"`
}

type Session struct {
	SessionID string    `json:"sessionId,omitempty"`
	MediaType string    `json:"mediaType,omitempty"` // e.g. "voice", "callback"
	PeerID    string    `json:"peerId,omitempty"`
	Recording bool      `json:"recording,omitempty"`
	Direction string    `json:"direction,omitempty"`
	Segments  []Segment `json:"segments,omitempty"`
}

type Segment struct {
	SegmentStart   time.Time `json:"segmentStart,omitempty"`
	SegmentEnd     time.Time `json:"segmentEnd,omitempty"`
	QueueID        string    `json:"queueId,omitempty"`
	SegmentType    string    `json:"segmentType,omitempty"`
	DisconnectType string    `json:"disconnectType,omitempty"`
	WrapUpCode     string    `json:"wrapUpCode,omitempty"`
}

// ConversationQuery is the analytics query body. Built once per run and
// re-sent with an incremented page number.
type ConversationQuery struct {
	Interval            string   `json:"interval"`
	Order               string   `json:"order"`
	OrderBy             string   `json:"orderBy"`
	SegmentFilters      []Filter `json:"segmentFilters,omitempty"`
	ConversationFilters []Filter `json:"conversationFilters,omitempty"`
	Paging              Paging   `json:"paging"`
}

type Filter struct {
	Type       string      `json:"type"`
	Predicates []Predicate `json:"predicates"`
}

type Predicate struct {
	Type      string `json:"type"`
	Dimension string `json:"dimension,omitempty"`
	Metric    string `json:"metric,omitempty"`
	Operator  string `json:"operator"`
	Value     string `json:"value,omitempty"`
}

type Paging struct {
	PageSize   int `json:"pageSize"`
	PageNumber int `json:"pageNumber"`
}

type ConversationQueryResponse struct {
	Conversations []Conversation `json:"conversations"`
	TotalHits     int            `json:"totalHits,omitempty"`
}

// RecordingMetadata is one recording descriptor for a conversation.
type RecordingMetadata struct {
	ID          string    `json:"id"`
	Media       string    `json:"media"`
	SessionID   string    `json:"sessionId,omitempty"`
	FileState   string    `json:"fileState,omitempty"`
	ArchiveDate string    `json:"archiveDate,omitempty"`
	DeleteDate  string    `json:"deleteDate,omitempty"`
	StartTime   time.Time `json:"startTime,omitempty"`
	EndTime     time.Time `json:"endTime,omitempty"`
}

// Batch download job wire shapes.

type BatchDownloadRequest struct {
	ConversationID string `json:"conversationId"`
	RecordingID    string `json:"recordingId"`
}

type batchSubmitBody struct {
	BatchDownloadRequestList []BatchDownloadRequest `json:"batchDownloadRequestList"`
}

type BatchJobSubmission struct {
	ID string `json:"id"`
}

type BatchJobStatus struct {
	JobID               string                `json:"jobId,omitempty"`
	ExpectedResultCount int                   `json:"expectedResultCount"`
	ResultCount         int                   `json:"resultCount"`
	Results             []BatchDownloadResult `json:"results,omitempty"`
}

type BatchDownloadResult struct {
	ConversationID string `json:"conversationId,omitempty"`
	RecordingID    string `json:"recordingId,omitempty"`
	ResultURL      string `json:"resultUrl,omitempty"`
	ContentType    string `json:"contentType,omitempty"`
	ErrorMsg       string `json:"errorMsg,omitempty"`
}

// Identity and routing lookups.

type User struct {
	ID      string   `json:"id"`
	Name    string   `json:"name,omitempty"`
	State   string   `json:"state,omitempty"`
	Manager *UserRef `json:"manager,omitempty"`
}

type UserRef struct {
	ID string `json:"id"`
}

type UsersPage struct {
	Entities   []User `json:"entities"`
	PageCount  int    `json:"pageCount,omitempty"`
	PageNumber int    `json:"pageNumber,omitempty"`
	Total      int    `json:"total,omitempty"`
}

type WrapupCode struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}
