// Package core defines the domain types and interfaces for the audio
// briefing service.
package core

// BriefingRequest is the validated inbound request for a personalized
// briefing. It lives only for the duration of one request.
type BriefingRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SentimentStats summarizes the overall sentiment of the analyzed posts.
type SentimentStats struct {
	OverallLabel string  `json:"overall_label"`
	AverageScore float64 `json:"average_score"`
}

// Issue is one ranked problem detected by the upstream analysis process.
// Snapshot order is meaningful: the producer pre-sorts by priority.
type Issue struct {
	Severity string `json:"severity"`
	Category string `json:"category"`
	Title    string `json:"title"`
}

// Snapshot is the pre-computed analytics document produced out-of-band.
// It is read-only; this service never mutates or writes it back.
type Snapshot struct {
	TotalPosts     int            `json:"total_posts"`
	SentimentStats SentimentStats `json:"sentiment_stats"`
	TopIssues      []Issue        `json:"top_issues"`
}

// Content holds the two textual artifacts rendered from a snapshot and a
// request. Derived and transient, never persisted.
type Content struct {
	EmailBody   string
	AudioScript string
}

// OutboundMail is a fully composed message ready for dispatch, including
// one binary attachment held in memory.
type OutboundMail struct {
	To             string
	Subject        string
	Body           string
	AttachmentName string
	AttachmentMIME string
	Attachment     []byte
}

// DispatchRecord describes one successfully dispatched briefing for the
// audit event stream.
type DispatchRecord struct {
	Recipient      string
	AttachmentName string
	AudioBytes     int
}
