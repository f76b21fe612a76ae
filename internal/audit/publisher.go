// Package audit publishes briefing-dispatched events to a JetStream
// subject so sibling processes (the out-of-band snapshot producer among
// them) can observe demo activity. Publishing happens only after the
// mail relay has accepted the message and can never change the
// caller-visible outcome of a request.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/book-expert/audio-briefing-service/internal/core"
	"github.com/book-expert/events"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// ErrSubjectEmpty indicates that the publisher was built without a
// subject to publish on.
var ErrSubjectEmpty = errors.New("dispatch subject cannot be empty")

// BriefingDispatchedEvent is the wire format of one dispatched briefing.
type BriefingDispatchedEvent struct {
	Header         events.EventHeader `json:"header"`
	Recipient      string             `json:"recipient"`
	AttachmentName string             `json:"attachment_name"`
	AudioBytes     int                `json:"audio_bytes"`
}

// Publisher writes dispatch events to one JetStream subject. It
// implements core.DispatchPublisher.
type Publisher struct {
	jetstreamContext nats.JetStreamContext
	subject          string
}

// New creates a publisher and ensures the backing stream exists,
// binding to it when another process created it first.
func New(jetstreamContext nats.JetStreamContext, streamName, subject string) (*Publisher, error) {
	if subject == "" {
		return nil, ErrSubjectEmpty
	}

	_, err := jetstreamContext.AddStream(&nats.StreamConfig{
		Name:        streamName,
		Description: fmt.Sprintf("Dispatch audit trail for the %s subject.", subject),
		Subjects:    []string{subject},
	})
	if err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		return nil, fmt.Errorf("failed to create dispatch stream '%s': %w", streamName, err)
	}

	return &Publisher{
		jetstreamContext: jetstreamContext,
		subject:          subject,
	}, nil
}

// PublishDispatched emits one event for a successfully dispatched
// briefing.
func (p *Publisher) PublishDispatched(ctx context.Context, record core.DispatchRecord) error {
	event := BriefingDispatchedEvent{
		Header: events.EventHeader{
			Timestamp:  time.Now(),
			WorkflowID: uuid.NewString(),
			EventID:    uuid.NewString(),
			UserID:     "",
			TenantID:   "",
		},
		Recipient:      record.Recipient,
		AttachmentName: record.AttachmentName,
		AudioBytes:     record.AudioBytes,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch event: %w", err)
	}

	_, err = p.jetstreamContext.Publish(p.subject, data, nats.Context(ctx))
	if err != nil {
		return fmt.Errorf("failed to publish dispatch event to '%s': %w", p.subject, err)
	}

	return nil
}
