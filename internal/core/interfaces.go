package core

import "context"

// SnapshotLoader reads and normalizes the analytics snapshot. Each call
// re-reads the underlying document; implementations perform no caching.
type SnapshotLoader interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// SpeechSynthesizer converts a narration script into an audio byte
// stream via an external text-to-speech provider.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// MailSender delivers a composed message with its attachment through an
// external mail relay. One synchronous call, no retry.
type MailSender interface {
	Send(ctx context.Context, msg OutboundMail) error
}

// DispatchPublisher notifies interested sibling processes that a
// briefing was dispatched. Failures must never affect the caller-visible
// outcome of the request.
type DispatchPublisher interface {
	PublishDispatched(ctx context.Context, record DispatchRecord) error
}
