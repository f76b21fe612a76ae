// Package pipeline runs the five-stage briefing sequence: validate the
// request, load the snapshot, compose the content, synthesize the
// narration, dispatch the mail. Stages run strictly in order and the
// first failure is terminal for the request.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/book-expert/audio-briefing-service/internal/compose"
	"github.com/book-expert/audio-briefing-service/internal/core"
	"github.com/book-expert/logger"
)

// Stage identifies where in the sequence a request failed.
type Stage string

// Pipeline stages, in execution order.
const (
	StageValidate   Stage = "validating"
	StageLoad       Stage = "loading"
	StageCompose    Stage = "composing"
	StageSynthesize Stage = "synthesizing"
	StageDispatch   Stage = "dispatching"
)

// Kind classifies a failure for the HTTP surface.
type Kind int

const (
	// KindInput is a caller fault: missing or empty request fields.
	KindInput Kind = iota
	// KindConfig is a deployment fault: the TTS credential is absent.
	// Detected before any network call is attempted.
	KindConfig
	// KindUpstream is a synthesis provider failure. The provider's
	// diagnostic is logged server-side and never reaches the caller.
	KindUpstream
	// KindInternal covers everything else: snapshot read or parse
	// failures, mail dispatch failures, unexpected errors. The
	// underlying message is surfaced to the caller under "details".
	KindInternal
)

// Client-facing messages. These are part of the inbound API contract
// and must not drift.
const (
	MessageMissingFields    = "Name and email are required"
	MessageKeyNotConfigured = "ElevenLabs API key not configured"
	MessageAudioFailed      = "Failed to generate audio"
	MessageSendFailed       = "Failed to send demo"
)

// Attachment content type; the synthesis provider returns MPEG audio.
const attachmentMIME = "audio/mpeg"

// Static errors.
var (
	ErrMissingFields    = errors.New("name and email are required")
	ErrKeyNotConfigured = errors.New("speech synthesis API key not configured")
)

// StageError is a tagged failure: which stage, which kind, the fixed
// client-facing message and the wrapped cause.
type StageError struct {
	Err     error
	Stage   Stage
	Message string
	Kind    Kind
}

// Error implements the error interface.
func (e *StageError) Error() string {
	if e.Err == nil {
		return string(e.Stage) + ": " + e.Message
	}

	return string(e.Stage) + ": " + e.Err.Error()
}

// Unwrap exposes the underlying cause.
func (e *StageError) Unwrap() error {
	return e.Err
}

// Result describes one successfully dispatched briefing.
type Result struct {
	Recipient      string
	AttachmentName string
	AudioBytes     int
}

// Pipeline wires the four ports together. The dispatch publisher is
// optional; everything else is required.
type Pipeline struct {
	loader           core.SnapshotLoader
	synthesizer      core.SpeechSynthesizer
	mailer           core.MailSender
	publisher        core.DispatchPublisher
	log              *logger.Logger
	now              func() time.Time
	ttsKeyConfigured bool
}

// New creates a briefing pipeline using the wall clock.
func New(
	loader core.SnapshotLoader,
	synthesizer core.SpeechSynthesizer,
	mailer core.MailSender,
	publisher core.DispatchPublisher,
	ttsKeyConfigured bool,
	log *logger.Logger,
) *Pipeline {
	return NewWithClock(loader, synthesizer, mailer, publisher, ttsKeyConfigured, log, time.Now)
}

// NewWithClock creates a pipeline with an injected clock. This
// constructor is primarily for testing, where a fixed clock makes the
// composed content deterministic.
func NewWithClock(
	loader core.SnapshotLoader,
	synthesizer core.SpeechSynthesizer,
	mailer core.MailSender,
	publisher core.DispatchPublisher,
	ttsKeyConfigured bool,
	log *logger.Logger,
	now func() time.Time,
) *Pipeline {
	return &Pipeline{
		loader:           loader,
		synthesizer:      synthesizer,
		mailer:           mailer,
		publisher:        publisher,
		log:              log,
		now:              now,
		ttsKeyConfigured: ttsKeyConfigured,
	}
}

// Run executes the full sequence for one request. It returns either a
// result or a StageError; never both. A failed stage short-circuits
// everything after it.
func (p *Pipeline) Run(ctx context.Context, req core.BriefingRequest) (*Result, *StageError) {
	if req.Name == "" || req.Email == "" {
		return nil, &StageError{
			Err:     ErrMissingFields,
			Stage:   StageValidate,
			Message: MessageMissingFields,
			Kind:    KindInput,
		}
	}

	snapshot, err := p.loader.Load(ctx)
	if err != nil {
		return nil, &StageError{
			Err:     err,
			Stage:   StageLoad,
			Message: MessageSendFailed,
			Kind:    KindInternal,
		}
	}

	// One moment in time for the whole request, so the email body,
	// narration, subject and filename all agree on the date.
	now := p.now()

	content := compose.Briefing(req, snapshot, now)

	if !p.ttsKeyConfigured {
		return nil, &StageError{
			Err:     ErrKeyNotConfigured,
			Stage:   StageSynthesize,
			Message: MessageKeyNotConfigured,
			Kind:    KindConfig,
		}
	}

	audio, err := p.synthesizer.Synthesize(ctx, content.AudioScript)
	if err != nil {
		p.log.Error("Speech synthesis failed: %v", err)

		return nil, &StageError{
			Err:     err,
			Stage:   StageSynthesize,
			Message: MessageAudioFailed,
			Kind:    KindUpstream,
		}
	}

	outbound := core.OutboundMail{
		To:             req.Email,
		Subject:        compose.Subject(now),
		Body:           content.EmailBody,
		AttachmentName: compose.AttachmentFilename(req.Name),
		AttachmentMIME: attachmentMIME,
		Attachment:     audio,
	}

	err = p.mailer.Send(ctx, outbound)
	if err != nil {
		return nil, &StageError{
			Err:     err,
			Stage:   StageDispatch,
			Message: MessageSendFailed,
			Kind:    KindInternal,
		}
	}

	result := &Result{
		Recipient:      outbound.To,
		AttachmentName: outbound.AttachmentName,
		AudioBytes:     len(audio),
	}

	p.publishDispatched(ctx, result)

	return result, nil
}

// publishDispatched emits the audit event. The mail is already sent, so
// a publish failure is logged and swallowed.
func (p *Pipeline) publishDispatched(ctx context.Context, result *Result) {
	if p.publisher == nil {
		return
	}

	err := p.publisher.PublishDispatched(ctx, core.DispatchRecord{
		Recipient:      result.Recipient,
		AttachmentName: result.AttachmentName,
		AudioBytes:     result.AudioBytes,
	})
	if err != nil {
		p.log.Warn("Failed to publish dispatch event: %v", err)
	}
}
