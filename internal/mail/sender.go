// Package mail dispatches the composed briefing email with its audio
// attachment through an authenticated SMTP relay.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/book-expert/audio-briefing-service/internal/core"
	gomail "github.com/wneessen/go-mail"
)

// Static errors.
var (
	ErrRecipientEmpty  = errors.New("recipient address cannot be empty")
	ErrAttachmentEmpty = errors.New("attachment data cannot be empty")
)

// Sender delivers messages over SMTP submission with mandatory TLS.
// The credential pair is the sender account and an app-level password.
// It implements core.MailSender.
type Sender struct {
	host     string
	username string
	password string
	port     int
	timeout  time.Duration
}

// NewSender creates an SMTP sender. The timeout bounds the full dial,
// auth and send sequence of one dispatch.
func NewSender(host string, port int, username, password string, timeout time.Duration) *Sender {
	return &Sender{
		host:     host,
		username: username,
		password: password,
		port:     port,
		timeout:  timeout,
	}
}

// Send delivers one message synchronously. Any failure (credential
// rejection, network error, relay-side bounce at send time) is returned
// as-is; no retry is attempted.
func (s *Sender) Send(ctx context.Context, msg core.OutboundMail) error {
	message, err := buildMessage(s.username, msg)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(
		s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
		gomail.WithTimeout(s.timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	err = client.DialAndSendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}

	return nil
}

// buildMessage constructs the MIME message: plain-text body plus one
// binary attachment carried fully in memory.
func buildMessage(from string, msg core.OutboundMail) (*gomail.Msg, error) {
	if msg.To == "" {
		return nil, ErrRecipientEmpty
	}

	if len(msg.Attachment) == 0 {
		return nil, ErrAttachmentEmpty
	}

	message := gomail.NewMsg()

	err := message.From(from)
	if err != nil {
		return nil, fmt.Errorf("failed to set sender address: %w", err)
	}

	err = message.To(msg.To)
	if err != nil {
		return nil, fmt.Errorf("failed to set recipient address: %w", err)
	}

	message.Subject(msg.Subject)
	message.SetBodyString(gomail.TypeTextPlain, msg.Body)

	err = message.AttachReader(
		msg.AttachmentName,
		bytes.NewReader(msg.Attachment),
		gomail.WithFileContentType(gomail.ContentType(msg.AttachmentMIME)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to attach %s: %w", msg.AttachmentName, err)
	}

	return message, nil
}
