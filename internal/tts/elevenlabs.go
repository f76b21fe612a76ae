// Package tts provides the speech synthesis client for the briefing
// pipeline. It talks to the ElevenLabs text-to-speech API and returns
// the generated audio as an in-memory byte stream; nothing is ever
// written to disk.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/book-expert/logger"
)

// API path. The voice identity is embedded in the URL, not the body.
const synthesisPathFormat = "/v1/text-to-speech/%s"

// HTTP headers.
const (
	headerAPIKey      = "xi-api-key"
	headerContentType = "Content-Type"
	headerAccept      = "Accept"
	contentTypeJSON   = "application/json"
	contentTypeMPEG   = "audio/mpeg"
)

// Static errors.
var (
	ErrTextEmpty       = errors.New("text cannot be empty")
	ErrAPIKeyEmpty     = errors.New("API key cannot be empty")
	ErrSynthesisFailed = errors.New("speech synthesis request failed")
	ErrEmptyAudio      = errors.New("received empty audio data")
)

// VoiceSettings is the fixed voice-tuning parameter set forwarded with
// every synthesis request.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// synthesisRequest is the JSON payload of the synthesis endpoint.
type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// Client is an ElevenLabs API client bound to one voice identity and
// one synthesis model. It implements core.SpeechSynthesizer.
type Client struct {
	httpClient *http.Client
	log        *logger.Logger
	baseURL    string
	apiKey     string
	voiceID    string
	modelID    string
	settings   VoiceSettings
}

// NewClient creates an ElevenLabs client. The timeout bounds the full
// request/response round trip of every synthesis call.
func NewClient(
	baseURL, apiKey, voiceID, modelID string,
	settings VoiceSettings,
	timeout time.Duration,
	log *logger.Logger,
) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
		baseURL:    baseURL,
		apiKey:     apiKey,
		voiceID:    voiceID,
		modelID:    modelID,
		settings:   settings,
	}
}

// Synthesize converts the narration script to an audio/mpeg byte
// stream. The provider's error body is logged server-side for
// diagnostics but never surfaced to the caller of the pipeline.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, ErrTextEmpty
	}

	if c.apiKey == "" {
		return nil, ErrAPIKeyEmpty
	}

	requestBody, err := json.Marshal(synthesisRequest{
		Text:          text,
		ModelID:       c.modelID,
		VoiceSettings: c.settings,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	url := c.baseURL + fmt.Sprintf(synthesisPathFormat, c.voiceID)

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		url,
		bytes.NewBuffer(requestBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesis request: %w", err)
	}

	httpReq.Header.Set(headerAPIKey, c.apiKey)
	httpReq.Header.Set(headerContentType, contentTypeJSON)
	httpReq.Header.Set(headerAccept, contentTypeMPEG)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to send synthesis request to %s: %w",
			c.baseURL,
			err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.synthesisError(resp)
	}

	// The full artifact is buffered in memory; there is no streaming
	// or partial-delivery path.
	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	if len(audioData) == 0 {
		return nil, ErrEmptyAudio
	}

	return audioData, nil
}

// synthesisError reads the provider's error body for server-side
// diagnostics and returns a generic failure to the pipeline.
func (c *Client) synthesisError(resp *http.Response) error {
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		c.log.Error("ElevenLabs error (%s): failed to read error body: %v", resp.Status, readErr)

		return fmt.Errorf("%w: status %s", ErrSynthesisFailed, resp.Status)
	}

	c.log.Error("ElevenLabs error (%s): %s", resp.Status, string(body))

	return fmt.Errorf("%w: status %s", ErrSynthesisFailed, resp.Status)
}
