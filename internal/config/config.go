// Package config provides the configuration structure for the audio
// briefing service.
package config

import (
	"fmt"
	"os"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
)

// Environment variable names for the three required secrets.
const (
	EnvElevenLabsAPIKey = "ELEVENLABS_API_KEY"
	EnvSenderEmail      = "SENDER_EMAIL"
	EnvSenderPassword   = "GMAIL_APP_PASSWORD"
)

// Defaults applied when the corresponding TOML keys are absent.
const (
	defaultHTTPPort          = 8080
	defaultSnapshotPath      = "latest_report.json"
	defaultElevenLabsBaseURL = "https://api.elevenlabs.io"
	defaultVoiceID           = "21m00Tcm4TlvDq8ikWAM"
	defaultModelID           = "eleven_monolingual_v1"
	defaultStability         = 0.5
	defaultSimilarityBoost   = 0.75
	defaultStyle             = 0.0
	defaultTTSTimeoutSeconds = 60
	defaultSMTPHost          = "smtp.gmail.com"
	defaultSMTPPort          = 587
	defaultSMTPTimeout       = 30
)

// HTTPConfig holds the configuration for the inbound HTTP listener.
type HTTPConfig struct {
	Port int `toml:"port"`
}

// ReportConfig holds the location of the pre-computed analytics snapshot.
type ReportConfig struct {
	SnapshotPath string `toml:"snapshot_path"`
}

// ElevenLabsConfig holds the speech synthesis endpoint, voice identity
// and voice-tuning parameters. The API key itself is a secret and comes
// from the environment, not from TOML.
type ElevenLabsConfig struct {
	BaseURL         string  `toml:"base_url"`
	VoiceID         string  `toml:"voice_id"`
	ModelID         string  `toml:"model_id"`
	Stability       float64 `toml:"stability"`
	SimilarityBoost float64 `toml:"similarity_boost"`
	Style           float64 `toml:"style"`
	UseSpeakerBoost bool    `toml:"use_speaker_boost"`
	TimeoutSeconds  int     `toml:"timeout_seconds"`
}

// SMTPConfig holds the mail relay endpoint. Credentials come from the
// environment.
type SMTPConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// NATSConfig holds the configuration for the dispatch audit stream.
// An empty URL disables audit publishing entirely.
type NATSConfig struct {
	URL                       string `toml:"url"`
	DispatchStreamName        string `toml:"dispatch_stream_name"`
	BriefingDispatchedSubject string `toml:"briefing_dispatched_subject"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir"`
}

// Config is the root configuration structure.
type Config struct {
	HTTP       HTTPConfig       `toml:"http"`
	Report     ReportConfig     `toml:"report"`
	ElevenLabs ElevenLabsConfig `toml:"elevenlabs"`
	SMTP       SMTPConfig       `toml:"smtp"`
	NATS       NATSConfig       `toml:"nats"`
	Paths      PathsConfig      `toml:"paths"`
}

// Secrets carries the credential values read once from the process
// environment at startup. It is passed explicitly into the wiring code
// so tests can substitute fakes without touching process-wide state.
type Secrets struct {
	ElevenLabsAPIKey string
	SenderEmail      string
	SenderPassword   string
}

// Load loads the configuration for the audio briefing service and
// applies defaults for any absent optional keys.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	cfg.ApplyDefaults()

	return &cfg, nil
}

// LoadSecrets reads the three provider credentials from the process
// environment. Absence is not an error here: the missing TTS key is
// detected per-request before any network call, and missing mail
// credentials surface as a dispatch failure.
func LoadSecrets() Secrets {
	return Secrets{
		ElevenLabsAPIKey: os.Getenv(EnvElevenLabsAPIKey),
		SenderEmail:      os.Getenv(EnvSenderEmail),
		SenderPassword:   os.Getenv(EnvSenderPassword),
	}
}

// ApplyDefaults fills in every absent optional key. The voice-tuning
// block is treated as a unit: when no model is configured, the full
// fixed parameter set of the original service contract is applied.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = defaultHTTPPort
	}

	if c.Report.SnapshotPath == "" {
		c.Report.SnapshotPath = defaultSnapshotPath
	}

	if c.ElevenLabs.BaseURL == "" {
		c.ElevenLabs.BaseURL = defaultElevenLabsBaseURL
	}

	if c.ElevenLabs.VoiceID == "" {
		c.ElevenLabs.VoiceID = defaultVoiceID
	}

	if c.ElevenLabs.ModelID == "" {
		c.ElevenLabs.ModelID = defaultModelID
		c.ElevenLabs.Stability = defaultStability
		c.ElevenLabs.SimilarityBoost = defaultSimilarityBoost
		c.ElevenLabs.Style = defaultStyle
		c.ElevenLabs.UseSpeakerBoost = true
	}

	if c.ElevenLabs.TimeoutSeconds == 0 {
		c.ElevenLabs.TimeoutSeconds = defaultTTSTimeoutSeconds
	}

	if c.SMTP.Host == "" {
		c.SMTP.Host = defaultSMTPHost
	}

	if c.SMTP.Port == 0 {
		c.SMTP.Port = defaultSMTPPort
	}

	if c.SMTP.TimeoutSeconds == 0 {
		c.SMTP.TimeoutSeconds = defaultSMTPTimeout
	}
}
