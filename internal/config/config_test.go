// Package config_test tests the configuration loading for the audio
// briefing service.
package config_test

import (
	"testing"

	"github.com/book-expert/audio-briefing-service/internal/config"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeConfig(t *testing.T) {
	t.Parallel()

	tomlData := `
[http]
port = 9090

[report]
snapshot_path = "data/latest_report.json"

[elevenlabs]
base_url = "https://api.elevenlabs.io"
voice_id = "21m00Tcm4TlvDq8ikWAM"
model_id = "eleven_monolingual_v1"
stability = 0.5
similarity_boost = 0.75
style = 0.0
use_speaker_boost = true
timeout_seconds = 60

[smtp]
host = "smtp.gmail.com"
port = 587
timeout_seconds = 30

[nats]
url = "nats://127.0.0.1:4222"
dispatch_stream_name = "BRIEFING_DISPATCHES"
briefing_dispatched_subject = "briefing.dispatched"

[paths]
base_logs_dir = "/var/log/audio-briefing-service"
`

	var cfg config.Config

	err := toml.Unmarshal([]byte(tomlData), &cfg)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "data/latest_report.json", cfg.Report.SnapshotPath)
	assert.Equal(t, "https://api.elevenlabs.io", cfg.ElevenLabs.BaseURL)
	assert.Equal(t, "21m00Tcm4TlvDq8ikWAM", cfg.ElevenLabs.VoiceID)
	assert.Equal(t, "eleven_monolingual_v1", cfg.ElevenLabs.ModelID)
	assert.InEpsilon(t, 0.5, cfg.ElevenLabs.Stability, 0.001)
	assert.InEpsilon(t, 0.75, cfg.ElevenLabs.SimilarityBoost, 0.001)
	assert.True(t, cfg.ElevenLabs.UseSpeakerBoost)
	assert.Equal(t, 60, cfg.ElevenLabs.TimeoutSeconds)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, 30, cfg.SMTP.TimeoutSeconds)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NATS.URL)
	assert.Equal(t, "BRIEFING_DISPATCHES", cfg.NATS.DispatchStreamName)
	assert.Equal(t, "briefing.dispatched", cfg.NATS.BriefingDispatchedSubject)
	assert.Equal(t, "/var/log/audio-briefing-service", cfg.Paths.BaseLogsDir)
}

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	var cfg config.Config

	cfg.ApplyDefaults()

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "latest_report.json", cfg.Report.SnapshotPath)
	assert.Equal(t, "https://api.elevenlabs.io", cfg.ElevenLabs.BaseURL)
	assert.Equal(t, "21m00Tcm4TlvDq8ikWAM", cfg.ElevenLabs.VoiceID)
	assert.Equal(t, "eleven_monolingual_v1", cfg.ElevenLabs.ModelID)
	assert.InEpsilon(t, 0.5, cfg.ElevenLabs.Stability, 0.001)
	assert.InEpsilon(t, 0.75, cfg.ElevenLabs.SimilarityBoost, 0.001)
	assert.Zero(t, cfg.ElevenLabs.Style)
	assert.True(t, cfg.ElevenLabs.UseSpeakerBoost)
	assert.Equal(t, 60, cfg.ElevenLabs.TimeoutSeconds)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Empty(t, cfg.NATS.URL, "audit publishing is disabled unless configured")
}

func TestApplyDefaultsKeepsExplicitTuning(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		ElevenLabs: config.ElevenLabsConfig{
			ModelID:         "eleven_multilingual_v2",
			Stability:       0.3,
			SimilarityBoost: 0.9,
			Style:           0.1,
			UseSpeakerBoost: false,
			TimeoutSeconds:  0,
		},
	}

	cfg.ApplyDefaults()

	assert.Equal(t, "eleven_multilingual_v2", cfg.ElevenLabs.ModelID)
	assert.InEpsilon(t, 0.3, cfg.ElevenLabs.Stability, 0.001)
	assert.InEpsilon(t, 0.9, cfg.ElevenLabs.SimilarityBoost, 0.001)
	assert.False(t, cfg.ElevenLabs.UseSpeakerBoost)
	assert.Equal(t, 60, cfg.ElevenLabs.TimeoutSeconds)
}

func TestLoadSecrets(t *testing.T) {
	t.Setenv(config.EnvElevenLabsAPIKey, "xi-test-key")
	t.Setenv(config.EnvSenderEmail, "sender@example.com")
	t.Setenv(config.EnvSenderPassword, "app-password")

	secrets := config.LoadSecrets()

	assert.Equal(t, "xi-test-key", secrets.ElevenLabsAPIKey)
	assert.Equal(t, "sender@example.com", secrets.SenderEmail)
	assert.Equal(t, "app-password", secrets.SenderPassword)
}
