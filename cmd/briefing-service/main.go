// main package for the audio-briefing-service
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/book-expert/audio-briefing-service/internal/api"
	"github.com/book-expert/audio-briefing-service/internal/audit"
	"github.com/book-expert/audio-briefing-service/internal/config"
	"github.com/book-expert/audio-briefing-service/internal/core"
	"github.com/book-expert/audio-briefing-service/internal/mail"
	"github.com/book-expert/audio-briefing-service/internal/pipeline"
	"github.com/book-expert/audio-briefing-service/internal/report"
	"github.com/book-expert/audio-briefing-service/internal/tts"
	"github.com/book-expert/logger"
	"github.com/nats-io/nats.go"
)

func setupLogger(logPath string) (*logger.Logger, error) {
	log, err := logger.New(logPath, "audio-briefing-service.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

func run() error {
	// 1. Create a temporary logger for the bootstrap process.
	bootstrapLog, err := setupLogger(os.TempDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	// 2. Load configuration using the central configurator.
	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 3. Initialize the final logger based on the loaded configuration.
	finalLog, err := setupLogger(cfg.Paths.BaseLogsDir)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := finalLog.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing final logger: %v\n", closeErr)
		}
	}()

	return serve(cfg, finalLog)
}

func serve(cfg *config.Config, log *logger.Logger) error {
	// Secrets are read once at startup and handed down explicitly.
	secrets := config.LoadSecrets()

	if secrets.ElevenLabsAPIKey == "" {
		log.Warn("ElevenLabs API key not set; briefing requests will fail until it is configured")
	}

	loader := report.NewLoader(cfg.Report.SnapshotPath)

	synthesizer := tts.NewClient(
		cfg.ElevenLabs.BaseURL,
		secrets.ElevenLabsAPIKey,
		cfg.ElevenLabs.VoiceID,
		cfg.ElevenLabs.ModelID,
		tts.VoiceSettings{
			Stability:       cfg.ElevenLabs.Stability,
			SimilarityBoost: cfg.ElevenLabs.SimilarityBoost,
			Style:           cfg.ElevenLabs.Style,
			UseSpeakerBoost: cfg.ElevenLabs.UseSpeakerBoost,
		},
		time.Duration(cfg.ElevenLabs.TimeoutSeconds)*time.Second,
		log,
	)

	sender := mail.NewSender(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		secrets.SenderEmail,
		secrets.SenderPassword,
		time.Duration(cfg.SMTP.TimeoutSeconds)*time.Second,
	)

	publisher, err := setupPublisher(cfg, log)
	if err != nil {
		return err
	}

	briefingPipeline := pipeline.New(
		loader,
		synthesizer,
		sender,
		publisher,
		secrets.ElevenLabsAPIKey != "",
		log,
	)

	server := api.NewServer(briefingPipeline, cfg.HTTP.Port, log)

	log.System("Audio briefing service initialized, snapshot at %s", cfg.Report.SnapshotPath)

	err = server.Start()
	if err != nil {
		return fmt.Errorf("server exited: %w", err)
	}

	return nil
}

// setupPublisher connects the dispatch audit stream. Audit publishing
// is optional: with no NATS URL configured the service runs without it.
func setupPublisher(cfg *config.Config, log *logger.Logger) (core.DispatchPublisher, error) {
	if cfg.NATS.URL == "" {
		log.Warn("NATS URL not configured; dispatch audit events are disabled")

		return nil, nil
	}

	natsConnection, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATS.URL, err)
	}

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	publisher, err := audit.New(
		jetstreamContext,
		cfg.NATS.DispatchStreamName,
		cfg.NATS.BriefingDispatchedSubject,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatch publisher: %w", err)
	}

	return publisher, nil
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}
