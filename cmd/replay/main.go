package main

import (
	"context"
	"fmt"
	"os"

	"dbt-change-tracker/config"
	"dbt-change-tracker/internal/model"
	"dbt-change-tracker/internal/processor"
	"dbt-change-tracker/internal/record/repository"
	"dbt-change-tracker/internal/record/repository/supabase"
	"dbt-change-tracker/internal/webhook"
	"dbt-change-tracker/pkg/gemini"
	"dbt-change-tracker/pkg/githubapi"
	"dbt-change-tracker/pkg/log"
)

// Replays archived webhook payload files through the same processing
// pipeline as live deliveries. Useful for re-ingesting events after an
// outage or for testing against a captured payload:
//
//	go run cmd/replay/main.go webhooks/webhook_payload_*.json
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: replay <payload.json> [more payloads...]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx := context.Background()

	githubClient := githubapi.NewClient(cfg.GitHub.Token)

	summarizer, err := gemini.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		logger.Warnf(ctx, "Gemini not available: %v", err)
		summarizer = gemini.NewUnavailable("gemini client not initialized")
	}

	var recordRepo repository.RecordRepository
	if cfg.Supabase.URL != "" && cfg.Supabase.ServiceKey != "" {
		recordRepo = supabase.New(supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey), logger)
	} else {
		logger.Warn(ctx, "Supabase not configured, replayed records will not be persisted")
		recordRepo = repository.NewUnavailable("supabase credentials not configured")
	}

	processorUC := processor.New(githubClient, summarizer, recordRepo, processor.Config{
		ModelDir:         cfg.Tracker.ModelDir,
		ModelExt:         cfg.Tracker.ModelExt,
		PerFileSummaries: cfg.Tracker.PerFileSummaries,
	}, logger)

	parser := webhook.NewGitHubParser()

	exitCode := 0
	for _, path := range os.Args[1:] {
		if err := replayFile(ctx, parser, processorUC, path); err != nil {
			logger.Errorf(ctx, "Replay failed for %s: %v", path, err)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func replayFile(ctx context.Context, parser *webhook.GitHubWebhookParser, uc processor.UseCase, path string) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}

	event, err := parser.ParsePullRequestEvent(body)
	if err != nil {
		return fmt.Errorf("parse payload: %w", err)
	}
	event.Source = model.SourceReplay
	event.PayloadPath = path

	output, err := uc.ProcessEvent(ctx, processor.ProcessEventInput{Event: *event})
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s", path, output.Outcome)
	if output.Reason != "" {
		fmt.Printf(" (%s)", output.Reason)
	}
	if len(output.Warnings) > 0 {
		fmt.Printf(" warnings=%v", output.Warnings)
	}
	fmt.Printf(" %s\n", output.Message)
	return nil
}
