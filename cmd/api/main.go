package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dbt-change-tracker/config"
	_ "dbt-change-tracker/docs" // Swagger docs
	"dbt-change-tracker/internal/httpserver"
	"dbt-change-tracker/internal/processor"
	"dbt-change-tracker/internal/record/repository"
	"dbt-change-tracker/internal/record/repository/supabase"
	"dbt-change-tracker/internal/webhook"
	"dbt-change-tracker/pkg/gemini"
	"dbt-change-tracker/pkg/githubapi"
	"dbt-change-tracker/pkg/log"
)

// @title       dbt Change Tracker API
// @description GitHub webhook processor that records merged dbt model changes with AI summaries.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting dbt Change Tracker...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. GitHub file listing client. An unauthenticated client still works
	// for public repositories, just with a lower rate limit.
	if cfg.GitHub.Token == "" {
		logger.Warn(ctx, "GITHUB_TOKEN not set, using unauthenticated GitHub client")
	}
	githubClient := githubapi.NewClient(cfg.GitHub.Token)

	// 4. Gemini summarizer (optional)
	summarizer, err := gemini.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		logger.Warnf(ctx, "Gemini not available, PRs will be recorded without summaries: %v", err)
		summarizer = gemini.NewUnavailable("gemini client not initialized")
	} else {
		logger.Infof(ctx, "Gemini summarizer initialized (model=%s)", cfg.Gemini.Model)
	}

	// 5. Supabase record store (optional)
	var recordRepo repository.RecordRepository
	if cfg.Supabase.URL != "" && cfg.Supabase.ServiceKey != "" {
		recordRepo = supabase.New(supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey), logger)
		logger.Infof(ctx, "Supabase record store initialized (%s)", cfg.Supabase.URL)
	} else {
		logger.Warn(ctx, "SUPABASE_URL or SUPABASE_KEY not set, records will not be persisted")
		recordRepo = repository.NewUnavailable("supabase credentials not configured")
	}

	// 6. Event processor
	processorUC := processor.New(githubClient, summarizer, recordRepo, processor.Config{
		ModelDir:         cfg.Tracker.ModelDir,
		ModelExt:         cfg.Tracker.ModelExt,
		PerFileSummaries: cfg.Tracker.PerFileSummaries,
	}, logger)

	// 7. Webhook intake
	webhookHandler := webhook.NewHandler(processorUC,
		webhook.SecurityConfig{
			Secret:          cfg.Webhook.Secret,
			AllowedIPs:      cfg.Webhook.AllowedIPs,
			RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
		},
		webhook.ArchiveConfig{
			Enabled: cfg.Webhook.SavePayloads,
			Dir:     cfg.Webhook.PayloadDir,
		},
		logger,
	)

	// 8. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:         logger,
		Port:           cfg.HTTPServer.Port,
		Mode:           cfg.HTTPServer.Mode,
		Environment:    cfg.Environment.Name,
		WebhookHandler: webhookHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 9. Run
	if err := httpServer.Run(); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
