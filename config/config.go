package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration, built once at startup and threaded
// through constructors. Nothing reads the environment after Load returns.
type Config struct {
	Environment EnvironmentConfig
	HTTPServer  HTTPServerConfig
	Logger      LoggerConfig

	GitHub   GitHubConfig
	Gemini   GeminiConfig
	Supabase SupabaseConfig
	Tracker  TrackerConfig
	Webhook  WebhookConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// GitHubConfig configures the source-control API client.
type GitHubConfig struct {
	Token string
}

// GeminiConfig configures the summarization client.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// SupabaseConfig configures the PostgREST data store.
type SupabaseConfig struct {
	URL        string
	ServiceKey string
}

// TrackerConfig defines which changed files count as tracked dbt models and
// how summaries are generated for them.
type TrackerConfig struct {
	ModelDir         string // path prefix, e.g. "models/"
	ModelExt         string // file extension, e.g. ".sql"
	PerFileSummaries bool   // one Gemini call per tracked file instead of one per PR
}

type WebhookConfig struct {
	Enabled         bool
	Secret          string
	AllowedIPs      []string
	RateLimitPerMin int
	SavePayloads    bool
	PayloadDir      string
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// GitHub API
	cfg.GitHub.Token = viper.GetString("github.token")
	if token := viper.GetString("github_token"); token != "" {
		cfg.GitHub.Token = token
	}

	// Gemini
	cfg.Gemini.APIKey = viper.GetString("gemini.api_key")
	cfg.Gemini.Model = viper.GetString("gemini.model")
	if key := viper.GetString("gemini_api_key"); key != "" {
		cfg.Gemini.APIKey = key
	}

	// Supabase
	cfg.Supabase.URL = viper.GetString("supabase.url")
	cfg.Supabase.ServiceKey = viper.GetString("supabase.service_key")
	if url := viper.GetString("supabase_url"); url != "" {
		cfg.Supabase.URL = url
	}
	if key := viper.GetString("supabase_key"); key != "" {
		cfg.Supabase.ServiceKey = key
	}

	// Tracker
	cfg.Tracker.ModelDir = viper.GetString("tracker.model_dir")
	cfg.Tracker.ModelExt = viper.GetString("tracker.model_ext")
	cfg.Tracker.PerFileSummaries = viper.GetBool("tracker.per_file_summaries")
	if err := validateTrackerConfig(cfg.Tracker); err != nil {
		return nil, err
	}

	// Webhooks
	cfg.Webhook.Enabled = viper.GetBool("webhook.enabled")
	cfg.Webhook.Secret = viper.GetString("webhook.secret")
	if secret := viper.GetString("webhook_secret"); secret != "" {
		cfg.Webhook.Secret = secret
	}
	cfg.Webhook.RateLimitPerMin = viper.GetInt("webhook.rate_limit_per_min")
	cfg.Webhook.SavePayloads = viper.GetBool("webhook.save_payloads")
	cfg.Webhook.PayloadDir = viper.GetString("webhook.payload_dir")

	// Split allowed IPs since viper might not parse array seamlessly from env
	var ips []string
	if rawIps := viper.GetString("webhook.allowed_ips"); rawIps != "" {
		for _, ip := range strings.Split(rawIps, ",") {
			ip = strings.TrimSpace(ip)
			if ip != "" {
				ips = append(ips, ip)
			}
		}
	}
	cfg.Webhook.AllowedIPs = ips

	return cfg, nil
}

// validateTrackerConfig rejects malformed match patterns at startup.
// A bad pattern is a configuration fault, never a per-event error.
func validateTrackerConfig(cfg TrackerConfig) error {
	if cfg.ModelDir == "" || !strings.HasSuffix(cfg.ModelDir, "/") {
		return fmt.Errorf("tracker.model_dir must be a non-empty directory prefix ending in '/', got %q", cfg.ModelDir)
	}
	if len(cfg.ModelExt) < 2 || !strings.HasPrefix(cfg.ModelExt, ".") {
		return fmt.Errorf("tracker.model_ext must be a file extension starting with '.', got %q", cfg.ModelExt)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)
	viper.SetDefault("gemini.model", "gemini-1.5-flash")
	viper.SetDefault("tracker.model_dir", "models/")
	viper.SetDefault("tracker.model_ext", ".sql")
	viper.SetDefault("tracker.per_file_summaries", false)
	viper.SetDefault("webhook.enabled", true)
	viper.SetDefault("webhook.rate_limit_per_min", 60)
	viper.SetDefault("webhook.save_payloads", false)
	viper.SetDefault("webhook.payload_dir", "webhooks")
}
