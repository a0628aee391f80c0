package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		League:   LeagueConfig{ID: "256", BaseURL: "https://www.pennantchase.com", HTTPTimeout: 30 * time.Second},
		Notify:   NotifyConfig{Target: TargetChat},
		Discover: DiscoverConfig{StopAfterProcessedDays: 2, ArchiveWorkers: 4},
		Log:      LogConfig{Level: "info"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.League.ID != "256" {
		t.Errorf("League.ID = %q, want 256", cfg.League.ID)
	}
	if cfg.League.BaseURL != "https://www.pennantchase.com" {
		t.Errorf("League.BaseURL = %q", cfg.League.BaseURL)
	}
	if cfg.Discover.StopAfterProcessedDays != 2 {
		t.Errorf("StopAfterProcessedDays = %d, want 2", cfg.Discover.StopAfterProcessedDays)
	}
	if cfg.Redis.LockTTL != 10*time.Minute {
		t.Errorf("LockTTL = %v, want 10m", cfg.Redis.LockTTL)
	}
	if cfg.Login.Object != "pennantchase-login.json" {
		t.Errorf("Login.Object = %q", cfg.Login.Object)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("PC_LEAGUE_ID", "1000")
	t.Setenv("PC_ARCHIVE_BUCKET", "pc-box-scores")
	t.Setenv("PC_DRY_RUN", "true")
	t.Setenv("PC_ARCHIVE_WORKERS", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.League.ID != "1000" {
		t.Errorf("League.ID = %q, want 1000", cfg.League.ID)
	}
	if cfg.AWS.ArchiveBucket != "pc-box-scores" {
		t.Errorf("ArchiveBucket = %q", cfg.AWS.ArchiveBucket)
	}
	if !cfg.Notify.DryRun {
		t.Error("DryRun should be true")
	}
	if cfg.Discover.ArchiveWorkers != 8 {
		t.Errorf("ArchiveWorkers = %d, want 8", cfg.Discover.ArchiveWorkers)
	}
	if !cfg.UsesAWS() {
		t.Error("UsesAWS() should be true with an archive bucket")
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "league:\n  id: \"777\"\nnotify:\n  target: telegram\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.League.ID != "777" {
		t.Errorf("League.ID = %q, want 777", cfg.League.ID)
	}
	if cfg.Notify.Target != TargetTelegram {
		t.Errorf("Notify.Target = %q, want telegram", cfg.Notify.Target)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Error("Load() should fail for a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty league", func(c *Config) { c.League.ID = "" }, "league id"},
		{"relative base url", func(c *Config) { c.League.BaseURL = "pennantchase.com" }, "invalid base url"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "unknown log level"},
		{"bad target", func(c *Config) { c.Notify.Target = "email" }, "unknown notify target"},
		{"zero workers", func(c *Config) { c.Discover.ArchiveWorkers = 0 }, "archive workers"},
		{"zero stop days", func(c *Config) { c.Discover.StopAfterProcessedDays = 0 }, "stop-after"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNotify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"chat without credentials", func(*Config) {}, true},
		{"chat with direct credentials", func(c *Config) { c.Login.Username, c.Login.Password = "u", "p" }, false},
		{"chat with login bucket", func(c *Config) { c.Login.Bucket = "pc-creds" }, false},
		{"dry run needs nothing", func(c *Config) { c.Notify.DryRun = true }, false},
		{"twitter partial", func(c *Config) {
			c.Notify.Target = TargetTwitter
			c.Notify.TwitterAPIKey = "k"
		}, true},
		{"twitter complete", func(c *Config) {
			c.Notify.Target = TargetTwitter
			c.Notify.TwitterAPIKey, c.Notify.TwitterAPISecret = "k", "s"
			c.Notify.TwitterAccessToken, c.Notify.TwitterAccessSecret = "t", "ts"
		}, false},
		{"telegram missing chat", func(c *Config) {
			c.Notify.Target = TargetTelegram
			c.Notify.TelegramBotToken = "bot"
		}, true},
		{"dryrun target", func(c *Config) { c.Notify.Target = TargetDryRun }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			if err := cfg.ValidateNotify(); (err != nil) != tt.wantErr {
				t.Errorf("ValidateNotify() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUsage(t *testing.T) {
	if !strings.Contains(Usage(), "PC_LEAGUE_ID") {
		t.Error("Usage() should describe PC_LEAGUE_ID")
	}
}
