package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/thromer/pc-boxscores/internal/logger"
)

// Validate checks settings every command depends on.
func (c *Config) Validate() error {
	var errs []error

	if c.League.ID == "" {
		errs = append(errs, errors.New("league id is required"))
	}
	if u, err := url.Parse(c.League.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid base url %q", c.League.BaseURL))
	}
	if c.League.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("http timeout must be positive"))
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Notify.Target {
	case TargetChat, TargetTwitter, TargetTelegram, TargetDryRun:
	default:
		errs = append(errs, fmt.Errorf("unknown notify target %q", c.Notify.Target))
	}
	if c.Discover.StopAfterProcessedDays < 1 {
		errs = append(errs, errors.New("stop-after-processed-days must be at least 1"))
	}
	if c.Discover.ArchiveWorkers < 1 {
		errs = append(errs, errors.New("archive workers must be at least 1"))
	}

	return errors.Join(errs...)
}

// ValidateNotify checks that the selected notify target can be built.
func (c *Config) ValidateNotify() error {
	if c.Notify.DryRun {
		return nil
	}
	switch c.Notify.Target {
	case TargetChat:
		if !c.Login.HasDirectCredentials() && c.Login.Bucket == "" {
			return errors.New("chat target needs PC_USERNAME/PC_PASSWORD or PC_LOGIN_BUCKET")
		}
	case TargetTwitter:
		if !c.Notify.HasTwitter() {
			return errors.New("twitter target needs TWITTER_API_KEY, TWITTER_API_SECRET, TWITTER_ACCESS_TOKEN and TWITTER_ACCESS_SECRET")
		}
	case TargetTelegram:
		if !c.Notify.HasTelegram() {
			return errors.New("telegram target needs TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID")
		}
	}
	return nil
}

// UsesAWS reports whether any AWS resource is configured.
func (c *Config) UsesAWS() bool {
	return c.AWS.ArchiveBucket != "" || c.AWS.GamesTable != "" || c.Login.Bucket != ""
}
