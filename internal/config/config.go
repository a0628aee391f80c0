// Package config loads pc-boxscores settings from the environment and an
// optional YAML file.
package config

import "time"

// Config is the root application configuration.
type Config struct {
	League   LeagueConfig   `yaml:"league"`
	Storage  StorageConfig  `yaml:"storage"`
	AWS      AWSConfig      `yaml:"aws"`
	Login    LoginConfig    `yaml:"login"`
	Redis    RedisConfig    `yaml:"redis"`
	Notify   NotifyConfig   `yaml:"notify"`
	Discover DiscoverConfig `yaml:"discover"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// LeagueConfig identifies the league and the site serving it.
type LeagueConfig struct {
	ID          string        `yaml:"id"           env:"PC_LEAGUE_ID"      env-default:"256"`
	Name        string        `yaml:"name"         env:"PC_LEAGUE_NAME"    env-default:"MLB: The Show"`
	BaseURL     string        `yaml:"base_url"     env:"PC_BASE_URL"       env-default:"https://www.pennantchase.com"`
	HTTPTimeout time.Duration `yaml:"http_timeout" env:"PC_HTTP_TIMEOUT"   env-default:"30s"`
	UserAgent   string        `yaml:"user_agent"   env:"PC_USER_AGENT"     env-default:"pc-boxscores/1.0"`
}

// StorageConfig holds local persistence settings.
type StorageConfig struct {
	DataDir string `yaml:"data_dir" env:"PC_DATA_DIR" env-default:"~/.local/share/pc-boxscores"`
}

// AWSConfig names the AWS resources. Empty names select local storage.
type AWSConfig struct {
	Region        string `yaml:"region"         env:"AWS_REGION"`
	ArchiveBucket string `yaml:"archive_bucket" env:"PC_ARCHIVE_BUCKET"`
	GamesTable    string `yaml:"games_table"    env:"PC_GAMES_TABLE"`
}

// LoginConfig locates the site credentials. Username and Password take
// precedence over the encrypted blob in the login bucket.
type LoginConfig struct {
	Username       string `yaml:"username"        env:"PC_USERNAME"`
	Password       string `yaml:"password"        env:"PC_PASSWORD"`
	Bucket         string `yaml:"bucket"          env:"PC_LOGIN_BUCKET"`
	Object         string `yaml:"object"          env:"PC_LOGIN_OBJECT"     env-default:"pennantchase-login.json"`
	CredentialsKey string `yaml:"credentials_key" env:"PC_CREDENTIALS_KEY"`
}

// RedisConfig holds the chat lock settings.
type RedisConfig struct {
	URL     string        `yaml:"url"      env:"REDIS_URL"`
	LockTTL time.Duration `yaml:"lock_ttl" env:"PC_CHAT_LOCK_TTL" env-default:"10m"`
}

// NotifyConfig selects where achievement messages go.
type NotifyConfig struct {
	Target              string `yaml:"target"                env:"PC_NOTIFY"             env-default:"chat"`
	DryRun              bool   `yaml:"dry_run"               env:"PC_DRY_RUN"            env-default:"false"`
	TwitterAPIKey       string `yaml:"twitter_api_key"       env:"TWITTER_API_KEY"`
	TwitterAPISecret    string `yaml:"twitter_api_secret"    env:"TWITTER_API_SECRET"`
	TwitterAccessToken  string `yaml:"twitter_access_token"  env:"TWITTER_ACCESS_TOKEN"`
	TwitterAccessSecret string `yaml:"twitter_access_secret" env:"TWITTER_ACCESS_SECRET"`
	TelegramBotToken    string `yaml:"telegram_bot_token"    env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID      string `yaml:"telegram_chat_id"      env:"TELEGRAM_CHAT_ID"`
}

// DiscoverConfig tunes scoreboard discovery and archiving.
type DiscoverConfig struct {
	StopAfterProcessedDays int           `yaml:"stop_after_processed_days" env:"PC_STOP_AFTER_DAYS"  env-default:"2"`
	EmptyDayDelay          time.Duration `yaml:"empty_day_delay"           env:"PC_EMPTY_DAY_DELAY"  env-default:"5s"`
	ArchiveWorkers         int           `yaml:"archive_workers"           env:"PC_ARCHIVE_WORKERS"  env-default:"4"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"PC_SERVER_ADDR"             env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"PC_SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"PC_SERVER_WRITE_TIMEOUT"    env-default:"5m"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"PC_SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"PC_SERVER_MAX_BODY_BYTES"   env-default:"4194304"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// Notification targets
const (
	TargetChat     = "chat"
	TargetTwitter  = "twitter"
	TargetTelegram = "telegram"
	TargetDryRun   = "dryrun"
)

// HasTwitter reports whether all four Twitter credentials are set.
func (n NotifyConfig) HasTwitter() bool {
	return n.TwitterAPIKey != "" && n.TwitterAPISecret != "" &&
		n.TwitterAccessToken != "" && n.TwitterAccessSecret != ""
}

// HasTelegram reports whether the Telegram bot token and chat id are set.
func (n NotifyConfig) HasTelegram() bool {
	return n.TelegramBotToken != "" && n.TelegramChatID != ""
}

// HasDirectCredentials reports whether username and password are set in the
// configuration itself.
func (l LoginConfig) HasDirectCredentials() bool {
	return l.Username != "" && l.Password != ""
}
