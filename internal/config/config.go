package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/dvloznov/points-sync/internal/logger"
	"github.com/dvloznov/points-sync/internal/webagent"
)

// Environment keys.
const (
	EnvRakutenID        = "RAKUTEN_ID"
	EnvRakutenPass      = "RAKUTEN_PASS"
	EnvMoneyForwardID   = "MONEYFORWARD_ID"
	EnvMoneyForwardPass = "MONEYFORWARD_PASS"

	EnvLedgerAccount   = "LEDGER_ACCOUNT"
	EnvElementTimeout  = "AGENT_ELEMENT_TIMEOUT"
	EnvPageLoadTimeout = "AGENT_PAGE_LOAD_TIMEOUT"
	EnvChromeHeadless  = "CHROME_HEADLESS"
	EnvChromePath      = "CHROME_PATH"
	EnvTimezone        = "SYNC_TIMEZONE"
	EnvSchedule        = "SYNC_SCHEDULE"
	EnvArchiveURI      = "ARCHIVE_URI"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
)

// Defaults for optional settings.
const (
	DefaultLedgerAccount = "楽天キャッシュ"
	DefaultTimezone      = "Asia/Tokyo"
	DefaultSchedule      = "0 6 * * *"
	DefaultEnvFile       = ".env"
)

// Credentials is an identifier/secret pair for one site.
type Credentials struct {
	ID       string
	Password string
}

// String hides the password so Credentials can never leak through logs.
func (c Credentials) String() string {
	return fmt.Sprintf("{ID:%s Password:***}", c.ID)
}

// Config is read once at startup and passed down explicitly.
type Config struct {
	Rakuten      Credentials
	MoneyForward Credentials

	LedgerAccount string

	Timeouts   webagent.Timeouts
	Headless   bool
	ChromePath string

	Location *time.Location
	Schedule string

	// ArchiveURI is gs://bucket/prefix, or empty when archiving is off.
	ArchiveURI string

	LogLevel  zerolog.Level
	LogFormat logger.Format
}

// Logger builds the process logger from the logging settings.
func (c *Config) Logger() zerolog.Logger {
	return logger.NewWithOptions(logger.Options{Level: c.LogLevel, Format: c.LogFormat})
}

// Load reads envFile into the process environment and then builds a Config
// from it. Variables already set win over the file. An empty envFile means the
// optional DefaultEnvFile; an explicitly named file must exist.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		_ = godotenv.Load(DefaultEnvFile)
	} else if err := godotenv.Load(envFile); err != nil {
		return nil, fmt.Errorf("config: load %s: %w", envFile, err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment. All problems are
// reported together.
func FromEnv() (*Config, error) {
	var errs []error

	var missing []string
	required := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := &Config{
		Rakuten: Credentials{
			ID:       required(EnvRakutenID),
			Password: required(EnvRakutenPass),
		},
		MoneyForward: Credentials{
			ID:       required(EnvMoneyForwardID),
			Password: required(EnvMoneyForwardPass),
		},
		LedgerAccount: getEnv(EnvLedgerAccount, DefaultLedgerAccount),
		ChromePath:    os.Getenv(EnvChromePath),
		Schedule:      getEnv(EnvSchedule, DefaultSchedule),
		ArchiveURI:    os.Getenv(EnvArchiveURI),
	}
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("missing required variables: %s", strings.Join(missing, ", ")))
	}

	var err error
	if cfg.Timeouts.Element, err = getEnvAsDuration(EnvElementTimeout, webagent.DefaultTimeouts.Element); err != nil {
		errs = append(errs, err)
	}
	if cfg.Timeouts.PageLoad, err = getEnvAsDuration(EnvPageLoadTimeout, webagent.DefaultTimeouts.PageLoad); err != nil {
		errs = append(errs, err)
	}
	if cfg.Headless, err = getEnvAsBool(EnvChromeHeadless, true); err != nil {
		errs = append(errs, err)
	}

	tz := getEnv(EnvTimezone, DefaultTimezone)
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvTimezone, err))
	}

	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvSchedule, err))
	}

	if cfg.ArchiveURI != "" && !strings.HasPrefix(cfg.ArchiveURI, "gs://") {
		errs = append(errs, fmt.Errorf("%s: must start with gs://, got %q", EnvArchiveURI, cfg.ArchiveURI))
	}

	if cfg.LogLevel, err = zerolog.ParseLevel(getEnv(EnvLogLevel, zerolog.InfoLevel.String())); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvLogLevel, err))
	}
	if cfg.LogFormat, err = logger.ParseFormat(os.Getenv(EnvLogFormat)); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvLogFormat, err))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", key, v)
	}
	return d, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
