package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"cryptostatus/internal/domain"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Keys that must be present in the environment.
var requiredKeys = []string{
	"TWITTER_API_CONSUMER_KEY",
	"TWITTER_API_CONSUMER_SECRET",
	"TWITTER_API_ACCESS_TOKEN",
	"TWITTER_API_ACCESS_TOKEN_SECRET",
	"BUGSNAG_API_KEY",
	"NOTIFICATION_MAIL_FROM",
	"NOTIFICATION_MAIL_TO",
	"NOTIFICATION_MAIL_SUBJECT",
	"NOTIFICATION_MAIL_BODY",
	"SMTP_SERVER",
	"SMTP_PORT",
	"SMTP_ENCRYPTION",
	"SMTP_USERNAME",
	"SMTP_PASSWORD",
	"INSTA_USERNAME",
	"INSTA_PASSWORD",
	"NEWS_API_KEY",
}

var defaults = map[string]any{
	"CRYPTO_API":          "https://api.coinmarketcap.com/v1/",
	"CRYPTO_API_ENDPOINT": "ticker/",
	"CRYPTO_API_LIMIT":    14,
	"ALLOWED_SYMBOLS":     "BTC,ETH,DASH",
	"CONVERSION_API":      "https://localbitcoins.com/bitcoinaverage/ticker-all-currencies/",
	"LOCAL_CURRENCY":      "VES",
	"SECONDARY_CURRENCY":  "PAB",
	"TWITTER_SCREENNAME":  "status_crypto",
	"THREAD_LENGTH":       1,
	"LINES_PER_POST":      8,
	"LINES_OFFSET":        0,
	"POST_HASHTAGS":       "#CriptoDolar #Bitcoin",
	"TIMEZONE":            "America/Caracas",
	"WINDOW_START_HOUR":   7,
	"WINDOW_END_HOUR":     22,
	"CRON_SCHEDULE":       "0 0 * * * *",
	"NEWS_API_URL":        "https://newsapi.org",
	"NEWS_COUNTRY":        "ve",
	"NEWS_CATEGORY":       "business",
	"NEWS_QUERY":          "bitcoin",
	"LOG_LEVEL":           "info",
	"LOG_PRETTY":          false,
	"DRY_RUN":             false,
}

type Config struct {
	TwitterConsumerKey       string
	TwitterConsumerSecret    string
	TwitterAccessToken       string
	TwitterAccessTokenSecret string
	TwitterScreenName        string

	BugsnagAPIKey string

	MailFrom    string
	MailTo      string
	MailSubject string
	MailBody    string

	SMTPServer     string
	SMTPPort       int
	SMTPEncryption string
	SMTPUsername   string
	SMTPPassword   string

	InstaUsername string
	InstaPassword string

	NewsAPIKey   string
	NewsAPIURL   string
	NewsCountry  string
	NewsCategory string
	NewsQuery    string
	NewsRSSURL   string

	CryptoAPI         string
	CryptoAPIEndpoint string
	CryptoAPILimit    int
	AllowedSymbols    []string

	ConversionAPI     string
	LocalCurrency     string
	SecondaryCurrency string

	ThreadLength int
	LinesPerPost int
	LinesOffset  int
	PostHashtags string

	Location        *time.Location
	WindowStartHour int
	WindowEndHour   int
	CronSchedule    string

	TelegramBotToken    string
	TelegramAlertChatID int64

	LogLevel  string
	LogPretty bool
	DryRun    bool
}

// ConfigError names every required key that is missing or unusable.
type ConfigError struct {
	Missing []string
	Invalid []string
}

func (e *ConfigError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, ", "))
	}
	return fmt.Sprintf("%v: %s", domain.ErrConfig, strings.Join(parts, "; "))
}

func (e *ConfigError) Unwrap() error { return domain.ErrConfig }

// Load reads the configuration from the process environment through the
// global viper instance, so CLI flags bound to viper take precedence.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	cerr := &ConfigError{}
	for _, key := range requiredKeys {
		if strings.TrimSpace(v.GetString(key)) == "" {
			cerr.Missing = append(cerr.Missing, key)
		}
	}

	cfg := &Config{
		TwitterConsumerKey:       v.GetString("TWITTER_API_CONSUMER_KEY"),
		TwitterConsumerSecret:    v.GetString("TWITTER_API_CONSUMER_SECRET"),
		TwitterAccessToken:       v.GetString("TWITTER_API_ACCESS_TOKEN"),
		TwitterAccessTokenSecret: v.GetString("TWITTER_API_ACCESS_TOKEN_SECRET"),
		TwitterScreenName:        strings.TrimPrefix(v.GetString("TWITTER_SCREENNAME"), "@"),
		BugsnagAPIKey:            v.GetString("BUGSNAG_API_KEY"),
		MailFrom:                 v.GetString("NOTIFICATION_MAIL_FROM"),
		MailTo:                   v.GetString("NOTIFICATION_MAIL_TO"),
		MailSubject:              v.GetString("NOTIFICATION_MAIL_SUBJECT"),
		MailBody:                 v.GetString("NOTIFICATION_MAIL_BODY"),
		SMTPServer:               v.GetString("SMTP_SERVER"),
		SMTPEncryption:           strings.ToLower(strings.TrimSpace(v.GetString("SMTP_ENCRYPTION"))),
		SMTPUsername:             v.GetString("SMTP_USERNAME"),
		SMTPPassword:             v.GetString("SMTP_PASSWORD"),
		InstaUsername:            v.GetString("INSTA_USERNAME"),
		InstaPassword:            v.GetString("INSTA_PASSWORD"),
		NewsAPIKey:               v.GetString("NEWS_API_KEY"),
		NewsAPIURL:               strings.TrimRight(v.GetString("NEWS_API_URL"), "/"),
		NewsCountry:              v.GetString("NEWS_COUNTRY"),
		NewsCategory:             v.GetString("NEWS_CATEGORY"),
		NewsQuery:                v.GetString("NEWS_QUERY"),
		NewsRSSURL:               strings.TrimSpace(v.GetString("NEWS_RSS_URL")),
		CryptoAPI:                v.GetString("CRYPTO_API"),
		CryptoAPIEndpoint:        v.GetString("CRYPTO_API_ENDPOINT"),
		ConversionAPI:            v.GetString("CONVERSION_API"),
		LocalCurrency:            strings.ToUpper(v.GetString("LOCAL_CURRENCY")),
		SecondaryCurrency:        strings.ToUpper(v.GetString("SECONDARY_CURRENCY")),
		PostHashtags:             v.GetString("POST_HASHTAGS"),
		CronSchedule:             v.GetString("CRON_SCHEDULE"),
		TelegramBotToken:         v.GetString("TELEGRAM_BOT_TOKEN"),
		LogLevel:                 strings.ToLower(v.GetString("LOG_LEVEL")),
		LogPretty:                v.GetBool("LOG_PRETTY"),
		DryRun:                   v.GetBool("DRY_RUN"),
	}

	if raw := strings.TrimSpace(v.GetString("SMTP_PORT")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 65535 {
			cerr.Invalid = append(cerr.Invalid, "SMTP_PORT")
		}
		cfg.SMTPPort = n
	}

	switch cfg.SMTPEncryption {
	case "", "tls", "ssl", "none":
	default:
		cerr.Invalid = append(cerr.Invalid, "SMTP_ENCRYPTION")
	}

	loc, err := time.LoadLocation(v.GetString("TIMEZONE"))
	if err != nil {
		cerr.Invalid = append(cerr.Invalid, "TIMEZONE")
		loc = time.UTC
	}
	cfg.Location = loc

	for _, s := range strings.Split(v.GetString("ALLOWED_SYMBOLS"), ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			cfg.AllowedSymbols = append(cfg.AllowedSymbols, s)
		}
	}

	cfg.CryptoAPILimit = positiveInt(v, "CRYPTO_API_LIMIT", 14)
	cfg.ThreadLength = positiveInt(v, "THREAD_LENGTH", 1)
	cfg.LinesPerPost = positiveInt(v, "LINES_PER_POST", 8)

	cfg.LinesOffset = 0
	if n, err := strconv.Atoi(strings.TrimSpace(v.GetString("LINES_OFFSET"))); err == nil && n >= 0 {
		cfg.LinesOffset = n
	}

	cfg.WindowStartHour = hourOf(v, "WINDOW_START_HOUR", 7)
	cfg.WindowEndHour = hourOf(v, "WINDOW_END_HOUR", 22)
	if cfg.WindowStartHour > cfg.WindowEndHour {
		cerr.Invalid = append(cerr.Invalid, "WINDOW_START_HOUR")
	}

	if raw := strings.TrimSpace(v.GetString("TELEGRAM_ALERT_CHAT_ID")); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			cfg.TelegramAlertChatID = id
		} else {
			log.Warn().Str("value", raw).Msg("TELEGRAM_ALERT_CHAT_ID is not numeric, Telegram alerts disabled")
		}
	}
	if cfg.TelegramBotToken == "" {
		log.Debug().Msg("TELEGRAM_BOT_TOKEN not set, Telegram alerts disabled")
	}

	if len(cerr.Missing) > 0 || len(cerr.Invalid) > 0 {
		return nil, cerr
	}
	return cfg, nil
}

func positiveInt(v *viper.Viper, key string, def int) int {
	raw := strings.TrimSpace(v.GetString(key))
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}
	log.Warn().Str("key", key).Str("value", raw).Int("default", def).Msg("invalid value, using default")
	return def
}

func hourOf(v *viper.Viper, key string, def int) int {
	raw := strings.TrimSpace(v.GetString(key))
	if n, err := strconv.Atoi(raw); err == nil && n >= 0 && n <= 23 {
		return n
	}
	log.Warn().Str("key", key).Str("value", raw).Int("default", def).Msg("invalid hour, using default")
	return def
}
