package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	TelegramToken string

	LogLevel string
	Debug    bool

	PreferIPv4 bool

	MaxConcurrent  int
	RequestTimeout time.Duration
	HTTPTimeout    time.Duration

	APIBaseURL     string
	CatalogFile    string
	LocalStorePath string
	NextStepURL    string
	NavigateDelay  time.Duration

	WebAddr     string
	MetricsAddr string
	SessionTTL  time.Duration
}

func Load() (Config, error) {
	cfg := Config{
		LogLevel:       strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info"))),
		Debug:          getEnvBool("DEBUG", false),
		PreferIPv4:     getEnvBool("PREFER_IPV4", true),
		MaxConcurrent:  getEnvInt("MAX_CONCURRENT", 4),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		HTTPTimeout:    time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
		APIBaseURL:     strings.TrimRight(getEnv("XLINK_API_URL", "http://localhost:8000"), "/"),
		CatalogFile:    getEnv("CATALOG_FILE", ""),
		LocalStorePath: getEnv("LOCAL_STORE_PATH", ".xlink/local.db"),
		NextStepURL:    getEnv("NEXT_STEP_URL", "create.html"),
		NavigateDelay:  time.Duration(getEnvInt("NAVIGATE_DELAY_MS", 1000)) * time.Millisecond,
		WebAddr:        getEnv("WEB_ADDR", ":8080"),
		MetricsAddr:    getEnv("METRICS_ADDR", ""),
		SessionTTL:     time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
	}

	cfg.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))

	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		return Config{}, errors.New("XLINK_API_URL must be an http(s) URL")
	}

	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 15 * time.Second
	}
	if cfg.NavigateDelay <= 0 {
		cfg.NavigateDelay = time.Second
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}

	return cfg, nil
}

// LoadBot is Load plus the settings only the Telegram host needs.
func LoadBot() (Config, error) {
	cfg, err := Load()
	if err != nil {
		return Config{}, err
	}
	if cfg.TelegramToken == "" {
		return Config{}, errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
