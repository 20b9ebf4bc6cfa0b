package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	apperr "internship-watcher/pkg/errors"
)

// Renderer backends for the listing extractor.
const (
	RendererChrome = "chrome"
	RendererHTTP   = "http"
)

// Seen-set storage backends.
const (
	StoreFile  = "file"
	StoreRedis = "redis"
)

// Config represents the application configuration
type Config struct {
	// Target page
	TargetURL     string
	Renderer      string
	RenderTimeout time.Duration
	RenderWait    time.Duration

	// Seen-set storage
	StoreBackend string
	SeenFile     string
	RedisAddr    string
	RedisDB      int
	RedisKey     string

	// Fetch cooldown cache (optional, disabled when MemcacheAddr is empty)
	MemcacheAddr   string
	FetchBlockTime time.Duration

	// Mail submission
	SMTPHost          string
	SMTPPort          int
	SenderEmail       string
	SenderPassword    string
	Recipients        []string
	SubscribersCSVURL string

	// Whether new identifiers are still marked seen when delivery fails.
	// True means a failed notification is never re-sent; false means the
	// same batch is retried on the next run.
	MarkFailedDeliverySeen bool

	// Scheduling: zero means a single run per invocation
	WatchInterval time.Duration

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	renderTimeout, _ := strconv.Atoi(getEnv("RENDER_TIMEOUT_SECONDS", "45"))
	renderWait, _ := strconv.Atoi(getEnv("RENDER_WAIT_SECONDS", "3"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	blockTime, _ := strconv.Atoi(getEnv("FETCH_BLOCK_SECONDS", "300"))
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	watchInterval, _ := strconv.Atoi(getEnv("WATCH_INTERVAL_SECONDS", "0"))

	return Config{
		TargetURL:     getEnv("TARGET_URL", "https://vtu.internyet.in/internships"),
		Renderer:      getEnv("RENDERER", RendererChrome),
		RenderTimeout: time.Duration(renderTimeout) * time.Second,
		RenderWait:    time.Duration(renderWait) * time.Second,

		StoreBackend: getEnv("STORE_BACKEND", StoreFile),
		SeenFile:     getEnv("SEEN_FILE", "seen_internships.json"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:      redisDB,
		RedisKey:     getEnv("REDIS_KEY", "internships:seen"),

		MemcacheAddr:   getEnv("MEMCACHE_ADDR", ""),
		FetchBlockTime: time.Duration(blockTime) * time.Second,

		SMTPHost:          getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:          smtpPort,
		SenderEmail:       getEnv("SENDER_EMAIL", ""),
		SenderPassword:    getEnv("SENDER_PASSWORD", ""),
		Recipients:        splitList(getEnv("RECIPIENT_EMAILS", "")),
		SubscribersCSVURL: getEnv("SUBSCRIBERS_CSV_URL", ""),

		MarkFailedDeliverySeen: getEnv("MARK_FAILED_DELIVERY_SEEN", "true") == "true",

		WatchInterval: time.Duration(watchInterval) * time.Second,
		Environment:   getEnv("WATCHER_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is usable for a run
func (c Config) Validate() error {
	if c.TargetURL == "" {
		return apperr.NewConfiguration("TARGET_URL must not be empty", nil)
	}
	if c.Renderer != RendererChrome && c.Renderer != RendererHTTP {
		return apperr.NewConfiguration(fmt.Sprintf("unknown renderer %q (want %q or %q)", c.Renderer, RendererChrome, RendererHTTP), nil)
	}
	if c.StoreBackend != StoreFile && c.StoreBackend != StoreRedis {
		return apperr.NewConfiguration(fmt.Sprintf("unknown store backend %q (want %q or %q)", c.StoreBackend, StoreFile, StoreRedis), nil)
	}
	if c.StoreBackend == StoreFile && c.SeenFile == "" {
		return apperr.NewConfiguration("SEEN_FILE must not be empty for the file store", nil)
	}
	if c.SenderEmail == "" || c.SenderPassword == "" {
		return apperr.NewConfiguration("SENDER_EMAIL and SENDER_PASSWORD are required", nil)
	}
	if len(c.Recipients) == 0 && c.SubscribersCSVURL == "" {
		return apperr.NewConfiguration("RECIPIENT_EMAILS or SUBSCRIBERS_CSV_URL is required", nil)
	}
	if c.RenderTimeout <= 0 {
		return apperr.NewConfiguration("RENDER_TIMEOUT_SECONDS must be positive", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma-separated value, dropping empty entries
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
