// Package config centraliza la lectura de env vars de ambos binarios.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"pawgrammers/internal/platform/logger"
)

const (
	DefaultAPIBase   = "http://localhost:3000"
	DefaultPrefsFile = ".pawgrammers.yaml"
	DefaultLogFile   = "dashboard.log"
)

// API es la config de cmd/api.
type API struct {
	Addr string

	// Storage: DB_DSN (postgres) > SQLITE_PATH (sqlite) > in-memory.
	DSN        string
	SQLitePath string

	RateLimitRPS   int
	RateLimitBurst int

	OdinBaseURL string
	OdinAPIKey  string

	LogLevel  logger.Level
	LogFormat logger.Format
	AppName   string

	ShutdownTimeout time.Duration
}

// Dashboard es la config de cmd/dashboard (las flags de cobra pisan estos valores).
type Dashboard struct {
	APIBase string
	Token   string
	Timeout time.Duration

	PrefsPath string
	LogFile   string
	LogLevel  logger.Level
}

// LoadAPI lee:
// - PORT (default 3000, el mismo que espera el dashboard)
// - DB_DSN, SQLITE_PATH
// - RATE_LIMIT_RPS (default 20; 0 desactiva), RATE_LIMIT_BURST (default 40)
// - ODIN_BASE_URL, ODIN_API_KEY
// - LOG_LEVEL, LOG_FORMAT, APP_NAME
func LoadAPI() API {
	addr := ":3000"
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		addr = ":" + v
	}

	app := strings.TrimSpace(os.Getenv("APP_NAME"))
	if app == "" {
		app = "pawgrammers-api"
	}

	return API{
		Addr:            addr,
		DSN:             strings.TrimSpace(os.Getenv("DB_DSN")),
		SQLitePath:      strings.TrimSpace(os.Getenv("SQLITE_PATH")),
		RateLimitRPS:    envInt("RATE_LIMIT_RPS", 20),
		RateLimitBurst:  envInt("RATE_LIMIT_BURST", 40),
		OdinBaseURL:     strings.TrimSpace(os.Getenv("ODIN_BASE_URL")),
		OdinAPIKey:      strings.TrimSpace(os.Getenv("ODIN_API_KEY")),
		LogLevel:        logger.ParseLevel(os.Getenv("LOG_LEVEL")),
		LogFormat:       logger.ParseFormat(os.Getenv("LOG_FORMAT")),
		AppName:         app,
		ShutdownTimeout: 10 * time.Second,
	}
}

// LoadDashboard lee PETS_API_BASE, PETS_API_TOKEN, PETS_API_TIMEOUT (segundos),
// PAWGRAMMERS_PREFS, DASHBOARD_LOG_FILE y LOG_LEVEL.
func LoadDashboard() Dashboard {
	base := strings.TrimSpace(os.Getenv("PETS_API_BASE"))
	if base == "" {
		base = DefaultAPIBase
	}

	prefs := strings.TrimSpace(os.Getenv("PAWGRAMMERS_PREFS"))
	if prefs == "" {
		prefs = defaultPrefsPath()
	}

	logFile := strings.TrimSpace(os.Getenv("DASHBOARD_LOG_FILE"))
	if logFile == "" {
		logFile = DefaultLogFile
	}

	return Dashboard{
		APIBase:   base,
		Token:     strings.TrimSpace(os.Getenv("PETS_API_TOKEN")),
		Timeout:   time.Duration(envInt("PETS_API_TIMEOUT", 10)) * time.Second,
		PrefsPath: prefs,
		LogFile:   logFile,
		LogLevel:  logger.ParseLevel(os.Getenv("LOG_LEVEL")),
	}
}

func defaultPrefsPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DefaultPrefsFile
	}
	return home + string(os.PathSeparator) + DefaultPrefsFile
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
