package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr        string
	GinMode        string
	DBDSN          string
	JWTSecret      string
	TokenTTL       time.Duration
	UploadDir      string
	PublicBaseURL  string
	AllowedOrigins []string
	SweepInterval  time.Duration
	LogLevel       string
	LogJSON        bool
	MigrateOnStart bool
}

// LoadEnv reads configuration from the environment, preloading .env when present.
func LoadEnv() Env {
	_ = godotenv.Load()

	return Env{
		AppAddr:        getString("APP_ADDR", ":8080"),
		GinMode:        getString("GIN_MODE", ""),
		DBDSN:          getString("DB_DSN", "root:@tcp(127.0.0.1:3306)/tripbook"),
		JWTSecret:      getString("JWT_SECRET", "super-secret-key-change-me"),
		TokenTTL:       getDuration("TOKEN_TTL", 24*time.Hour),
		UploadDir:      getString("UPLOAD_DIR", "./uploads"),
		PublicBaseURL:  strings.TrimRight(getString("PUBLIC_BASE_URL", ""), "/"),
		AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		SweepInterval:  getDuration("COMPLETION_SWEEP_INTERVAL", time.Hour),
		LogLevel:       getString("LOG_LEVEL", "info"),
		LogJSON:        getBool("LOG_JSON", false),
		MigrateOnStart: getBool("MIGRATE_ON_START", true),
	}
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	out := []string{}
	for _, o := range strings.Split(v, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
