package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port string

	// Optional Postgres archive. Empty disables archiving entirely.
	DatabaseURL     string
	ArchiveKeepDays int

	// Operational hardening. Both default to open/trusting, matching the
	// original deployment; set them to lock things down.
	AdminKey         string
	AdminTokenSecret string

	// First-contact notifications.
	NotifyBotToken string
	NotifyChatIDs  []string
	NotifyAPIBase  string

	AllowedOrigins string
}

func Load() *Config {
	// Local dev convenience; the file is absent in production.
	_ = godotenv.Load()

	return &Config{
		Env:              getEnv("ENV", "development"),
		Port:             getEnv("PORT", "3001"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		ArchiveKeepDays:  getEnvInt("ARCHIVE_KEEP_DAYS", 90),
		AdminKey:         getEnv("ADMIN_KEY", ""),
		AdminTokenSecret: getEnv("ADMIN_TOKEN_SECRET", ""),
		NotifyBotToken:   getEnv("NOTIFY_BOT_TOKEN", ""),
		NotifyChatIDs:    splitList(getEnv("NOTIFY_CHAT_IDS", "")),
		NotifyAPIBase:    getEnv("NOTIFY_API_BASE", "https://api.telegram.org"),
		AllowedOrigins:   getEnv("ALLOWED_ORIGINS", "*"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) ArchiveEnabled() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
