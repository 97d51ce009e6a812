package session

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/recell/recell/pipeline"
)

// Config controls the session registry and the default options new
// pipelines start with.
type Config struct {
	// MaxSessions bounds the number of live sessions; the least
	// recently used session is disposed when the bound is exceeded.
	MaxSessions int
	// DefaultOptions seed each new pipeline's options cell.
	DefaultOptions pipeline.Options
}

// LoadConfig reads configuration from the environment (and a .env file
// when present), falling back to defaults.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		MaxSessions: envInt("RECELL_MAX_SESSIONS", 128),
		DefaultOptions: pipeline.Options{
			SkipRows: envInt("RECELL_SKIP_ROWS", 0),
		},
	}

	if d := strings.TrimSpace(os.Getenv("RECELL_DELIMITER")); d != "" {
		cfg.DefaultOptions.Delimiter = []rune(d)[0]
	}
	cfg.DefaultOptions.SnakeCaseColumns = envBool("RECELL_SNAKE_CASE_COLUMNS", false)
	cfg.DefaultOptions.DropEmptyColumns = envBool("RECELL_DROP_EMPTY_COLUMNS", false)
	cfg.DefaultOptions.DropConstantColumns = envBool("RECELL_DROP_CONSTANT_COLUMNS", false)

	return cfg
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
