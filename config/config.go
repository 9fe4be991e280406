package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/club-tournaments/storage"
	"github.com/joho/godotenv"
)

type StoreBackend string

const (
	StorePostgres StoreBackend = "postgres"
	StoreMemory   StoreBackend = "memory"
)

const (
	defaultPort              = 8080
	defaultSchedulerInterval = 30 * time.Second
)

// Config holds every runtime setting of the API server.
type Config struct {
	StoreBackend       StoreBackend
	DatabaseURL        string
	JWTSecretKey       string
	ServerPort         int
	SchedulerInterval  time.Duration
	CORSAllowedOrigins []string
	R2                 storage.R2Config
}

// Load reads the configuration from the environment, loading a .env file
// first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv(os.Getenv)
}

func fromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		StoreBackend: StoreBackend(strings.ToLower(strings.TrimSpace(getenv("STORE_BACKEND")))),
		DatabaseURL:  getenv("DATABASE_URL"),
		JWTSecretKey: getenv("JWT_SECRET_KEY"),
		R2: storage.R2Config{
			AccountID:       getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: getenv("R2_SECRET_ACCESS_KEY"),
			BucketName:      getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   getenv("R2_PUBLIC_BASE_URL"),
		},
	}

	switch cfg.StoreBackend {
	case "":
		cfg.StoreBackend = StorePostgres
	case StorePostgres, StoreMemory:
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StorePostgres, StoreMemory, cfg.StoreBackend)
	}
	if cfg.StoreBackend == StorePostgres && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	cfg.ServerPort = defaultPort
	if portStr := getenv("SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
		}
		if port <= 0 || port > 65535 {
			return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
		}
		cfg.ServerPort = port
	}

	cfg.SchedulerInterval = defaultSchedulerInterval
	if raw := getenv("SCHEDULER_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SCHEDULER_INTERVAL environment variable: %w", err)
		}
		if d < time.Second {
			return nil, fmt.Errorf("SCHEDULER_INTERVAL must be at least 1s, got %s", d)
		}
		cfg.SchedulerInterval = d
	}

	cfg.CORSAllowedOrigins = []string{"*"}
	if raw := getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		var origins []string
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.CORSAllowedOrigins = origins
		}
	}

	return cfg, nil
}
