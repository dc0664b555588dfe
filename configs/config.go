package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreRedis  = "redis"
	StoreMySQL  = "mysql"
	StoreBadger = "badger"
)

type Config struct {
	AppEnv     string
	ServerPort string

	StoreBackend  string
	SnapshotKey   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	BadgerPath    string

	CFClearance    string
	CSRFToken      string
	GraphQLURL     string
	PrimarySiteURL string
	MirrorSiteURL  string
	RequestTimeout time.Duration

	SyncSchedule    string
	SyncOnStart     bool
	SyncProbeLimit  int
	SyncTimeout     time.Duration
	ShutdownTimeout time.Duration
}

const (
	defaultServerPort      = "8080"
	defaultSnapshotKey     = "problem_json"
	defaultGraphQLURL      = "https://leetcode.com/graphql/"
	defaultPrimarySiteURL  = "https://leetcode.com"
	defaultMirrorSiteURL   = "https://leetcode-cn.com"
	defaultSyncSchedule    = "0 * * * *" // top of every hour
	defaultSyncProbeLimit  = 50
	defaultSyncTimeout     = 2 * time.Minute
	defaultRequestTimeout  = 60 * time.Second
	defaultShutdownTimeout = 30 * time.Second
)

// LoadConfig reads an optional .env file and then the process environment.
// Upstream credentials are not required here; the sync job checks them.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		AppEnv:     getenvDefault("APP_ENV", "production"),
		ServerPort: getenvDefault("SERVER_PORT", defaultServerPort),

		StoreBackend:  strings.ToLower(getenvDefault("STORE_BACKEND", StoreRedis)),
		SnapshotKey:   getenvDefault("SNAPSHOT_KEY", defaultSnapshotKey),
		RedisAddr:     getenvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       parseIntDefault("REDIS_DB", 0),
		DBHost:        getenvDefault("DB_HOST", "localhost"),
		DBPort:        getenvDefault("DB_PORT", "3306"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		BadgerPath:    os.Getenv("BADGER_PATH"),

		CFClearance:    os.Getenv("LC_CF_CLEARANCE"),
		CSRFToken:      os.Getenv("LC_CSRFTOKEN"),
		GraphQLURL:     getenvDefault("LEETCODE_GRAPHQL_URL", defaultGraphQLURL),
		PrimarySiteURL: strings.TrimRight(getenvDefault("PRIMARY_SITE_URL", defaultPrimarySiteURL), "/"),
		MirrorSiteURL:  strings.TrimRight(getenvDefault("MIRROR_SITE_URL", defaultMirrorSiteURL), "/"),
		RequestTimeout: parseDurationDefault("REQUEST_TIMEOUT", defaultRequestTimeout),

		SyncSchedule:    getenvDefault("SYNC_SCHEDULE", defaultSyncSchedule),
		SyncOnStart:     parseBoolDefault("SYNC_ON_START", true),
		SyncProbeLimit:  parseIntDefault("SYNC_PROBE_LIMIT", defaultSyncProbeLimit),
		SyncTimeout:     parseDurationDefault("SYNC_TIMEOUT", defaultSyncTimeout),
		ShutdownTimeout: parseDurationDefault("SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	switch cfg.StoreBackend {
	case StoreRedis, StoreMySQL, StoreBadger:
	default:
		return nil, fmt.Errorf("unsupported STORE_BACKEND %q", cfg.StoreBackend)
	}

	if cfg.SyncProbeLimit <= 0 {
		cfg.SyncProbeLimit = defaultSyncProbeLimit
	}
	if cfg.SyncTimeout <= 0 {
		cfg.SyncTimeout = defaultSyncTimeout
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	return cfg, nil
}

// MySQLDSN builds the go-sql-driver DSN for the snapshot table.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword,
		c.DBHost, c.DBPort,
		c.DBName,
	)
}

func getenvDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseIntDefault(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func parseBoolDefault(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func parseDurationDefault(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
