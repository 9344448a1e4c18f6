package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full process configuration, grouped by concern.
type Config struct {
	Server       Server
	Database     Database
	Redis        RedisConfig
	Kafka        Kafka
	Ledger       Ledger
	Storage      Storage
	Notification Notification
	Certificate  Certificate
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	Environment     string
	JWTSigningKey   string
	JWTIssuer       string
	AdminToken      string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	TokenTTL        time.Duration
	SeedDemoData    bool
}

// Database configures the Postgres pool. An empty URL selects in-memory stores.
type Database struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// RedisConfig configures the ledger view cache. An empty URL selects the in-process LRU.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka configures the notification producer. Empty Brokers disables publishing.
type Kafka struct {
	Brokers            string
	Acks               string
	Retries            int
	DeliveryTimeout    time.Duration
	NotificationsTopic string
}

// Ledger configures the EVM gateway.
type Ledger struct {
	RPCURL           string
	ContractAddress  string
	SignerKey        string
	ChainID          int64
	DefaultRecipient string
	ViewCacheTTL     time.Duration
	ViewCacheSize    int
}

// Storage configures the IPFS pinning gateway.
type Storage struct {
	APIURL     string
	APIToken   string
	GatewayURL string
	Timeout    time.Duration
}

// Notification configures the optional email channel.
type Notification struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	PortalBaseURL  string
	SendTimeout    time.Duration
}

// Certificate configures issuance behaviour.
type Certificate struct {
	StageTimeout time.Duration
	// Validity is zero when certificates never expire.
	Validity time.Duration
	Issuer   string
	// ResumeAfter is how long a pending certificate must sit untouched before
	// a repeated issue call runs its pipeline again.
	ResumeAfter time.Duration
	// ResumeInterval is how often the background worker retries stale
	// pending certificates. Zero disables the worker.
	ResumeInterval  time.Duration
	ResumeBatchSize int
}

// FromEnv builds the configuration from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present; real
// environment variables win over it.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Server: Server{
			Addr:            envString("ACADEMIX_ADDR", ":8080"),
			Environment:     envString("ENVIRONMENT", "development"),
			JWTSigningKey:   envString("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:       envString("JWT_ISSUER", "academix"),
			AdminToken:      os.Getenv("ADMIN_API_TOKEN"),
			RequestTimeout:  envDuration("REQUEST_TIMEOUT", 60*time.Second),
			ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
			TokenTTL:        envDuration("TOKEN_TTL", 15*time.Minute),
			SeedDemoData:    envBool("SEED_DEMO_DATA", false),
		},
		Database: Database{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
			AutoMigrate:     envBool("DATABASE_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers:            os.Getenv("KAFKA_BROKERS"),
			Acks:               envString("KAFKA_ACKS", "all"),
			Retries:            envInt("KAFKA_RETRIES", 3),
			DeliveryTimeout:    envDuration("KAFKA_DELIVERY_TIMEOUT", 30*time.Second),
			NotificationsTopic: envString("KAFKA_NOTIFICATIONS_TOPIC", "academix.notifications"),
		},
		Ledger: Ledger{
			RPCURL:           os.Getenv("LEDGER_RPC_URL"),
			ContractAddress:  os.Getenv("LEDGER_CONTRACT_ADDRESS"),
			SignerKey:        strings.TrimPrefix(os.Getenv("LEDGER_SIGNER_KEY"), "0x"),
			ChainID:          int64(envInt("LEDGER_CHAIN_ID", 0)),
			DefaultRecipient: os.Getenv("LEDGER_DEFAULT_RECIPIENT"),
			ViewCacheTTL:     envDuration("LEDGER_VIEW_CACHE_TTL", time.Minute),
			ViewCacheSize:    envInt("LEDGER_VIEW_CACHE_SIZE", 1024),
		},
		Storage: Storage{
			APIURL:     envString("STORAGE_API_URL", "https://api.pinata.cloud"),
			APIToken:   os.Getenv("STORAGE_API_TOKEN"),
			GatewayURL: strings.TrimSuffix(envString("STORAGE_GATEWAY_URL", "https://gateway.pinata.cloud"), "/"),
			Timeout:    envDuration("STORAGE_TIMEOUT", 30*time.Second),
		},
		Notification: Notification{
			SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			FromEmail:      envString("NOTIFY_FROM_EMAIL", "certificates@academix.local"),
			FromName:       envString("NOTIFY_FROM_NAME", "Academix Certificates"),
			PortalBaseURL:  strings.TrimSuffix(envString("PORTAL_BASE_URL", "http://localhost:3000"), "/"),
			SendTimeout:    envDuration("NOTIFY_SEND_TIMEOUT", 10*time.Second),
		},
		Certificate: Certificate{
			StageTimeout:    envDuration("ISSUE_STAGE_TIMEOUT", 30*time.Second),
			Validity:        envDuration("CERTIFICATE_VALIDITY", 0),
			Issuer:          envString("CERTIFICATE_ISSUER", "Academix"),
			ResumeAfter:     envDuration("ISSUE_RESUME_AFTER", 2*time.Minute),
			ResumeInterval:  envDuration("ISSUE_RESUME_INTERVAL", 5*time.Minute),
			ResumeBatchSize: envInt("ISSUE_RESUME_BATCH_SIZE", 50),
		},
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
