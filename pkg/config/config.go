package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreDriverHTTP     = "http"
	StoreDriverPostgres = "postgres"
	StoreDriverNone     = "none"
)

type Config struct {
	HTTP     HTTP
	Logger   Logger
	Store    Store
	Postgres Postgres
	S3       S3
	Auth     Auth
	Session  Session
	Kafka    Kafka
	Jobs     Jobs
}

type HTTP struct {
	Port           int   `env:"HTTP_PORT" envDefault:"8080"`
	MaxUploadBytes int64 `env:"HTTP_MAX_UPLOAD_BYTES" envDefault:"10485760"`
}

type Logger struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

type Store struct {
	Driver        string        `env:"STORE_DRIVER" envDefault:"http"`
	URL           string        `env:"STORE_URL"`
	Timeout       time.Duration `env:"STORE_TIMEOUT" envDefault:"10s"`
	RetryAttempts int           `env:"STORE_RETRY_ATTEMPTS" envDefault:"2"`
}

type Postgres struct {
	DSN      string `env:"POSTGRES_DSN"`
	MaxConns int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
}

type S3 struct {
	BucketURL string `env:"S3_BUCKET_URL"`
}

type Auth struct {
	ServiceURL string        `env:"AUTH_SERVICE_URL,required"`
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"1m"`
}

type Session struct {
	Path string `env:"SESSION_DB_PATH" envDefault:"sessions.db"`
}

type Kafka struct {
	Brokers            []string `env:"KAFKA_BROKERS"`
	ConsumerID         string   `env:"KAFKA_CONSUMER_ID" envDefault:"bills"`
	BillSubmittedTopic string   `env:"KAFKA_BILL_SUBMITTED_TOPIC" envDefault:"bill-submitted"`
	BillReviewedTopic  string   `env:"KAFKA_BILL_REVIEWED_TOPIC" envDefault:"bill-reviewed"`
}

type Jobs struct {
	DraftCleanupInterval time.Duration `env:"JOB_DRAFT_CLEANUP_INTERVAL" envDefault:"1h"`
	DraftTTL             time.Duration `env:"DRAFT_TTL" envDefault:"24h"`
}

func New(envPath string) (Config, error) {
	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	err = c.Validate()
	if err != nil {
		return Config{}, err
	}

	return c, nil
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverHTTP:
		if c.Store.URL == "" {
			return errors.New("STORE_URL is required for the http store driver")
		}
	case StoreDriverPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("POSTGRES_DSN is required for the postgres store driver")
		}

		if c.S3.BucketURL == "" {
			return errors.New("S3_BUCKET_URL is required for the postgres store driver")
		}
	case StoreDriverNone:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	return nil
}

func (c Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}
