package config

import (
	"errors"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTP     HTTP
	Logger   Logger
	Postgres Postgres
	Kafka    Kafka
	Swish    Swish
	Poller   Poller
}

type HTTP struct {
	Port      int    `env:"HTTP_PORT" envDefault:"8080"`
	JWTSecret string `env:"HTTP_JWT_SECRET"`
}

type Logger struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type Postgres struct {
	DSN     string `env:"POSTGRES_DSN"`
	MaxConn int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
}

type Kafka struct {
	Brokers     []string `env:"KAFKA_BROKERS"`
	StatusTopic string   `env:"KAFKA_STATUS_TOPIC" envDefault:"swish.payment-request.status"`
}

// Swish holds the merchant agreement. Either CertPath+KeyPath or PKCS12Path must be set.
type Swish struct {
	BaseURL        string        `env:"SWISH_BASE_URL" envDefault:"https://mss.cpc.getswish.net/swish-cpcapi/api/v2"`
	PayeeAlias     string        `env:"SWISH_PAYEE_ALIAS"`
	CallbackURL    string        `env:"SWISH_CALLBACK_URL"`
	CertPath       string        `env:"SWISH_CERT_PATH" envDefault:""`
	KeyPath        string        `env:"SWISH_KEY_PATH" envDefault:""`
	PKCS12Path     string        `env:"SWISH_PKCS12_PATH" envDefault:""`
	Passphrase     string        `env:"SWISH_PASSPHRASE" envDefault:""`
	CACertPath     string        `env:"SWISH_CA_CERT_PATH" envDefault:""`
	RequestTimeout time.Duration `env:"SWISH_REQUEST_TIMEOUT" envDefault:"10s"`
}

type Poller struct {
	Enabled     bool          `env:"POLLER_ENABLED" envDefault:"true"`
	Interval    time.Duration `env:"POLLER_INTERVAL" envDefault:"5s"`
	MaxAge      time.Duration `env:"POLLER_MAX_AGE" envDefault:"10m"`
	Concurrency int           `env:"POLLER_CONCURRENCY" envDefault:"8"`
}

func New(envPath string) (Config, error) {
	return parse[Config](envPath)
}

// NewSwish loads only the Swish section, for tools that do not run the gateway.
func NewSwish(envPath string) (Swish, error) {
	return parse[Swish](envPath)
}

func parse[T any](envPath string) (T, error) {
	var zero T

	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return zero, err
	}

	c, err := env.ParseAsWithOptions[T](env.Options{
		RequiredIfNoDef: true,
	})
	if err != nil {
		return zero, err
	}

	return c, nil
}
