package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Debug      bool   `env:"DEBUG" envDefault:"false"`
	Port       string `env:"PORT" envDefault:"4000"`
	MetricPort string `env:"METRIC_PORT" envDefault:"9090"`
	Domain     string `env:"DOMAIN" envDefault:"http://localhost:4000"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// StorageDriver выбирает хранилище журнала событий: postgres или memory
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	AutoMigrate   bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	Postgres  PostgresConfig
	Upload    UploadConfig
	Retention RetentionConfig
	Signaling SignalingConfig
	ICE       ICEConfig
}

type PostgresConfig struct {
	URL string `env:"POSTGRES_URL"`

	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	Name     string `env:"POSTGRES_NAME" envDefault:"proctorlink"`
	SSL      string `env:"POSTGRES_SSL" envDefault:"disable"`
}

func (p *PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}

	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.Name,
		p.SSL,
	)
}

type UploadConfig struct {
	Dir string `env:"UPLOAD_DIR" envDefault:"./uploads"`

	// MaxChunk - лимит тела запроса в формате echo BodyLimit (например 100M)
	MaxChunk string `env:"UPLOAD_MAX_CHUNK" envDefault:"100M"`
}

type RetentionConfig struct {
	Enabled  bool   `env:"RETENTION_ENABLED" envDefault:"true"`
	Schedule string `env:"RETENTION_SCHEDULE" envDefault:"0 0 * * *"`
}

type SignalingConfig struct {
	SendBuffer int           `env:"WS_SEND_BUFFER" envDefault:"64"`
	PingPeriod time.Duration `env:"WS_PING_PERIOD" envDefault:"30s"`
	PongWait   time.Duration `env:"WS_PONG_WAIT" envDefault:"60s"`
	WriteWait  time.Duration `env:"WS_WRITE_WAIT" envDefault:"5s"`
	ReadLimit  int64         `env:"WS_READ_LIMIT" envDefault:"1048576"`
}

type ICEConfig struct {
	STUNURLs []string `env:"STUN_URLS" envDefault:"stun:stun.l.google.com:19302" envSeparator:","`

	TurnHost string `env:"TURN_HOST"`

	// TurnSecret - static-auth-secret coturn, нужен для генерации временных кредов для фронта
	TurnSecret string        `env:"TURN_SECRET"`
	TurnTTL    time.Duration `env:"TURN_TTL" envDefault:"1h"`
}

func (i *ICEConfig) TurnEnabled() bool {
	return i.TurnHost != "" && i.TurnSecret != ""
}

func New() (*Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.Signaling.SendBuffer <= 0 {
		return nil, fmt.Errorf("WS_SEND_BUFFER must be positive, got %d", c.Signaling.SendBuffer)
	}

	if c.Signaling.PingPeriod >= c.Signaling.PongWait {
		return nil, fmt.Errorf("WS_PING_PERIOD (%s) must be shorter than WS_PONG_WAIT (%s)",
			c.Signaling.PingPeriod, c.Signaling.PongWait)
	}

	return &c, nil
}
