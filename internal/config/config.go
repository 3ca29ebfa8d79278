package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is read from the environment (optionally seeded from a .env file).
type Config struct {
	HTTPAddr  string        `yaml:"HTTP_ADDR"  env:"HTTP_ADDR"  env-default:":8080"`
	LogLevel  string        `yaml:"LOG_LEVEL"  env:"LOG_LEVEL"  env-default:"info"`
	Language  string        `yaml:"BOARD_LANGUAGE" env:"BOARD_LANGUAGE" env-default:"en"`
	JWTSecret string        `yaml:"JWT_SECRET" env:"JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"TOKEN_TTL"  env:"TOKEN_TTL"  env-default:"72h"`

	// AllowVoteRevision lets a viewer move an existing vote to another option.
	AllowVoteRevision bool `yaml:"ALLOW_VOTE_REVISION" env:"ALLOW_VOTE_REVISION" env-default:"false"`

	Database Database `yaml:"DATABASE"`
	Redis    Redis    `yaml:"REDIS"`
	Telegram Telegram `yaml:"TELEGRAM"`

	// BoardAPIURL is used by the terminal client.
	BoardAPIURL string `yaml:"BOARD_API_URL" env:"BOARD_API_URL" env-default:"http://localhost:8080"`
	BoardToken  string `yaml:"BOARD_TOKEN"   env:"BOARD_TOKEN"`
}

type Database struct {
	DSN           string `yaml:"DATABASE_DSN"      env:"DATABASE_DSN" env-default:"host=localhost user=user password=password dbname=noticeboard port=5432 sslmode=disable"`
	NotifyChannel string `yaml:"PG_NOTIFY_CHANNEL" env:"PG_NOTIFY_CHANNEL" env-default:"board_changes"`
}

type Redis struct {
	Addr     string `yaml:"REDIS_ADDR"     env:"REDIS_ADDR"     env-default:"localhost:6380"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"REDIS_DB"       env:"REDIS_DB"       env-default:"0"`
}

type Telegram struct {
	BotToken    string `yaml:"TELEGRAM_BOT_TOKEN"     env:"TELEGRAM_BOT_TOKEN"`
	AdminChatID int64  `yaml:"TELEGRAM_ADMIN_CHAT_ID" env:"TELEGRAM_ADMIN_CHAT_ID"`
}

// placeholderSecrets are values from sample env files that must never sign real tokens.
var placeholderSecrets = map[string]bool{
	"change-me": true,
	"secret":    true,
}

// ErrWeakSecret is returned by ValidateServer when JWT_SECRET is unset or a placeholder.
var ErrWeakSecret = errors.New("config: JWT_SECRET must be set to a non-placeholder value")

// ValidateServer checks the settings the API server cannot run without.
func (c *Config) ValidateServer() error {
	secret := strings.TrimSpace(c.JWTSecret)
	if secret == "" || placeholderSecrets[strings.ToLower(secret)] {
		return ErrWeakSecret
	}
	return nil
}

// New loads .env when present and reads the environment into a Config.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
