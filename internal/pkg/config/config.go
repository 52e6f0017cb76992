package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Addr     string `env:"AGENT_ADDR, default=:8080"`
	Env      string `env:"ENV,        default=development"`
	LogLevel string `env:"LOG_LEVEL,  default=info"`

	Backend    BackendConfig
	TokenStore TokenStoreConfig
	Redis      RedisConfig
	Email      EmailConfig
	Stub       StubConfig
}

type BackendConfig struct {
	BaseURL string `env:"BACKEND_BASE_URL, default=https://gc-backend-1.onrender.com"`
}

// TokenStoreConfig selects where the bearer credential is persisted:
// "file" (default) or "redis".
type TokenStoreConfig struct {
	Kind string `env:"TOKEN_STORE, default=file"`
	Path string `env:"TOKEN_FILE,  default=.storefront/credential"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR,      default=localhost:6379"`
	DB   int    `env:"REDIS_DB,        default=0"`
	Key  string `env:"REDIS_TOKEN_KEY, default=storefront:credential"`
}

type EmailConfig struct {
	Endpoint   string `env:"EMAIL_ENDPOINT, default=https://api.emailjs.com/api/v1.0/email/send"`
	ServiceID  string `env:"EMAIL_SERVICE_ID"`
	TemplateID string `env:"EMAIL_TEMPLATE_ID"`
	UserID     string `env:"EMAIL_USER_ID"`
	ToName     string `env:"EMAIL_TO_NAME, default=Glorious Creations Team"`
}

// StubConfig configures the stubfront dev backend binary.
type StubConfig struct {
	Addr          string `env:"STUBFRONT_ADDR,           default=:9090"`
	JWTSecret     string `env:"STUBFRONT_JWT_SECRET,     default=dev-secret"`
	AdminUsername string `env:"STUBFRONT_ADMIN_USER,     default=admin"`
	AdminPassword string `env:"STUBFRONT_ADMIN_PASSWORD, default=admin-secret"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
