package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"storyverse-server/shared/utils"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию игрового сервера
type Config struct {
	// Настройки сервера
	Port        string `envconfig:"SERVER_PORT" default:"8082"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`
	APIPrefix   string `envconfig:"API_PREFIX" default:"/api/v1"`

	// Настройки PostgreSQL
	DBHost        string        `envconfig:"DB_HOST" required:"true"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" required:"true"`
	DBName        string        `envconfig:"DB_NAME" required:"true"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`
	DBAutoMigrate bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	// Секретное поле БЕЗ envconfig тега
	DBPassword string `ignored:"true"`

	// Настройки Redis (кэш контента и rate limit)
	RedisAddr       string        `envconfig:"REDIS_ADDR" default:"redis:6379"`
	RedisDB         int           `envconfig:"REDIS_DB" default:"0"`
	ContentCacheTTL time.Duration `envconfig:"CONTENT_CACHE_TTL" default:"10m"`
	// Опциональный секрет
	RedisPassword string `ignored:"true"`

	// Настройки RabbitMQ
	RabbitMQURL         string `envconfig:"RABBITMQ_URL" required:"true"`
	GameplayEventsQueue string `envconfig:"GAMEPLAY_EVENTS_QUEUE" default:"gameplay_events"`

	// HTTP
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	RateLimitPerMinute uint   `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`

	// Секреты JWT: пользовательский и межсервисный
	JWTSecret          string `ignored:"true"`
	InterServiceSecret string `ignored:"true"`
}

// GetDSN возвращает строку подключения (DSN) для PostgreSQL
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// AllowedOrigins разбирает CORS_ALLOWED_ORIGINS (список через запятую).
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// LoadConfig загружает конфигурацию из переменных окружения и секретов
func LoadConfig() (*Config, error) {
	var cfg Config
	// Загружаем НЕсекретные переменные
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load gameplay config: %w", err)
	}

	// Загружаем ОБЯЗАТЕЛЬНЫЕ секреты
	var loadErr error
	cfg.DBPassword, loadErr = utils.ReadSecret("db_password")
	if loadErr != nil {
		return nil, loadErr
	}
	cfg.JWTSecret, loadErr = utils.ReadSecret("jwt_secret")
	if loadErr != nil {
		return nil, loadErr
	}
	cfg.InterServiceSecret, loadErr = utils.ReadSecret("inter_service_secret")
	if loadErr != nil {
		return nil, loadErr
	}
	cfg.RedisPassword = utils.ReadOptionalSecret("redis_password")

	log.Printf("Gameplay config loaded (secrets from files):")
	log.Printf("  Port: %s, API prefix: %s", cfg.Port, cfg.APIPrefix)
	log.Printf("  LogLevel: %s", cfg.LogLevel)
	log.Printf("  DB DSN: postgres://%s:***@%s:%s/%s?sslmode=%s", cfg.DBUser, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)
	log.Printf("  DB Max Conns: %d, Idle Timeout: %v, AutoMigrate: %t", cfg.DBMaxConns, cfg.DBIdleTimeout, cfg.DBAutoMigrate)
	log.Printf("  Redis: %s (db %d), content cache TTL: %v", cfg.RedisAddr, cfg.RedisDB, cfg.ContentCacheTTL)
	log.Printf("  RabbitMQ URL: %s", cfg.RabbitMQURL)
	log.Printf("  Gameplay Events Queue: %s", cfg.GameplayEventsQueue)
	log.Printf("  Rate limit: %d req/min", cfg.RateLimitPerMinute)
	log.Println("  JWT Secret: [LOADED]")
	log.Println("  Inter-Service Secret: [LOADED]")

	return &cfg, nil
}
