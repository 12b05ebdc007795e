package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const defaultSecretKey = "your-secret-key-here"

// Config содержит все настройки приложения
type Config struct {
	// Server
	Port        string
	Host        string
	Environment string
	APIVersion  string
	CORSOrigins []string

	// Database
	DBDriver    string // "postgres" или "sqlite"
	DatabaseURL string
	DBPath      string

	// Security
	SecretKey     string
	JWTExpiration time.Duration
	BcryptCost    int
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл если он существует
	_ = godotenv.Load()

	config := &Config{
		Port:        getEnv("PORT", "8000"),
		Host:        getEnv("HOST", "0.0.0.0"),
		Environment: getEnv("ENV", "development"),
		APIVersion:  getEnv("API_VERSION", "1.0.0"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBPath:      getEnv("DB_PATH", "/tmp/sgs.db"),
		SecretKey:   getEnv("SECRET_KEY", defaultSecretKey),
		BcryptCost:  bcrypt.DefaultCost,
	}

	// Парсим числовые значения
	minutes, err := strconv.Atoi(getEnv("ACCESS_TOKEN_EXPIRE_MINUTES", "30"))
	if err != nil || minutes <= 0 {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES: %q", os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"))
	}
	config.JWTExpiration = time.Duration(minutes) * time.Minute

	if raw := os.Getenv("BCRYPT_COST"); raw != "" {
		cost, err := strconv.Atoi(raw)
		if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %q", raw)
		}
		config.BcryptCost = cost
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// IsProduction сообщает, запущено ли приложение в production-окружении
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Addr возвращает адрес для HTTP-сервера
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres driver")
		}
	case "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %q", c.DBDriver)
	}

	if c.IsProduction() && c.SecretKey == defaultSecretKey {
		return fmt.Errorf("SECRET_KEY must be set in production")
	}
	return nil
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
