package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config настройки сервера и клиента из окружения
type Config struct {
	Port           string
	DBDriver       string
	DatabaseURL    string
	CORSOrigins    []string
	OrderRateLimit float64
	GinMode        string

	// kamactl
	APIURL   string
	CartDir  string
	RedisURL string
}

// Load читает .env, если он есть, затем переменные окружения
func Load(files ...string) Config {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env: %v", err)
	}
	return Config{
		Port:           getEnv("PORT", "9091"),
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "memory")),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "*")),
		OrderRateLimit: getFloat("ORDER_RATE_LIMIT", 5),
		GinMode:        os.Getenv("GIN_MODE"),
		APIURL:         getEnv("KAMA_API", "http://localhost:9091"),
		CartDir:        getEnv("KAMA_CART_DIR", defaultCartDir()),
		RedisURL:       os.Getenv("REDIS_URL"),
	}
}

// Addr адрес для http.Server
func (c Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		log.Printf("config: %s=%q is not a non-negative number, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultCartDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".kama"
	}
	return dir + string(os.PathSeparator) + "kama"
}
