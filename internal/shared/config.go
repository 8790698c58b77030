package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const defaultJWTSecret = "super-secret-jwt-key"

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	StorageDriver  string // mysql | memory
	MySQLDSN       string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	CacheTTL       time.Duration
	JWTSecret      string
	JWTTTL         time.Duration
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	NotifyLogSize  int
	RequestTimeout time.Duration
	TrustProxy     bool // honour X-Forwarded-For / X-Real-IP
}

func Load() Config {
	// .env is optional; real environment wins.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
		StorageDriver:  strings.ToLower(env("STORAGE_DRIVER", "mysql")),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/barzinhos?parseTime=true&charset=utf8mb4&loc=UTC"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		JWTSecret:      env("JWT_SECRET", defaultJWTSecret),
		JWTTTL:         time.Duration(atoi("JWT_TTL_MINUTES", 24*60)) * time.Minute,
		CORSOrigins:    splitList(env("CORS_ORIGINS", "*")),
		RateLimitRPS:   atof("RATE_LIMIT_RPS", 5),
		RateLimitBurst: atoi("RATE_LIMIT_BURST", 10),
		NotifyLogSize:  atoi("NOTIFY_LOG_SIZE", 200),
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		TrustProxy:     strings.EqualFold(os.Getenv("TRUST_PROXY_HEADERS"), "true"),
	}
	if c.JWTSecret == defaultJWTSecret {
		log.Warn().Msg("JWT_SECRET is not set; using the built-in development secret")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
