package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (c DBConfig) ConnString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     c.Name,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type Config struct {
	HTTPAddr          string
	DB                DBConfig
	Redis             RedisConfig
	ActivePollsTTL    time.Duration
	JWTSecret         string
	TokenTTL          time.Duration
	AdminUsername     string
	AdminPasswordHash string
	AllowedOrigins    []string
	LogLevel          string
	LogFile           string
	// Args holds the positional arguments left after flag parsing.
	Args []string
}

// Load reads .env when present, then parses args. Every flag defaults to
// its environment variable so either source can be used.
func Load(name string, args []string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	var origins string

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.HTTPAddr, "addr", envString("HTTP_ADDR", "0.0.0.0:8080"), "HTTP listen address")

	fs.StringVar(&cfg.DB.Host, "db-host", os.Getenv("POSTGRES_HOST"), "Database host")
	fs.StringVar(&cfg.DB.Port, "db-port", envString("POSTGRES_PORT", "5432"), "Database port")
	fs.StringVar(&cfg.DB.User, "db-user", os.Getenv("POSTGRES_USER"), "Database user")
	fs.StringVar(&cfg.DB.Password, "db-pass", os.Getenv("POSTGRES_PASSWORD"), "Database password")
	fs.StringVar(&cfg.DB.Name, "db-name", os.Getenv("POSTGRES_DB"), "Database name")
	fs.StringVar(&cfg.DB.SSLMode, "db-sslmode", envString("POSTGRES_SSLMODE", "disable"), "Database sslmode")

	fs.StringVar(&cfg.Redis.Addr, "redis-addr", os.Getenv("REDIS_ADDR"), "Redis address, empty disables the cache")
	fs.StringVar(&cfg.Redis.Password, "redis-pass", os.Getenv("REDIS_PASSWORD"), "Redis password")

	redisDB, err := envInt("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Redis.DB, "redis-db", redisDB, "Redis database index")

	ttl, err := envDuration("ACTIVE_POLLS_TTL", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	fs.DurationVar(&cfg.ActivePollsTTL, "active-ttl", ttl, "Active poll cache TTL")

	tokenTTL, err := envDuration("TOKEN_TTL", 12*time.Hour)
	if err != nil {
		return Config{}, err
	}
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", tokenTTL, "Admin token lifetime")

	fs.StringVar(&cfg.JWTSecret, "jwt-secret", os.Getenv("JWT_SECRET"), "Admin token signing secret (prefer env)")
	fs.StringVar(&cfg.AdminUsername, "admin-user", envString("ADMIN_USERNAME", "admin"), "Admin username")
	fs.StringVar(&cfg.AdminPasswordHash, "admin-hash", os.Getenv("ADMIN_PASSWORD_HASH"), "Admin bcrypt password hash (prefer env)")
	fs.StringVar(&origins, "cors-origins", envString("CORS_ALLOWED_ORIGINS", "*"), "Comma separated allowed origins")
	fs.StringVar(&cfg.LogLevel, "log-level", envString("LOG_LEVEL", "info"), "Log level")
	fs.StringVar(&cfg.LogFile, "log-file", os.Getenv("LOG_FILE"), "Rotated log file, empty logs to stderr only")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.AllowedOrigins = splitList(origins)
	cfg.Args = fs.Args()

	return cfg, nil
}

func (c Config) Validate() error {
	var missing []string
	if c.DB.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if c.DB.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if c.DB.Name == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing database settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c Config) ValidateAuth() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET required")
	}
	return nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
