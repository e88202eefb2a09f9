package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store drivers supported by the submission store.
const (
	StoreDriverFile     = "file"
	StoreDriverPostgres = "postgres"
)

type Config struct {
	Env           string
	Port          int
	APIPrefix     string
	AdminPagesDir string

	Admin    AdminConfig
	Session  SessionConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Sheets   SheetsConfig
	Approval ApprovalConfig
	CORS     CORSConfig
	Log      LogConfig
}

// AdminConfig carries the shared admin credential and contact address.
type AdminConfig struct {
	Password     string
	PasswordHash string
	Email        string
}

// SessionConfig tunes the admin session cookie.
type SessionConfig struct {
	MaxAge time.Duration
}

// StoreConfig selects and parameterises the submission store backend.
type StoreConfig struct {
	Driver       string
	DataDir      string
	ListCacheTTL time.Duration
	RedisEnabled bool
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SMTPConfig configures outbound mail. Empty user/pass disables delivery.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SheetsConfig configures the spreadsheet ledger. Any empty field disables it.
type SheetsConfig struct {
	ServiceAccountEmail string
	PrivateKey          string
	SheetID             string
}

// ApprovalConfig bounds the external calls made during approval.
type ApprovalConfig struct {
	AgreementsDir string
	NotifyTimeout time.Duration
	LedgerTimeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.AdminPagesDir = v.GetString("ADMIN_PAGES_DIR")

	cfg.Admin = AdminConfig{
		Password:     v.GetString("ADMIN_PASSWORD"),
		PasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		Email:        v.GetString("ADMIN_EMAIL"),
	}

	cfg.Session = SessionConfig{
		MaxAge: parseDuration(v.GetString("SESSION_MAX_AGE"), 8*time.Hour),
	}

	cfg.Store = StoreConfig{
		Driver:       v.GetString("STORE_DRIVER"),
		DataDir:      v.GetString("DATA_DIR"),
		ListCacheTTL: parseDuration(v.GetString("LIST_CACHE_TTL"), 30*time.Second),
		RedisEnabled: v.GetBool("ENABLE_REDIS"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.SMTP = SMTPConfig{
		Host:     v.GetString("SMTP_HOST"),
		Port:     v.GetInt("SMTP_PORT"),
		User:     v.GetString("SMTP_USER"),
		Password: v.GetString("SMTP_PASS"),
		From:     v.GetString("SMTP_FROM"),
	}

	cfg.Sheets = SheetsConfig{
		ServiceAccountEmail: v.GetString("GOOGLE_SERVICE_ACCOUNT_EMAIL"),
		PrivateKey:          strings.ReplaceAll(v.GetString("GOOGLE_PRIVATE_KEY"), `\n`, "\n"),
		SheetID:             v.GetString("GOOGLE_SHEET_ID"),
	}

	cfg.Approval = ApprovalConfig{
		AgreementsDir: v.GetString("AGREEMENTS_DIR"),
		NotifyTimeout: parseDuration(v.GetString("NOTIFY_TIMEOUT"), 15*time.Second),
		LedgerTimeout: parseDuration(v.GetString("LEDGER_TIMEOUT"), 10*time.Second),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("ADMIN_PAGES_DIR", "")

	v.SetDefault("ADMIN_PASSWORD", "admin123")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("ADMIN_EMAIL", "admin@example.com")
	v.SetDefault("SESSION_MAX_AGE", "8h")

	v.SetDefault("STORE_DRIVER", StoreDriverFile)
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("LIST_CACHE_TTL", "30s")
	v.SetDefault("ENABLE_REDIS", false)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "student_agreement")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SMTP_HOST", "smtp.mailtrap.io")
	v.SetDefault("SMTP_PORT", 2525)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASS", "")
	v.SetDefault("SMTP_FROM", "Student Agreement Form <no-reply@agreement-form.com>")

	v.SetDefault("GOOGLE_SERVICE_ACCOUNT_EMAIL", "")
	v.SetDefault("GOOGLE_PRIVATE_KEY", "")
	v.SetDefault("GOOGLE_SHEET_ID", "")

	v.SetDefault("AGREEMENTS_DIR", "./agreements")
	v.SetDefault("NOTIFY_TIMEOUT", "15s")
	v.SetDefault("LEDGER_TIMEOUT", "10s")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
