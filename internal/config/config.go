package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvProduction = "production"

	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	// MaxOTPLength matches the width of the stored otp column.
	MaxOTPLength = 16
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	OTP      OTPConfig
	SMTP     SMTPConfig
	AWS      AWSConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	MaxBodyBytes int64
}

type DatabaseConfig struct {
	Driver        string
	MongoURI      string
	MongoDatabase string
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
}

// JWTConfig holds the signing keys and lifetimes of the three token kinds.
// Access and refresh tokens are always signed with different keys.
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	ResetSecret   string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	ResetExpiry   time.Duration
}

type OTPConfig struct {
	Length int
	Expiry time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type AWSConfig struct {
	Region   string
	SecretID string
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// Load resolves the process configuration once: an optional .env file,
// then the environment, then (in production) the managed secret.
func Load(ctx context.Context) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(homeDir)
	}
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	cfg := fromViper(v)

	if cfg.IsProduction() {
		secrets, err := loadManagedSecrets(ctx, cfg.AWS)
		if err != nil {
			return nil, fmt.Errorf("failed to load secrets from AWS Secrets Manager: %w", err)
		}
		cfg.applySecrets(secrets)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("MAX_BODY_BYTES", 1<<20)
	v.SetDefault("DB_DRIVER", DriverMongo)
	v.SetDefault("MONGO_DATABASE", "auth")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_ACCESS_EXPIRY", time.Hour)
	v.SetDefault("JWT_REFRESH_EXPIRY", 30*24*time.Hour)
	v.SetDefault("JWT_RESET_EXPIRY", 15*time.Minute)
	v.SetDefault("OTP_LENGTH", 6)
	v.SetDefault("OTP_EXPIRY", 10*time.Minute)
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_SECRET_ID", "john3")
	v.SetDefault("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS")
	v.SetDefault("CORS_ALLOWED_HEADERS", "Origin,Content-Type,Authorization,X-Request-ID")
	v.SetDefault("CORS_MAX_AGE", 43200)
}

func fromViper(v *viper.Viper) *Config {
	port := v.GetString("SERVER_PORT")
	if port == "" {
		port = v.GetString("PORT")
	}
	if port == "" {
		port = "5050"
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         port,
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("ENVIRONMENT"),
			MaxBodyBytes: v.GetInt64("MAX_BODY_BYTES"),
		},
		Database: DatabaseConfig{
			Driver:        strings.ToLower(v.GetString("DB_DRIVER")),
			MongoURI:      v.GetString("MONGO_URI"),
			MongoDatabase: v.GetString("MONGO_DATABASE"),
			Host:          v.GetString("DB_HOST"),
			Port:          v.GetString("DB_PORT"),
			User:          v.GetString("DB_USER"),
			Password:      v.GetString("DB_PASSWORD"),
			DBName:        v.GetString("DB_NAME"),
			SSLMode:       v.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{
			AccessSecret:  v.GetString("JWT_ACCESS_SECRET"),
			RefreshSecret: v.GetString("JWT_REFRESH_SECRET"),
			ResetSecret:   v.GetString("JWT_RESET_SECRET"),
			AccessExpiry:  v.GetDuration("JWT_ACCESS_EXPIRY"),
			RefreshExpiry: v.GetDuration("JWT_REFRESH_EXPIRY"),
			ResetExpiry:   v.GetDuration("JWT_RESET_EXPIRY"),
		},
		OTP: OTPConfig{
			Length: v.GetInt("OTP_LENGTH"),
			Expiry: v.GetDuration("OTP_EXPIRY"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("EMAIL_USER"),
			Password: v.GetString("EMAIL_PASS"),
			From:     v.GetString("SMTP_FROM"),
		},
		AWS: AWSConfig{
			Region:   v.GetString("AWS_REGION"),
			SecretID: v.GetString("AWS_SECRET_ID"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods:   splitList(v.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders:   splitList(v.GetString("CORS_ALLOWED_HEADERS")),
			ExposedHeaders:   splitList(v.GetString("CORS_EXPOSED_HEADERS")),
			AllowCredentials: v.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           v.GetInt("CORS_MAX_AGE"),
		},
	}
	cfg.fillDerived()
	return cfg
}

// fillDerived resolves settings that default to other settings.
func (c *Config) fillDerived() {
	if c.JWT.ResetSecret == "" {
		c.JWT.ResetSecret = c.JWT.AccessSecret
	}
	if c.SMTP.From == "" {
		c.SMTP.From = c.SMTP.User
	}
}

// splitList parses a comma separated environment value.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// Validate reports the first setting that makes the service unable to start.
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" {
		return errors.New("JWT access secret is missing, set JWT_ACCESS_SECRET")
	}
	if c.JWT.RefreshSecret == "" {
		return errors.New("JWT refresh secret is missing, set JWT_REFRESH_SECRET")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return errors.New("JWT access and refresh secrets must differ")
	}
	if c.OTP.Length <= 0 || c.OTP.Expiry <= 0 {
		return errors.New("OTP length and expiry must be positive")
	}
	if c.OTP.Length > MaxOTPLength {
		return fmt.Errorf("OTP length must not exceed %d", MaxOTPLength)
	}

	switch c.Database.Driver {
	case DriverMongo:
		if c.Database.MongoURI == "" {
			return errors.New("database configuration is missing, set MONGO_URI")
		}
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return errors.New("database configuration is missing, set DB_HOST and DB_NAME")
		}
	case DriverMemory:
		if c.IsProduction() {
			return errors.New("the memory store cannot be used in production")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
