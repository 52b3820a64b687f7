package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logger    LoggerConfig    `yaml:"logger"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	S3        S3Config        `yaml:"s3"`
	Resources ResourcesConfig `yaml:"resources"`
	GenAI     GenAIConfig     `yaml:"genai"`
	Jobs      JobsConfig      `yaml:"jobs"`
	CORS      CORSConfig      `yaml:"cors"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"`
	BasePath        string        `yaml:"base_path"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	SSLMode         string        `yaml:"sslmode"`
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// GetDSN returns the postgres DSN, preferring an explicit URL
func (d DatabaseConfig) GetDSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret   string        `yaml:"secret"`
	Issuer   string        `yaml:"issuer"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type ResourcesConfig struct {
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

type GenAIConfig struct {
	BaseURL        string        `yaml:"base_url"`
	APIKey         string        `yaml:"api_key"`
	Model          string        `yaml:"model"`
	Temperature    float64       `yaml:"temperature"`
	MaxFileBytes   int64         `yaml:"max_file_bytes"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type JobsConfig struct {
	NotificationCleanupSchedule string `yaml:"notification_cleanup_schedule"`
	NotificationRetentionDays   int    `yaml:"notification_retention_days"`
}

type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins"`
}

// Default returns a configuration populated with development defaults
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Mode:            "debug",
			BasePath:        "/api",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    5 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		Logger: LoggerConfig{Level: "info"},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "pad_champions",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		JWT: JWTConfig{
			Issuer:   "pad-champions",
			TokenTTL: time.Hour,
		},
		Resources: ResourcesConfig{
			MaxUploadBytes: 10 << 20,
		},
		GenAI: GenAIConfig{
			BaseURL:        "https://generativelanguage.googleapis.com/v1beta/openai/",
			Model:          "gemini-2.5-flash",
			Temperature:    0.2,
			MaxFileBytes:   20 << 20,
			RequestTimeout: 5 * time.Minute,
		},
		Jobs: JobsConfig{
			NotificationCleanupSchedule: "@daily",
			NotificationRetentionDays:   90,
		},
		CORS: CORSConfig{AllowedOrigins: "*"},
	}
}

// Load reads the yaml file at path (if present) over the defaults and
// applies environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		c.Server.Mode = v
	}
	if v := os.Getenv("SERVER_BASE_PATH"); v != "" {
		c.Server.BasePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Database.Port = p
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.DBName = v
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Redis.Port = p
		}
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}

	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWT.Secret = v
	}

	if v := os.Getenv("S3_BUCKET"); v != "" {
		c.S3.Bucket = v
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		c.S3.Region = v
	}
	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		c.S3.Endpoint = v
	}
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		c.S3.AccessKey = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		c.S3.SecretKey = v
	}

	if v := os.Getenv("RESOURCES_MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Resources.MaxUploadBytes = n
		}
	}

	if v := os.Getenv("GENAI_BASE_URL"); v != "" {
		c.GenAI.BaseURL = v
	}
	if v := os.Getenv("GENAI_API_KEY"); v != "" {
		c.GenAI.APIKey = v
	}
	if v := os.Getenv("GENAI_MODEL"); v != "" {
		c.GenAI.Model = v
	}

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORS.AllowedOrigins = v
	}
}

// Validate checks settings that have no usable default
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required (set JWT_SECRET)")
	}
	if c.Resources.MaxUploadBytes <= 0 {
		return fmt.Errorf("resources.max_upload_bytes must be positive")
	}
	if c.GenAI.MaxFileBytes <= 0 {
		return fmt.Errorf("genai.max_file_bytes must be positive")
	}
	return nil
}
