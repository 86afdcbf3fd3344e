package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config se arma en tres capas: defaults, archivo YAML (CONFIG_FILE) y env.
// El env siempre gana.
type Config struct {
	HTTPAddr        string        `yaml:"httpAddr"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`

	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Images   ImagesConfig   `yaml:"images"`
	Users    UsersConfig    `yaml:"users"`
	Adoption AdoptionConfig `yaml:"adoption"`
	Limits   LimitsConfig   `yaml:"limits"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	App    string `yaml:"app"`
}

type AuthConfig struct {
	Mode         string        `yaml:"mode"` // dev | jwt | remote
	JWTSecret    string        `yaml:"jwtSecret"`
	RemoteURL    string        `yaml:"remoteURL"`
	RemoteAPIKey string        `yaml:"remoteAPIKey"`
	Timeout      time.Duration `yaml:"timeout"`
}

type StorageConfig struct {
	Driver      string `yaml:"driver"` // memory | postgres | sqlite
	PostgresDSN string `yaml:"postgresDSN"`
	SQLitePath  string `yaml:"sqlitePath"`
	Migrate     bool   `yaml:"migrate"`
}

type ImagesConfig struct {
	Driver         string `yaml:"driver"` // memory | fs | s3 | minio
	Root           string `yaml:"root"`
	MaxUploadBytes int64  `yaml:"maxUploadBytes"`

	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	PathStyle bool   `yaml:"pathStyle"`
	UseSSL    bool   `yaml:"useSSL"`
}

type UsersConfig struct {
	Driver    string        `yaml:"driver"` // memory | postgres | remote
	RemoteURL string        `yaml:"remoteURL"`
	APIKey    string        `yaml:"apiKey"`
	Timeout   time.Duration `yaml:"timeout"`

	// Cache Redis delante del directorio; vacío = sin cache.
	RedisAddr     string        `yaml:"redisAddr"`
	RedisPassword string        `yaml:"redisPassword"`
	RedisDB       int           `yaml:"redisDB"`
	CacheTTL      time.Duration `yaml:"cacheTTL"`
}

type AdoptionConfig struct {
	ConcludePolicy string `yaml:"concludePolicy"` // any | owner_or_adopter
}

type LimitsConfig struct {
	// Escrituras por segundo por usuario; 0 desactiva.
	WriteRPS   float64 `yaml:"writeRPS"`
	WriteBurst int     `yaml:"writeBurst"`
}

func Defaults() Config {
	return Config{
		HTTPAddr:        ":8080",
		ShutdownTimeout: 10 * time.Second,
		Log:             LogConfig{Level: "info", Format: "text", App: "get-a-pet"},
		Auth:            AuthConfig{Mode: "dev", Timeout: 5 * time.Second},
		Storage:         StorageConfig{Driver: "memory", SQLitePath: "data/get-a-pet.db"},
		Images:          ImagesConfig{Driver: "memory", Root: "public/images", MaxUploadBytes: 16 << 20, Region: "us-east-1"},
		Users:           UsersConfig{Driver: "memory", Timeout: 5 * time.Second, CacheTTL: 5 * time.Minute},
		Adoption:        AdoptionConfig{ConcludePolicy: "any"},
		Limits:          LimitsConfig{WriteRPS: 5, WriteBurst: 10},
	}
}

// Load lee .env (si existe), el YAML en path (o CONFIG_FILE) y los overrides de env.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	if path == "" {
		path = strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv pisa cfg con las variables presentes en el entorno.
func ApplyEnv(cfg *Config) error {
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	str("HTTP_ADDR", &cfg.HTTPAddr)
	if port, ok := os.LookupEnv("PORT"); ok && strings.TrimSpace(port) != "" {
		cfg.HTTPAddr = ":" + strings.TrimSpace(port)
	}
	duration("SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)

	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("APP_NAME", &cfg.Log.App)

	str("AUTH_MODE", &cfg.Auth.Mode)
	str("JWT_SECRET", &cfg.Auth.JWTSecret)
	str("AUTH_REMOTE_URL", &cfg.Auth.RemoteURL)
	str("AUTH_REMOTE_API_KEY", &cfg.Auth.RemoteAPIKey)

	str("STORAGE_DRIVER", &cfg.Storage.Driver)
	str("DATABASE_URL", &cfg.Storage.PostgresDSN)
	str("SQLITE_PATH", &cfg.Storage.SQLitePath)
	boolean("DB_MIGRATE", &cfg.Storage.Migrate)

	str("IMAGES_DRIVER", &cfg.Images.Driver)
	str("IMAGES_ROOT", &cfg.Images.Root)
	str("IMAGES_BUCKET", &cfg.Images.Bucket)
	str("IMAGES_REGION", &cfg.Images.Region)
	str("IMAGES_ENDPOINT", &cfg.Images.Endpoint)
	str("IMAGES_ACCESS_KEY", &cfg.Images.AccessKey)
	str("IMAGES_SECRET_KEY", &cfg.Images.SecretKey)
	boolean("IMAGES_PATH_STYLE", &cfg.Images.PathStyle)
	boolean("IMAGES_USE_SSL", &cfg.Images.UseSSL)
	if v, ok := os.LookupEnv("MAX_UPLOAD_BYTES"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES: %w", err))
		} else {
			cfg.Images.MaxUploadBytes = n
		}
	}

	str("USERS_DRIVER", &cfg.Users.Driver)
	str("USERS_REMOTE_URL", &cfg.Users.RemoteURL)
	str("USERS_API_KEY", &cfg.Users.APIKey)
	str("REDIS_ADDR", &cfg.Users.RedisAddr)
	str("REDIS_PASSWORD", &cfg.Users.RedisPassword)
	integer("REDIS_DB", &cfg.Users.RedisDB)
	duration("USERS_CACHE_TTL", &cfg.Users.CacheTTL)

	str("ADOPTION_CONCLUDE_POLICY", &cfg.Adoption.ConcludePolicy)

	if v, ok := os.LookupEnv("RATE_LIMIT_RPS"); ok && strings.TrimSpace(v) != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS: %w", err))
		} else {
			cfg.Limits.WriteRPS = f
		}
	}
	integer("RATE_LIMIT_BURST", &cfg.Limits.WriteBurst)

	return errors.Join(errs...)
}

func (c Config) Validate() error {
	var errs []error

	oneOf := func(field, v string, allowed ...string) {
		for _, a := range allowed {
			if v == a {
				return
			}
		}
		errs = append(errs, fmt.Errorf("%s: %q not in %v", field, v, allowed))
	}

	oneOf("auth.mode", c.Auth.Mode, "dev", "jwt", "remote")
	oneOf("storage.driver", c.Storage.Driver, "memory", "postgres", "sqlite")
	oneOf("images.driver", c.Images.Driver, "memory", "fs", "s3", "minio")
	oneOf("users.driver", c.Users.Driver, "memory", "postgres", "remote")
	oneOf("adoption.concludePolicy", c.Adoption.ConcludePolicy, "any", "owner_or_adopter")

	if c.Auth.Mode == "jwt" && c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwtSecret required when auth.mode=jwt"))
	}
	if c.Auth.Mode == "remote" && c.Auth.RemoteURL == "" {
		errs = append(errs, errors.New("auth.remoteURL required when auth.mode=remote"))
	}
	if (c.Storage.Driver == "postgres" || c.Users.Driver == "postgres") && c.Storage.PostgresDSN == "" {
		errs = append(errs, errors.New("storage.postgresDSN required for postgres"))
	}
	if (c.Images.Driver == "s3" || c.Images.Driver == "minio") && c.Images.Bucket == "" {
		errs = append(errs, errors.New("images.bucket required for object storage"))
	}
	if c.Images.Driver == "minio" && c.Images.Endpoint == "" {
		errs = append(errs, errors.New("images.endpoint required for minio"))
	}
	if c.Users.Driver == "remote" && c.Users.RemoteURL == "" {
		errs = append(errs, errors.New("users.remoteURL required when users.driver=remote"))
	}
	return errors.Join(errs...)
}
