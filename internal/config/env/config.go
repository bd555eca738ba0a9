package env

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Name string `mapstructure:"name"`
	} `mapstructure:"app"`
	Web struct {
		Port      int  `mapstructure:"port"`
		Prefork   bool `mapstructure:"prefork"`
		BodyLimit int  `mapstructure:"body_limit"`
		Cors      struct {
			AllowOrigins string `mapstructure:"allow_origins"`
		} `mapstructure:"cors"`
	} `mapstructure:"web"`
	Auth struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"auth"`
	JWT struct {
		Secret                 string        `mapstructure:"secret"`
		RefreshSecret          string        `mapstructure:"refresh_secret"`
		AccessTokenExpiration  time.Duration `mapstructure:"access_token_expiration"`
		RefreshTokenExpiration time.Duration `mapstructure:"refresh_token_expiration"`
	} `mapstructure:"jwt"`
	Log struct {
		Level int `mapstructure:"level"`
	} `mapstructure:"log"`
	Database struct {
		DSN         string `mapstructure:"dsn"`
		AutoMigrate bool   `mapstructure:"auto_migrate"`
		Pool        struct {
			Idle     int `mapstructure:"idle"`
			Max      int `mapstructure:"max"`
			Lifetime int `mapstructure:"lifetime"`
		} `mapstructure:"pool"`
		Log struct {
			Level int `mapstructure:"level"`
		} `mapstructure:"log"`
	} `mapstructure:"database"`
	Pagination struct {
		MaxPageSize int `mapstructure:"max_page_size"`
	} `mapstructure:"pagination"`
	Redis struct {
		Enabled  bool   `mapstructure:"enabled"`
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
		CacheTTL int    `mapstructure:"cache_ttl"`
		Pool     struct {
			Size        int `mapstructure:"size"`
			MinIdle     int `mapstructure:"min_idle"`
			MaxIdle     int `mapstructure:"max_idle"`
			Lifetime    int `mapstructure:"lifetime"`
			IdleTimeout int `mapstructure:"idle_timeout"`
		} `mapstructure:"pool"`
	} `mapstructure:"redis"`
	Monitoring struct {
		Enabled bool `mapstructure:"enabled"`
		Otel    struct {
			Host string `mapstructure:"host"`
		} `mapstructure:"otel"`
	} `mapstructure:"monitoring"`
}

// NewConfig reads config.yml from the working directory or its parent and panics
// when it cannot be loaded.
func NewConfig() *Config {
	cfg, err := LoadConfig("./", "./../")
	if err != nil {
		panic(fmt.Errorf("fatal error loading config: %w", err))
	}
	return cfg
}

// LoadConfig reads config.yml from the given search paths. Every key can be
// overridden from the environment, e.g. APP_DATABASE_DSN.
func LoadConfig(paths ...string) (*Config, error) {
	config := viper.New()

	config.SetConfigName("config")
	config.SetConfigType("yml")
	for _, path := range paths {
		config.AddConfigPath(path)
	}
	config.SetEnvPrefix("APP")
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()

	config.SetDefault("web.port", 8080)
	config.SetDefault("web.cors.allow_origins", "http://localhost:4200")
	config.SetDefault("redis.cache_ttl", 300)

	if err := config.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := new(Config)
	if err := config.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return cfg, nil
}

func (c *Config) GetAccessSecret() string {
	return c.JWT.Secret
}

func (c *Config) GetRefreshSecret() string {
	return c.JWT.RefreshSecret
}

// Expirations are configured in seconds.
func (c *Config) GetAccessTokenExpiration() time.Duration {
	return c.JWT.AccessTokenExpiration * time.Second
}

func (c *Config) GetRefreshTokenExpiration() time.Duration {
	return c.JWT.RefreshTokenExpiration * time.Second
}

func (c *Config) GetCacheTTL() time.Duration {
	return time.Duration(c.Redis.CacheTTL) * time.Second
}
