package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name        string
	Env         string
	HTTP        HTTP
	Admin       HTTP
	CORSOrigins []string `mapstructure:"cors_origins"`
	Limits      Limits
}

type Limits struct {
	RPS          float64
	Burst        int
	PerIPRPS     float64 `mapstructure:"per_ip_rps"`
	PerIPBurst   int     `mapstructure:"per_ip_burst"`
	MaxInFlight  int64   `mapstructure:"max_in_flight"`
	MaxBodyBytes int64   `mapstructure:"max_body_bytes"`
	TimeoutSec   int     `mapstructure:"timeout_sec"`
}

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int `mapstructure:"max_size_mb"`
	MaxBackups int `mapstructure:"max_backups"`
	MaxAgeDays int `mapstructure:"max_age_days"`
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int `mapstructure:"access_token_ttl_min"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min"`
	LogLevel           string `mapstructure:"log_level"`
}

// Storage 选择实体数据落在哪个 KV 后端：memory | redis | sql
type Storage struct {
	Driver          string
	Prefix          string
	StatsTTLSec     int `mapstructure:"stats_ttl_sec"`
	OverdueSweepSec int `mapstructure:"overdue_sweep_sec"`
}

type Seed struct {
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
	LowStock      int64  `mapstructure:"low_stock"`
	MinPassword   int    `mapstructure:"min_password"`
}

type Config struct {
	App     App
	Log     Log
	JWT     JWT
	DB      DB
	Redis   Redis
	Storage Storage
	Seed    Seed
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "admin-dashboard")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 15)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.host", "0.0.0.0")
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("app.admin.readtimeoutsec", 5)
	v.SetDefault("app.admin.writetimeoutsec", 15)
	v.SetDefault("app.admin.idletimeoutsec", 60)
	v.SetDefault("app.limits.rps", 200)
	v.SetDefault("app.limits.burst", 400)
	v.SetDefault("app.limits.per_ip_rps", 20)
	v.SetDefault("app.limits.per_ip_burst", 40)
	v.SetDefault("app.limits.max_in_flight", 300)
	v.SetDefault("app.limits.max_body_bytes", 16<<20)
	v.SetDefault("app.limits.timeout_sec", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.rotate.filename", "logs/app.log")
	v.SetDefault("log.rotate.max_size_mb", 100)
	v.SetDefault("log.rotate.max_backups", 7)
	v.SetDefault("log.rotate.max_age_days", 30)

	v.SetDefault("jwt.issuer", "admin-dashboard")
	v.SetDefault("jwt.access_token_ttl_min", 120)

	v.SetDefault("db.driver", "mysql")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime_min", 30)
	v.SetDefault("db.log_level", "warn")

	v.SetDefault("redis.addr", "")

	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.prefix", "admin:")
	v.SetDefault("storage.stats_ttl_sec", 30)
	v.SetDefault("storage.overdue_sweep_sec", 3600)

	v.SetDefault("seed.admin_email", "admin@example.com")
	v.SetDefault("seed.low_stock", 10)
	v.SetDefault("seed.min_password", 6)
}

// Load 读取 YAML（path 为空时取 CONFIG_PATH，再退回 ./configs/config.local.yaml），
// APP_ 前缀环境变量覆盖同名键，如 APP_STORAGE_DRIVER=redis
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "memory", "redis", "sql":
	default:
		return fmt.Errorf("storage.driver %q: want memory, redis or sql", c.Storage.Driver)
	}
	if c.Storage.Driver == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("storage.driver redis needs redis.addr")
	}
	if c.Storage.Driver == "sql" && c.DB.DSN == "" {
		return fmt.Errorf("storage.driver sql needs db.dsn")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	return nil
}
