package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Settlement SettlementConfig `mapstructure:"settlement"`
	Gateway    GatewayConfig    `mapstructure:"gateway"`
	Queue      QueueConfig      `mapstructure:"queue"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds the shared secret for validating tokens issued by the
// marketplace identity provider. This service never issues tokens itself.
type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	Expiry time.Duration `mapstructure:"expiry"` // used only by the local token minting tool
}

// SettlementConfig controls crediting and maturation of sale proceeds.
type SettlementConfig struct {
	// HoldDuration is how long sale proceeds stay pending before they
	// become withdrawable.
	HoldDuration   time.Duration `mapstructure:"hold_duration"`
	SweepInterval  time.Duration `mapstructure:"sweep_interval"`
	SweepBatchSize int           `mapstructure:"sweep_batch_size"`
}

// GatewayConfig controls the external payout gateway client and the
// reconciliation of withdrawals with ambiguous outcomes.
type GatewayConfig struct {
	BaseURL            string        `mapstructure:"base_url"`
	SubmitTimeout      time.Duration `mapstructure:"submit_timeout"`
	ReconcileInterval  time.Duration `mapstructure:"reconcile_interval"`
	ReconcileMinAge    time.Duration `mapstructure:"reconcile_min_age"`
	ReconcileBatchSize int           `mapstructure:"reconcile_batch_size"`
}

// QueueConfig controls the Redis stream carrying sale-completed events.
type QueueConfig struct {
	Stream   string        `mapstructure:"stream"`
	Group    string        `mapstructure:"group"`
	Consumer string        `mapstructure:"consumer"`
	Block    time.Duration `mapstructure:"block"`
	// ReclaimMinIdle is how long a delivered-but-unacked entry may sit in
	// the pending list before a reader claims it back for retry.
	ReclaimMinIdle time.Duration `mapstructure:"reclaim_min_idle"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: SWS_ (Seller Wallet Service).
// Nested keys use underscore: SWS_DATABASE_HOST, SWS_JWT_SECRET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "seller_wallet")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "marketplace-identity")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("settlement.hold_duration", "168h")
	v.SetDefault("settlement.sweep_interval", "1m")
	v.SetDefault("settlement.sweep_batch_size", 200)
	v.SetDefault("gateway.base_url", "http://localhost:9090")
	v.SetDefault("gateway.submit_timeout", "10s")
	v.SetDefault("gateway.reconcile_interval", "2m")
	v.SetDefault("gateway.reconcile_min_age", "5m")
	v.SetDefault("gateway.reconcile_batch_size", 50)
	v.SetDefault("queue.stream", "sales:completed")
	v.SetDefault("queue.group", "settlement")
	v.SetDefault("queue.consumer", "settlement-1")
	v.SetDefault("queue.block", "5s")
	v.SetDefault("queue.reclaim_min_idle", "30s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: SWS_DATABASE_HOST -> database.host
	v.SetEnvPrefix("SWS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
