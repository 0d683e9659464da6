package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	// Redis
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// Code execution
	PistonAPIURL string `mapstructure:"PISTON_API_URL"`

	// Battle tuning. Zero values fall back to the defaults below.
	QueueTTLSeconds      int `mapstructure:"QUEUE_TTL_SECONDS"`
	BattleMaxSeconds     int `mapstructure:"BATTLE_MAX_SECONDS"`
	SweepIntervalSeconds int `mapstructure:"SWEEP_INTERVAL_SECONDS"`
	PollIntervalSeconds  int `mapstructure:"POLL_INTERVAL_SECONDS"`
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}

// QueueTTL is how long a matchmaking queue entry stays valid.
func (c *Config) QueueTTL() time.Duration {
	if c.QueueTTLSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.QueueTTLSeconds) * time.Second
}

// BattleMaxDuration is how long an active battle may run before the
// sweeper expires it.
func (c *Config) BattleMaxDuration() time.Duration {
	if c.BattleMaxSeconds <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.BattleMaxSeconds) * time.Second
}

// SweepInterval is how often the cleanup sweeper runs.
func (c *Config) SweepInterval() time.Duration {
	if c.SweepIntervalSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

// PollInterval is the interval clients are told to poll /battles/active at.
func (c *Config) PollInterval() time.Duration {
	if c.PollIntervalSeconds <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.PollIntervalSeconds) * time.Second
}
