package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Worker    WorkerConfig
	Roster    RosterConfig
	Upstreams UpstreamsConfig
	Cache     CacheConfig
	DB        DatabaseConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	RateLimitRPS int
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type RosterConfig struct {
	DatasetPath     string
	RefreshInterval time.Duration // 0 disables periodic refresh
}

type UpstreamsConfig struct {
	RiskURL        string
	WeatherURL     string
	WeatherAPIKey  string
	RoutingURL     string
	RoutingAPIKey  string
	RiskTimeout    time.Duration
	RouteTimeout   time.Duration
	WeatherTimeout time.Duration
	HealthGrace    time.Duration
	AvgSpeedKMH    float64
}

type CacheConfig struct {
	RiskTTL  time.Duration
	RouteTTL time.Duration
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "localhost"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			RateLimitRPS: getEnvInt("RATE_LIMIT_RPS", 10),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 20),
		},
		Roster: RosterConfig{
			DatasetPath:     getEnv("DATASET_PATH", "./data/dataset.yaml"),
			RefreshInterval: getEnvDuration("DATASET_REFRESH_INTERVAL", 0),
		},
		Upstreams: UpstreamsConfig{
			RiskURL:        getEnv("RISK_API_URL", "https://janrakshak-pre-alert-model.onrender.com"),
			WeatherURL:     getEnv("WEATHER_API_URL", "https://api.openweathermap.org/data/2.5"),
			WeatherAPIKey:  getEnv("WEATHER_API_KEY", ""),
			RoutingURL:     getEnv("ROUTING_API_URL", "https://graphhopper.com/api/1"),
			RoutingAPIKey:  getEnv("ROUTING_API_KEY", ""),
			RiskTimeout:    getEnvDuration("RISK_TIMEOUT", 15*time.Second),
			RouteTimeout:   getEnvDuration("ROUTE_TIMEOUT", 15*time.Second),
			WeatherTimeout: getEnvDuration("WEATHER_TIMEOUT", 10*time.Second),
			HealthGrace:    getEnvDuration("HEALTH_GRACE", 30*time.Second),
			AvgSpeedKMH:    getEnvFloat("OFFLINE_AVG_SPEED_KMH", 40),
		},
		Cache: CacheConfig{
			RiskTTL:  getEnvDuration("RISK_CACHE_TTL", 5*time.Minute),
			RouteTTL: getEnvDuration("ROUTE_CACHE_TTL", 5*time.Minute),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/evac.db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Roster.RefreshInterval != 0 && c.Roster.RefreshInterval < time.Minute {
		return fmt.Errorf("dataset refresh interval must be at least 1 minute")
	}
	if c.Upstreams.RiskTimeout <= 0 || c.Upstreams.RouteTimeout <= 0 || c.Upstreams.WeatherTimeout <= 0 {
		return fmt.Errorf("upstream timeouts must be positive")
	}
	if c.Upstreams.AvgSpeedKMH <= 0 {
		return fmt.Errorf("offline average speed must be positive")
	}
	if c.Cache.RiskTTL <= 0 || c.Cache.RouteTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
