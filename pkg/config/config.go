package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowThreshold   time.Duration `yaml:"slow_threshold" default:"2s"`
		RefreshBurst    float64       `yaml:"refresh_burst" default:"5"`
		RefreshPerSec   float64       `yaml:"refresh_per_sec" default:"1"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Simulator struct {
		TickInterval time.Duration `yaml:"tick_interval" default:"2s"`
		Seed         int64         `yaml:"seed"`
		Tuning       Tuning        `yaml:"tuning"`
	} `yaml:"simulator"`
	Predictions struct {
		Provider     string        `yaml:"provider" default:"simulated"`
		Latency      time.Duration `yaml:"latency" default:"1500ms"`
		PollInterval time.Duration `yaml:"poll_interval" default:"65s"`
		PollOnStart  bool          `yaml:"poll_on_start"`
		CacheTTL     time.Duration `yaml:"cache_ttl" default:"10m"`
		RemoteURL    string        `yaml:"remote_url"`
		Timeout      time.Duration `yaml:"timeout" default:"5s"`
		Retries      int           `yaml:"retries" default:"3"`
	} `yaml:"predictions"`
	Advisor struct {
		PestLatency           time.Duration `yaml:"pest_latency" default:"1500ms"`
		HealthLatency         time.Duration `yaml:"health_latency" default:"2s"`
		RecommendationLatency time.Duration `yaml:"recommendation_latency" default:"1200ms"`
		SoilLatency           time.Duration `yaml:"soil_latency" default:"1s"`
		MaxImageBytes         int64         `yaml:"max_image_bytes" default:"10485760"`
	} `yaml:"advisor"`
	Market struct {
		Latency      time.Duration `yaml:"latency" default:"800ms"`
		PollInterval time.Duration `yaml:"poll_interval"`
		CacheTTL     time.Duration `yaml:"cache_ttl" default:"10m"`
	} `yaml:"market"`
	Irrigation struct {
		Mode  string `yaml:"mode" default:"automatic"`
		Start string `yaml:"start" default:"05:00"`
		End   string `yaml:"end" default:"06:00"`
	} `yaml:"irrigation"`
	Cache struct {
		MemoryMaxSize int           `yaml:"memory_max_size" default:"1000"`
		MemoryCleanup time.Duration `yaml:"memory_cleanup" default:"5m"`
		MemoryTTL     time.Duration `yaml:"memory_ttl" default:"1m"`
		Redis         struct {
			Enabled      bool          `yaml:"enabled"`
			Host         string        `yaml:"host" default:"localhost"`
			Port         int           `yaml:"port" default:"6379"`
			Password     string        `yaml:"password"`
			DB           int           `yaml:"db"`
			Prefix       string        `yaml:"prefix" default:"agropulse"`
			PoolSize     int           `yaml:"pool_size" default:"10"`
			MinIdleConns int           `yaml:"min_idle_conns" default:"2"`
			PoolTimeout  time.Duration `yaml:"pool_timeout" default:"4s"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled         bool     `yaml:"enabled"`
		Brokers         []string `yaml:"brokers"`
		TelemetryTopic  string   `yaml:"telemetry_topic" default:"farm.telemetry"`
		PredictionTopic string   `yaml:"prediction_topic" default:"farm.predictions"`
		CommandTopic    string   `yaml:"command_topic" default:"farm.commands"`
		LogTopic        string   `yaml:"log_topic"`
		RequiredAcks    int      `yaml:"required_acks" default:"1"`
		Compression     string   `yaml:"compression" default:"snappy"`
		MaxPublishRPS   int      `yaml:"max_publish_rps" default:"10"`
		BufferSize      int      `yaml:"buffer_size" default:"256"`
		Producer        struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"100ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer        struct {
			Enabled    bool          `yaml:"enabled"`
			GroupID    string        `yaml:"group_id" default:"agropulse"`
			Workers    int           `yaml:"workers" default:"1"`
			BufferSize int           `yaml:"buffer_size" default:"16"`
			RetryMax   int           `yaml:"retry_max" default:"2"`
			BackoffMin time.Duration `yaml:"backoff_min" default:"50ms"`
			BackoffMax time.Duration `yaml:"backoff_max" default:"2s"`
			MinBytes   int           `yaml:"min_bytes" default:"1"`
			MaxBytes   int           `yaml:"max_bytes" default:"1048576"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
}

// MaxChartCap is the longest chart history the simulator keeps.
const MaxChartCap = 30

// Tuning holds the random-walk magnitudes and clamp bounds of the telemetry simulator.
type Tuning struct {
	ChartCap        int     `yaml:"chart_cap" default:"30"`
	IndexStep       float64 `yaml:"index_step" default:"0.05"`
	IndexMin        float64 `yaml:"index_min" default:"0.1"`
	IndexMax        float64 `yaml:"index_max" default:"0.9"`
	MoistureStep    float64 `yaml:"moisture_step" default:"2"`
	SectorRiskStep  float64 `yaml:"sector_risk_step" default:"10"`
	SectorRiskBias  float64 `yaml:"sector_risk_bias" default:"0.4"`
	SectorWaterStep float64 `yaml:"sector_water_step" default:"5"`
	HeightGrowthMax float64 `yaml:"height_growth_max" default:"0.2"`
	LeafChance      float64 `yaml:"leaf_chance" default:"0.1"`
	SoilTempStep    float64 `yaml:"soil_temp_step" default:"0.1"`
	AirTempStep     float64 `yaml:"air_temp_step" default:"0.2"`
	HumidityStep    float64 `yaml:"humidity_step" default:"2"`
	HumidityMin     float64 `yaml:"humidity_min" default:"20"`
	HumidityMax     float64 `yaml:"humidity_max" default:"90"`
	NitrogenDrain   float64 `yaml:"nitrogen_drain" default:"0.2"`
	PhosphorusDrain float64 `yaml:"phosphorus_drain" default:"0.1"`
	PotassiumDrain  float64 `yaml:"potassium_drain" default:"0.15"`
	NitrogenFloor   float64 `yaml:"nitrogen_floor" default:"40"`
	PhosphorusFloor float64 `yaml:"phosphorus_floor" default:"20"`
	PotassiumFloor  float64 `yaml:"potassium_floor" default:"30"`
}

// DefaultTuning returns Tuning populated from its default tags.
func DefaultTuning() Tuning {
	var t Tuning
	_ = defaults.Set(&t)
	return t
}

// Default returns a Config populated only from default tags.
func Default() *Config {
	var c Config
	_ = defaults.Set(&c)
	return &c
}

// Load reads and parses a YAML configuration file. Missing keys take their default tag.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML bytes, applies defaults and validates.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("APP_ENV"); v != "" {
		c.Environment = v
	}
	if v := getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = p
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("SIM_SEED"); v != "" {
		s, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("SIM_SEED: %w", err)
		}
		c.Simulator.Seed = s
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
		c.Cache.Redis.Enabled = true
	}
	if v := getenv("PREDICTIONS_REMOTE_URL"); v != "" {
		c.Predictions.RemoteURL = v
		c.Predictions.Provider = "remote"
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Simulator.TickInterval <= 0 {
		return fmt.Errorf("simulator.tick_interval must be positive")
	}
	if c.Simulator.Tuning.ChartCap < 1 || c.Simulator.Tuning.ChartCap > MaxChartCap {
		return fmt.Errorf("simulator.tuning.chart_cap must be between 1 and %d, got %d", MaxChartCap, c.Simulator.Tuning.ChartCap)
	}
	if c.Simulator.Tuning.IndexMin >= c.Simulator.Tuning.IndexMax {
		return fmt.Errorf("simulator.tuning.index_min must be below index_max")
	}
	switch c.Predictions.Provider {
	case "simulated":
	case "remote":
		if c.Predictions.RemoteURL == "" {
			return fmt.Errorf("predictions.remote_url is required for the remote provider")
		}
	default:
		return fmt.Errorf("predictions.provider must be 'simulated' or 'remote', got '%s'", c.Predictions.Provider)
	}
	switch c.Irrigation.Mode {
	case "off", "automatic", "manual":
	default:
		return fmt.Errorf("irrigation.mode must be off, automatic or manual, got '%s'", c.Irrigation.Mode)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}
