// Package config handles engine configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cohesivestack/valgo"
	"github.com/danielpatrickdp/uqrc-engine/internal/attractor"
	"github.com/danielpatrickdp/uqrc-engine/internal/closure"
	"github.com/danielpatrickdp/uqrc-engine/internal/eval"
	"github.com/danielpatrickdp/uqrc-engine/internal/logging"
	"github.com/danielpatrickdp/uqrc-engine/internal/loss"
	"github.com/danielpatrickdp/uqrc-engine/internal/memory"
	"github.com/danielpatrickdp/uqrc-engine/internal/metrics"
	"github.com/danielpatrickdp/uqrc-engine/internal/orchestrator"
	"github.com/danielpatrickdp/uqrc-engine/internal/state"
	"github.com/danielpatrickdp/uqrc-engine/internal/storage"
	"github.com/danielpatrickdp/uqrc-engine/internal/update"
	"github.com/danielpatrickdp/uqrc-engine/internal/validate"
	"gopkg.in/yaml.v3"
)

// #region types

// Config is the root configuration structure.
type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	Closure   closure.Options `yaml:"closure"`
	Memory    MemoryConfig    `yaml:"memory"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Storage   StorageConfig   `yaml:"storage"`
	Loss      LossConfig      `yaml:"loss"`
	Readiness eval.Thresholds `yaml:"readiness"`
	Attractor AttractorConfig `yaml:"attractor"`
	Logging   logging.Config  `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
}

// EngineConfig holds the state dimension and operator coefficients. Gate
// thresholds live under params.gate.
type EngineConfig struct {
	Dimension            int           `yaml:"dimension"`
	Params               update.Params `yaml:"params"`
	LogAttractorDistance bool          `yaml:"log_attractor_distance"`
	LogEntropyActivation bool          `yaml:"log_entropy_activation"`
}

// MemoryConfig holds memory curvature and working tier settings.
type MemoryConfig struct {
	CurvatureWindow int     `yaml:"curvature_window"`
	CurvatureDecay  float64 `yaml:"curvature_decay"`
	WorkingCapacity int     `yaml:"working_capacity"`
}

// MetricsConfig holds the metrics ring size.
type MetricsConfig struct {
	Capacity int `yaml:"capacity"`
}

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
	DriverNone   = "none"
)

// StorageConfig selects the persistence medium and its keys.
type StorageConfig struct {
	Driver     string `yaml:"driver"` // sqlite | memory | none
	Path       string `yaml:"path"`
	MemoryKey  string `yaml:"memory_key"`
	MetricsKey string `yaml:"metrics_key"`
	HooksKey   string `yaml:"hooks_key"`
}

// LossConfig holds the training settings.
type LossConfig struct {
	Weights       loss.Weights     `yaml:"weights"`
	Sensitivity   loss.Sensitivity `yaml:"sensitivity"`
	LearningRate  float64          `yaml:"learning_rate"`
	RewardEntropy bool             `yaml:"reward_entropy"`
}

// AttractorConfig overrides the session attractor. Leaving every facet blank
// keeps the built-in default.
type AttractorConfig struct {
	ID     string           `yaml:"id"`
	Facets attractor.Facets `yaml:"facets"`
}

// ServerConfig holds the listen addresses of cmd/serve.
type ServerConfig struct {
	GRPCAddr    string `yaml:"grpc_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// #endregion types

// #region defaults

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Dimension:            state.DefaultDimension,
			Params:               update.DefaultParams(),
			LogAttractorDistance: true,
			LogEntropyActivation: true,
		},
		Closure: closure.DefaultOptions(),
		Memory: MemoryConfig{
			CurvatureWindow: memory.DefaultCurvatureWindow,
			CurvatureDecay:  memory.DefaultCurvatureDecay,
			WorkingCapacity: memory.DefaultWorkingCapacity,
		},
		Metrics: MetricsConfig{Capacity: metrics.DefaultCapacity},
		Storage: StorageConfig{
			Driver:     DriverSQLite,
			Path:       "uqrc.db",
			MemoryKey:  storage.MemoryKey,
			MetricsKey: storage.MetricsKey,
			HooksKey:   storage.HooksKey,
		},
		Loss: LossConfig{
			Weights:      loss.DefaultWeights(),
			Sensitivity:  loss.DefaultSensitivity(),
			LearningRate: loss.DefaultLearningRate,
		},
		Readiness: eval.DefaultThresholds(),
		Logging: logging.Config{
			Environment: "production",
			Level:       "info",
			Service:     "uqrc-engine",
		},
		Server: ServerConfig{
			GRPCAddr:    "localhost:50051",
			MetricsAddr: "localhost:9090",
		},
	}
}

// #endregion defaults

// #region load-save

// Load reads config from path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads config from path, or returns default if not found.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Save saves configuration to a file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from UQRC_* environment variables.
func (c *Config) ApplyEnv() error {
	c.Storage.Path = envOr("UQRC_DB", c.Storage.Path)
	c.Logging.Level = envOr("UQRC_LOG_LEVEL", c.Logging.Level)
	c.Server.GRPCAddr = envOr("UQRC_GRPC_ADDR", c.Server.GRPCAddr)
	c.Server.MetricsAddr = envOr("UQRC_METRICS_ADDR", c.Server.MetricsAddr)

	if v := envOr("UQRC_DIMENSION", ""); v != "" {
		dim, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid UQRC_DIMENSION %q: %w", v, err)
		}
		c.Engine.Dimension = dim
	}
	return c.Validate()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion load-save

// #region validate

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	v := valgo.Is(
		valgo.Int(c.Engine.Dimension, "engine.dimension").GreaterThan(0),
		valgo.Int(c.Closure.MinTokens, "closure.min_tokens").GreaterOrEqualTo(0),
		valgo.Int(c.Memory.CurvatureWindow, "memory.curvature_window").GreaterThan(0),
		valgo.Float64(c.Memory.CurvatureDecay, "memory.curvature_decay").GreaterThan(0).LessOrEqualTo(1),
		valgo.Int(c.Memory.WorkingCapacity, "memory.working_capacity").GreaterThan(0),
		valgo.Int(c.Metrics.Capacity, "metrics.capacity").GreaterThan(0),
		valgo.String(c.Storage.Driver, "storage.driver").InSlice([]string{DriverSQLite, DriverMemory, DriverNone}),
		valgo.Float64(c.Loss.LearningRate, "loss.learning_rate").GreaterOrEqualTo(0),
		valgo.Int(c.Readiness.MinSamples, "readiness.min_samples").GreaterOrEqualTo(0),
	)
	if c.Storage.Driver == DriverSQLite {
		v.Is(valgo.String(c.Storage.Path, "storage.path").Not().Blank())
	}
	if !v.Valid() {
		return fmt.Errorf("invalid config: %v", validate.Reasons(v))
	}
	return nil
}

// #endregion validate

// #region converters

// CustomAttractor builds the configured attractor, or nil when no facet is set.
func (c *Config) CustomAttractor() *attractor.Attractor {
	f := c.Attractor.Facets
	if f.Identity == "" && f.Role == "" && f.Continuity == "" {
		return nil
	}
	return attractor.New(f, c.Engine.Dimension, c.Attractor.ID)
}

// Orchestrator converts the config into orchestrator settings.
func (c *Config) Orchestrator() orchestrator.Config {
	return orchestrator.Config{
		Dimension:            c.Engine.Dimension,
		Params:               c.Engine.Params,
		Closure:              c.Closure,
		Attractor:            c.CustomAttractor(),
		CurvatureWindow:      c.Memory.CurvatureWindow,
		CurvatureDecay:       c.Memory.CurvatureDecay,
		LogAttractorDistance: c.Engine.LogAttractorDistance,
		LogEntropyActivation: c.Engine.LogEntropyActivation,
		LossWeights:          c.Loss.Weights,
		LossOptions:          loss.Options{RewardEntropy: c.Loss.RewardEntropy},
		Sensitivity:          c.Loss.Sensitivity,
		LearningRate:         c.Loss.LearningRate,
	}
}

// #endregion converters
