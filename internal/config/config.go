package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig возвращается при недопустимых значениях конфигурации
var ErrInvalidConfig = errors.New("недопустимая конфигурация")

// Config корневая структура конфигурации приложения.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
	Blocks    BlocksConfig    `yaml:"blocks"`
}

// WorldConfig параметры мира и политики подгрузки чанков
type WorldConfig struct {
	RenderDistance int   `yaml:"render_distance"` // Радиус в чанках
	ChunkBudget    int   `yaml:"chunk_budget"`    // Сколько чанков можно создать за тик
	AtlasSize      int   `yaml:"atlas_size"`      // Количество тайлов в атласе текстур
	Seed           int64 `yaml:"seed"`            // 0: сид от времени
	Workers        int   `yaml:"workers"`         // Воркеры очереди генерации
	Caves          bool  `yaml:"caves"`           // Включить слой пещер
}

type MetricsConfig struct {
	Port int `yaml:"port"` // 0: VOXEL_METRICS_PORT или DefaultMetricsPort
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
	Endpoint    string `yaml:"endpoint"` // host:port OTLP/HTTP, по умолчанию localhost:4318
}

type LoggingConfig struct {
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"`
}

type BlocksConfig struct {
	Definitions string `yaml:"definitions"` // Путь к YAML с тайлами блоков
}

// Значения по умолчанию
const (
	DefaultRenderDistance = 3
	DefaultChunkBudget    = 3
	DefaultAtlasSize      = 4
	DefaultWorkers        = 1
	DefaultMetricsPort    = 2112
)

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		World: DefaultWorld(),
		Telemetry: TelemetryConfig{
			ServiceName: "voxel-core",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultWorld возвращает параметры мира по умолчанию
func DefaultWorld() WorldConfig {
	return WorldConfig{
		RenderDistance: DefaultRenderDistance,
		ChunkBudget:    DefaultChunkBudget,
		AtlasSize:      DefaultAtlasSize,
		Workers:        DefaultWorkers,
	}
}

// GetMetricsPort возвращает порт метрик с поддержкой fallback значений
func (m *MetricsConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(m.Port, "VOXEL_METRICS_PORT", DefaultMetricsPort)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Validate проверяет параметры мира
func (w WorldConfig) Validate() error {
	switch {
	case w.RenderDistance < 1:
		return fmt.Errorf("%w: render_distance=%d", ErrInvalidConfig, w.RenderDistance)
	case w.ChunkBudget < 1:
		return fmt.Errorf("%w: chunk_budget=%d", ErrInvalidConfig, w.ChunkBudget)
	case w.AtlasSize < 1:
		return fmt.Errorf("%w: atlas_size=%d", ErrInvalidConfig, w.AtlasSize)
	case w.Workers < 1:
		return fmt.Errorf("%w: workers=%d", ErrInvalidConfig, w.Workers)
	}
	return nil
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать путь из ENV VOXEL_CONFIG,
// а при его отсутствии возвращает Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("VOXEL_CONFIG")
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения конфигурации %s: %w", path, err)
	}

	return Parse(data)
}

// Parse разбирает YAML поверх значений по умолчанию и валидирует результат
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}

	if err := cfg.World.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
