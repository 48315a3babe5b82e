package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// envPrefix prefixes every environment override, e.g. LISTINGJANITOR_OUTPUT_FORMAT.
const envPrefix = "LISTINGJANITOR"

type Config struct {
	Input    InputConfig    `json:"input" yaml:"input" toml:"input" envconfig:"INPUT"`
	Output   OutputConfig   `json:"output" yaml:"output" toml:"output" envconfig:"OUTPUT"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging" toml:"logging" envconfig:"LOGGING"`
	Pipeline PipelineConfig `json:"pipeline" yaml:"pipeline" toml:"pipeline" envconfig:"PIPELINE"`
	// Steps replaces the listing pipeline with a custom one when non-empty.
	Steps []StepConfig `json:"steps" yaml:"steps" toml:"steps" ignored:"true" validate:"dive"`
}

type InputConfig struct {
	// Path is a CSV file or a folder searched recursively.
	Path        string `json:"path" yaml:"path" toml:"path"`
	Delimiter   string `json:"delimiter" yaml:"delimiter" toml:"delimiter" validate:"omitempty,len=1"`
	StrictTypes bool   `json:"strict_types" yaml:"strict_types" toml:"strict_types" split_words:"true"`
}

type OutputConfig struct {
	Path      string `json:"path" yaml:"path" toml:"path"`
	Format    string `json:"format" yaml:"format" toml:"format" validate:"oneof=csv parquet xlsx"`
	Delimiter string `json:"delimiter" yaml:"delimiter" toml:"delimiter" validate:"omitempty,len=1"`
}

type LoggingConfig struct {
	Level    string `json:"level" yaml:"level" toml:"level" validate:"oneof=debug info warn warning error"`
	Format   string `json:"format" yaml:"format" toml:"format" validate:"oneof=json text"`
	Output   string `json:"output" yaml:"output" toml:"output" validate:"oneof=stdout stderr file both"`
	FilePath string `json:"file_path" yaml:"file_path" toml:"file_path" split_words:"true" validate:"required_if=Output file,required_if=Output both"`
}

type PipelineConfig struct {
	BooleanColumns []string `json:"boolean_columns" yaml:"boolean_columns" toml:"boolean_columns" split_words:"true"`
	ElevatorFloors int      `json:"elevator_floors" yaml:"elevator_floors" toml:"elevator_floors" split_words:"true" validate:"gte=0"`
	Verify         bool     `json:"verify" yaml:"verify" toml:"verify"`
	Strict         bool     `json:"strict" yaml:"strict" toml:"strict"`
}

// Default returns the settings used when neither a file nor the environment
// says otherwise.
func Default() *Config {
	return &Config{
		Input:  InputConfig{Path: "data/raw"},
		Output: OutputConfig{Path: "data/cleaned", Format: "csv"},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "text",
			Output:   "stderr",
			FilePath: "logs/listingjanitor.log",
		},
		Pipeline: PipelineConfig{ElevatorFloors: 5},
	}
}

// Load starts from Default, applies the file at path (if any) and then the
// environment. The file format follows its extension.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	return cfg, nil
}

// loadEnvFile exports the variables of a dotenv file that are not already
// set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Unmarshal(b, cfg)
	case ".toml":
		return toml.Unmarshal(b, cfg)
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

// Validate checks field values and every custom step.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if _, err := buildSteps(c.Steps); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func delimiter(s string) rune {
	if s == "" {
		return 0
	}
	return []rune(s)[0]
}
