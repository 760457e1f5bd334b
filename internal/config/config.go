package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRankHorizon        = 5
	DefaultObligatoryCapacity = 100000
)

// CapacityOverride replaces the stored capacity of a course when seeding an allocation run
type CapacityOverride struct {
	CourseID string `yaml:"courseID" validate:"required"`
	Capacity *int   `yaml:"capacity" validate:"required,min=0"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL string `yaml:"databaseURL" validate:"required"`

	// RankHorizon is the number of itemized preference ranks in course statistics
	RankHorizon int `yaml:"rankHorizon" validate:"min=1,max=10"`

	// ObligatoryCapacity is the seat count used for obligatory courses
	ObligatoryCapacity int `yaml:"obligatoryCapacity" validate:"min=1"`

	// PreparationWorkers bounds concurrent candidate preparation (0 means GOMAXPROCS)
	PreparationWorkers int `yaml:"preparationWorkers,omitempty" validate:"min=0,max=64"`

	// AllocationSchedule is an RRULE describing when allocation windows open
	AllocationSchedule string `yaml:"allocationSchedule,omitempty"`

	ReportSheetID     string             `yaml:"reportSheetID,omitempty"`
	CapacityOverrides []CapacityOverride `yaml:"capacityOverrides,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates the configuration for an environment.
// For example, env="test" looks for "enrollment_config.test.yaml".
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Config{
		RankHorizon:        DefaultRankHorizon,
		ObligatoryCapacity: DefaultObligatoryCapacity,
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, the schedule syntax and override uniqueness
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.AllocationSchedule != "" {
		if _, err := rrule.StrToRRule(cfg.AllocationSchedule); err != nil {
			return fmt.Errorf("invalid rrule in allocationSchedule: %w", err)
		}
	}

	seen := make(map[string]bool, len(cfg.CapacityOverrides))
	for i, override := range cfg.CapacityOverrides {
		if seen[override.CourseID] {
			return fmt.Errorf("duplicate course %q in capacityOverrides[%d]", override.CourseID, i)
		}
		seen[override.CourseID] = true
	}

	return nil
}

// CapacityOverrideFor returns the configured capacity for a course, if any
func (c *Config) CapacityOverrideFor(courseID string) (int, bool) {
	for _, override := range c.CapacityOverrides {
		if override.CourseID == courseID && override.Capacity != nil {
			return *override.Capacity, true
		}
	}
	return 0, false
}

// findConfigFile searches for the config file in the current directory and home directory
func findConfigFile(env string) (string, error) {
	return findFile(configFileName(env))
}

func configFileName(env string) string {
	if env == "" {
		return "enrollment_config.yaml"
	}
	return "enrollment_config." + env + ".yaml"
}

// findFile looks for name in the current directory, then in the user's home directory
func findFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
