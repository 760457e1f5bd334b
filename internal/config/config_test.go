package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func validConfig() *Config {
	return &Config{
		DatabaseURL:        "postgres://localhost:5432/enrollment",
		RankHorizon:        5,
		ObligatoryCapacity: DefaultObligatoryCapacity,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.AllocationSchedule = "FREQ=YEARLY;BYMONTH=2,9;BYMONTHDAY=15"
	cfg.ReportSheetID = "sheet123"
	cfg.CapacityOverrides = []CapacityOverride{
		{CourseID: "c-ai", Capacity: intPtr(30)},
		{CourseID: "c-db", Capacity: intPtr(0)},
	}

	assert.NoError(t, Validate(cfg))
}

func TestValidate_MinimalConfig(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidate_MissingDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = ""

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_RankHorizonBounds(t *testing.T) {
	tests := []struct {
		name    string
		horizon int
		wantErr bool
	}{
		{"zero", 0, true},
		{"one", 1, false},
		{"default", DefaultRankHorizon, false},
		{"ten", 10, false},
		{"eleven", 11, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.RankHorizon = tt.horizon

			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_InvalidSchedule(t *testing.T) {
	cfg := validConfig()
	cfg.AllocationSchedule = "INVALID_RRULE_SYNTAX"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule")
}

func TestValidate_NegativeCapacityOverride(t *testing.T) {
	cfg := validConfig()
	cfg.CapacityOverrides = []CapacityOverride{{CourseID: "c-ai", Capacity: intPtr(-1)}}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_MissingOverrideCapacity(t *testing.T) {
	cfg := validConfig()
	cfg.CapacityOverrides = []CapacityOverride{{CourseID: "c-ai"}}

	assert.Error(t, Validate(cfg))
}

func TestValidate_DuplicateOverride(t *testing.T) {
	cfg := validConfig()
	cfg.CapacityOverrides = []CapacityOverride{
		{CourseID: "c-ai", Capacity: intPtr(1)},
		{CourseID: "c-ai", Capacity: intPtr(2)},
	}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate course")
}

func TestCapacityOverrideFor(t *testing.T) {
	cfg := validConfig()
	cfg.CapacityOverrides = []CapacityOverride{{CourseID: "c-ai", Capacity: intPtr(12)}}

	capacity, ok := cfg.CapacityOverrideFor("c-ai")
	assert.True(t, ok)
	assert.Equal(t, 12, capacity)

	_, ok = cfg.CapacityOverrideFor("c-db")
	assert.False(t, ok)
}

func TestLoadFromPath_ValidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "enrollment_config.test.yaml")

	content := `
databaseURL: "postgres://localhost:5432/enrollment"
rankHorizon: 3
preparationWorkers: 4
allocationSchedule: "FREQ=YEARLY;BYMONTH=9;BYMONTHDAY=20"
reportSheetID: "sheet123"
capacityOverrides:
  - courseID: "c-ai"
    capacity: 25
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadFromPath(configPath)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost:5432/enrollment", cfg.DatabaseURL)
	assert.Equal(t, 3, cfg.RankHorizon)
	assert.Equal(t, 4, cfg.PreparationWorkers)
	assert.Equal(t, DefaultObligatoryCapacity, cfg.ObligatoryCapacity, "default applies when omitted")
	assert.Equal(t, "sheet123", cfg.ReportSheetID)
	require.Len(t, cfg.CapacityOverrides, 1)
	require.NotNil(t, cfg.CapacityOverrides[0].Capacity)
	assert.Equal(t, 25, *cfg.CapacityOverrides[0].Capacity)
}

func TestLoadFromPath_DefaultsApply(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`databaseURL: "postgres://db"`), 0644))

	cfg, err := LoadFromPath(configPath)
	require.NoError(t, err)

	assert.Equal(t, DefaultRankHorizon, cfg.RankHorizon)
	assert.Equal(t, DefaultObligatoryCapacity, cfg.ObligatoryCapacity)
	assert.Empty(t, cfg.AllocationSchedule)
}

func TestLoadFromPath_InvalidSchedule(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
databaseURL: "postgres://db"
allocationSchedule: "NOT_AN_RRULE"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	_, err := LoadFromPath(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule")
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("databaseURL: [unterminated"), 0644))

	_, err := LoadFromPath(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadWithEnv_FindsFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(configFileName("staging"), []byte(`databaseURL: "postgres://staging"`), 0644))

	cfg, err := LoadWithEnv("staging")
	require.NoError(t, err)
	assert.Equal(t, "postgres://staging", cfg.DatabaseURL)
}

func TestConfigFileName(t *testing.T) {
	assert.Equal(t, "enrollment_config.yaml", configFileName(""))
	assert.Equal(t, "enrollment_config.prod.yaml", configFileName("prod"))
}
