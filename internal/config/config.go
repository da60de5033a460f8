package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/faisalirshadkhan8/File-Organizer-Pro/pkg/types"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Source            string                 `yaml:"source" json:"source"`
	Destination       string                 `yaml:"destination" json:"destination"`
	Mode              types.OrganizeMode     `yaml:"mode" json:"mode"`
	ConflictStrategy  types.ConflictStrategy `yaml:"conflict_strategy" json:"conflict_strategy"`
	DateSource        types.DateSource       `yaml:"date_source" json:"date_source"`
	DateFormat        types.DateFormat       `yaml:"date_format" json:"date_format"`
	CustomDateFormat  string                 `yaml:"custom_date_format" json:"custom_date_format"`
	CreateSubdirs     bool                   `yaml:"create_subdirs" json:"create_subdirs"`
	DryRun            bool                   `yaml:"dry_run" json:"dry_run"`
	VerifyCopies      bool                   `yaml:"verify_copies" json:"verify_copies"`
	Force             bool                   `yaml:"force" json:"force"`
	BackupDir         string                 `yaml:"backup_dir" json:"backup_dir"`
	UnknownDateFolder string                 `yaml:"unknown_date_folder" json:"unknown_date_folder"`
	HashWorkers       int                    `yaml:"hash_workers" json:"hash_workers"`
	LogLevel          string                 `yaml:"log_level" json:"log_level"`
	LogFile           string                 `yaml:"log_file" json:"log_file"`
	LogJSON           bool                   `yaml:"log_json" json:"log_json"`
	// Categories merges custom category names and extension lists over the
	// built-in table.
	Categories map[string][]string `yaml:"categories" json:"categories"`
}

func DefaultConfig() *Config {
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 4
	}

	return &Config{
		Mode:              types.OrganizeByType,
		ConflictStrategy:  types.ConflictRename,
		DateSource:        types.DateSourceAuto,
		DateFormat:        types.FormatYearMonthDay,
		CreateSubdirs:     true,
		BackupDir:         "backup",
		UnknownDateFolder: "Unknown-Date",
		HashWorkers:       workers,
		LogLevel:          "info",
	}
}

func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveToFile writes the config as YAML, creating parent directories as needed.
func (c *Config) SaveToFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Source == "" {
		return &ValidationError{Field: "source", Message: "source path is required"}
	}
	if _, err := types.ParseOrganizeMode(string(c.Mode)); err != nil {
		return &ValidationError{Field: "mode", Message: err.Error()}
	}
	if _, err := types.ParseConflictStrategy(string(c.ConflictStrategy)); err != nil {
		return &ValidationError{Field: "conflict_strategy", Message: err.Error()}
	}
	if _, err := types.ParseDateSource(string(c.DateSource)); err != nil {
		return &ValidationError{Field: "date_source", Message: err.Error()}
	}
	if _, err := types.ParseDateFormat(string(c.DateFormat)); err != nil {
		return &ValidationError{Field: "date_format", Message: err.Error()}
	}
	if c.DateFormat == types.FormatCustom && c.CustomDateFormat == "" {
		return &ValidationError{Field: "custom_date_format", Message: "custom date format requires a layout string"}
	}
	if c.HashWorkers < 1 {
		c.HashWorkers = 1
	}

	if c.BackupDir == "" {
		c.BackupDir = "backup"
	}
	if c.UnknownDateFolder == "" {
		c.UnknownDateFolder = "Unknown-Date"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	return nil
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
