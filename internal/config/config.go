// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

// Package config provides configuration loading and validation for apisynth.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/apisynth/apisynth/pkg/types"
)

// Config represents the apisynth configuration.
type Config struct {
	// Path is the project root holding package.json and the generated files
	Path string `mapstructure:"path" yaml:"path" json:"path"`

	// AppPath is the application directory; derived from Path when empty
	AppPath string `mapstructure:"appPath" yaml:"appPath,omitempty" json:"appPath,omitempty"`

	// Routes is the route table export read by generate
	Routes string `mapstructure:"routes" yaml:"routes" json:"routes"`

	// Output is the directory generated files are written to (defaults to Path)
	Output string `mapstructure:"output" yaml:"output,omitempty" json:"output,omitempty"`

	// Info contains API metadata
	Info InfoConfig `mapstructure:"info" yaml:"info" json:"info"`

	// Title, Version and Description are fallbacks for Info
	Title       string `mapstructure:"title" yaml:"title,omitempty" json:"title,omitempty"`
	Version     string `mapstructure:"version" yaml:"version,omitempty" json:"version,omitempty"`
	Description string `mapstructure:"description" yaml:"description,omitempty" json:"description,omitempty"`

	// TagIndex is the path segment seeding an operation's default tag
	TagIndex int `mapstructure:"tagIndex" yaml:"tagIndex" json:"tagIndex"`

	// SnakeCase snake-cases model field names
	SnakeCase bool `mapstructure:"snakeCase" yaml:"snakeCase" json:"snakeCase"`

	// PreferredPutPatch is the verb kept when a route answers both PUT and PATCH
	PreferredPutPatch string `mapstructure:"preferredPutPatch" yaml:"preferredPutPatch" json:"preferredPutPatch"`

	// Ignore lists route patterns to skip ("/health", "/admin/*", "*/internal")
	Ignore []string `mapstructure:"ignore" yaml:"ignore" json:"ignore"`

	// AuthMiddlewares are middleware names requiring authentication, in
	// addition to "auth" and "auth:api"
	AuthMiddlewares []string `mapstructure:"authMiddlewares" yaml:"authMiddlewares" json:"authMiddlewares"`

	// DefaultSecurityScheme names the scheme auth middlewares require
	DefaultSecurityScheme string `mapstructure:"defaultSecurityScheme" yaml:"defaultSecurityScheme" json:"defaultSecurityScheme"`

	// SecuritySchemes override or extend the built-in security schemes
	SecuritySchemes map[string]types.SecurityScheme `mapstructure:"-" yaml:"securitySchemes,omitempty" json:"securitySchemes,omitempty"`

	// Common holds reusable header and parameter groups
	Common CommonConfig `mapstructure:"-" yaml:"common,omitempty" json:"common,omitempty"`

	// ProductionEnv is the APP_ENV/NODE_ENV value serving precomputed files
	ProductionEnv string `mapstructure:"productionEnv" yaml:"productionEnv" json:"productionEnv"`

	// OutputFileExtensions selects the written files (both, json, yaml)
	OutputFileExtensions string `mapstructure:"outputFileExtensions" yaml:"outputFileExtensions" json:"outputFileExtensions"`

	// Debug enables resolution tracing
	Debug bool `mapstructure:"debug" yaml:"debug" json:"debug"`

	// FileNameInSummary decorates summaries with the action and
	// descriptions with the source file
	FileNameInSummary bool `mapstructure:"fileNameInSummary" yaml:"fileNameInSummary" json:"fileNameInSummary"`

	// PersistAuthorization keeps Swagger UI credentials across reloads
	PersistAuthorization bool `mapstructure:"persistAuthorization" yaml:"persistAuthorization" json:"persistAuthorization"`

	// Watch contains file watching configuration
	Watch WatchConfig `mapstructure:"watch" yaml:"watch" json:"watch"`
}

// InfoConfig contains API metadata.
type InfoConfig struct {
	// Title is the API title
	Title string `mapstructure:"title" yaml:"title" json:"title"`

	// Description is the API description
	Description string `mapstructure:"description" yaml:"description,omitempty" json:"description,omitempty"`

	// Version is the API version
	Version string `mapstructure:"version" yaml:"version" json:"version"`
}

// CommonConfig holds header and parameter groups referenced by
// @responseHeader ... @use(group) and @paramUse(group).
type CommonConfig struct {
	Headers    map[string]map[string]types.Header `yaml:"headers,omitempty" json:"headers,omitempty"`
	Parameters map[string][]types.Parameter       `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// WatchConfig contains file watching configuration.
type WatchConfig struct {
	// Debounce is the debounce duration in milliseconds
	Debounce int `mapstructure:"debounce" yaml:"debounce" json:"debounce"`
}

// caseSensitive holds the sections whose map keys are names: viper
// lower-cases keys, so these are decoded from the raw file.
type caseSensitive struct {
	SecuritySchemes map[string]types.SecurityScheme `yaml:"securitySchemes"`
	Common          CommonConfig                    `yaml:"common"`
}

// configFileNames is the list of config file names to search for (in order).
var configFileNames = []string{
	"apisynth.yaml",
	"apisynth.json",
	".apisynth.yaml",
	".apisynth.json",
}

var supportedPutPatch = []string{"PUT", "PATCH"}

var supportedFileExtensions = []string{"both", "json", "yaml", "yml"}

// DefaultDescription is the API description used when none is configured.
const DefaultDescription = "Generated by apisynth"

// ErrConfigNotFound is returned when no config file is found.
var ErrConfigNotFound = errors.New("config file not found")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("config validation errors:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Field)
		sb.WriteString(": ")
		sb.WriteString(err.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Default returns a Config with default values.
func Default() *Config {
	cfg := &Config{
		Path:   "./",
		Routes: "routes.json",
		Info: InfoConfig{
			Title:   "API",
			Version: "1.0.0",
		},
		TagIndex:              1,
		SnakeCase:             true,
		PreferredPutPatch:     "PUT",
		DefaultSecurityScheme: "BearerAuth",
		ProductionEnv:         "production",
		OutputFileExtensions:  "both",
		Watch: WatchConfig{
			Debounce: 500,
		},
	}
	cfg.Normalize()
	return cfg
}

// Load loads the configuration from a file.
// It searches for config files in the following order:
// 1. apisynth.yaml
// 2. apisynth.json
// 3. .apisynth.yaml
// 4. .apisynth.json
//
// If configPath is provided, it will use that path instead.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	if configPath != "" {
		// Use the provided config path
		v.SetConfigFile(configPath)
	} else {
		configPath = ConfigFilePath()
		if configPath == "" {
			// Return default config if no file found
			return Default(), nil
		}
		v.SetConfigFile(configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var raw caseSensitive
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.SecuritySchemes = raw.SecuritySchemes
	cfg.Common = raw.Common

	cfg.Normalize()
	return &cfg, nil
}

// LoadFromPath loads the configuration from a specific directory.
func LoadFromPath(dir string) (*Config, error) {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

// setDefaults sets the default values for viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("path", "./")
	v.SetDefault("routes", "routes.json")
	v.SetDefault("title", "API")
	v.SetDefault("version", "1.0.0")
	v.SetDefault("tagIndex", 1)
	v.SetDefault("snakeCase", true)
	v.SetDefault("preferredPutPatch", "PUT")
	v.SetDefault("defaultSecurityScheme", "BearerAuth")
	v.SetDefault("productionEnv", "production")
	v.SetDefault("outputFileExtensions", "both")
	v.SetDefault("watch.debounce", 500)
}

// Normalize derives AppPath and fills Info from the top-level fallbacks.
func (c *Config) Normalize() {
	if c.AppPath == "" {
		c.AppPath = filepath.Join(c.Path, "app")
	}
	if c.Info.Title == "" {
		c.Info.Title = c.Title
	}
	if c.Info.Version == "" {
		c.Info.Version = c.Version
	}
	if c.Info.Description == "" {
		c.Info.Description = c.Description
	}
	if c.Info.Description == "" {
		c.Info.Description = DefaultDescription
	}
	c.PreferredPutPatch = strings.ToUpper(c.PreferredPutPatch)
}

// OutputDir returns the directory generated files are written to.
func (c *Config) OutputDir() string {
	if c.Output != "" {
		return c.Output
	}
	return c.Path
}

// RoutesPath returns the route table path, relative to Path unless absolute.
func (c *Config) RoutesPath() string {
	if filepath.IsAbs(c.Routes) {
		return c.Routes
	}
	return filepath.Join(c.Path, c.Routes)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if !contains(supportedPutPatch, strings.ToUpper(c.PreferredPutPatch)) {
		errs = append(errs, ValidationError{
			Field:   "preferredPutPatch",
			Message: fmt.Sprintf("unsupported verb %q, must be one of: %s", c.PreferredPutPatch, strings.Join(supportedPutPatch, ", ")),
		})
	}

	if !contains(supportedFileExtensions, c.OutputFileExtensions) {
		errs = append(errs, ValidationError{
			Field:   "outputFileExtensions",
			Message: fmt.Sprintf("unsupported value %q, must be one of: %s", c.OutputFileExtensions, strings.Join(supportedFileExtensions, ", ")),
		})
	}

	if c.TagIndex < 0 {
		errs = append(errs, ValidationError{
			Field:   "tagIndex",
			Message: "tagIndex must be non-negative",
		})
	}

	if c.Watch.Debounce < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce",
			Message: "debounce must be non-negative",
		})
	}

	if c.Info.Title == "" && c.Title == "" {
		errs = append(errs, ValidationError{
			Field:   "info.title",
			Message: "title is required",
		})
	}

	if c.Info.Version == "" && c.Version == "" {
		errs = append(errs, ValidationError{
			Field:   "info.version",
			Message: "version is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ConfigFilePath returns the path of the config file in the working
// directory, if any.
func ConfigFilePath() string {
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
