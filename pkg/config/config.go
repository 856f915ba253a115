package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"labelsync/pkg/github"
)

const (
	// EnvToken holds the GitHub personal access token
	EnvToken = "GITHUB_AUTH_TOKEN"
	// EnvOrganization holds the login of the organization to synchronize
	EnvOrganization = "GITHUB_ORG_NAME"
	// EnvAPIURL overrides the GitHub REST API base URL
	EnvAPIURL = "GITHUB_API_URL"
	// EnvListenAddr sets the interactive runner's listen address
	EnvListenAddr = "LABELSYNC_LISTEN_ADDR"

	// DefaultEnvFile is read from the working directory when present
	DefaultEnvFile = ".env"
	// DefaultListenAddr is where the interactive runner listens
	DefaultListenAddr = ":8080"
)

// Config represents the labelsync configuration
type Config struct {
	GitHub GitHubConfig   `mapstructure:"github" yaml:"github"`
	Labels []github.Label `mapstructure:"labels" yaml:"labels,omitempty"`
	Server ServerConfig   `mapstructure:"server" yaml:"server"`
}

// GitHubConfig represents GitHub-specific configuration
type GitHubConfig struct {
	Token        string `mapstructure:"token" yaml:"token,omitempty"`
	Organization string `mapstructure:"organization" yaml:"organization,omitempty"`
	APIURL       string `mapstructure:"api_url" yaml:"api_url,omitempty"`
}

// ServerConfig represents the interactive runner configuration
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// LoadOptions selects the files Load reads. Empty paths fall back to
// GetConfigPath and DefaultEnvFile.
type LoadOptions struct {
	ConfigPath string
	EnvFile    string
}

// DefaultConfig returns the configuration written by `labelsync init`
func DefaultConfig() *Config {
	return &Config{
		Labels: github.DefaultLabels(),
		Server: ServerConfig{Addr: DefaultListenAddr},
	}
}

// Load merges defaults, the YAML config file, the .env file and the process
// environment, in increasing order of precedence. Missing files are skipped.
func Load(opts LoadOptions) (*Config, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		defaultPath, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		configPath = defaultPath
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}

	v := viper.New()
	// A variable set to "" in the environment still shadows the files.
	v.AllowEmptyEnv(true)
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetDefault("server.addr", DefaultListenAddr)
	v.SetDefault("github.api_url", "")

	if fileExists(configPath) {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	dotenv, err := readEnvFile(envFile)
	if err != nil {
		return nil, err
	}
	if len(dotenv) > 0 {
		if err := v.MergeConfigMap(dotenv); err != nil {
			return nil, fmt.Errorf("failed to merge %s: %w", envFile, err)
		}
	}

	bindings := map[string]string{
		"github.token":        EnvToken,
		"github.organization": EnvOrganization,
		"github.api_url":      EnvAPIURL,
		"server.addr":         EnvListenAddr,
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Labels = github.NormalizeLabels(cfg.Labels)
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultListenAddr
	}

	return &cfg, nil
}

// readEnvFile reads KEY=value pairs and nests the known variables the way
// the YAML file does, so they can be merged below the real environment.
func readEnvFile(path string) (map[string]any, error) {
	if !fileExists(path) {
		return nil, nil
	}

	ev := viper.New()
	ev.SetConfigFile(path)
	ev.SetConfigType("env")
	if err := ev.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}

	gh := map[string]any{}
	server := map[string]any{}
	if ev.IsSet(strings.ToLower(EnvToken)) {
		gh["token"] = ev.GetString(strings.ToLower(EnvToken))
	}
	if ev.IsSet(strings.ToLower(EnvOrganization)) {
		gh["organization"] = ev.GetString(strings.ToLower(EnvOrganization))
	}
	if ev.IsSet(strings.ToLower(EnvAPIURL)) {
		gh["api_url"] = ev.GetString(strings.ToLower(EnvAPIURL))
	}
	if ev.IsSet(strings.ToLower(EnvListenAddr)) {
		server["addr"] = ev.GetString(strings.ToLower(EnvListenAddr))
	}

	out := map[string]any{}
	if len(gh) > 0 {
		out["github"] = gh
	}
	if len(server) > 0 {
		out["server"] = server
	}
	return out, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// SaveConfig saves configuration to the default location
func (c *Config) SaveConfig() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return c.SaveConfigToPath(configPath)
}

// SaveConfigToPath saves configuration to a specific path
func (c *Config) SaveConfigToPath(path string) error {
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file may carry a token.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".labelsync", "config.yaml"), nil
}

// RunConfig builds the validated settings for a single run
func (c *Config) RunConfig() (*RunConfig, error) {
	return NewRunConfig(c.GitHub.Token, c.GitHub.Organization, c.Labels)
}

// Validate reports whether the configuration is complete enough to run
func (c *Config) Validate() error {
	_, err := c.RunConfig()
	return err
}

// RunConfig is the explicit input of one reconciliation run. It is immutable
// once constructed and can only be built through NewRunConfig.
type RunConfig struct {
	token        string
	organization string
	labels       []github.Label
}

// NewRunConfig validates token, organization and labels. Empty labels select
// github.DefaultLabels.
func NewRunConfig(token, organization string, labels []github.Label) (*RunConfig, error) {
	var missing []string
	if strings.TrimSpace(token) == "" {
		missing = append(missing, EnvToken)
	}
	if strings.TrimSpace(organization) == "" {
		missing = append(missing, EnvOrganization)
	}

	if len(labels) == 0 {
		labels = github.DefaultLabels()
	}
	labels = github.NormalizeLabels(labels)
	labelErr := github.ValidateLabels(labels)

	if len(missing) > 0 || labelErr != nil {
		return nil, &ConfigError{Missing: missing, Err: labelErr}
	}

	return &RunConfig{
		token:        strings.TrimSpace(token),
		organization: strings.TrimSpace(organization),
		labels:       labels,
	}, nil
}

// Token returns the GitHub token
func (r *RunConfig) Token() string { return r.token }

// Organization returns the organization login
func (r *RunConfig) Organization() string { return r.organization }

// Labels returns a copy of the desired labels
func (r *RunConfig) Labels() []github.Label {
	out := make([]github.Label, len(r.labels))
	copy(out, r.labels)
	return out
}

// ConfigError reports missing variables or an invalid label set
type ConfigError struct {
	Missing []string
	Err     error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required configuration: "+strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if len(parts) == 0 {
		return "invalid configuration"
	}
	return strings.Join(parts, "; ")
}

// Unwrap returns the label validation error, if any
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is or wraps a *ConfigError
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
