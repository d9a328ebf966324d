package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/midsquest/midsquest/internal/common/httpclient"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.yaml"

// DefaultServerURL is the game server used when nothing else is configured.
const DefaultServerURL = "http://lnx1073302govt:8000"

// Environment variables that override the config file.
const (
	EnvServerURL      = "MIDSQUEST_SERVER_URL"
	EnvConnectTimeout = "MIDSQUEST_CONNECT_TIMEOUT"
	EnvLogLevel       = "MIDSQUEST_LOG_LEVEL"
	EnvLenientSession = "MIDSQUEST_LENIENT_SESSION"
)

// Config represents the configuration for the MidsQuest CLI
type Config struct {
	// Version of the configuration file format
	Version string `json:"version" yaml:"version" toml:"version"`
	// ServerURL is the base URL of the game server
	ServerURL string `json:"server_url" yaml:"server_url" toml:"server_url" validate:"required,url"`
	// ConnectTimeout bounds connection setup, as a Go duration ("10s")
	ConnectTimeout string `json:"connect_timeout,omitempty" yaml:"connect_timeout,omitempty" toml:"connect_timeout" validate:"omitempty,duration"`
	// LogLevel is one of trace, debug, info, warn, error
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty" toml:"log_level" validate:"omitempty,oneof=trace debug info warn warning error disabled"`
	// LenientSession sends the token placeholder stored after a login whose
	// response had no session_token, instead of refusing authenticated calls.
	LenientSession bool `json:"lenient_session,omitempty" yaml:"lenient_session,omitempty" toml:"lenient_session"`
}

var config *Config

var configValidator = newConfigValidator()

func newConfigValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("duration", durationValidator); err != nil {
		panic(err)
	}
	return v
}

func durationValidator(fl validator.FieldLevel) bool {
	d, err := time.ParseDuration(fl.Field().String())
	return err == nil && d > 0
}

// NewDefaultConfig returns the configuration used when no file exists.
func NewDefaultConfig() *Config {
	return &Config{
		Version:        "0.1.0",
		ServerURL:      DefaultServerURL,
		ConnectTimeout: httpclient.DefaultConnectTimeout.String(),
		LogLevel:       "info",
	}
}

// GetDefaultConfigPath returns the default path for the config file
// It uses the OS-specific config directory (e.g., ~/.config/midsquest on Linux)
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "midsquest", DefaultConfigFile), nil
}

// LoadConfig reads file on top of the defaults and then applies environment
// overrides. A missing file is not an error. Files ending in .toml are read as
// TOML, anything else as YAML; both may reference {{ .ENV.NAME }}.
func LoadConfig(file string) (*Config, error) {
	cfg := NewDefaultConfig()

	raw, err := os.ReadFile(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		loadDotEnv(filepath.Dir(file))
	case err != nil:
		return nil, fmt.Errorf("unable to read config file: %w", err)
	default:
		expanded, err := PreprocessConfig(raw, filepath.Dir(file))
		if err != nil {
			return nil, fmt.Errorf("unable to expand config file: %w", err)
		}
		if err := decodeConfig(file, expanded, cfg); err != nil {
			return nil, fmt.Errorf("unable to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.ServerURL = MorphServer(cfg.ServerURL)
	return cfg, nil
}

func decodeConfig(file string, content []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(file), ".toml") {
		_, err := toml.Decode(string(content), cfg)
		return err
	}
	return yaml.Unmarshal(content, cfg)
}

func (cfg *Config) applyEnv() error {
	if v := os.Getenv(EnvServerURL); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv(EnvConnectTimeout); v != "" {
		cfg.ConnectTimeout = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvLenientSession); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLenientSession, err)
		}
		cfg.LenientSession = b
	}
	return nil
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	return config
}

// WriteConfig writes the configuration to file, as TOML when the name ends in
// .toml and YAML otherwise.
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		return errors.New("file path cannot be empty")
	}

	err := os.MkdirAll(filepath.Dir(file), os.ModePerm)
	if err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	var out []byte
	if strings.EqualFold(filepath.Ext(file), ".toml") {
		var b strings.Builder
		if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
			return fmt.Errorf("unable to generate configuration: %w", err)
		}
		out = []byte(b.String())
	} else {
		out, err = yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("unable to generate configuration: %w", err)
		}
	}

	if err := os.WriteFile(file, out, os.FileMode(0600)); err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}
	return nil
}

// Validate checks required fields and formats.
func (cfg *Config) Validate() error {
	err := configValidator.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: invalid value %q (%s)", configKey(e.StructField()), e.Value(), e.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func configKey(field string) string {
	switch field {
	case "ServerURL":
		return "server_url"
	case "ConnectTimeout":
		return "connect_timeout"
	case "LogLevel":
		return "log_level"
	}
	return field
}

// GetConnectTimeout returns the configured connect timeout, or the transport
// default when unset or invalid.
func (cfg *Config) GetConnectTimeout() time.Duration {
	d, err := time.ParseDuration(cfg.ConnectTimeout)
	if err != nil || d <= 0 {
		return httpclient.DefaultConnectTimeout
	}
	return d
}

// MorphServer ensures the server URL is properly formatted
// Adds http:// prefix if missing and removes trailing slashes
func MorphServer(server string) string {
	if server == "" {
		return server
	}

	server = strings.TrimRight(strings.TrimSpace(server), "/")

	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		server = "http://" + server
	}

	return server
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration. With --server, writes the server URL to the config
file. Without flags, prints the effective configuration (file, environment and
flags combined).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serverURL != "" {
			return setServerConfig(cmd, configFile, serverURL)
		}
		printConfig(cmd, GetConfig())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// setServerConfig writes server to the config file, keeping its other settings.
func setServerConfig(cmd *cobra.Command, path, server string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	cfg.ServerURL = MorphServer(server)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.WriteConfig(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if jsonOutput {
		printJSON(cmd.OutOrStdout(), map[string]string{
			"server":      cfg.ServerURL,
			"config_file": path,
		})
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Server configured: %s\n", cfg.ServerURL)
		fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", path)
	}
	return nil
}

func printConfig(cmd *cobra.Command, cfg *Config) {
	if jsonOutput {
		printJSON(cmd.OutOrStdout(), cfg)
		return
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Server: %s\n", cfg.ServerURL)
	fmt.Fprintf(w, "Connect timeout: %s\n", cfg.GetConnectTimeout())
	fmt.Fprintf(w, "Log level: %s\n", cfg.LogLevel)
	fmt.Fprintf(w, "Lenient session: %t\n", cfg.LenientSession)
	fmt.Fprintf(w, "Config file: %s\n", configFile)
}
