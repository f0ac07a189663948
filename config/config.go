package config

import (
	"fmt"
	"os"
	"path/filepath"

	_ "embed"
)

const (
	// Allow overriding the config path from the environment
	CONFIG_DIR_ENV_KEY = "APT_PAC_CONFIG_DIR"

	// Allow overriding the cache path from the environment
	CACHE_DIR_ENV_KEY = "APT_PAC_CACHE_DIR"

	// Config path is computed as the user config directory + the default relative path
	// when not overridden by the environment variable
	CONFIG_DEFAULT_HOME_RELATIVE_PATH = "apt-pac"

	// Default log directory is relative to the config directory.
	CONFIG_DEFAULT_LOG_DIR = "logs"

	// Config file name.
	// Important: The config file path and the schema should be backward compatible. In case of breaking config
	// changes, we must introduce a new file name and a migration path.
	CONFIG_FILE_NAME = "config.yml"

	// File name of the AUR RPC response cache, relative to the cache directory.
	rpcCacheFileName = "rpc_cache.json"

	// Directory for cloned package sources, relative to the cache directory.
	buildDirName = "build"
)

//go:embed config.template.yml
var templateConfig string

// Config is the persistent configuration for apt-pac, loaded from the config
// file. Flags and environment variables layer on top of it at runtime.
type Config struct {
	// AurRpcBaseUrl is the base URL of the AUR RPC endpoint.
	AurRpcBaseUrl string `mapstructure:"aur_rpc_base_url"`

	// AurCacheTtlHours is how long cached AUR RPC responses stay fresh.
	AurCacheTtlHours int `mapstructure:"aur_cache_ttl_hours"`

	// AurInfoChunkSize caps the number of names per RPC info request.
	AurInfoChunkSize int `mapstructure:"aur_info_chunk_size"`

	// BuildUser is the unprivileged user makepkg runs as when apt-pac is
	// invoked as root. makepkg refuses to run as root.
	BuildUser string `mapstructure:"build_user"`

	// PrivilegeTool selects the tool used to drop privileges for builds:
	// auto, run0, doas or sudo.
	PrivilegeTool string `mapstructure:"privilege_tool"`

	// SkipEventLogging allows for skipping event logging.
	SkipEventLogging bool `mapstructure:"skip_event_logging"`

	// EventLogRetentionDays is the number of days to retain event logs.
	EventLogRetentionDays int `mapstructure:"event_log_retention_days"`
}

// RuntimeConfig is the configuration that is used at runtime. It contains static configuration
// that can be loaded from a source and, if allowed, overridden by the user at runtime.
type RuntimeConfig struct {
	Config Config

	// DryRun resolves and prints the transaction without building or installing.
	DryRun bool

	// AutoConfirm skips the interactive confirmation prompt.
	AutoConfirm bool

	// Internal config values computed at runtime and must be accessed via. API
	configDir      string
	configFilePath string
	cacheDir       string
	eventLogDir    string
}

// ConfigFilePath returns the path to the config file.
func (r *RuntimeConfig) ConfigFilePath() string {
	return r.configFilePath
}

// EventLogDir returns the path to the event log directory.
func (r *RuntimeConfig) EventLogDir() string {
	return r.eventLogDir
}

// RpcCachePath returns the path to the AUR RPC response cache file.
func (r *RuntimeConfig) RpcCachePath() string {
	return filepath.Join(r.cacheDir, rpcCacheFileName)
}

// BuildDir returns the directory package sources are cloned and built in.
func (r *RuntimeConfig) BuildDir() string {
	return filepath.Join(r.cacheDir, buildDirName)
}

// DefaultConfig is a fail safe contract for the runtime configuration.
// The config package returns an appropriate RuntimeConfig based on the environment and the configuration.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		Config: Config{
			AurRpcBaseUrl:         "https://aur.archlinux.org/rpc/v5",
			AurCacheTtlHours:      1,
			AurInfoChunkSize:      50,
			BuildUser:             "nobody",
			PrivilegeTool:         "auto",
			SkipEventLogging:      false,
			EventLogRetentionDays: 7,
		},
		DryRun:      false,
		AutoConfirm: false,
	}
}

// globalConfig is the global configuration for apt-pac.
// It is initialized in the init function and can be overridden by a repository.
var globalConfig *RuntimeConfig

func init() {
	initConfig()
}

// initConfig should be idempotent and can be called multiple times.
// This is required for testing purposes.
func initConfig() {
	defaultConfig := DefaultConfig()
	globalConfig = &defaultConfig

	configDir, err := configDir()
	if err != nil {
		panic(fmt.Errorf("failed to get config directory: %w", err))
	}

	cacheDir, err := cacheDir()
	if err != nil {
		panic(fmt.Errorf("failed to get cache directory: %w", err))
	}

	globalConfig.configDir = configDir
	globalConfig.configFilePath = filepath.Join(configDir, CONFIG_FILE_NAME)
	globalConfig.cacheDir = cacheDir
	globalConfig.eventLogDir = filepath.Join(configDir, CONFIG_DEFAULT_LOG_DIR)

	loadConfig()
}

// loadConfig loads the configuration from the config file.
// This is where we determine the source of config and use the appropriate loader.
// Right now we only support loading from a config file using Viper. All loader
// functions should be safe with reasonable defaults and panic only in case of system errors.
func loadConfig() {
	loadViperConfig()
}

// configDir computes the path to the config directory.
func configDir() (string, error) {
	dir := os.Getenv(CONFIG_DIR_ENV_KEY)
	if dir != "" {
		return dir, nil
	}

	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to retrieve user config directory: %w", err)
	}

	return filepath.Join(userConfigDir, CONFIG_DEFAULT_HOME_RELATIVE_PATH), nil
}

// cacheDir computes the path to the cache directory.
func cacheDir() (string, error) {
	dir := os.Getenv(CACHE_DIR_ENV_KEY)
	if dir != "" {
		return dir, nil
	}

	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to retrieve user cache directory: %w", err)
	}

	return filepath.Join(userCacheDir, CONFIG_DEFAULT_HOME_RELATIVE_PATH), nil
}

// Get returns the global configuration.
// This is the public API for the configuration package. This package should guarantee
// that this function will never return nil.
func Get() *RuntimeConfig {
	return globalConfig
}

// WriteTemplateConfig writes the template configuration file to disk if it doesn't already exist.
func WriteTemplateConfig() error {
	configDir, err := configDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFilePath := filepath.Join(configDir, CONFIG_FILE_NAME)

	// Do not overwrite the config file if it already exists
	if _, err := os.Stat(configFilePath); err == nil {
		return nil
	}

	if err := os.WriteFile(configFilePath, []byte(templateConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write template config: %w", err)
	}

	return nil
}
