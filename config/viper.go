package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// loadViperConfig loads the configuration using Viper if available.
// This function will panic for system errors since it is part of the init path.
func loadViperConfig() {
	configPath := globalConfig.configFilePath

	// Check if config file exists before attempting to load
	// If it doesn't exist, we use the default configuration (see config.go)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return
	}

	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APT_PAC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	defaults := DefaultConfig().Config
	v.SetDefault("aur_rpc_base_url", defaults.AurRpcBaseUrl)
	v.SetDefault("aur_cache_ttl_hours", defaults.AurCacheTtlHours)
	v.SetDefault("aur_info_chunk_size", defaults.AurInfoChunkSize)
	v.SetDefault("build_user", defaults.BuildUser)
	v.SetDefault("privilege_tool", defaults.PrivilegeTool)
	v.SetDefault("skip_event_logging", defaults.SkipEventLogging)
	v.SetDefault("event_log_retention_days", defaults.EventLogRetentionDays)

	if err := v.ReadInConfig(); err != nil {
		panic(fmt.Errorf("failed to read config file %s: %w", configPath, err))
	}

	var loadedConfig Config
	if err := v.Unmarshal(&loadedConfig); err != nil {
		panic(fmt.Errorf("failed to unmarshal config: %w", err))
	}

	globalConfig.Config = loadedConfig
}
