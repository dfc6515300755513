/*
Package config manages TOML config for WordChain.
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/wordchain/internal/utils"
	"github.com/bastiangx/wordchain/pkg/chain"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Dict    DictConfig    `toml:"dict"`
	Storage StorageConfig `toml:"storage"`
	CLI     CliConfig     `toml:"cli"`
	Server  ServerConfig  `toml:"server"`
}

// EngineConfig bounds the chain engine searches.
type EngineConfig struct {
	MaxResults         int   `toml:"max_results"`
	DeadFirst          bool  `toml:"dead_first"`
	LargeDictThreshold int   `toml:"large_dict_threshold"`
	SampleThreshold    int   `toml:"sample_threshold"`
	ChainBranching     int   `toml:"chain_branching"`
	ChainBudget        int   `toml:"chain_budget"`
	MaxChains          int   `toml:"max_chains"`
	MaxChainLength     int   `toml:"max_chain_length"`
	Seed               int64 `toml:"seed"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	Language      string `toml:"language"`
	DataDir       string `toml:"data_dir"`
	BulkThreshold int    `toml:"bulk_threshold"`
}

// StorageConfig selects where user words are persisted.
type StorageConfig struct {
	Backend   string `toml:"backend"`
	Path      string `toml:"path"`
	TimeoutMs int    `toml:"timeout_ms"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int  `toml:"default_limit"`
	Color        bool `toml:"color"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	Codec string `toml:"codec"`
	Watch bool   `toml:"watch"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", utils.AppName)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", utils.AppName)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordchain/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxResults:         50,
			DeadFirst:          true,
			LargeDictThreshold: 10000,
			SampleThreshold:    10000,
			ChainBranching:     3,
			ChainBudget:        1500,
			MaxChains:          5,
			MaxChainLength:     8,
		},
		Dict: DictConfig{
			Language:      "vietnamese",
			BulkThreshold: 1000,
		},
		Storage: StorageConfig{
			Backend:   "json",
			TimeoutMs: 2000,
		},
		CLI: CliConfig{
			DefaultLimit: 20,
			Color:        true,
		},
		Server: ServerConfig{
			Codec: "json",
			Watch: true,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Unparsable files are recovered
// section by section, keeping defaults for whatever cannot be read.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "storage"); ok {
		extractStorageConfig(section, &config.Storage)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	return config, nil
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	ints := map[string]*int{
		"max_results":          &engine.MaxResults,
		"large_dict_threshold": &engine.LargeDictThreshold,
		"sample_threshold":     &engine.SampleThreshold,
		"chain_branching":      &engine.ChainBranching,
		"chain_budget":         &engine.ChainBudget,
		"max_chains":           &engine.MaxChains,
		"max_chain_length":     &engine.MaxChainLength,
	}
	for key, dst := range ints {
		if val, ok := utils.ExtractInt64(data, key); ok {
			*dst = val
		}
	}
	if val, ok := utils.ExtractInt64(data, "seed"); ok {
		engine.Seed = int64(val)
	}
	if val, ok := utils.ExtractBool(data, "dead_first"); ok {
		engine.DeadFirst = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "language"); ok {
		dict.Language = val
	}
	if val, ok := utils.ExtractString(data, "data_dir"); ok {
		dict.DataDir = val
	}
	if val, ok := utils.ExtractInt64(data, "bulk_threshold"); ok {
		dict.BulkThreshold = val
	}
}

func extractStorageConfig(data map[string]any, storage *StorageConfig) {
	if val, ok := utils.ExtractString(data, "backend"); ok {
		storage.Backend = val
	}
	if val, ok := utils.ExtractString(data, "path"); ok {
		storage.Path = val
	}
	if val, ok := utils.ExtractInt64(data, "timeout_ms"); ok {
		storage.TimeoutMs = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "color"); ok {
		cli.Color = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractString(data, "codec"); ok {
		server.Codec = val
	}
	if val, ok := utils.ExtractBool(data, "watch"); ok {
		server.Watch = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return "", err
	}
	return defaultPath, SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// ChainConfig maps the engine section onto the chain engine settings.
func (c *Config) ChainConfig() chain.Config {
	return chain.Config{
		MaxResults:      c.Engine.MaxResults,
		LiveFirst:       !c.Engine.DeadFirst,
		SampleThreshold: c.Engine.SampleThreshold,
		Branching:       c.Engine.ChainBranching,
		Budget:          c.Engine.ChainBudget,
		MaxChains:       c.Engine.MaxChains,
		MaxChainLength:  c.Engine.MaxChainLength,
	}
}

// PersistTimeout is the storage timeout as a duration.
func (c *Config) PersistTimeout() time.Duration {
	return time.Duration(c.Storage.TimeoutMs) * time.Millisecond
}
