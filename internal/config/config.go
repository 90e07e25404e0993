// Package config provides configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/chargefront/chargefront/internal/colors"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "CHARGEFRONT_"

// File permission constants
const (
	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for data files (rw-r--r--)
	FileModeFile os.FileMode = 0644

	// FileExtTOML is the file extension for TOML configuration files.
	FileExtTOML = ".toml"
)

// EndpointCloud describes a known backend endpoint.
type EndpointCloud struct {
	ID       string
	Name     string
	Endpoint string
}

// EndpointClouds lists the known backend endpoints selectable via the
// endpoint_cloud configuration key.
var EndpointClouds = []EndpointCloud{
	{ID: "prod", Name: "Production", Endpoint: "https://rest.chargefront.io"},
	{ID: "qa", Name: "Quality Assurance", Endpoint: "https://rest-qa.chargefront.io"},
	{ID: "local", Name: "Local development", Endpoint: "http://127.0.0.1:8020"},
}

// DefaultEndpointCloudID is used when no endpoint_cloud is configured.
const DefaultEndpointCloudID = "prod"

var (
	config   map[string]string
	defaults map[string]string
	mu       sync.RWMutex
)

// Load initializes configuration: defaults, then the TOML config file,
// then CHARGEFRONT_* environment variable overrides, then validation.
func Load() {
	mu.Lock()
	defer mu.Unlock()

	config = make(map[string]string)
	defaults = make(map[string]string)

	setDefaults()
	loadFromFile()
	loadFromEnv()
	validate()
}

// setDefaults populates config with default values.
func setDefaults() {
	home, _ := os.UserHomeDir()
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		xdgConfigHome = filepath.Join(home, ".config")
	}
	xdgStateHome := os.Getenv("XDG_STATE_HOME")
	if xdgStateHome == "" {
		xdgStateHome = filepath.Join(home, ".local", "state")
	}

	setDefault("config_dir", filepath.Join(xdgConfigHome, "chargefront"))
	setDefault("state_dir", filepath.Join(xdgStateHome, "chargefront"))

	// Backend
	setDefault("endpoint_cloud", DefaultEndpointCloudID)
	setDefault("endpoint_url", "")
	setDefault("tenant", "")

	// Paging
	setDefault("paging_size", "10")

	// Auto-refresh periods in milliseconds
	setDefault("refresh_on_error_millis", "2000")
	setDefault("refresh_short_millis", "5000")
	setDefault("refresh_medium_millis", "10000")
	setDefault("refresh_long_millis", "20000")

	// Logging
	setDefault("logging_enabled", "false")
	setDefault("logging_level", "info")
	setDefault("logging_max_files", "10")

	setDefault("debug", "false")
	setDefault("quiet", "false")
}

func setDefault(key, value string) {
	config[key] = value
	defaults[key] = value
}

// loadFromFile reads configuration from the TOML config file.
func loadFromFile() {
	configPath := os.Getenv(EnvPrefix + "CONFIG_PATH")
	if configPath == "" {
		if configDir, ok := config["config_dir"]; ok {
			configPath = filepath.Join(configDir, "config"+FileExtTOML)
			if _, err := os.Stat(configPath); err != nil {
				configPath = ""
			}
		}
	}
	if configPath == "" {
		return
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		colors.Debug(fmt.Sprintf("unable to read config file %s: %v", configPath, err))
		return
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		colors.Warning(fmt.Sprintf("unable to parse config file %s: %v", configPath, err))
		return
	}

	for k, v := range raw {
		key := strings.ToLower(k)
		converted, ok := coerceConfigValue(v)
		if !ok {
			colors.Warning(fmt.Sprintf("unsupported config value type for %s: %T", key, v))
			continue
		}
		config[key] = converted
	}
}

// coerceConfigValue converts a configuration value to its string representation.
// Supported types are string, int, int64, float64, and bool.
func coerceConfigValue(value interface{}) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}

// loadFromEnv applies environment variable overrides.
func loadFromEnv() {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, EnvPrefix) {
			continue
		}
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(parts[0], EnvPrefix))
		config[key] = parts[1]
	}
}

// validate checks and normalizes configuration values using registered validators.
func validate() {
	for key, value := range config {
		validator := getValidator(key)
		if validator == nil {
			continue
		}
		defaultValue := defaults[key]
		normalized, err := validator(key, value, defaultValue)
		if err != nil {
			colors.Warning(fmt.Sprintf("validation error for %s: %v, using default: %s", key, err, defaultValue))
			config[key] = defaultValue
		} else {
			config[key] = normalized
		}
	}
}

// EndpointURL resolves the backend base URL: an explicit endpoint_url wins,
// otherwise the endpoint_cloud id is looked up in the known clouds.
func EndpointURL() string {
	if url := Get("endpoint_url", ""); url != "" {
		return url
	}
	cloudID := Get("endpoint_cloud", DefaultEndpointCloudID)
	for _, cloud := range EndpointClouds {
		if cloud.ID == cloudID {
			return cloud.Endpoint
		}
	}
	return EndpointClouds[0].Endpoint
}

// Get returns a configuration value or default.
func Get(key, defaultValue string) string {
	mu.RLock()
	defer mu.RUnlock()
	if val, ok := config[key]; ok {
		return val
	}
	return defaultValue
}

// GetInt returns a configuration value as integer, or default.
func GetInt(key string, defaultValue int) int {
	mu.RLock()
	defer mu.RUnlock()
	val, ok := config[key]
	if !ok {
		return defaultValue
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return n
}

// GetBool returns a configuration value as boolean, or default.
func GetBool(key string, defaultValue bool) bool {
	mu.RLock()
	defer mu.RUnlock()
	val, ok := config[key]
	if !ok {
		return defaultValue
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}
