package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/factmerge/pkg/constants"
)

// EnvPrefix is prepended to configuration keys looked up in the environment,
// so region is read from FACTMERGE_REGION and server.port from
// FACTMERGE_SERVER_PORT.
const EnvPrefix = "FACTMERGE"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Merge configuration
	TablesPath string
	Region     string
	Threshold  float64
	Workers    int
	Audit      bool

	// Server configuration
	Server ServerConfig

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// ServerConfig holds the defaults of the serve command.
type ServerConfig struct {
	Host        string
	Port        int
	Prefix      string
	CacheTTL    time.Duration
	RateLimit   int
	CORSOrigins []string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (handled by cobra)
//  2. Environment variables
//  3. .env files
//  4. Config file (configFile, or ~/.factmerge.yaml)
//  5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		configFile = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			// An explicit config file must exist
			return nil, err
		}
	} else {
		// Search for config in standard locations
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".factmerge")

		// Read config file (ignore error if not found)
		_ = v.ReadInConfig()
	}

	config := &Config{
		Format:     v.GetString("format"),
		ConfigFile: v.ConfigFileUsed(),

		TablesPath: v.GetString("tables_path"),
		Region:     v.GetString("region"),
		Threshold:  v.GetFloat64("threshold"),
		Workers:    v.GetInt("workers"),
		Audit:      v.GetBool("audit"),

		Server: ServerConfig{
			Host:        v.GetString("server.host"),
			Port:        v.GetInt("server.port"),
			Prefix:      v.GetString("server.prefix"),
			CacheTTL:    v.GetDuration("server.cache_ttl"),
			RateLimit:   v.GetInt("server.rate_limit"),
			CORSOrigins: v.GetStringSlice("server.cors_origins"),
		},

		// LOG_* are read without the prefix so they match other tools
		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// setDefaults registers the value of every key when nothing else sets it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("region", constants.DefaultRegion)
	v.SetDefault("threshold", constants.DefaultFuzzyThreshold)
	v.SetDefault("workers", constants.DefaultWorkers)
	v.SetDefault("audit", false)

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.prefix", "/api/v1")
	v.SetDefault("server.cache_ttl", constants.DefaultCacheTTL)
	v.SetDefault("server.rate_limit", 60)
	v.SetDefault("server.cors_origins", []string{})
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env; godotenv never overwrites variables that
	// are already set, so the override is loaded first
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
