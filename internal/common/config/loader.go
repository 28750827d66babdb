// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like SHAREPOINT_SITE_URL
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	// 1. Load base config
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// 2. Merge environment-specific config
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig() // ignore error if not found

	// 3. Expand env placeholders
	expandEnvVars(viper.GetViper())

	// 4. Unmarshal final config
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	// 5. Direct override if still empty
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the first location that has one, so the binary
// behaves the same whether launched from the repo root or a subdirectory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig applies the flat environment names the deployment uses
// when the yaml left a value empty.
func overrideEmptyConfig(cfg *Config) {
	if cfg.SharePoint.SiteURL == defaultSiteURL {
		if val := os.Getenv("SHAREPOINT_SITE_URL"); val != "" {
			cfg.SharePoint.SiteURL = val
		}
	}
	if cfg.SharePoint.ListName == defaultListName {
		if val := os.Getenv("LIST_NAME"); val != "" {
			cfg.SharePoint.ListName = val
		}
	}

	if cfg.Graph.TenantID == "" {
		if val := os.Getenv("GRAPH_TENANT_ID"); val != "" {
			cfg.Graph.TenantID = val
		}
	}
	if cfg.Graph.ClientID == "" {
		if val := os.Getenv("GRAPH_CLIENT_ID"); val != "" {
			cfg.Graph.ClientID = val
		}
	}
	if cfg.Graph.ClientSecret == "" {
		if val := os.Getenv("GRAPH_CLIENT_SECRET"); val != "" {
			cfg.Graph.ClientSecret = val
		}
	}

	if cfg.Cache.Redis.Address == "" {
		if val := os.Getenv("REDIS_ADDRESS"); val != "" {
			cfg.Cache.Redis.Address = val
		}
	}
	if cfg.Cache.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Cache.Redis.Password = val
		}
	}
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

const (
	defaultSiteURL  = "https://ybhuk.sharepoint.com/sites/YourBrainHealth"
	defaultListName = "Baseline Screening Contacts"
)

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "gravity-webhook"
	}
	if cfg.App.Version == "" {
		cfg.App.Version = "1.0.0"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30000
	}

	if cfg.SharePoint.SiteURL == "" {
		cfg.SharePoint.SiteURL = defaultSiteURL
	}
	if cfg.SharePoint.ListName == "" {
		cfg.SharePoint.ListName = defaultListName
	}

	if cfg.Graph.Scope == "" {
		cfg.Graph.Scope = "https://graph.microsoft.com/.default"
	}
	if cfg.Graph.BaseURL == "" {
		cfg.Graph.BaseURL = "https://graph.microsoft.com/v1.0"
	}
	if cfg.Graph.Timeout == 0 {
		cfg.Graph.Timeout = 30000
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 600
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	if cfg.SharePoint.SiteURL == "" {
		return fmt.Errorf("sharepoint.site_url is required")
	}
	if cfg.SharePoint.ListName == "" {
		return fmt.Errorf("sharepoint.list_name is required")
	}

	if cfg.Graph.TenantID == "" {
		return fmt.Errorf("graph.tenant_id is required")
	}
	if cfg.Graph.ClientID == "" {
		return fmt.Errorf("graph.client_id is required")
	}
	if cfg.Graph.ClientSecret == "" {
		return fmt.Errorf("graph.client_secret is required")
	}

	if cfg.Cache.Enabled && cfg.Cache.Redis.Address == "" {
		return fmt.Errorf("cache.redis.address is required when cache is enabled")
	}

	return nil
}
