package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider names accepted by the factory.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Storage drivers accepted at startup.
const (
	StorageMemory   = "memory"
	StorageMySQL    = "mysql"
	StoragePostgres = "postgres"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Logging struct {
		Level   string `yaml:"level"`
		Console bool   `yaml:"console"`
	} `yaml:"logging"`

	Provider struct {
		Name           string `yaml:"name"`
		Model          string `yaml:"model"`
		APIKey         string `yaml:"apiKey"`
		BaseURL        string `yaml:"baseURL"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"provider"`

	Storage struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"storage"`

	Archive struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"archive"`
}

// Load reads the config file, applies environment overrides and validates.
// A bad provider name or a missing credential fails here, before anything
// half-initialized can serve traffic.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv lets the environment win over the file for the usual suspects.
func (c *Config) applyEnv() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.Provider.Name == ProviderOpenAI {
		c.Provider.APIKey = v
	}
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" && c.Provider.Name == ProviderOllama {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
}

// Validate applies defaults and rejects configurations the service cannot
// safely start with.
func (c *Config) Validate() error {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Provider.Name == "" {
		c.Provider.Name = ProviderOllama
	}

	switch c.Provider.Name {
	case ProviderOpenAI:
		if c.Provider.APIKey == "" {
			return fmt.Errorf("provider %q requires an API key (set provider.apiKey or OPENAI_API_KEY)", c.Provider.Name)
		}
	case ProviderOllama:
		// model defaulted by the client, no credentials needed
	default:
		return fmt.Errorf("unsupported provider: %q (valid: %s, %s)", c.Provider.Name, ProviderOpenAI, ProviderOllama)
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageMemory
	}
	switch c.Storage.Driver {
	case StorageMemory:
	case StorageMySQL, StoragePostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage driver %q requires storage.dsn", c.Storage.Driver)
		}
		if c.Storage.Driver == StorageMySQL {
			// the mysql driver only scans DATETIME into time.Time with this flag
			c.Storage.DSN = ensureParseTime(c.Storage.DSN)
		}
	default:
		return fmt.Errorf("unsupported storage driver: %q (valid: %s, %s, %s)",
			c.Storage.Driver, StorageMemory, StorageMySQL, StoragePostgres)
	}

	if c.Archive.Enabled {
		if c.Archive.Endpoint == "" || c.Archive.BucketName == "" {
			return fmt.Errorf("archive requires endpoint and bucketName when enabled")
		}
	}
	return nil
}

// ensureParseTime appends parseTime=true to a MySQL DSN that lacks it.
func ensureParseTime(dsn string) string {
	if strings.Contains(dsn, "parseTime=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "parseTime=true"
}
