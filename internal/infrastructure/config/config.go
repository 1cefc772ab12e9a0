package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"

	"github.com/agentcockpit/cockpit/internal/util"
)

// Database holds the local store configuration. URL accepts any libsql
// connection string; the default is a file database under the XDG data dir.
type Database struct {
	URL       string `envconfig:"COCKPIT_DATABASE_URL"`
	AuthToken string `envconfig:"COCKPIT_DATABASE_AUTH_TOKEN"`
}

// AgentScope holds the agent-execution backend configuration. The same
// base URL and token are used by the unary, streaming and health paths.
type AgentScope struct {
	BaseURL  string `envconfig:"COCKPIT_AGENTSCOPE_URL" default:"http://localhost:8000"`
	APIToken string `envconfig:"COCKPIT_AGENTSCOPE_TOKEN"`
}

// Config is the full application configuration.
type Config struct {
	Database   Database
	AgentScope AgentScope
	Port       int `envconfig:"COCKPIT_PORT" default:"8080"`
}

// Load reads configuration from environment variables, filling in the
// default database location when COCKPIT_DATABASE_URL is unset.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg.Database); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.AgentScope); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.Database.URL == "" {
		dataDir, err := util.DataDir()
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		cfg.Database.URL = "file:" + filepath.Join(dataDir, "cockpit.db")
	}

	return &cfg, nil
}
