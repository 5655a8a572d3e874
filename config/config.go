package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	MongoURI        string `yaml:"mongo_uri"`
	MongoDatabase   string `yaml:"mongo_database"`
	MongoCollection string `yaml:"mongo_collection"`
	BaseURL         string `yaml:"base_url"`
	StartURL        string `yaml:"start_url"`
	ProxyURL        string `yaml:"proxy_url"`
	SessionDBPath   string `yaml:"session_db_path"`
}

// Load reads the YAML file named by CONFIG_PATH (default config.yaml).
// A missing file is not an error; defaults apply field by field, and
// MONGO_URI overrides whatever the file says.
func Load() (*Config, error) {
	cfg := &Config{}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if uri := os.Getenv("MONGO_URI"); uri != "" {
		cfg.MongoURI = uri
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.MongoURI == "" {
		cfg.MongoURI = "mongodb://localhost:27017/"
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = "recipes_new"
	}
	if cfg.MongoCollection == "" {
		cfg.MongoCollection = "italian_giallozafferano"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.giallozafferano.it"
	}
	if cfg.StartURL == "" {
		cfg.StartURL = cfg.BaseURL + "/ricette-cat/"
	}
	if cfg.SessionDBPath == "" {
		cfg.SessionDBPath = "data/session.db"
	}
}
