package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Probe struct {
		CheckConcurrency int     `yaml:"check_concurrency"`
		MetaConcurrency  int     `yaml:"meta_concurrency"`
		TimeoutSeconds   int     `yaml:"timeout_seconds"`
		HostRatePerSec   float64 `yaml:"host_rate_per_sec"`
		HostBurst        int     `yaml:"host_burst"`
		UserAgent        string  `yaml:"user_agent"`
	} `yaml:"probe"`

	Guessers struct {
		OpenAI struct {
			Enabled bool   `yaml:"enabled"`
			Model   string `yaml:"model"`
		} `yaml:"openai"`
		Gemini struct {
			Enabled bool   `yaml:"enabled"`
			Model   string `yaml:"model"`
		} `yaml:"gemini"`
	} `yaml:"guessers"`

	Retention struct {
		MaxAgeDays   int `yaml:"max_age_days"`
		SweepMinutes int `yaml:"sweep_minutes"`
	} `yaml:"retention"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return withDefaults(cfg), nil
}

func withDefaults(cfg Config) Config {
	if cfg.App.Port == 0 {
		cfg.App.Port = 38613
	}
	if cfg.Probe.CheckConcurrency == 0 {
		cfg.Probe.CheckConcurrency = 5
	}
	if cfg.Probe.MetaConcurrency == 0 {
		cfg.Probe.MetaConcurrency = 3
	}
	if cfg.Probe.TimeoutSeconds == 0 {
		cfg.Probe.TimeoutSeconds = 10
	}
	if cfg.Probe.HostRatePerSec == 0 {
		cfg.Probe.HostRatePerSec = 10
	}
	if cfg.Probe.HostBurst == 0 {
		cfg.Probe.HostBurst = 5
	}
	if cfg.Probe.UserAgent == "" {
		cfg.Probe.UserAgent = "SiteScout/1.0 (+local)"
	}
	if cfg.Retention.MaxAgeDays == 0 {
		cfg.Retention.MaxAgeDays = 90
	}
	if cfg.Retention.SweepMinutes == 0 {
		cfg.Retention.SweepMinutes = 60
	}
	return cfg
}
