// Package config loads concierge settings from an optional YAML file and the
// environment. Environment variables win over the file; defaults fill the rest.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dusk-indust/concierge/internal/a2a"
	"github.com/dusk-indust/concierge/internal/llm"
	"github.com/dusk-indust/concierge/internal/orchestrator"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultHost             = "127.0.0.1"
	DefaultPort             = 8000
	DefaultBasePort         = 8001
	DefaultPolicyAgentURL   = "http://localhost:9999"
	DefaultProviderAgentURL = "http://localhost:9997"
	DefaultDoctorsPath      = "doctors.json"
	DefaultPolicyDocPath    = "policy.pdf"
)

// Config holds process settings, loaded from concierge.yml.
type Config struct {
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	BasePort int    `yaml:"basePort,omitempty"`

	PolicyAgentURL   string `yaml:"policyAgentUrl,omitempty"`
	ProviderAgentURL string `yaml:"providerAgentUrl,omitempty"`
	ResearchAgentURL string `yaml:"researchAgentUrl,omitempty"`

	AnthropicAPIKey  string `yaml:"anthropicApiKey,omitempty"`
	AnthropicBaseURL string `yaml:"anthropicBaseUrl,omitempty"`
	Model            string `yaml:"model,omitempty"`

	DoctorsPath   string `yaml:"doctorsPath,omitempty"`
	PolicyDocPath string `yaml:"policyDocPath,omitempty"`

	AgentTimeout time.Duration `yaml:"agentTimeout,omitempty"`
	Verbose      bool          `yaml:"verbose,omitempty"`
}

// Load reads concierge.yml or concierge.yaml from dir, applies environment
// overrides and fills defaults. A missing file is not an error.
func Load(dir string) (*Config, error) {
	return LoadWithEnv(dir, os.Getenv)
}

// LoadWithEnv is Load with an injectable environment lookup.
func LoadWithEnv(dir string, getenv func(string) string) (*Config, error) {
	cfg, err := readFile(dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func readFile(dir string) (*Config, error) {
	for _, name := range []string{"concierge.yml", "concierge.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		return &cfg, nil
	}
	return &Config{}, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	str("HOST", &c.Host)
	str("POLICY_AGENT_URL", &c.PolicyAgentURL)
	str("PROVIDER_AGENT_URL", &c.ProviderAgentURL)
	str("RESEARCH_AGENT_URL", &c.ResearchAgentURL)
	str("ANTHROPIC_API_KEY", &c.AnthropicAPIKey)
	str("ANTHROPIC_BASE_URL", &c.AnthropicBaseURL)
	str("CONCIERGE_MODEL", &c.Model)
	str("DOCTORS_PATH", &c.DoctorsPath)
	str("POLICY_DOC_PATH", &c.PolicyDocPath)

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("config: PORT: invalid port %q", v)
		}
		c.Port = port
	}
	if v := getenv("AGENT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: AGENT_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("config: AGENT_TIMEOUT: must be positive, got %s", d)
		}
		c.AgentTimeout = d
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.BasePort == 0 {
		c.BasePort = DefaultBasePort
	}
	if c.PolicyAgentURL == "" {
		c.PolicyAgentURL = DefaultPolicyAgentURL
	}
	if c.ProviderAgentURL == "" {
		c.ProviderAgentURL = DefaultProviderAgentURL
	}
	if c.Model == "" {
		c.Model = llm.DefaultModel
	}
	if c.DoctorsPath == "" {
		c.DoctorsPath = DefaultDoctorsPath
	}
	if c.PolicyDocPath == "" {
		c.PolicyDocPath = DefaultPolicyDocPath
	}
	if c.AgentTimeout <= 0 {
		c.AgentTimeout = a2a.DefaultTimeout
	}
}

// Addr is the host:port a single agent listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Endpoints lists the specialists the healthcare agent consults, in merge
// order. The research agent is included only when its URL is configured.
func (c *Config) Endpoints() []orchestrator.Endpoint {
	eps := []orchestrator.Endpoint{
		{Name: "PolicyAgent", URL: c.PolicyAgentURL},
		{Name: "ProviderAgent", URL: c.ProviderAgentURL},
	}
	if c.ResearchAgentURL != "" {
		eps = append(eps, orchestrator.Endpoint{Name: "ResearchAgent", URL: c.ResearchAgentURL})
	}
	return eps
}
