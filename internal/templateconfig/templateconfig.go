package templateconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/getstack/getstack-mcp/internal/constants"
	"github.com/getstack/getstack-mcp/internal/templaterepo"
)

// DefaultSource is the default template repository, on its default branch.
var DefaultSource = templaterepo.RepoSource{
	Owner: constants.DefaultRepoOwner,
	Repo:  constants.DefaultRepoName,
}

// Config represents the configuration file at ~/.getstack/config.yaml.
type Config struct {
	Repository *TemplateRepo `yaml:"repository,omitempty"`
	APIURL     string        `yaml:"apiUrl,omitempty"`
	CloneURL   string        `yaml:"cloneUrl,omitempty"`
}

// TemplateRepo represents a template repository configuration.
type TemplateRepo struct {
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`
	Ref   string `yaml:"ref,omitempty"`
}

// Source returns the configured repository, or DefaultSource when none is set.
func (c *Config) Source() templaterepo.RepoSource {
	if c == nil || c.Repository == nil || c.Repository.Owner == "" || c.Repository.Repo == "" {
		return DefaultSource
	}
	return templaterepo.RepoSource{
		Owner: c.Repository.Owner,
		Repo:  c.Repository.Repo,
		Ref:   c.Repository.Ref,
	}
}

// Path returns the location of the configuration file.
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, constants.ConfigDirName, constants.ConfigFileName), nil
}

// Load reads ~/.getstack/config.yaml. A missing file yields an empty Config.
func Load(logger *zerolog.Logger) (*Config, error) {
	configPath, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(logger, configPath)
}

// LoadFile reads the configuration at configPath. A missing file yields an
// empty Config.
func LoadFile(logger *zerolog.Logger, configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Msg("No config found at " + configPath)
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config %s: %w", configPath, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
	}

	logger.Debug().Str("path", configPath).Msg("Loaded config")
	return &cfg, nil
}

// Save writes cfg to configPath, replacing any previous file atomically.
func Save(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmp := configPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmp, configPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// ParseRepoString parses "owner/repo" or "owner/repo@ref" into a RepoSource.
// Without "@ref" the default branch is used.
func ParseRepoString(s string) (templaterepo.RepoSource, error) {
	var ref string
	repoPath := s
	if idx := strings.LastIndex(s, "@"); idx != -1 {
		repoPath = s[:idx]
		ref = s[idx+1:]
		if ref == "" {
			return templaterepo.RepoSource{}, fmt.Errorf("expected format: owner/repo[@ref], got %q", s)
		}
	}

	parts := strings.SplitN(repoPath, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || strings.Contains(parts[1], "/") {
		return templaterepo.RepoSource{}, fmt.Errorf("expected format: owner/repo[@ref], got %q", s)
	}

	return templaterepo.RepoSource{
		Owner: parts[0],
		Repo:  parts[1],
		Ref:   ref,
	}, nil
}
