package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/getstack/getstack-mcp/internal/constants"
	"github.com/getstack/getstack-mcp/internal/templateconfig"
	"github.com/getstack/getstack-mcp/internal/templaterepo"
	"github.com/getstack/getstack-mcp/internal/validation"
)

const loadEnvErrorMessage = "Not able to load configuration from .env file, skipping this optional step.\n" +
	"Settings are still read from exported GETSTACK_* environment variables, flags and ~/.getstack/config.yaml."

// Settings holds the resolved remote repository configuration.
type Settings struct {
	Repository   templaterepo.RepoSource
	APIURL       string        `validate:"required,http_url" cli:"--api-url"`
	CloneURL     string        `validate:"required" cli:"--clone-url"`
	HTTPTimeout  time.Duration `validate:"gt=0" cli:"--http-timeout"`
	CloneTimeout time.Duration `validate:"gt=0" cli:"--clone-timeout"`
	WorkspaceDir string
	LogLevel     string
}

// ClientConfig returns the configuration of the template repository client.
func (s *Settings) ClientConfig() templaterepo.ClientConfig {
	return templaterepo.ClientConfig{
		APIURL:       s.APIURL,
		CloneURL:     s.CloneURL,
		Ref:          s.Repository.Ref,
		HTTPTimeout:  s.HTTPTimeout,
		CloneTimeout: s.CloneTimeout,
	}
}

// New resolves settings with precedence flag > environment (.env included) >
// ~/.getstack/config.yaml > built-in default.
func New(logger *zerolog.Logger, v *viper.Viper) (*Settings, error) {
	configPath, err := templateconfig.Path()
	if err != nil {
		return nil, err
	}
	return NewFromConfigFile(logger, v, configPath)
}

// NewFromConfigFile is New with an explicit configuration file path.
func NewFromConfigFile(logger *zerolog.Logger, v *viper.Viper, configPath string) (*Settings, error) {
	envPath := v.GetString(Flags.CliEnvFile.Name)
	if err := LoadEnv(envPath); err != nil {
		// .env file is optional, so we log it as a debug message
		logger.Debug().Err(err).Msg(loadEnvErrorMessage)
	}

	if err := BindEnv(v); err != nil {
		return nil, err
	}

	cfg, err := templateconfig.LoadFile(logger, configPath)
	if err != nil {
		return nil, err
	}

	source := cfg.Source()
	v.SetDefault(Flags.Repo.Name, source.String())
	if cfg.APIURL != "" {
		v.SetDefault(Flags.APIURL.Name, cfg.APIURL)
	}
	if cfg.CloneURL != "" {
		v.SetDefault(Flags.CloneURL.Name, cfg.CloneURL)
	}

	repo, err := templateconfig.ParseRepoString(v.GetString(Flags.Repo.Name))
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", Flags.Repo.Name, err)
	}

	s := &Settings{
		Repository:   repo,
		APIURL:       v.GetString(Flags.APIURL.Name),
		CloneURL:     v.GetString(Flags.CloneURL.Name),
		HTTPTimeout:  durationOrDefault(v, Flags.HTTPTimeout.Name, constants.DefaultHTTPTimeout),
		CloneTimeout: durationOrDefault(v, Flags.CloneTimeout.Name, constants.DefaultCloneTimeout),
		WorkspaceDir: v.GetString(Flags.WorkspaceDir.Name),
		LogLevel:     v.GetString(Flags.LogLevel.Name),
	}
	if s.APIURL == "" {
		s.APIURL = DefaultAPIURL(repo)
	}
	if s.CloneURL == "" {
		s.CloneURL = DefaultCloneURL(repo)
	}

	validator, err := validation.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}
	if err := validator.Struct(s); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("repository", repo.String()).
		Str("api", s.APIURL).
		Str("clone", s.CloneURL).
		Msg("Resolved settings")
	return s, nil
}

// DefaultAPIURL returns the GitHub contents API base of a repository.
func DefaultAPIURL(repo templaterepo.RepoSource) string {
	return fmt.Sprintf("%s/repos/%s/%s", constants.DefaultGitHubAPIBase, repo.Owner, repo.Repo)
}

// DefaultCloneURL returns the GitHub https clone URL of a repository.
func DefaultCloneURL(repo templaterepo.RepoSource) string {
	return fmt.Sprintf("%s/%s/%s.git", constants.DefaultGitHubBase, repo.Owner, repo.Repo)
}

func durationOrDefault(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	if !v.IsSet(key) {
		return fallback
	}
	return v.GetDuration(key)
}

func LoadEnv(envPath string) error {
	if envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading file from %s: %w", envPath, err)
			}
			return nil
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("error getting working directory: %w", err)
	}

	foundEnvPath, err := findEnvFile(cwd, constants.DefaultEnvFileName)
	if err != nil {
		return fmt.Errorf("error loading environment: %w", err)
	}

	if err := godotenv.Load(foundEnvPath); err != nil {
		return fmt.Errorf("error loading file from %s: %w", foundEnvPath, err)
	}
	return nil
}

func findEnvFile(startDir, fileName string) (string, error) {
	dir := startDir

	for {
		filePath := filepath.Join(dir, fileName)

		if info, err := os.Stat(filePath); err == nil && !info.IsDir() {
			return filePath, nil
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			break // Reached the root directory.
		}
		dir = parentDir
	}
	return "", fmt.Errorf("file %s not found in any parent directory starting from %s", fileName, startDir)
}
