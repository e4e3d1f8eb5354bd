package runtime

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/getstack/getstack-mcp/internal/settings"
	"github.com/getstack/getstack-mcp/internal/templaterepo"
)

type Context struct {
	Logger   *zerolog.Logger
	Viper    *viper.Viper
	Settings *settings.Settings
}

func NewContext(logger *zerolog.Logger, viper *viper.Viper) *Context {
	return &Context{
		Logger: logger,
		Viper:  viper,
	}
}

func (ctx *Context) AttachSettings() error {
	var err error

	ctx.Settings, err = settings.New(ctx.Logger, ctx.Viper)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	return nil
}

// RemoteClient returns a template repository client for the attached settings.
func (ctx *Context) RemoteClient() (*templaterepo.Client, error) {
	if ctx.Settings == nil {
		return nil, fmt.Errorf("settings are not loaded")
	}
	return templaterepo.NewClient(ctx.Logger, ctx.Settings.ClientConfig()), nil
}
