package config

import (
	"github.com/spf13/cobra"

	"github.com/getstack/getstack-mcp/cmd/config/setrepo"
	"github.com/getstack/getstack-mcp/cmd/config/show"
	"github.com/getstack/getstack-mcp/internal/runtime"
)

func New(runtimeContext *runtime.Context) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Shows and changes the template repository configuration",
		Long: `Shows and changes ~/.getstack/config.yaml, which selects the template repository.

Flags and GETSTACK_* environment variables take precedence over the file.`,
	}

	configCmd.AddCommand(show.New(runtimeContext))
	configCmd.AddCommand(setrepo.New(runtimeContext))

	return configCmd
}
