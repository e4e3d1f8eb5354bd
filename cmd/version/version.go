package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getstack/getstack-mcp/internal/runtime"
)

// Default placeholder value, replaced at build time with -ldflags
var Version = "development"

func New(runtimeContext *runtime.Context) *cobra.Command {
	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the getstack-mcp version",
		Long:  "This command prints the current version of getstack-mcp, which is also reported to MCP hosts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "getstack-mcp", Version)
			return nil
		},
	}

	return versionCmd
}
