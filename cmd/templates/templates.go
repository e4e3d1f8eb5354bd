package templates

import (
	"github.com/spf13/cobra"

	"github.com/getstack/getstack-mcp/cmd/templates/list"
	"github.com/getstack/getstack-mcp/cmd/templates/use"
	"github.com/getstack/getstack-mcp/internal/runtime"
)

func New(runtimeContext *runtime.Context) *cobra.Command {
	templatesCmd := &cobra.Command{
		Use:   "templates",
		Short: "Lists and copies project templates",
		Long: `Lists the templates of the configured template repository and copies them into local folders.

These commands run the same operations as the get_templates and use_template MCP tools.`,
	}

	templatesCmd.AddCommand(list.New(runtimeContext))
	templatesCmd.AddCommand(use.New(runtimeContext))

	return templatesCmd
}
