package show

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/getstack/getstack-mcp/internal/runtime"
	"github.com/getstack/getstack-mcp/internal/settings"
	"github.com/getstack/getstack-mcp/internal/templateconfig"
	"github.com/getstack/getstack-mcp/internal/ui"
)

func New(runtimeContext *runtime.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Prints the resolved configuration",
		Long:  `Prints the template repository settings after applying flags, environment variables, the config file and defaults.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := templateconfig.Path()
			if err != nil {
				return err
			}
			return Execute(cmd.OutOrStdout(), runtimeContext.Settings, configPath)
		},
	}
}

func Execute(out io.Writer, s *settings.Settings, configPath string) error {
	if s == nil {
		return fmt.Errorf("settings are not loaded")
	}

	restore := ui.SetOutput(out)
	defer restore()

	workspaceDir := s.WorkspaceDir
	if workspaceDir == "" {
		workspaceDir = "(system temp dir)"
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendRows([]table.Row{
		{"Repository", s.Repository.String()},
		{"Contents API", s.APIURL},
		{"Clone URL", s.CloneURL},
		{"HTTP timeout", s.HTTPTimeout.String()},
		{"Clone timeout", s.CloneTimeout.String()},
		{"Workspace dir", workspaceDir},
	})

	ui.Line()
	ui.Title("Template Repository")
	ui.Print(t.Render())
	ui.Dim("Config file: " + configPath)
	ui.Line()
	return nil
}
