package list

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/getstack/getstack-mcp/internal/runtime"
	"github.com/getstack/getstack-mcp/internal/settings"
	"github.com/getstack/getstack-mcp/internal/templaterepo"
	"github.com/getstack/getstack-mcp/internal/ui"
)

type handler struct {
	log     *zerolog.Logger
	catalog *templaterepo.Catalog
	out     io.Writer
}

func New(runtimeContext *runtime.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lists available templates",
		Long:  `Fetches the top-level directories of the template repository. Each one is a template that can be copied with "getstack-mcp templates use".`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := runtimeContext.RemoteClient()
			if err != nil {
				return err
			}
			jsonOutput, _ := cmd.Flags().GetBool(settings.Flags.JSON.Name)

			h := &handler{
				log:     runtimeContext.Logger,
				catalog: templaterepo.NewCatalog(runtimeContext.Logger, client),
				out:     cmd.OutOrStdout(),
			}
			return h.Execute(cmd.Context(), jsonOutput)
		},
	}

	settings.AddJSONFlag(cmd)

	return cmd
}

func (h *handler) Execute(ctx context.Context, jsonOutput bool) error {
	restore := ui.SetOutput(h.out)
	defer restore()

	var spinner *ui.Spinner
	if !jsonOutput {
		spinner = ui.NewSpinner()
		spinner.Start("Fetching templates...")
	}
	result := h.catalog.ListTemplates(ctx)
	if spinner != nil {
		spinner.Stop()
	}

	if jsonOutput {
		if err := json.NewEncoder(h.out).Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		if !result.Success {
			return errors.New(result.Error)
		}
		return nil
	}

	if !result.Success {
		return fmt.Errorf("failed to list templates: %s", result.Error)
	}

	if result.Count() == 0 {
		ui.Line()
		ui.Warning("No templates found in the repository")
		ui.Line()
		return nil
	}

	ui.Line()
	ui.Title("Available Templates")
	ui.Line()
	ui.Print(FormatTemplatesTable(result.Templates))
	ui.Line()

	ui.Dim("Copy a template with:")
	ui.Command("  getstack-mcp templates use <name> <folder>")
	ui.Line()

	return nil
}

// FormatTemplatesTable renders templates as a table sorted by name.
func FormatTemplatesTable(templates []templaterepo.TemplateDescriptor) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Name", "URL"})

	for _, tmpl := range templates {
		t.AppendRow(table.Row{tmpl.Name, tmpl.URL})
	}

	t.SortBy([]table.SortBy{
		{Name: "Name", Mode: table.Asc},
	})

	return t.Render()
}
