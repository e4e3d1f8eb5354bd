package use

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/getstack/getstack-mcp/internal/runtime"
	"github.com/getstack/getstack-mcp/internal/settings"
	"github.com/getstack/getstack-mcp/internal/templaterepo"
	"github.com/getstack/getstack-mcp/internal/transformation"
	"github.com/getstack/getstack-mcp/internal/ui"
)

const yesFlag = "yes"

// Inputs are the arguments of a use invocation. Empty values are asked for
// when running in a terminal.
type Inputs struct {
	TemplateName string
	TargetFolder string
	JSON         bool
	Yes          bool
}

// prompter asks the user for missing inputs.
type prompter interface {
	SelectTemplate(templates []templaterepo.TemplateDescriptor) (string, error)
	TargetFolder() (string, error)
	ConfirmOverwrite(target string) (bool, error)
}

type handler struct {
	log          *zerolog.Logger
	catalog      *templaterepo.Catalog
	materializer *templaterepo.Materializer
	out          io.Writer
	interactive  bool
	prompter     prompter
}

func New(runtimeContext *runtime.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use [template] [folder]",
		Short: "Copies a template into a folder",
		Long: `Copies every file of a template into a local folder, creating the folder when it does not exist.
Files that already exist at the same path are overwritten.

When the template or the folder is omitted in a terminal, they are asked for interactively.`,
		Example: `  getstack-mcp templates use fastapi-starter ./my-api
  getstack-mcp templates use react-vite ~/code/web --json`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := runtimeContext.RemoteClient()
			if err != nil {
				return err
			}
			materializer, err := templaterepo.NewMaterializer(runtimeContext.Logger, client, runtimeContext.Settings.WorkspaceDir)
			if err != nil {
				return err
			}

			inputs := Inputs{}
			if len(args) > 0 {
				inputs.TemplateName = args[0]
			}
			if len(args) > 1 {
				inputs.TargetFolder = args[1]
			}
			inputs.JSON, _ = cmd.Flags().GetBool(settings.Flags.JSON.Name)
			inputs.Yes, _ = cmd.Flags().GetBool(yesFlag)

			h := &handler{
				log:          runtimeContext.Logger,
				catalog:      templaterepo.NewCatalog(runtimeContext.Logger, client),
				materializer: materializer,
				out:          cmd.OutOrStdout(),
				interactive:  !inputs.JSON && term.IsTerminal(int(os.Stdin.Fd())),
				prompter:     huhPrompter{},
			}
			return h.Execute(cmd.Context(), inputs)
		},
	}

	settings.AddJSONFlag(cmd)
	cmd.Flags().BoolP(yesFlag, "y", false, "Do not ask before copying into a folder that is not empty")

	return cmd
}

func (h *handler) Execute(ctx context.Context, inputs Inputs) error {
	restore := ui.SetOutput(h.out)
	defer restore()

	if err := h.completeInputs(ctx, &inputs); err != nil {
		return err
	}

	if h.interactive && !inputs.Yes {
		proceed, err := h.confirmTarget(inputs.TargetFolder)
		if err != nil {
			return err
		}
		if !proceed {
			ui.Warning("Cancelled, nothing was copied")
			return nil
		}
	}

	req := templaterepo.MaterializationRequest{
		TemplateName: inputs.TemplateName,
		TargetFolder: inputs.TargetFolder,
	}

	var spinner *ui.Spinner
	if !inputs.JSON {
		spinner = ui.NewSpinner()
		spinner.Start(fmt.Sprintf("Copying template %s...", inputs.TemplateName))
	}
	result := h.materializer.Materialize(ctx, req)
	if spinner != nil {
		spinner.Stop()
	}

	if inputs.JSON {
		if err := json.NewEncoder(h.out).Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		if !result.Success {
			return errors.New(result.Error)
		}
		return nil
	}

	if !result.Success {
		return errors.New(result.Error)
	}

	ui.Line()
	ui.Success(fmt.Sprintf("Copied %d files from template %s", result.FilesCopied(), result.TemplateName))
	ui.Dim(result.TargetFolder)
	ui.Line()
	for _, file := range result.Files {
		ui.Print(ui.Indent(ui.RenderDim(file), 1))
	}
	ui.Line()
	return nil
}

// completeInputs asks for a missing template or folder. Outside a terminal
// missing inputs are left empty and reported by the materializer.
func (h *handler) completeInputs(ctx context.Context, inputs *Inputs) error {
	if !h.interactive {
		return nil
	}

	if inputs.TemplateName == "" {
		catalog := h.catalog.ListTemplates(ctx)
		if !catalog.Success {
			return fmt.Errorf("failed to list templates: %s", catalog.Error)
		}
		if catalog.Count() == 0 {
			return errors.New("no templates found in the repository")
		}
		name, err := h.prompter.SelectTemplate(catalog.Templates)
		if err != nil {
			return err
		}
		inputs.TemplateName = name
	}

	if inputs.TargetFolder == "" {
		folder, err := h.prompter.TargetFolder()
		if err != nil {
			return err
		}
		inputs.TargetFolder = folder
	}
	return nil
}

func (h *handler) confirmTarget(folder string) (bool, error) {
	target, err := transformation.ResolvePath(folder)
	if err != nil {
		// Let the materializer report unusable paths.
		return true, nil
	}

	entries, err := os.ReadDir(target)
	if err != nil || len(entries) == 0 {
		return true, nil
	}
	return h.prompter.ConfirmOverwrite(target)
}

type huhPrompter struct{}

func (huhPrompter) SelectTemplate(templates []templaterepo.TemplateDescriptor) (string, error) {
	options := make([]ui.SelectOption[string], len(templates))
	for i, t := range templates {
		options[i] = ui.SelectOption[string]{Label: t.Name, Value: t.Name}
	}
	return ui.Select("Which template do you want to use?", options)
}

func (huhPrompter) TargetFolder() (string, error) {
	return ui.Input("Target folder", ".",
		ui.WithInputDescription("Created when missing. ~ and relative paths are allowed."),
		ui.WithValidate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("target folder is required")
			}
			return nil
		}),
	)
}

func (huhPrompter) ConfirmOverwrite(target string) (bool, error) {
	return ui.Confirm(fmt.Sprintf("%s is not empty. Copy the template into it?", target),
		ui.WithDescription("Existing files with the same path are overwritten."),
		ui.WithLabels("Copy", "Cancel"),
	)
}
