package setrepo

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/getstack/getstack-mcp/internal/runtime"
	"github.com/getstack/getstack-mcp/internal/templateconfig"
	"github.com/getstack/getstack-mcp/internal/ui"
)

const keepURLsFlag = "keep-urls"

type handler struct {
	log        *zerolog.Logger
	configPath string
	out        io.Writer
}

func New(runtimeContext *runtime.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-repo <owner/repo[@ref]>",
		Short: "Sets the template repository",
		Long: `Stores the template repository in ~/.getstack/config.yaml. Without @ref the default branch is used.

Custom apiUrl and cloneUrl entries are removed unless --keep-urls is given, so both endpoints follow the new repository.`,
		Args:    cobra.ExactArgs(1),
		Example: "getstack-mcp config set-repo coderroleggg/getstack-templates@main",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := templateconfig.Path()
			if err != nil {
				return err
			}
			keepURLs, _ := cmd.Flags().GetBool(keepURLsFlag)

			h := &handler{log: runtimeContext.Logger, configPath: configPath, out: cmd.OutOrStdout()}
			return h.Execute(args[0], keepURLs)
		},
	}

	cmd.Flags().Bool(keepURLsFlag, false, "Keep custom apiUrl and cloneUrl entries")

	return cmd
}

func (h *handler) Execute(repo string, keepURLs bool) error {
	restore := ui.SetOutput(h.out)
	defer restore()

	source, err := templateconfig.ParseRepoString(repo)
	if err != nil {
		return fmt.Errorf("invalid repo format %q: %w", repo, err)
	}

	cfg, err := templateconfig.LoadFile(h.log, h.configPath)
	if err != nil {
		return err
	}

	cfg.Repository = &templateconfig.TemplateRepo{
		Owner: source.Owner,
		Repo:  source.Repo,
		Ref:   source.Ref,
	}
	if !keepURLs {
		cfg.APIURL = ""
		cfg.CloneURL = ""
	}

	if err := templateconfig.Save(h.configPath, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	h.log.Debug().Str("path", h.configPath).Str("repository", source.String()).Msg("Saved template repository")

	ui.Line()
	ui.Success("Template repository set to " + source.String())
	ui.Dim("Saved to " + h.configPath)
	ui.Line()
	return nil
}
