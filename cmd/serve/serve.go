package serve

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/getstack/getstack-mcp/cmd/version"
	"github.com/getstack/getstack-mcp/internal/logger"
	"github.com/getstack/getstack-mcp/internal/mcpserver"
	"github.com/getstack/getstack-mcp/internal/runtime"
	"github.com/getstack/getstack-mcp/internal/settings"
	"github.com/getstack/getstack-mcp/internal/templaterepo"
)

type handler struct {
	log      *zerolog.Logger
	settings *settings.Settings
	in       io.Reader
	out      io.Writer
}

func New(runtimeContext *runtime.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Runs the MCP server on stdio",
		Long: `Runs the MCP server over stdin/stdout, exposing the get_templates and use_template tools.

Configure your MCP host to launch "getstack-mcp serve". Logs are written to stderr as JSON lines.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := newHandler(runtimeContext, cmd.InOrStdin(), cmd.OutOrStdout())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return h.Execute(ctx)
		},
	}

	return cmd
}

func newHandler(runtimeContext *runtime.Context, in io.Reader, out io.Writer) *handler {
	// Stdout carries the protocol, so the server logs JSON to stderr only.
	level := runtimeContext.Logger.GetLevel().String()
	return &handler{
		log:      logger.NewServerLogger(level),
		settings: runtimeContext.Settings,
		in:       in,
		out:      out,
	}
}

func (h *handler) Execute(ctx context.Context) error {
	server, err := h.newServer()
	if err != nil {
		return err
	}

	h.log.Info().
		Str("repository", h.settings.Repository.String()).
		Str("version", version.Version).
		Msg("Starting MCP server")
	return server.Serve(ctx, h.in, h.out)
}

func (h *handler) newServer() (*mcpserver.Server, error) {
	if h.settings == nil {
		return nil, fmt.Errorf("settings are not loaded")
	}

	client := templaterepo.NewClient(h.log, h.settings.ClientConfig())
	materializer, err := templaterepo.NewMaterializer(h.log, client, h.settings.WorkspaceDir)
	if err != nil {
		return nil, err
	}

	catalog := templaterepo.NewCatalog(h.log, client)
	return mcpserver.New(h.log, catalog, materializer, version.Version), nil
}
