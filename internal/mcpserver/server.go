package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/getstack/getstack-mcp/internal/constants"
	"github.com/getstack/getstack-mcp/internal/logger"
	"github.com/getstack/getstack-mcp/internal/templaterepo"
)

// TemplateLister returns the template catalog.
type TemplateLister interface {
	ListTemplates(ctx context.Context) templaterepo.CatalogResult
}

// TemplateMaterializer copies a template into a local folder.
type TemplateMaterializer interface {
	Materialize(ctx context.Context, req templaterepo.MaterializationRequest) templaterepo.MaterializationResult
}

// Server exposes the template catalog and materializer as MCP tools.
type Server struct {
	logger       *zerolog.Logger
	catalog      TemplateLister
	materializer TemplateMaterializer
	mcpServer    *server.MCPServer
}

// New creates a Server and registers get_templates and use_template.
func New(logger *zerolog.Logger, catalog TemplateLister, materializer TemplateMaterializer, version string) *Server {
	s := &Server{
		logger:       logger,
		catalog:      catalog,
		materializer: materializer,
		mcpServer: server.NewMCPServer(
			constants.ServerName,
			version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Serve speaks the MCP stdio protocol on in and out until ctx is cancelled
// or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	session := uuid.NewString()
	s.logger.Info().Str("session", session).Msg("MCP server listening on stdio")

	stdio := server.NewStdioServer(s.mcpServer)
	err := stdio.Listen(ctx, in, out)

	s.logger.Info().Str("session", session).Msg("MCP server stopped")
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp stdio server: %w", err)
	}
	return nil
}

func (s *Server) registerTools() {
	getTemplates := mcp.NewTool(constants.ToolGetTemplates,
		mcp.WithDescription("List the project templates available in the GetStack templates repository. "+
			"Returns {success, templates: [{name, path, url}], count}."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.mcpServer.AddTool(getTemplates, s.handleGetTemplates)

	useTemplate := mcp.NewTool(constants.ToolUseTemplate,
		mcp.WithDescription("Copy every file of a template into a local folder. The folder is created "+
			"when missing and existing files with the same path are overwritten. "+
			"Returns {success, template_name, target_folder, files_copied, files}."),
		mcp.WithString(constants.ArgTemplateName,
			mcp.Required(),
			mcp.Description("Name of the template, as returned by get_templates"),
		),
		mcp.WithString(constants.ArgCurrentFolder,
			mcp.Required(),
			mcp.Description("Folder to copy the template into. Relative paths and ~ are resolved on the server"),
		),
		mcp.WithDestructiveHintAnnotation(true),
	)
	s.mcpServer.AddTool(useTemplate, s.handleUseTemplate)
}

func (s *Server) handleGetTemplates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.logger.Debug().Str("tool", constants.ToolGetTemplates).Msg("Tool called")

	result := s.catalog.ListTemplates(ctx)
	return jsonResult(result)
}

// handleUseTemplate passes missing arguments through as empty strings so the
// materializer reports them with its own validation messages.
func (s *Server) handleUseTemplate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := templaterepo.MaterializationRequest{
		TemplateName: request.GetString(constants.ArgTemplateName, ""),
		TargetFolder: request.GetString(constants.ArgCurrentFolder, ""),
	}
	s.logger.Debug().
		Str("tool", constants.ToolUseTemplate).
		Object("args", logger.Fields(request.GetArguments())).
		Msg("Tool called")

	result := s.materializer.Materialize(ctx, req)
	return jsonResult(result)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
