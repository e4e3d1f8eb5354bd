package templaterepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/getstack/getstack-mcp/internal/transformation"
	"github.com/getstack/getstack-mcp/internal/validation"
)

// Materializer copies one template from the remote repository into a local
// folder. It keeps no state between calls, so one value can serve concurrent
// requests.
type Materializer struct {
	logger       *zerolog.Logger
	remote       Remote
	validator    *validation.Validator
	workspaceDir string
}

// NewMaterializer creates a Materializer. Workspaces are created under
// workspaceDir, or under the system temp dir when it is empty.
func NewMaterializer(logger *zerolog.Logger, remote Remote, workspaceDir string) (*Materializer, error) {
	v, err := validation.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}
	return &Materializer{
		logger:       logger,
		remote:       remote,
		validator:    v,
		workspaceDir: workspaceDir,
	}, nil
}

// Materialize copies the template named in req into req.TargetFolder. Errors
// never escape: every failure is reported through the result.
func (m *Materializer) Materialize(ctx context.Context, req MaterializationRequest) (result MaterializationResult) {
	log := m.logger.With().
		Str("invocation", uuid.NewString()).
		Str("template", req.TemplateName).
		Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Template materialization panicked")
			result = MaterializationResult{Success: false, Error: fmt.Sprintf("unexpected error: %v", r)}
		}
	}()

	target, files, err := m.materialize(ctx, &log, req)
	if err != nil {
		log.Warn().Err(err).Msg("Template materialization failed")
		return MaterializationResult{Success: false, Error: err.Error()}
	}

	log.Info().Str("target", target).Int("files", len(files)).Msg("Template materialized")
	return MaterializationResult{
		Success:      true,
		TemplateName: req.TemplateName,
		TargetFolder: target,
		Files:        files,
	}
}

func (m *Materializer) materialize(ctx context.Context, log *zerolog.Logger, req MaterializationRequest) (string, []string, error) {
	if err := m.validator.First(req); err != nil {
		return "", nil, err
	}

	target, err := transformation.ResolveTargetDirectory(req.TargetFolder)
	if err != nil {
		return "", nil, &FilesystemError{Op: "create target folder", Path: req.TargetFolder, Err: err}
	}
	log.Debug().Str("target", target).Msg("Resolved target folder")

	exists, err := m.remote.EntryExists(ctx, req.TemplateName)
	if err != nil {
		return "", nil, err
	}
	if !exists {
		return "", nil, &NotFoundError{Name: req.TemplateName, Where: "repository"}
	}

	ws, err := AcquireWorkspace(log, m.workspaceDir)
	if err != nil {
		return "", nil, err
	}
	defer func() { _ = ws.Release() }()

	if err := m.remote.ShallowFetch(ctx, ws.Dir); err != nil {
		return "", nil, err
	}

	templateRoot := filepath.Join(ws.Dir, req.TemplateName)
	info, err := os.Stat(templateRoot)
	if err != nil || !info.IsDir() {
		return "", nil, &NotFoundError{Name: req.TemplateName, Where: "cloned repository"}
	}

	files, err := CopyTree(log, templateRoot, target)
	if err != nil {
		return "", nil, err
	}
	return target, files, nil
}
