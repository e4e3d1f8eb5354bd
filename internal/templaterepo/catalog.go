package templaterepo

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// Catalog lists the templates offered by the remote repository. A template
// is any directory at the repository root.
type Catalog struct {
	logger *zerolog.Logger
	remote Remote
}

// NewCatalog creates a Catalog backed by remote.
func NewCatalog(logger *zerolog.Logger, remote Remote) *Catalog {
	return &Catalog{logger: logger, remote: remote}
}

// ListTemplates returns the current catalog. Failures are reported in the
// result, never as a Go error.
func (c *Catalog) ListTemplates(ctx context.Context) CatalogResult {
	entries, err := c.remote.ListTopLevel(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to list templates")
		return CatalogResult{Success: false, Error: catalogErrorMessage(err)}
	}

	templates := make([]TemplateDescriptor, 0, len(entries))
	for _, entry := range entries {
		if entry.Type != entryTypeDir {
			continue
		}
		templates = append(templates, TemplateDescriptor{
			Name: entry.Name,
			Path: entry.Path,
			URL:  entry.HTMLURL,
		})
	}

	c.logger.Debug().Int("templates", len(templates)).Int("entries", len(entries)).Msg("Listed templates")
	return CatalogResult{Success: true, Templates: templates}
}

func catalogErrorMessage(err error) string {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "Network error: " + netErr.Error()
	}
	return err.Error()
}
