package templaterepo

import "encoding/json"

// RemoteEntry is one item returned by the repository contents API.
type RemoteEntry struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Type    string `json:"type"` // "dir", "file", "symlink" or "submodule"
	HTMLURL string `json:"html_url"`
}

// entryTypeDir marks a top-level directory, which is what a template is.
const entryTypeDir = "dir"

// TemplateDescriptor is one template of the catalog.
type TemplateDescriptor struct {
	Name string `json:"name"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

// RepoSource identifies a GitHub repository and an optional ref.
type RepoSource struct {
	Owner string
	Repo  string
	Ref   string // Branch name; empty means the default branch
}

// String returns "owner/repo" or "owner/repo@ref".
func (r RepoSource) String() string {
	if r.Ref == "" {
		return r.Owner + "/" + r.Repo
	}
	return r.Owner + "/" + r.Repo + "@" + r.Ref
}

// MaterializationRequest is the input of Materialize.
type MaterializationRequest struct {
	TemplateName string `validate:"required,template_name" cli:"Template name"`
	TargetFolder string `validate:"required" cli:"Target folder"`
}

// MaterializationResult is the outcome of Materialize. On failure only
// Success and Error are serialized.
type MaterializationResult struct {
	Success      bool
	TemplateName string
	TargetFolder string
	Files        []string
	Error        string
}

// FilesCopied returns the number of copied files.
func (r MaterializationResult) FilesCopied() int {
	return len(r.Files)
}

func (r MaterializationResult) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(failureResult{Success: false, Error: r.Error})
	}
	files := r.Files
	if files == nil {
		files = []string{}
	}
	return json.Marshal(struct {
		Success      bool     `json:"success"`
		TemplateName string   `json:"template_name"`
		TargetFolder string   `json:"target_folder"`
		FilesCopied  int      `json:"files_copied"`
		Files        []string `json:"files"`
	}{
		Success:      true,
		TemplateName: r.TemplateName,
		TargetFolder: r.TargetFolder,
		FilesCopied:  len(files),
		Files:        files,
	})
}

// CatalogResult is the outcome of ListTemplates. On failure only Success and
// Error are serialized.
type CatalogResult struct {
	Success   bool
	Templates []TemplateDescriptor
	Error     string
}

// Count returns the number of templates in the catalog.
func (r CatalogResult) Count() int {
	return len(r.Templates)
}

func (r CatalogResult) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(failureResult{Success: false, Error: r.Error})
	}
	templates := r.Templates
	if templates == nil {
		templates = []TemplateDescriptor{}
	}
	return json.Marshal(struct {
		Success   bool                 `json:"success"`
		Templates []TemplateDescriptor `json:"templates"`
		Count     int                  `json:"count"`
	}{
		Success:   true,
		Templates: templates,
		Count:     len(templates),
	})
}

type failureResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
