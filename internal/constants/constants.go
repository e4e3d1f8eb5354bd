package constants

import (
	"time"
)

const (
	// Default template repository
	DefaultRepoOwner = "coderroleggg"
	DefaultRepoName  = "getstack-templates"

	DefaultGitHubAPIBase = "https://api.github.com"
	DefaultGitHubBase    = "https://github.com"

	// Timeouts
	DefaultHTTPTimeout  = 10 * time.Second
	DefaultCloneTimeout = 2 * time.Minute

	// Files
	DefaultEnvFileName = ".env"
	ConfigDirName      = ".getstack"
	ConfigFileName     = "config.yaml"

	// Environment variables are GETSTACK_<FLAG NAME>, e.g. GETSTACK_API_URL
	EnvPrefix = "GETSTACK"

	// MCP
	ServerName       = "GetStack Templates MCP"
	ToolGetTemplates = "get_templates"
	ToolUseTemplate  = "use_template"
	ArgTemplateName  = "template_name"
	ArgCurrentFolder = "current_folder"
)
