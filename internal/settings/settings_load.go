package settings

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/getstack/getstack-mcp/internal/constants"
)

type Flag struct {
	Name  string
	Short string
}

type flagNames struct {
	Repo         Flag
	APIURL       Flag
	CloneURL     Flag
	HTTPTimeout  Flag
	CloneTimeout Flag
	WorkspaceDir Flag
	CliEnvFile   Flag
	Verbose      Flag
	LogLevel     Flag
	JSON         Flag
}

var Flags = flagNames{
	Repo:         Flag{"repo", ""},
	APIURL:       Flag{"api-url", ""},
	CloneURL:     Flag{"clone-url", ""},
	HTTPTimeout:  Flag{"http-timeout", ""},
	CloneTimeout: Flag{"clone-timeout", ""},
	WorkspaceDir: Flag{"workspace-dir", ""},
	CliEnvFile:   Flag{"env", "e"},
	Verbose:      Flag{"verbose", "v"},
	LogLevel:     Flag{"log-level", ""},
	JSON:         Flag{"json", ""},
}

// AddRemoteFlags registers the flags describing the template repository and
// how it is reached.
func AddRemoteFlags(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.String(Flags.Repo.Name, "", "Template repository as owner/repo[@ref], ref being a branch or tag (default "+constants.DefaultRepoOwner+"/"+constants.DefaultRepoName+")")
	fs.String(Flags.APIURL.Name, "", "Repository contents API base URL (default derived from --repo)")
	fs.String(Flags.CloneURL.Name, "", "Git URL to clone templates from (default derived from --repo)")
	fs.Duration(Flags.HTTPTimeout.Name, constants.DefaultHTTPTimeout, "Timeout for each contents API request")
	fs.Duration(Flags.CloneTimeout.Name, constants.DefaultCloneTimeout, "Timeout for cloning the template repository")
	fs.String(Flags.WorkspaceDir.Name, "", "Directory for temporary clones (default system temp dir)")
}

// AddJSONFlag registers --json on a command that can print machine readable output.
func AddJSONFlag(cmd *cobra.Command) {
	cmd.Flags().Bool(Flags.JSON.Name, false, "Print the result as JSON")
}

// BindEnv maps every flag to GETSTACK_<FLAG>, with dashes turned into
// underscores, e.g. --api-url to GETSTACK_API_URL.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	for _, name := range []string{
		Flags.Repo.Name,
		Flags.APIURL.Name,
		Flags.CloneURL.Name,
		Flags.HTTPTimeout.Name,
		Flags.CloneTimeout.Name,
		Flags.WorkspaceDir.Name,
		Flags.LogLevel.Name,
	} {
		if err := v.BindEnv(name); err != nil {
			return fmt.Errorf("failed to bind environment variable for %s: %w", name, err)
		}
	}

	v.AutomaticEnv()
	return nil
}

// EnvVarName returns the environment variable read for a flag.
func EnvVarName(flag Flag) string {
	return constants.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flag.Name, "-", "_"))
}
