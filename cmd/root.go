package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/getstack/getstack-mcp/cmd/config"
	"github.com/getstack/getstack-mcp/cmd/serve"
	"github.com/getstack/getstack-mcp/cmd/templates"
	"github.com/getstack/getstack-mcp/cmd/version"
	"github.com/getstack/getstack-mcp/internal/constants"
	"github.com/getstack/getstack-mcp/internal/logger"
	"github.com/getstack/getstack-mcp/internal/runtime"
	"github.com/getstack/getstack-mcp/internal/settings"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = newRootCommand()

func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootLogger := createLogger()
	rootViper := createViper()
	return newRootCommandWithContext(runtime.NewContext(rootLogger, rootViper))
}

func newRootCommandWithContext(runtimeContext *runtime.Context) *cobra.Command {
	helpRunE := func(cmd *cobra.Command, args []string) error {
		err := cmd.Help()
		if err != nil {
			return fmt.Errorf("fail to show help: %w", err)
		}
		return nil
	}

	rootCmd := &cobra.Command{
		Use:   "getstack-mcp",
		Short: "GetStack templates MCP server and CLI",
		Long: `Lists the project templates of the GetStack templates repository and copies them into local folders.

Run "getstack-mcp serve" from an MCP host to expose the get_templates and use_template tools,
or use the templates commands directly from a terminal.`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		RunE:              helpRunE,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return preRun(runtimeContext, cmd)
		},
	}

	cobra.AddTemplateFunc("wrappedFlagUsages", func(fs *pflag.FlagSet) string {
		// 100 = wrap width
		return strings.TrimRight(fs.FlagUsagesWrapped(100), "\n")
	})

	rootCmd.SetHelpTemplate(`
{{- with (or .Long .Short)}}{{.}}{{end}}

Usage:
{{- if .Runnable}}
  {{.UseLine}}
{{- end}}
{{- if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]

Available Commands:
{{- range .Commands}}
  {{- if (and (not .Hidden) (.IsAvailableCommand))}}
  {{rpad .Name .NamePadding}}  {{.Short}}
  {{- end}}
{{- end}}
{{- end}}

{{- if .HasExample}}

Examples:
{{.Example}}
{{- end }}

{{- if .HasAvailableLocalFlags}}

Flags:
{{wrappedFlagUsages .LocalFlags}}
{{- end }}

{{- if .HasAvailableInheritedFlags}}

Global Flags:
{{wrappedFlagUsages .InheritedFlags}}
{{- end }}

{{- if .HasAvailableSubCommands }}

Use "{{.CommandPath}} [command] --help" for more information about a command.
{{- end }}
`)

	// Definition of global flags:
	// env file flag is present for every subcommand
	rootCmd.PersistentFlags().StringP(
		settings.Flags.CliEnvFile.Name,
		settings.Flags.CliEnvFile.Short,
		"",
		fmt.Sprintf("Path to a %s file with %s_* variables (default: nearest %s in a parent directory)",
			constants.DefaultEnvFileName, constants.EnvPrefix, constants.DefaultEnvFileName),
	)

	// verbose flag is present in every subcommand
	rootCmd.PersistentFlags().BoolP(
		settings.Flags.Verbose.Name,
		settings.Flags.Verbose.Short,
		false,
		"Run command in VERBOSE mode",
	)

	rootCmd.PersistentFlags().String(
		settings.Flags.LogLevel.Name,
		"",
		"Log level: trace, debug, info, warn, error or off (default info)",
	)

	settings.AddRemoteFlags(rootCmd)
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	templatesCmd := templates.New(runtimeContext)
	configCmd := config.New(runtimeContext)
	templatesCmd.RunE = helpRunE
	configCmd.RunE = helpRunE

	rootCmd.AddCommand(
		serve.New(runtimeContext),
		templatesCmd,
		configCmd,
		version.New(runtimeContext),
	)

	return rootCmd
}

func preRun(runtimeContext *runtime.Context, cmd *cobra.Command) error {
	v := runtimeContext.Viper

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	verbose := v.GetBool(settings.Flags.Verbose.Name)
	if verbose {
		newLogger := runtimeContext.Logger.Level(zerolog.DebugLevel)
		runtimeContext.Logger = &newLogger
	}

	if !isLoadSettings(cmd) {
		return nil
	}

	if err := runtimeContext.AttachSettings(); err != nil {
		return err
	}

	if !verbose && runtimeContext.Settings.LogLevel != "" {
		newLogger := runtimeContext.Logger.Level(logger.ParseLevel(runtimeContext.Settings.LogLevel))
		runtimeContext.Logger = &newLogger
	}
	return nil
}

func isLoadSettings(cmd *cobra.Command) bool {
	// These commands never reach the template repository
	var excludedCommands = map[string]struct{}{
		"version":      {},
		"bash":         {},
		"fish":         {},
		"powershell":   {},
		"zsh":          {},
		"help":         {},
		"getstack-mcp": {},
		"templates":    {},
		"config":       {},
		"set-repo":     {},
	}

	_, exists := excludedCommands[cmd.Name()]
	return !exists
}

func createLogger() *zerolog.Logger {
	return logger.NewConsoleLogger()
}

func createViper() *viper.Viper {
	return viper.New()
}
