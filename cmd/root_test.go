package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getstack/getstack-mcp/internal/logger"
	"github.com/getstack/getstack-mcp/internal/runtime"
	"github.com/getstack/getstack-mcp/internal/testutil"
)

// isolate keeps the user's home config, .env files and GETSTACK_* variables
// out of the command under test.
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Chdir(t.TempDir())
	for _, name := range []string{"GETSTACK_REPO", "GETSTACK_API_URL", "GETSTACK_CLONE_URL", "GETSTACK_LOG_LEVEL"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRoot_Version(t *testing.T) {
	isolate(t)
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "getstack-mcp")
}

func TestRoot_Help(t *testing.T) {
	isolate(t)
	out, err := run(t, "--help")
	require.NoError(t, err)
	for _, name := range []string{"serve", "templates", "config", "version"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "--repo")
}

func TestRoot_TemplatesListJSON(t *testing.T) {
	isolate(t)
	server := testutil.NewContentsServer(t, []string{"fastapi-starter"}, []string{"README.md"})

	out, err := run(t, "templates", "list", "--json", "--api-url", server.URL)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": true,
		"templates": [{"name": "fastapi-starter", "path": "fastapi-starter", "url": "https://github.test/tree/main/fastapi-starter"}],
		"count": 1
	}`, out)
}

func TestRoot_InvalidRepoFlag(t *testing.T) {
	isolate(t)
	_, err := run(t, "templates", "list", "--repo", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --repo")
}

func TestRoot_VerboseAndLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		level zerolog.Level
	}{
		{"default", nil, zerolog.InfoLevel},
		{"verbose", []string{"--verbose"}, zerolog.DebugLevel},
		{"log level", []string{"--log-level", "warn"}, zerolog.WarnLevel},
		{"verbose wins", []string{"-v", "--log-level", "error"}, zerolog.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			log := logger.New(logger.WithLevel("info"), logger.WithOutput(&bytes.Buffer{}))
			runtimeContext := runtime.NewContext(log, viper.New())
			root := newRootCommandWithContext(runtimeContext)
			root.AddCommand(&cobra.Command{
				Use: "probe",
				RunE: func(cmd *cobra.Command, args []string) error {
					return nil
				},
			})
			root.SetArgs(append([]string{"probe"}, tt.args...))
			root.SetOut(&bytes.Buffer{})

			require.NoError(t, root.Execute())
			level := runtimeContext.Logger.GetLevel()
			assert.Equal(t, tt.level, level)
		})
	}
}

func TestIsLoadSettings(t *testing.T) {
	assert.False(t, isLoadSettings(&cobra.Command{Use: "version"}))
	assert.False(t, isLoadSettings(&cobra.Command{Use: "set-repo <owner/repo[@ref]>"}))
	assert.True(t, isLoadSettings(&cobra.Command{Use: "list"}))
	assert.True(t, isLoadSettings(&cobra.Command{Use: "serve"}))
}
