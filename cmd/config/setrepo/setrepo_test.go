package setrepo

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getstack/getstack-mcp/internal/templateconfig"
	"github.com/getstack/getstack-mcp/internal/templaterepo"
	"github.com/getstack/getstack-mcp/internal/testutil"
)

const existingConfig = `repository:
  owner: old-org
  repo: old-templates
apiUrl: https://ghe.example.com/api/v3/repos/old-org/old-templates
cloneUrl: git@ghe.example.com:old-org/old-templates.git
`

func newTestHandler(t *testing.T) (*handler, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return &handler{
		log:        testutil.NewTestLogger(),
		configPath: filepath.Join(t.TempDir(), ".getstack", "config.yaml"),
		out:        &buf,
	}, &buf
}

func TestExecute_CreatesConfig(t *testing.T) {
	h, buf := newTestHandler(t)

	require.NoError(t, h.Execute("acme/starters@next", false))

	cfg, err := templateconfig.LoadFile(testutil.NewTestLogger(), h.configPath)
	require.NoError(t, err)
	assert.Equal(t, templaterepo.RepoSource{Owner: "acme", Repo: "starters", Ref: "next"}, cfg.Source())
	assert.Contains(t, buf.String(), "Template repository set to acme/starters@next")
}

func TestExecute_ReplacesRepositoryAndURLs(t *testing.T) {
	h, _ := newTestHandler(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(h.configPath), 0750))
	require.NoError(t, os.WriteFile(h.configPath, []byte(existingConfig), 0600))

	require.NoError(t, h.Execute("acme/starters", false))

	cfg, err := templateconfig.LoadFile(testutil.NewTestLogger(), h.configPath)
	require.NoError(t, err)
	assert.Equal(t, "acme/starters", cfg.Source().String())
	assert.Empty(t, cfg.APIURL)
	assert.Empty(t, cfg.CloneURL)
}

func TestExecute_KeepURLs(t *testing.T) {
	h, _ := newTestHandler(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(h.configPath), 0750))
	require.NoError(t, os.WriteFile(h.configPath, []byte(existingConfig), 0600))

	require.NoError(t, h.Execute("acme/starters", true))

	cfg, err := templateconfig.LoadFile(testutil.NewTestLogger(), h.configPath)
	require.NoError(t, err)
	assert.Equal(t, "acme/starters", cfg.Source().String())
	assert.Equal(t, "git@ghe.example.com:old-org/old-templates.git", cfg.CloneURL)
}

func TestExecute_InvalidRepo(t *testing.T) {
	h, _ := newTestHandler(t)

	err := h.Execute("not-a-repo", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid repo format")
	assert.NoFileExists(t, h.configPath)
}
