package templaterepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/getstack/getstack-mcp/internal/testutil"
)

// fakeRemote serves a fixed repository tree and records what it was asked.
type fakeRemote struct {
	mu sync.Mutex

	exists     bool
	existsErr  error
	fetchErr   error
	panicOn    string
	fetchPanic bool
	tree       map[string]string
	links      map[string]string

	existsCalls int
	fetchDirs   []string
}

func (f *fakeRemote) ListTopLevel(context.Context) ([]RemoteEntry, error) {
	return nil, errors.New("not used")
}

func (f *fakeRemote) EntryExists(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsCalls++
	if f.panicOn == name {
		panic("remote exploded")
	}
	return f.exists, f.existsErr
}

func (f *fakeRemote) ShallowFetch(_ context.Context, destDir string) error {
	f.mu.Lock()
	f.fetchDirs = append(f.fetchDirs, destDir)
	f.mu.Unlock()

	if f.fetchPanic {
		panic("clone exploded")
	}
	if f.fetchErr != nil {
		return f.fetchErr
	}
	for rel, target := range f.links {
		full := filepath.Join(destDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return err
		}
		if err := os.Symlink(target, full); err != nil {
			return err
		}
	}
	for rel, content := range f.tree {
		full := filepath.Join(destDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

var starterTree = map[string]string{
	"fastapi-starter/main.py":       "from app.routes import routes\n",
	"fastapi-starter/app/routes.py": "routes = []\n",
	"react-vite/package.json":       "{}\n",
	"README.md":                     "# templates\n",
}

func newTestMaterializer(t *testing.T, remote Remote) (*Materializer, string) {
	t.Helper()
	workspaces := t.TempDir()
	m, err := NewMaterializer(testutil.NewTestLogger(), remote, workspaces)
	require.NoError(t, err)
	return m, workspaces
}

func requireNoWorkspaces(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "workspace directories left behind")
}

func TestMaterialize_CopiesTemplate(t *testing.T) {
	remote := &fakeRemote{exists: true, tree: starterTree}
	m, workspaces := newTestMaterializer(t, remote)
	target := filepath.Join(t.TempDir(), "new-project")

	result := m.Materialize(context.Background(), MaterializationRequest{
		TemplateName: "fastapi-starter",
		TargetFolder: target,
	})

	require.True(t, result.Success, result.Error)
	assert.Equal(t, "fastapi-starter", result.TemplateName)
	assert.Equal(t, target, result.TargetFolder)
	assert.Equal(t, []string{"main.py", "app/routes.py"}, result.Files)
	assert.Equal(t, 2, result.FilesCopied())

	got, err := os.ReadFile(filepath.Join(target, "app", "routes.py"))
	require.NoError(t, err)
	assert.Equal(t, "routes = []\n", string(got))
	assert.NoFileExists(t, filepath.Join(target, "package.json"))
	assert.NoFileExists(t, filepath.Join(target, "README.md"))

	requireNoWorkspaces(t, workspaces)

	out, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, fmt.Sprintf(`{
		"success": true,
		"template_name": "fastapi-starter",
		"target_folder": %q,
		"files_copied": 2,
		"files": ["main.py", "app/routes.py"]
	}`, target), string(out))
}

func TestMaterialize_ResolvesRelativeAndHomeTargets(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	remote := &fakeRemote{exists: true, tree: starterTree}
	m, _ := newTestMaterializer(t, remote)

	result := m.Materialize(context.Background(), MaterializationRequest{
		TemplateName: "fastapi-starter",
		TargetFolder: "~/code/../code/app",
	})
	require.True(t, result.Success, result.Error)
	assert.Equal(t, filepath.Join(home, "code", "app"), result.TargetFolder)

	cwd := t.TempDir()
	t.Chdir(cwd)
	result = m.Materialize(context.Background(), MaterializationRequest{
		TemplateName: "fastapi-starter",
		TargetFolder: "relative/app",
	})
	require.True(t, result.Success, result.Error)
	want, err := filepath.Abs(filepath.Join("relative", "app"))
	require.NoError(t, err)
	assert.Equal(t, want, result.TargetFolder)
}

func TestMaterialize_IsIdempotent(t *testing.T) {
	remote := &fakeRemote{exists: true, tree: starterTree}
	m, _ := newTestMaterializer(t, remote)
	target := t.TempDir()
	req := MaterializationRequest{TemplateName: "fastapi-starter", TargetFolder: target}

	first := m.Materialize(context.Background(), req)
	second := m.Materialize(context.Background(), req)

	require.True(t, first.Success, first.Error)
	require.True(t, second.Success, second.Error)
	assert.Equal(t, first.Files, second.Files)
}

func TestMaterialize_ValidationFailsWithoutNetwork(t *testing.T) {
	tests := []struct {
		name    string
		req     MaterializationRequest
		wantErr string
	}{
		{"missing name", MaterializationRequest{TargetFolder: "/tmp/x"}, "Template name is required"},
		{"missing folder", MaterializationRequest{TemplateName: "fastapi-starter"}, "Target folder is required"},
		{"both missing reports name", MaterializationRequest{}, "Template name is required"},
		{"nested name", MaterializationRequest{TemplateName: "a/b", TargetFolder: "/tmp/x"}, "Template name must be a single directory name: a/b"},
		{"parent name", MaterializationRequest{TemplateName: "..", TargetFolder: "/tmp/x"}, "Template name must be a single directory name: .."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := &fakeRemote{exists: true, tree: starterTree}
			m, _ := newTestMaterializer(t, remote)

			result := m.Materialize(context.Background(), tt.req)

			assert.False(t, result.Success)
			assert.Equal(t, tt.wantErr, result.Error)
			assert.Zero(t, remote.existsCalls)
			assert.Empty(t, remote.fetchDirs)
		})
	}
}

func TestMaterialize_TemplateNotInRepository(t *testing.T) {
	remote := &fakeRemote{exists: false, tree: starterTree}
	m, workspaces := newTestMaterializer(t, remote)
	target := filepath.Join(t.TempDir(), "out")

	result := m.Materialize(context.Background(), MaterializationRequest{
		TemplateName: "nonexistent-xyz",
		TargetFolder: target,
	})

	assert.False(t, result.Success)
	assert.Equal(t, "Template 'nonexistent-xyz' not found in the repository", result.Error)
	assert.Empty(t, remote.fetchDirs)
	requireNoWorkspaces(t, workspaces)

	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	assert.Empty(t, entries)

	out, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": false, "error": "Template 'nonexistent-xyz' not found in the repository"}`, string(out))
}

func TestMaterialize_TemplateMissingFromClone(t *testing.T) {
	remote := &fakeRemote{exists: true, tree: map[string]string{"other/file.txt": "x"}}
	m, workspaces := newTestMaterializer(t, remote)

	result := m.Materialize(context.Background(), MaterializationRequest{
		TemplateName: "fastapi-starter",
		TargetFolder: t.TempDir(),
	})

	assert.False(t, result.Success)
	assert.Equal(t, "Template 'fastapi-starter' not found in the cloned repository", result.Error)
	require.Len(t, remote.fetchDirs, 1)
	assert.NoDirExists(t, remote.fetchDirs[0])
	requireNoWorkspaces(t, workspaces)
}

func TestMaterialize_TemplateIsAFileInClone(t *testing.T) {
	remote := &fakeRemote{exists: true, tree: map[string]string{"fastapi-starter": "not a dir"}}
	m, _ := newTestMaterializer(t, remote)

	result := m.Materialize(context.Background(), MaterializationRequest{
		TemplateName: "fastapi-starter",
		TargetFolder: t.TempDir(),
	})

	assert.False(t, result.Success)
	assert.Equal(t, "Template 'fastapi-starter' not found in the cloned repository", result.Error)
}

func TestMaterialize_FetchFailureReleasesWorkspace(t *testing.T) {
	remote := &fakeRemote{
		exists:   true,
		fetchErr: &FetchFailure{Message: "failed to clone repository https://example.test/t.git", Err: errors.New("authentication required")},
	}
	m, workspaces := newTestMaterializer(t, remote)
	target := t.TempDir()

	result := m.Materialize(context.Background(), MaterializationRequest{
		TemplateName: "fastapi-starter",
		TargetFolder: target,
	})

	assert.False(t, result.Success)
	assert.Equal(t, "failed to clone repository https://example.test/t.git: authentication required", result.Error)
	requireNoWorkspaces(t, workspaces)

	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMaterialize_CheckFailureStatus(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, testAPIURL+"/contents/fastapi-starter",
		httpmock.NewStringResponder(http.StatusBadGateway, ""))
	m, workspaces := newTestMaterializer(t, client)

	result := m.Materialize(context.Background(), MaterializationRequest{
		TemplateName: "fastapi-starter",
		TargetFolder: t.TempDir(),
	})

	assert.False(t, result.Success)
	assert.Equal(t, "Failed to check template. Status code: 502", result.Error)
	requireNoWorkspaces(t, workspaces)
}

func TestMaterialize_TargetIsAFile(t *testing.T) {
	remote := &fakeRemote{exists: true, tree: starterTree}
	m, _ := newTestMaterializer(t, remote)

	file := filepath.Join(t.TempDir(), "taken")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	result := m.Materialize(context.Background(), MaterializationRequest{
		TemplateName: "fastapi-starter",
		TargetFolder: file,
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "failed to create target folder")
	assert.Zero(t, remote.existsCalls)
}

func TestMaterialize_RecoversFromPanic(t *testing.T) {
	remote := &fakeRemote{exists: true, panicOn: "fastapi-starter"}
	m, workspaces := newTestMaterializer(t, remote)

	result := m.Materialize(context.Background(), MaterializationRequest{
		TemplateName: "fastapi-starter",
		TargetFolder: t.TempDir(),
	})

	assert.False(t, result.Success)
	assert.Equal(t, "unexpected error: remote exploded", result.Error)
	requireNoWorkspaces(t, workspaces)
}

func TestMaterialize_CopyFailureLeavesTargetEmpty(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need extra privileges on windows")
	}

	remote := &fakeRemote{
		exists: true,
		tree:   starterTree,
		links:  map[string]string{"fastapi-starter/zz-settings.py": "missing-settings.py"},
	}
	m, workspaces := newTestMaterializer(t, remote)
	target := t.TempDir()

	result := m.Materialize(context.Background(), MaterializationRequest{
		TemplateName: "fastapi-starter",
		TargetFolder: target,
	})

	assert.False(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Error, "failed to copy zz-settings.py"), result.Error)
	requireNoWorkspaces(t, workspaces)

	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	assert.Empty(t, entries, "no partial files may remain in the target")
}

func TestMaterialize_PanicDuringFetchReleasesWorkspace(t *testing.T) {
	remote := &fakeRemote{exists: true, fetchPanic: true}
	m, workspaces := newTestMaterializer(t, remote)

	result := m.Materialize(context.Background(), MaterializationRequest{
		TemplateName: "fastapi-starter",
		TargetFolder: t.TempDir(),
	})

	assert.False(t, result.Success)
	assert.Equal(t, "unexpected error: clone exploded", result.Error)
	require.Len(t, remote.fetchDirs, 1)
	requireNoWorkspaces(t, workspaces)
}

func TestMaterialize_LogsInvocationFields(t *testing.T) {
	logger, buf := testutil.NewBufferedLogger()
	remote := &fakeRemote{exists: true, tree: starterTree}
	m, err := NewMaterializer(logger, remote, t.TempDir())
	require.NoError(t, err)

	result := m.Materialize(context.Background(), MaterializationRequest{
		TemplateName: "fastapi-starter",
		TargetFolder: t.TempDir(),
	})
	require.True(t, result.Success, result.Error)

	assert.Contains(t, buf.String(), `"template":"fastapi-starter"`)
	assert.Contains(t, buf.String(), `"invocation":"`)
	assert.Contains(t, buf.String(), `"files":2`)
}

func TestMaterialize_ConcurrentInvocations(t *testing.T) {
	remote := &fakeRemote{exists: true, tree: starterTree}
	m, workspaces := newTestMaterializer(t, remote)

	const n = 8
	targets := make([]string, n)
	results := make([]MaterializationResult, n)

	var g errgroup.Group
	for i := range n {
		targets[i] = filepath.Join(t.TempDir(), fmt.Sprintf("project-%d", i))
		g.Go(func() error {
			results[i] = m.Materialize(context.Background(), MaterializationRequest{
				TemplateName: "fastapi-starter",
				TargetFolder: targets[i],
			})
			return nil
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[string]struct{})
	for i, result := range results {
		require.True(t, result.Success, result.Error)
		assert.Equal(t, targets[i], result.TargetFolder)
		assert.FileExists(t, filepath.Join(targets[i], "app", "routes.py"))
	}
	for _, dir := range remote.fetchDirs {
		_, dup := seen[dir]
		assert.False(t, dup, "workspace %s reused", dir)
		seen[dir] = struct{}{}
	}
	assert.Len(t, seen, n)
	requireNoWorkspaces(t, workspaces)
}

func TestMaterialize_EndToEndWithGitRepository(t *testing.T) {
	testutil.RequireGitUploadPack(t)

	repoDir := testutil.NewGitRepo(t, map[string]testutil.RepoFile{
		"fastapi-starter/main.py":       {Content: "from app.routes import routes\n"},
		"fastapi-starter/app/routes.py": {Content: "routes = []\n"},
		"fastapi-starter/run.sh":        {Content: "#!/bin/sh\nuvicorn main:app\n", Mode: 0755},
		"react-vite/package.json":       {Content: "{}\n"},
	})

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodGet, testAPIURL+"/contents/fastapi-starter",
		httpmock.NewStringResponder(http.StatusOK, `[]`))
	transport.RegisterResponder(http.MethodGet, testAPIURL+"/contents/nonexistent-xyz",
		httpmock.NewStringResponder(http.StatusNotFound, `{"message":"Not Found"}`))

	client := NewClientWithHTTP(testutil.NewTestLogger(), &http.Client{Transport: transport}, ClientConfig{
		APIURL:   testAPIURL,
		CloneURL: testutil.FileURL(repoDir),
	})
	m, workspaces := newTestMaterializer(t, client)
	target := filepath.Join(t.TempDir(), "new-project")

	result := m.Materialize(context.Background(), MaterializationRequest{
		TemplateName: "fastapi-starter",
		TargetFolder: target,
	})
	require.True(t, result.Success, result.Error)
	assert.Equal(t, []string{"main.py", "run.sh", "app/routes.py"}, result.Files)
	assert.NoDirExists(t, filepath.Join(target, ".git"))

	info, err := os.Stat(filepath.Join(target, "run.sh"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0100, "executable bit should survive the clone and copy")

	missing := m.Materialize(context.Background(), MaterializationRequest{
		TemplateName: "nonexistent-xyz",
		TargetFolder: target,
	})
	assert.False(t, missing.Success)
	assert.Equal(t, "Template 'nonexistent-xyz' not found in the repository", missing.Error)

	requireNoWorkspaces(t, workspaces)
}
