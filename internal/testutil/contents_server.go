package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// NewContentsServer serves a GitHub style contents API for a repository whose
// root holds dirs and files. Its URL is the API base for a template client.
func NewContentsServer(t *testing.T, dirs, files []string) *httptest.Server {
	t.Helper()

	type entry struct {
		Name    string `json:"name"`
		Path    string `json:"path"`
		Type    string `json:"type"`
		HTMLURL string `json:"html_url"`
	}

	entries := make([]entry, 0, len(dirs)+len(files))
	exists := make(map[string]bool, len(dirs)+len(files))
	for _, name := range dirs {
		entries = append(entries, entry{Name: name, Path: name, Type: "dir", HTMLURL: "https://github.test/tree/main/" + name})
		exists[name] = true
	}
	for _, name := range files {
		entries = append(entries, entry{Name: name, Path: name, Type: "file", HTMLURL: "https://github.test/blob/main/" + name})
		exists[name] = true
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, ok := strings.CutPrefix(r.URL.Path, "/contents/")
		switch {
		case !ok:
			http.NotFound(w, r)
		case name == "":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(entries)
		case exists[name]:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}
