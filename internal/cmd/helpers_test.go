package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"

	"labelsync/pkg/config"
)

// resetFlags restores every package-level flag variable, since cobra keeps
// values from previous executions of the shared command tree.
func resetFlags() {
	configPath = ""
	envFile = config.DefaultEnvFile
	syncOrg, syncLabelsFile, syncAPIURL = "", "", ""
	syncDryRun, syncFailOnError = false, false
	serveAddr, serveAPIURL, serveOpen = "", "", false
	authOrg, authAPIURL = "", ""
	initOrg, initForce = "", false
	resetHelp(rootCmd)
}

func resetHelp(cmd *cobra.Command) {
	if f := cmd.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
	}
	for _, child := range cmd.Commands() {
		resetHelp(child)
	}
}

// isolate clears labelsync's environment and returns flags pointing the
// config and .env lookups at an empty temp directory.
func isolate(t *testing.T) (string, []string) {
	t.Helper()
	for _, env := range []string{config.EnvToken, config.EnvOrganization, config.EnvAPIURL, config.EnvListenAddr} {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	return dir, []string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--env-file", filepath.Join(dir, ".env"),
	}
}

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	return executeContext(t, context.Background(), stdin, args...)
}

func executeContext(t *testing.T, ctx context.Context, stdin string, args ...string) result {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := Execute(ctx)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// fakeGitHub serves the REST endpoints labelsync uses for organization "acme"
type fakeGitHub struct {
	mu       sync.Mutex
	repos    []string
	labels   map[string][]map[string]string
	requests []string
	failures map[string]int
}

func newFakeGitHub(t *testing.T, repos ...string) (*fakeGitHub, *httptest.Server) {
	t.Helper()
	f := &fakeGitHub{repos: repos, labels: map[string][]map[string]string{}, failures: map[string]int{}}
	server := httptest.NewServer(f)
	t.Cleanup(server.Close)
	return f, server
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := r.Method + " " + r.URL.Path
	f.requests = append(f.requests, key)
	w.Header().Set("Content-Type", "application/json")

	if status, ok := f.failures[key]; ok {
		w.WriteHeader(status)
		_, _ = fmt.Fprintf(w, `{"message":%q}`, http.StatusText(status))
		return
	}

	switch {
	case key == "GET /user":
		w.Header().Set("X-OAuth-Scopes", "repo")
		_, _ = w.Write([]byte(`{"login":"octocat"}`))
	case key == "GET /orgs/acme":
		_, _ = w.Write([]byte(`{"login":"acme"}`))
	case key == "GET /orgs/acme/repos":
		items := []map[string]any{}
		for _, name := range f.repos {
			items = append(items, map[string]any{"name": name, "owner": map[string]string{"login": "acme"}})
		}
		_ = json.NewEncoder(w).Encode(items)
	case strings.HasPrefix(r.URL.Path, "/repos/acme/") && strings.HasSuffix(r.URL.Path, "/labels"):
		repo := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/repos/acme/"), "/labels")
		if r.Method == http.MethodPost {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.labels[repo] = append(f.labels[repo], body)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(body)
			return
		}
		items := f.labels[repo]
		if items == nil {
			items = []map[string]string{}
		}
		_ = json.NewEncoder(w).Encode(items)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}
}

func (f *fakeGitHub) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, request := range f.requests {
		if strings.HasPrefix(request, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeGitHub) labelNames(repo string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for _, label := range f.labels[repo] {
		names = append(names, label["name"])
	}
	return names
}
