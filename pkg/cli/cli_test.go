package cli_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/urlfetch/pkg/cli"
	"github.com/m-mizutani/urlfetch/pkg/domain/model"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "hello")
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeInput(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "urls.txt")
	gt.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func TestRun_Fetch(t *testing.T) {
	srv := newTestServer(t)
	outDir := filepath.Join(t.TempDir(), "output")

	input := writeInput(t,
		srv.URL+"/a",
		srv.URL+"/empty",
		srv.URL+"/missing",
		"http://127.0.0.1:1/refused",
		"",
	)

	args := []string{
		"urlfetch",
		"--output", outDir,
		"--log-format", "json",
		"--timeout", "5",
		"--concurrency", "2",
		input,
	}

	// running twice overwrites with the same content
	for range 2 {
		gt.NoError(t, cli.Run(context.Background(), args))

		entries, err := os.ReadDir(outDir)
		gt.NoError(t, err)
		gt.A(t, entries).Length(3)

		body, err := os.ReadFile(filepath.Join(outDir, model.Filename(srv.URL+"/a")))
		gt.NoError(t, err)
		gt.Equal(t, string(body), "hello")

		body, err = os.ReadFile(filepath.Join(outDir, model.Filename(srv.URL+"/empty")))
		gt.NoError(t, err)
		gt.A(t, body).Length(0)

		body, err = os.ReadFile(filepath.Join(outDir, model.Filename(srv.URL+"/missing")))
		gt.NoError(t, err)
		gt.String(t, string(body)).Contains("not found")
	}
}

func TestRun_ConfigFile(t *testing.T) {
	srv := newTestServer(t)
	outDir := filepath.Join(t.TempDir(), "from-config")

	cfgPath := filepath.Join(t.TempDir(), "urlfetch.toml")
	gt.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf(`
output = %q
timeout = 3
concurrency = 0
log_format = "text"
`, outDir)), 0644))

	input := writeInput(t, srv.URL+"/a")
	gt.NoError(t, cli.Run(context.Background(), []string{"urlfetch", "--config", cfgPath, input}))

	body, err := os.ReadFile(filepath.Join(outDir, model.Filename(srv.URL+"/a")))
	gt.NoError(t, err)
	gt.Equal(t, string(body), "hello")
}

func TestRun_InputNamedLikeShortCommand(t *testing.T) {
	srv := newTestServer(t)
	dir := t.TempDir()
	t.Chdir(dir)

	gt.NoError(t, os.WriteFile(filepath.Join(dir, "s"), []byte(srv.URL+"/a\n"), 0644))

	outDir := filepath.Join(dir, "output")
	gt.NoError(t, cli.Run(context.Background(), []string{"urlfetch", "--output", outDir, "s"}))

	body, err := os.ReadFile(filepath.Join(outDir, model.Filename(srv.URL+"/a")))
	gt.NoError(t, err)
	gt.Equal(t, string(body), "hello")
}

func TestRun_FlagsAfterInput(t *testing.T) {
	srv := newTestServer(t)
	outDir := filepath.Join(t.TempDir(), "output")
	input := writeInput(t, srv.URL+"/a")

	gt.NoError(t, cli.Run(context.Background(), []string{"urlfetch", input, "--timeout", "3", "--output", outDir}))

	body, err := os.ReadFile(filepath.Join(outDir, model.Filename(srv.URL+"/a")))
	gt.NoError(t, err)
	gt.Equal(t, string(body), "hello")
}

func TestRun_Errors(t *testing.T) {
	t.Run("no input file argument", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "output")
		gt.Error(t, cli.Run(context.Background(), []string{"urlfetch", "--output", outDir}))
	})

	t.Run("input file does not exist", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "output")
		missing := filepath.Join(t.TempDir(), "nope.txt")
		gt.Error(t, cli.Run(context.Background(), []string{"urlfetch", "--output", outDir, missing}))
	})

	t.Run("output path is a file", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "blocker")
		gt.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
		input := writeInput(t, "http://127.0.0.1:1/")
		gt.Error(t, cli.Run(context.Background(), []string{"urlfetch", "--output", blocker, input}))
	})

	t.Run("invalid log level", func(t *testing.T) {
		input := writeInput(t, "http://127.0.0.1:1/")
		gt.Error(t, cli.Run(context.Background(), []string{"urlfetch", "--log-level", "verbose", input}))
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "output")
		input := writeInput(t, "http://127.0.0.1:1/")
		gt.Error(t, cli.Run(context.Background(), []string{"urlfetch", "--output", outDir, "--timeout", "0", input}))
	})
}
