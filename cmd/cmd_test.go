package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/circuitfolio/folio/internal/catalog"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// resetFlags restores every flag of c and its subcommands to its default so
// values do not leak between runs of the shared command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// stubLoader writes a stand-in for the Go runtime loader.
func stubLoader(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "wasm_exec.js")
	require.NoError(t, os.WriteFile(p, []byte("// loader"), 0o644))
	return p
}

func pageTitle(t *testing.T, index string) string {
	t.Helper()
	f, err := os.Open(index)
	require.NoError(t, err)
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	return doc.Find("title").Text()
}

func TestRenderProject(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := run(t, "render", "project", "Ibex", "--log-level", "error")
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find(`[data-block="actions"] a`).Length())
	require.Equal(t, "document", doc.Find(`[data-block="actions"] a`).AttrOr("data-link", ""))
}

func TestRenderUnknown(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := run(t, "render", "project", "Nope", "--log-level", "error")
	require.ErrorIs(t, err, catalog.ErrRecordNotFound)

	_, err = run(t, "render", "widget", "Ibex", "--log-level", "error")
	require.ErrorContains(t, err, "unknown record kind")
}

func TestSnapshotThenBuildFromSQLite(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	db := filepath.Join(dir, "catalog.db")
	_, err := run(t, "snapshot", db, "--log-level", "error")
	require.NoError(t, err)
	require.FileExists(t, db)

	t.Setenv("FOLIO_CATALOG_SOURCE", "sqlite")
	t.Setenv("FOLIO_CATALOG_SQLITEPATH", db)
	out := filepath.Join(dir, "public")
	_, err = run(t, "build", "--output", out, "--wasm-exec", stubLoader(t), "--log-level", "error")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(out, "index.html"))
	require.Equal(t, "sqlite", appConfig.Catalog.Source)
}

func TestFlagsDoNotLeakBetweenRuns(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := run(t, "build", "--output", filepath.Join(dir, "elsewhere"), "--wasm-exec", stubLoader(t), "--log-level", "error")
	require.NoError(t, err)

	_, err = run(t, "build", "--wasm-exec", stubLoader(t), "--log-level", "error")
	require.NoError(t, err)
	require.Equal(t, "public", appConfig.OutputDir)
	require.FileExists(t, filepath.Join(dir, "public", "index.html"))
}

func TestBuildCopiesLoader(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := run(t, "build", "--wasm-exec", stubLoader(t), "--log-level", "error")
	require.NoError(t, err)

	body, err := os.ReadFile(filepath.Join(dir, "public", "js", "wasm_exec.js"))
	require.NoError(t, err)
	require.Equal(t, "// loader", string(body))
}

func TestBuildFindsLoaderWithoutGOROOT(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("GOROOT", "")

	_, err := run(t, "build", "--log-level", "error")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "public", "js", "wasm_exec.js"))
}

func TestBuildFailsWithoutLoader(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("GOROOT", dir)
	t.Setenv("PATH", dir)

	_, err := run(t, "build", "--log-level", "error")
	require.ErrorIs(t, err, errNoWasmExec)
	require.NoFileExists(t, filepath.Join(dir, "public", "index.html"))
}

func TestServeRebuildReloadsConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfgPath := filepath.Join(dir, "folio.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("siteTitle: Before\n"), 0o644))
	_, err := run(t, "build", "--config", cfgPath, "--wasm-exec", stubLoader(t), "--log-level", "error")
	require.NoError(t, err)
	index := filepath.Join(dir, "public", "index.html")
	require.Equal(t, "Before", pageTitle(t, index))

	require.NoError(t, os.WriteFile(cfgPath, []byte("siteTitle: After\n"), 0o644))
	require.NoError(t, reloadAndBuild(buildCmd)(context.Background()))
	require.Equal(t, "After", pageTitle(t, index))

	// An invalid file keeps the last good configuration.
	require.NoError(t, os.WriteFile(cfgPath, []byte("catalog:\n  source: nowhere\n"), 0o644))
	require.Error(t, reloadAndBuild(buildCmd)(context.Background()))
	require.Equal(t, "After", appConfig.SiteTitle)
}

func TestPublishRequiresBucket(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := run(t, "publish", "--skip-build", "--log-level", "error")
	require.Error(t, err)
	require.Contains(t, err.Error(), "bucket required")
}
