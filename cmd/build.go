package cmd

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/circuitfolio/folio/internal/sitegen"
)

var wasmExec string

var errNoWasmExec = errors.New("wasm_exec.js not found in the Go installation; pass --wasm-exec")

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generates the static site into the output directory",
	Long: `The build command renders index.html from the catalog, writes the bundled
stylesheet and loader script, and copies the static directory (documents,
images and the compiled folio.wasm) into the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd.Context())
	},
}

func runBuild(ctx context.Context) error {
	loader, err := resolveWasmExec(ctx)
	if err != nil {
		return err
	}
	store, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	b := sitegen.New(sitegen.Options{
		SiteTitle:  appConfig.SiteTitle,
		BaseURL:    appConfig.BaseURL,
		OutputDir:  appConfig.OutputDir,
		StaticDir:  appConfig.StaticDir,
		WasmBinary: appConfig.WasmBinary,
		WasmExec:   loader,
	}, store, logger)
	return b.Build(ctx)
}

// resolveWasmExec returns the --wasm-exec flag or the loader shipped with the
// Go installation, found through $GOROOT or `go env GOROOT`.
func resolveWasmExec(ctx context.Context) (string, error) {
	if wasmExec != "" {
		return wasmExec, nil
	}
	if p := wasmExecUnder(os.Getenv("GOROOT")); p != "" {
		return p, nil
	}
	out, err := exec.CommandContext(ctx, "go", "env", "GOROOT").Output()
	if err != nil {
		logger.Debug("go env GOROOT failed", zap.Error(err))
		return "", errNoWasmExec
	}
	root := strings.TrimSpace(string(out))
	if p := wasmExecUnder(root); p != "" {
		return p, nil
	}
	logger.Warn("wasm_exec.js not found under GOROOT", zap.String("goroot", root))
	return "", errNoWasmExec
}

func wasmExecUnder(root string) string {
	if root == "" {
		return ""
	}
	for _, rel := range []string{"lib/wasm/wasm_exec.js", "misc/wasm/wasm_exec.js"} {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func init() {
	buildCmd.Flags().StringVar(&wasmExec, "wasm-exec", "", "path to wasm_exec.js (default: looked up under GOROOT)")
	rootCmd.AddCommand(buildCmd)
}
