package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/circuitfolio/folio/internal/config"
	"github.com/circuitfolio/folio/internal/devserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site locally and rebuilds on changes",
	Long: `The serve command performs an initial build, serves the output directory
and watches the static directory, the config file and the catalog snapshot,
rebuilding the site after changes settle.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := runBuild(ctx); err != nil {
			return fmt.Errorf("initial build failed: %w", err)
		}

		watcher := devserver.NewWatcher(watchPaths(), appConfig.Serve.Debounce, reloadAndBuild(cmd), logger)
		server := devserver.New(appConfig.OutputDir, logger)
		addr := fmt.Sprintf(":%d", appConfig.Serve.Port)

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error { return watcher.Run(ctx) })
		g.Go(func() error { return server.Run(ctx, addr) })
		return g.Wait()
	},
}

// reloadAndBuild re-reads the configuration before each rebuild. An invalid
// file keeps the previous configuration in place.
func reloadAndBuild(cmd *cobra.Command) devserver.RebuildFunc {
	return func(ctx context.Context) error {
		served := appConfig.OutputDir
		port := appConfig.Serve.Port
		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("reload config: %w", err)
		}
		appConfig.Serve.Port = port
		if appConfig.OutputDir != served {
			logger.Warn("outputDir changed; restart serve to serve the new directory",
				zap.String("serving", served), zap.String("outputDir", appConfig.OutputDir))
		}
		return runBuild(ctx)
	}
}

func watchPaths() []string {
	paths := []string{appConfig.StaticDir}
	if cfgFile != "" {
		paths = append(paths, cfgFile)
	}
	if appConfig.Catalog.Source == config.SourceSQLite {
		paths = append(paths, appConfig.Catalog.SQLitePath)
	}
	return paths
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "port to serve the site on (overrides serve.port)")
	serveCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			appConfig.Serve.Port = port
		}
		return nil
	}
	rootCmd.AddCommand(serveCmd)
}
