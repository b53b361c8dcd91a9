package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/circuitfolio/folio/internal/catalog"
	"github.com/circuitfolio/folio/internal/config"
	"github.com/circuitfolio/folio/internal/logging"
)

var (
	cfgFile   string
	appConfig config.Config
	logger    = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "folio - a content-driven portfolio engine",
	Long: `folio builds a single-page portfolio from a catalog of projects and articles.
The page is generated once at build time; filtering and the detail overlays run
in the browser as a WebAssembly module.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./folio.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("output", "", "output directory")
}

func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()
	if err := v.BindPFlag("logLevel", cmd.Flags().Lookup("log-level")); err != nil {
		return err
	}
	if err := v.BindPFlag("outputDir", cmd.Flags().Lookup("output")); err != nil {
		return err
	}

	cfg, used, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		return err
	}
	appConfig, logger = cfg, log

	if used != "" {
		logger.Debug("using config file", zap.String("file", used))
	} else {
		logger.Debug("no config file found, using defaults and environment")
	}
	return nil
}

// openCatalog loads the catalog selected by catalog.source.
func openCatalog(ctx context.Context) (*catalog.Store, error) {
	switch appConfig.Catalog.Source {
	case config.SourceSQLite:
		logger.Debug("loading catalog snapshot", zap.String("path", appConfig.Catalog.SQLitePath))
		return catalog.LoadSQLite(ctx, appConfig.Catalog.SQLitePath)
	default:
		return catalog.LoadEmbedded()
	}
}
