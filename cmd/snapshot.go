package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/circuitfolio/folio/internal/catalog"
)

var snapshotContent string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [path]",
	Short: "Exports the catalog to a SQLite snapshot",
	Long: `The snapshot command writes the catalog to a SQLite file that can later be
selected with catalog.source=sqlite. The catalog is read from --content when set,
otherwise from the content embedded in the binary.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appConfig.Catalog.SQLitePath
		if len(args) == 1 {
			path = args[0]
		}

		var (
			store *catalog.Store
			err   error
		)
		if snapshotContent != "" {
			store, err = catalog.Load(os.DirFS(snapshotContent))
		} else {
			store, err = catalog.LoadEmbedded()
		}
		if err != nil {
			return err
		}
		if err := catalog.WriteSQLite(cmd.Context(), path, store); err != nil {
			return err
		}
		logger.Info("catalog snapshot written", zap.String("path", path))
		return nil
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotContent, "content", "", "content directory holding projects.yaml and articles/")
	rootCmd.AddCommand(snapshotCmd)
}
