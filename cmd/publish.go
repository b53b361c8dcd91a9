package cmd

import (
	"github.com/spf13/cobra"

	"github.com/circuitfolio/folio/internal/publish"
)

var skipBuild bool

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Uploads the built site to an S3-compatible bucket",
	Long: `The publish command builds the site (unless --skip-build is given) and uploads
the output directory to publish.bucket under publish.prefix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if appConfig.Publish.Bucket == "" {
			return publish.ErrBucketRequired
		}
		if !skipBuild {
			if err := runBuild(ctx); err != nil {
				return err
			}
		}
		client, err := publish.NewClient(ctx, appConfig.Publish)
		if err != nil {
			return err
		}
		p, err := publish.New(client, appConfig.Publish, logger)
		if err != nil {
			return err
		}
		_, err = p.Publish(ctx, appConfig.OutputDir)
		return err
	},
}

func init() {
	publishCmd.Flags().BoolVar(&skipBuild, "skip-build", false, "upload the existing output directory as is")
	rootCmd.AddCommand(publishCmd)
}
