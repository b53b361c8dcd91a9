package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/circuitfolio/folio/internal/detail"
)

var renderCmd = &cobra.Command{
	Use:       "render project|article <id>",
	Short:     "Prints the detail markup of one record",
	Long:      `The render command prints the fragment the detail overlay would show for a record.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"project", "article"},
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCatalog(cmd.Context())
		if err != nil {
			return err
		}
		var r detail.Renderer
		switch args[0] {
		case "project":
			r = detail.NewProjectRenderer(store.Projects)
		case "article":
			r = detail.NewArticleRenderer(store.Articles)
		default:
			return fmt.Errorf("unknown record kind %q (want project or article)", args[0])
		}
		frag, err := r.Render(args[1])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), frag.String())
		return err
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
