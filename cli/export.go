package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command.
func NewExportCommand(root *RootOptions) *cobra.Command {
	var (
		out     string
		serials []int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the case records to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := root.openApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			export, err := app.Services.Export.Export(cmd.Context(), serials)
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = export.FileName
			}
			if err := os.WriteFile(path, export.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", export.Rows, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default records_export_<date>.xlsx)")
	cmd.Flags().IntSliceVar(&serials, "serials", nil, "only export these serials")
	return cmd
}
