package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/blogem/caseledger/models"
)

// NewColumnsCommand creates the columns command.
func NewColumnsCommand() *cobra.Command {
	var (
		file   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Validate and print the sheet column table",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema := models.DefaultSchema()
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", file, err)
				}
				schema, err = models.ParseSchema(data)
				if err != nil {
					return err
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(schema.Columns())
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "COLUMN\tFIELD\tKIND\tEDITABLE")
			for _, col := range schema.Columns() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", col.Column, col.Field, col.Kind, col.Editable)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "column table yaml to validate instead of the built-in one")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
