// Package cli holds the caseledger command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/blogem/caseledger/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile string
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "caseledger",
		Short:         "Case records over a shared spreadsheet",
		Long:          "Serves and maintains legal case records kept in a Google Sheet, with a field-level audit trail.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "load environment from this file before .env")

	// Add subcommands
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewUserCommand(opts))
	cmd.AddCommand(NewColumnsCommand())

	return cmd
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration honoring --env-file
func (o *RootOptions) loadConfig() (config.Config, error) {
	if o.EnvFile != "" {
		if err := config.LoadFile(o.EnvFile); err != nil {
			return config.Config{}, err
		}
	}
	return config.Load(), nil
}

// openApp loads configuration and wires the application
func (o *RootOptions) openApp(ctx context.Context, logOut io.Writer) (*App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return NewApp(ctx, cfg, cfg.NewLogger(logOut))
}
