// Package cli implements the fxrates command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"gitlab.com/yelinaung/fxrates/internal/logger"
)

// BuildInfo is stamped into the binary at link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand builds the fxrates command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	return newRootCommand(info, newApp)
}

func newRootCommand(info BuildInfo, factory appFactory) *cobra.Command {
	root := &cobra.Command{
		Use:           "fxrates",
		Short:         "Cached currency rates and conversions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRatesCommand(info, factory),
		newCurrenciesCommand(info, factory),
		newConvertCommand(info, factory),
		newConvertAllCommand(info, factory),
		newServeCommand(info, factory),
		newVersionCommand(info),
	)

	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(info BuildInfo) int {
	root := NewRootCommand(info)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// withApp builds the app, runs fn and always closes the app afterwards.
func withApp(cmd *cobra.Command, info BuildInfo, factory appFactory, fn func(ctx context.Context, a *app, out io.Writer) error) error {
	ctx := cmd.Context()
	a, err := factory(ctx, info)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to close cleanly")
		}
	}()
	return fn(ctx, a, cmd.OutOrStdout())
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fxrates %s (commit: %s, built: %s)\n", info.Version, info.Commit, info.Date)
		},
	}
}
