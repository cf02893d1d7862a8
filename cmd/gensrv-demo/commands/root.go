// Package commands implements the gensrv-demo CLI: a small Cobra
// application that exercises genserver's call/cast/async-call operations
// against the demo counter service, one subcommand per operation, mirroring
// the teacher's cmd/substrate/commands layout at a much smaller scale.
package commands

import (
	"fmt"
	"os"

	"github.com/btcsuite/btclog"
	"github.com/roasbeef/gensrv/internal/baselib/genserver"
	"github.com/roasbeef/gensrv/internal/build"
	"github.com/spf13/cobra"
)

var (
	// logLevel controls the verbosity of the btclog handler wired up in
	// rootCmd's PersistentPreRunE.
	logLevel string
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "gensrv-demo",
	Short: "Demo CLI for the genserver message-processing runtime",
	Long: `gensrv-demo drives the genserver library's call, cast, and
async-call operations against a small in-process counter service, one
subcommand per operation.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, valid := btclog.LevelFromString(logLevel)
		if !valid {
			return fmt.Errorf("invalid --log-level %q", logLevel)
		}

		consoleHandler := btclog.NewDefaultHandler(os.Stderr)
		handlerSet := build.NewHandlerSet(consoleHandler)
		handlerSet.SetLevel(level)

		genserver.UseLogger(btclog.NewSLogger(handlerSet))

		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info",
		"Logging level: trace, debug, info, warn, error, critical, off",
	)

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(castCmd)
	rootCmd.AddCommand(asyncCallCmd)
}
