package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/roasbeef/gensrv/internal/baselib/genserver"
	"github.com/roasbeef/gensrv/internal/counter"
	"github.com/spf13/cobra"
)

// startCmd demonstrates a System/Server lifecycle end to end: spin up a
// System, attach a counter server to it, run it for a moment, then shut
// both down cleanly. Real long-lived servers would instead be embedded in
// a host process; this subcommand exists purely to exercise and print the
// lifecycle for the demo.
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a System and a counter server, then shut both down",
	RunE: func(_ *cobra.Command, _ []string) error {
		sys := genserver.NewSystem()

		srv := counter.New(genserver.WithSystem(sys))
		fmt.Printf("started server %q (running=%v)\n", srv.Name(), srv.Running())

		ctx, cancel := context.WithTimeout(
			context.Background(), 5*time.Second,
		)
		defer cancel()

		result := srv.Call(ctx, counter.Increment{Delta: 1})
		fmt.Printf("warm-up increment result: status=%s value=%v\n",
			result.Status, result.Value)

		srv.Call(ctx, genserver.StopMessage)
		fmt.Printf("server %q stopped (running=%v)\n", srv.Name(), srv.Running())

		if err := sys.Shutdown(ctx); err != nil {
			return fmt.Errorf("system shutdown: %w", err)
		}

		fmt.Println("system shut down")

		return nil
	},
}
