package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/roasbeef/gensrv/internal/baselib/genserver"
	"github.com/roasbeef/gensrv/internal/counter"
	"github.com/spf13/cobra"
)

var asyncCallDelta int

// asyncCallCmd demonstrates Server.AsyncCall: submit an increment and await
// its Future from the calling goroutine, rather than blocking inside Call
// itself.
var asyncCallCmd = &cobra.Command{
	Use:   "async-call",
	Short: "Increment a counter via AsyncCall and await the Future",
	RunE: func(_ *cobra.Command, _ []string) error {
		srv := counter.New()
		defer srv.Cast(context.Background(), genserver.StopMessage)

		ctx, cancel := context.WithTimeout(
			context.Background(), 5*time.Second,
		)
		defer cancel()

		future := srv.AsyncCall(ctx, counter.Increment{Delta: asyncCallDelta})

		result, err := future.Await(ctx)
		if err != nil {
			return fmt.Errorf("awaiting async-call future: %w", err)
		}

		fmt.Printf("async-call result: status=%s value=%v\n",
			result.Status, result.Value)

		return nil
	},
}

func init() {
	asyncCallCmd.Flags().IntVar(
		&asyncCallDelta, "delta", 1, "Amount to add to the counter",
	)
}
