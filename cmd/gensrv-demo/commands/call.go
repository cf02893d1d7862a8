package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/roasbeef/gensrv/internal/baselib/genserver"
	"github.com/roasbeef/gensrv/internal/counter"
	"github.com/spf13/cobra"
)

var callDelta int

// callCmd demonstrates Server.Call: a synchronous increment against a
// freshly started counter server.
var callCmd = &cobra.Command{
	Use:   "call",
	Short: "Synchronously increment a counter via Call",
	RunE: func(_ *cobra.Command, _ []string) error {
		srv := counter.New()
		defer srv.Cast(context.Background(), genserver.StopMessage)

		ctx, cancel := context.WithTimeout(
			context.Background(), 5*time.Second,
		)
		defer cancel()

		result := srv.Call(ctx, counter.Increment{Delta: callDelta})
		fmt.Printf("call result: status=%s value=%v err=%v\n",
			result.Status, result.Value, result.Err)

		return nil
	},
}

func init() {
	callCmd.Flags().IntVar(
		&callDelta, "delta", 1, "Amount to add to the counter",
	)
}
