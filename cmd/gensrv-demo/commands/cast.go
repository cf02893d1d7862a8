package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/roasbeef/gensrv/internal/baselib/genserver"
	"github.com/roasbeef/gensrv/internal/counter"
	"github.com/spf13/cobra"
)

var castDelta int

// castCmd demonstrates Server.Cast: a fire-and-forget increment, followed
// by a Call(Snapshot{}) to observe that the cast actually landed before
// the process exits.
var castCmd = &cobra.Command{
	Use:   "cast",
	Short: "Fire-and-forget increment a counter via Cast",
	RunE: func(_ *cobra.Command, _ []string) error {
		srv := counter.New()
		defer srv.Cast(context.Background(), genserver.StopMessage)

		ctx, cancel := context.WithTimeout(
			context.Background(), 5*time.Second,
		)
		defer cancel()

		castResult := srv.Cast(ctx, counter.Increment{Delta: castDelta})
		fmt.Printf("cast submitted: status=%s\n", castResult.Status)

		snapshot := srv.Call(ctx, counter.Snapshot{})
		fmt.Printf("counter after cast: value=%v\n", snapshot.Value)

		return nil
	},
}

func init() {
	castCmd.Flags().IntVar(
		&castDelta, "delta", 1, "Amount to add to the counter",
	)
}
