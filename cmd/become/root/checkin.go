package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"become/internal/ui"
)

func newCheckinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkin",
		Short: "Record today's visit for the usage streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.RecordVisit(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.LabelValue("Usage streak", ui.StreakText(res.Snapshot.Streaks.Usage.Count)))
			printAwards(out, res.Awards)
			return nil
		},
	}
}
