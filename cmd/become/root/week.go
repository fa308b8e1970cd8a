package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"become/internal/ui"
)

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Summarize the last seven days",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			sum, err := svc.WeeklySummary(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconCalendar, fmt.Sprintf("Week %s → %s",
				sum.Start.Format("2006-01-02"), sum.End.Format("2006-01-02"))))
			if len(sum.Identities) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No quests this week."))
				return nil
			}
			for _, w := range sum.Identities {
				fmt.Fprintf(out, "- %s %s\n", ui.H2.Render(w.IdentityName),
					ui.Muted.Render(fmt.Sprintf("%d quests: %d completed, %d failed, %d forged, +%d xp",
						w.Total, w.Completed, w.Failed, w.Forged, w.XPGained)))
			}
			fmt.Fprintln(out, "")
			fmt.Fprintln(out, ui.LabelValue("Success rate", fmt.Sprintf("%d%%", sum.SuccessRate)))
			fmt.Fprintln(out, ui.LabelValue("Transformation rate", fmt.Sprintf("%d%%", sum.TransformationRate)))
			fmt.Fprintln(out, ui.LabelValue("Lessons", sum.Lessons))
			fmt.Fprintln(out, ui.LabelValue("Total XP", sum.TotalXP))
			return nil
		},
	}
}
