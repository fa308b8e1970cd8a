package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"become/internal/engine"
	"become/internal/ui"
)

func newBadgesCmd() *cobra.Command {
	var unlockedOnly bool

	cmd := &cobra.Command{
		Use:   "badges",
		Short: "Show badge progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			badges, err := svc.Badges(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, fmt.Sprintf("Badges (%d/%d)", engine.CountUnlocked(badges), len(badges))))

			groups := engine.BadgesByCategory(badges)
			for _, c := range engine.BadgeCategories {
				lines := 0
				for _, b := range groups[c] {
					if unlockedOnly && !b.Unlocked {
						continue
					}
					if lines == 0 {
						fmt.Fprintln(out, "")
						fmt.Fprintln(out, ui.H2.Render(c))
					}
					lines++
					mark := "  "
					if b.Unlocked {
						mark = ui.IconDone
					}
					fmt.Fprintf(out, "%s %s %s %s %s\n", mark, b.Name, ui.TierText(b.Tier),
						ui.ProgressBar(b.Progress, b.Threshold, 16),
						ui.Muted.Render(fmt.Sprintf("%d/%d %s", b.Progress, b.Threshold, b.Source)))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unlockedOnly, "unlocked", false, "Only show unlocked badges")
	return cmd
}
