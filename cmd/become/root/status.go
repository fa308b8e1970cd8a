package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"become/internal/engine"
	"become/internal/ui"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show identities, streaks and attributes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			snap, err := svc.Snapshot(ctx)
			if err != nil {
				return err
			}
			_, progress, err := svc.Today(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			pending := 0
			for _, q := range snap.Quests {
				if q.Status == engine.QuestPending {
					pending++
				}
			}

			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Status"))
			fmt.Fprintln(out, ui.LabelValue("Total XP", engine.TotalXP(snap)))
			fmt.Fprintln(out, ui.LabelValue("Quests", fmt.Sprintf("%d pending, %d completed", pending, engine.CompletedQuestCount(snap))))
			fmt.Fprintln(out, ui.LabelValue("Today", fmt.Sprintf("%d/%d done (%d%%)", progress.Completed, progress.Total, progress.Percent)))
			fmt.Fprintln(out, ui.LabelValue("Lessons", len(snap.Reflections)))
			fmt.Fprintln(out, ui.LabelValue("Badges", fmt.Sprintf("%d/%d", engine.CountUnlocked(snap.Badges), len(snap.Badges))))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconIdentity+" Identities"))
			if len(snap.Identities) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none)"))
			}
			for _, id := range snap.Identities {
				fmt.Fprintf(out, "- %s L%d %s %s\n", id.Name, engine.LevelForXP(id.XP), ui.LevelBar(id.XP, 20),
					ui.Muted.Render(fmt.Sprintf("%d xp", id.XP)))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconForge+" Streaks"))
			for _, kind := range []engine.StreakKind{engine.StreakDiscipline, engine.StreakWisdom, engine.StreakUsage} {
				st := snap.Streaks.Get(kind)
				fmt.Fprintf(out, "- %s %s %s\n", ui.Key.Render(string(kind)+":"), ui.StreakText(st.Count),
					ui.Muted.Render(fmt.Sprintf("(best %d)", st.Best)))
			}

			scores := engine.AttributeScores(snap)
			if len(scores) > 0 {
				fmt.Fprintln(out, "")
				fmt.Fprintln(out, ui.H2.Render("📊 Attributes"))
				for _, a := range scores {
					fmt.Fprintf(out, "- %s %d\n", ui.Key.Render(a.Name+":"), a.Value)
				}
			}
			return nil
		},
	}
}
