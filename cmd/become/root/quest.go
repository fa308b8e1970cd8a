package root

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"become/internal/engine"
	"become/internal/ui"
)

func newQuestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quest",
		Short: "Manage quests",
	}
	cmd.AddCommand(newQuestAddCmd(), newQuestListCmd())
	return cmd
}

// parseSchedule accepts RFC 3339 or "2006-01-02 15:04" in the local zone.
func parseSchedule(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid --at %q (want RFC3339 or \"YYYY-MM-DD HH:MM\")", s)
	}
	return &t, nil
}

func newQuestAddCmd() *cobra.Command {
	var identity string
	var xp int
	var description string
	var at string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a quest, optionally linked to an identity",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			loc, err := a.cfg.Location()
			if err != nil {
				return err
			}
			scheduled, err := parseSchedule(at, loc)
			if err != nil {
				return err
			}
			res, err := a.svc.CreateQuest(ctx, engine.CreateQuestInput{
				Title:       args[0],
				Description: description,
				IdentityID:  identity,
				XPReward:    xp,
				ScheduledAt: scheduled,
			})
			if err != nil {
				return err
			}
			q := res.Snapshot.FindQuest(res.CreatedID)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s %s\n", ui.IconPlus, ui.Good.Render("Quest added:"), args[0])
			fmt.Fprintln(out, ui.LabelValue("ID", shortID(res.CreatedID)))
			if q != nil {
				fmt.Fprintln(out, ui.LabelValue("Identity", identityName(res.Snapshot, q.LinkedIdentityID)))
				fmt.Fprintln(out, ui.LabelValue("Reward", fmt.Sprintf("%d XP", q.XPReward)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&identity, "identity", "i", "", "Identity id, id prefix or name")
	cmd.Flags().IntVarP(&xp, "xp", "x", 0, fmt.Sprintf("XP reward (default %d)", engine.DefaultQuestXP))
	cmd.Flags().StringVarP(&description, "description", "d", "", "Optional description")
	cmd.Flags().StringVar(&at, "at", "", "Scheduled time")
	return cmd
}

func newQuestListCmd() *cobra.Command {
	var (
		status string
		today  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quests",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter engine.QuestStatus
			if status != "" {
				s, ok := engine.ParseQuestStatus(status)
				if !ok {
					return fmt.Errorf("invalid status %q (pending|completed|failed|forged)", status)
				}
				filter = s
			}

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
			out := cmd.OutOrStdout()
			quests := snap.Quests
			if today {
				var progress engine.DayProgress
				if quests, progress, err = svc.Today(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, ui.Heading(ui.IconQuest, "Today"))
				fmt.Fprintln(out, ui.LabelValue("Progress", fmt.Sprintf("%d/%d %s", progress.Completed, progress.Total,
					ui.ProgressBar(progress.Completed, progress.Total, 16))))
			} else {
				fmt.Fprintln(out, ui.Heading(ui.IconQuest, "Quests"))
			}
			n := 0
			for _, q := range quests {
				if filter != "" && q.Status != filter {
					continue
				}
				n++
				line := fmt.Sprintf("- %s %s %s %s %s",
					ui.StatusIcon(q.Status),
					ui.Muted.Render(shortID(q.ID)),
					q.Title,
					ui.Muted.Render(fmt.Sprintf("(%s, %d xp)", identityName(snap, q.LinkedIdentityID), q.XPReward)),
					ui.StatusText(q.Status),
				)
				if q.ScheduledAt != nil {
					line += " " + ui.Muted.Render(ui.IconCalendar+" "+q.ScheduledAt.Format("2006-01-02 15:04"))
				}
				fmt.Fprintln(out, line)
				if r := snap.FindReflection(q.ID); r != nil {
					fmt.Fprintf(out, "    %s %s: %s\n", ui.IconScroll, ui.Key.Render(r.Resistance), r.Lesson)
				}
			}
			if n == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none)"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status")
	cmd.Flags().BoolVarP(&today, "today", "t", false, "Only quests planned for today, with progress")
	return cmd
}
