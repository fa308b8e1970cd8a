package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"become/internal/ui"
)

func questArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("quest id is required")
	}
	return nil
}

func newDoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "do <quest>",
		Short: "Complete a quest (id or unique id prefix)",
		Args:  questArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.CompleteQuest(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", ui.IconDone, ui.Good.Render("Quest completed."))
			printAwards(out, res.Awards)
			return nil
		},
	}
}

func newFailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fail <quest>",
		Short: "Mark a quest as failed (forge it later)",
		Args:  questArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.FailQuest(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", ui.IconFailed, ui.Bad.Render("Quest failed."))
			fmt.Fprintln(out, ui.Muted.Render("Turn it into a lesson: become forge "+shortID(args[0])+" --lesson \"...\""))
			printAwards(out, res.Awards)
			return nil
		},
	}
}
