package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"become/internal/engine"
	"become/internal/ui"
)

func newForgeCmd() *cobra.Command {
	var resistance string
	var lesson string

	cmd := &cobra.Command{
		Use:   "forge <quest>",
		Short: "Forge a failed quest into a lesson",
		Long: `Forge records what got in the way and what you learned.

The quest becomes forged, the reflection earns wisdom XP and the
wisdom streak grows. Pending quests can be forged directly.`,
		Args: questArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.ForgeQuest(ctx, args[0], resistance, lesson)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", ui.IconForge, ui.Forge.Render("Quest forged."))
			printAwards(out, res.Awards)
			return nil
		},
	}

	cmd.Flags().StringVarP(&resistance, "resistance", "r", "", "What got in the way ("+strings.Join(engine.Resistances, ", ")+")")
	cmd.Flags().StringVarP(&lesson, "lesson", "l", "", "What you learned")
	return cmd
}
