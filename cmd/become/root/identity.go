package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"become/internal/engine"
	"become/internal/ui"
)

func newIdentityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "identity",
		Aliases: []string{"id"},
		Short:   "Manage identities",
	}
	cmd.AddCommand(newIdentityAddCmd(), newIdentityListCmd())
	return cmd
}

func newIdentityAddCmd() *cobra.Command {
	var category string
	var attributes string
	var description string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create an identity you want to grow into",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.CreateIdentity(ctx, engine.CreateIdentityInput{
				Name:        args[0],
				Category:    engine.ParseCategory(category),
				Description: description,
				Attributes:  engine.ParseAttributes(attributes),
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s %s\n", ui.IconPlus, ui.Good.Render("Identity created:"), args[0])
			fmt.Fprintln(out, ui.LabelValue("ID", shortID(res.CreatedID)))
			printAwards(out, res.Awards)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Category ("+strings.Join(engine.Categories, ", ")+" or free text)")
	cmd.Flags().StringVarP(&attributes, "attributes", "a", "", "Comma-separated attributes (1-5)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Optional description")
	return cmd
}

func newIdentityListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List identities with level and XP",
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
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconIdentity, "Identities"))
			if len(snap.Identities) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No identities yet. Try: become identity add Writer -c Creative -a Focus"))
				return nil
			}
			for _, id := range snap.Identities {
				lvl := engine.LevelForXP(id.XP)
				fmt.Fprintf(out, "- %s %s %s L%d %s %s\n",
					ui.Muted.Render(shortID(id.ID)),
					ui.H2.Render(id.Name),
					ui.Muted.Render("("+id.Category+")"),
					lvl,
					ui.LevelBar(id.XP, 20),
					ui.Muted.Render(fmt.Sprintf("%d xp, %d to next | %s", id.XP, engine.XPToNextLevel(id.XP), strings.Join(id.Attributes, ", "))),
				)
			}
			return nil
		},
	}
}
