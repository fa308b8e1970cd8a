package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"become/internal/ui"
)

func newLogCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log [text]",
		Short: "Write a journal entry, or list recent ones when no text is given",
		Example: `  become log "Petite victoire: 500 words before breakfast"
  become log -n 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if text := strings.TrimSpace(strings.Join(args, " ")); text != "" {
				res, err := svc.CreateLog(ctx, text)
				if err != nil {
					return err
				}
				entry := res.Snapshot.Logs[len(res.Snapshot.Logs)-1]
				fmt.Fprintf(out, "%s Logged %s %s\n", ui.LogIcon(entry.Type), ui.Key.Render(string(entry.Type)), ui.Muted.Render(shortID(entry.ID)))
				printAwards(out, res.Awards)
				return nil
			}

			logs, err := svc.Logs(ctx, limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Heading(ui.IconJournal, "Journal"))
			if len(logs) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(empty)"))
			}
			for _, l := range logs {
				fmt.Fprintf(out, "%s %s %s\n", ui.LogIcon(l.Type), ui.Muted.Render(l.CreatedAt.Format("2006-01-02 15:04")), l.Content)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Entries to list (0 for all)")
	return cmd
}
