package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"become/internal/ui"
)

const Version = "0.1.0"

var configPath string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "become",
		Short:         "Become - identity-based habit tracker",
		Long:          "Become turns daily quests into XP for the identities you are growing into, with streaks, badges and reflections on failure.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $BECOME_CONFIG or ~/.config/become/config.yaml)")

	rootCmd.AddCommand(
		newIdentityCmd(),
		newQuestCmd(),
		newDoCmd(),
		newFailCmd(),
		newForgeCmd(),
		newCheckinCmd(),
		newStatusCmd(),
		newBadgesCmd(),
		newWeekCmd(),
		newLogCmd(),
		newOnboardCmd(),
		newServeCmd(),
		newBoardCmd(),
	)
	return rootCmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
