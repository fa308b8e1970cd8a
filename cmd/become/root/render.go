package root

import (
	"fmt"
	"io"

	"become/internal/engine"
	"become/internal/ui"
)

func printAwards(w io.Writer, awards []engine.Award) {
	for _, a := range awards {
		switch a.Kind {
		case engine.AwardXP:
			fmt.Fprintf(w, "%s %s\n", ui.IconBolt, ui.Good.Render(a.String()))
		case engine.AwardLevelUp:
			fmt.Fprintf(w, "%s %s %s\n", ui.IconSparkle, ui.BadgeLevelUp, a.String())
		case engine.AwardWisdom:
			fmt.Fprintf(w, "%s %s\n", ui.IconScroll, ui.Forge.Render(a.String()))
		case engine.AwardStreak:
			fmt.Fprintf(w, "%s %s %s\n", ui.IconForge, ui.Key.Render(string(a.Streak)+" streak:"), ui.StreakText(a.Count))
		case engine.AwardBadge:
			fmt.Fprintf(w, "%s %s %s\n", ui.IconTrophy, ui.Gold.Render(a.BadgeName), ui.TierText(a.Tier))
		}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func identityName(s engine.Snapshot, id string) string {
	if i := s.FindIdentity(id); i != nil {
		return i.Name
	}
	return "Unlinked"
}
