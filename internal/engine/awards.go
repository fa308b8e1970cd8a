package engine

import "fmt"

type AwardKind string

const (
	AwardXP      AwardKind = "xp"
	AwardLevelUp AwardKind = "level_up"
	AwardWisdom  AwardKind = "wisdom"
	AwardStreak  AwardKind = "streak"
	AwardBadge   AwardKind = "badge"
)

// Award is an informational notification for the presentation layer. Awards
// never feed back into state.
type Award struct {
	Kind         AwardKind  `json:"kind"`
	IdentityID   string     `json:"identityId,omitempty"`
	IdentityName string     `json:"identityName,omitempty"`
	XP           int        `json:"xp,omitempty"`
	Level        int        `json:"level,omitempty"`
	Streak       StreakKind `json:"streak,omitempty"`
	Count        int        `json:"count,omitempty"`
	BadgeID      string     `json:"badgeId,omitempty"`
	BadgeName    string     `json:"badgeName,omitempty"`
	Tier         Tier       `json:"tier,omitempty"`
}

func (a Award) String() string {
	switch a.Kind {
	case AwardXP:
		return fmt.Sprintf("+%d XP - %s", a.XP, a.IdentityName)
	case AwardLevelUp:
		return fmt.Sprintf("%s reached level %d", a.IdentityName, a.Level)
	case AwardWisdom:
		return fmt.Sprintf("+%d wisdom XP", a.XP)
	case AwardStreak:
		return fmt.Sprintf("%s streak: %d", a.Streak, a.Count)
	case AwardBadge:
		return fmt.Sprintf("badge unlocked: %s (%s)", a.BadgeName, a.Tier)
	default:
		return string(a.Kind)
	}
}
