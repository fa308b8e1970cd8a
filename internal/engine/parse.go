package engine

import "strings"

// ParseCategory maps user input to one of the known categories, matching
// case-insensitively. Unknown input is kept as free text.
func ParseCategory(input string) string {
	s := strings.TrimSpace(input)
	switch strings.ToLower(s) {
	case "pro", "work":
		return "Professional"
	case "sport", "health":
		return "Sport & Health"
	}
	for _, c := range Categories {
		if strings.EqualFold(c, s) {
			return c
		}
	}
	return s
}

// ParseAttributes splits a comma-separated attribute list.
func ParseAttributes(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseQuestStatus parses a status name; ok is false for unknown input.
func ParseQuestStatus(input string) (QuestStatus, bool) {
	s := QuestStatus(strings.TrimSpace(strings.ToLower(input)))
	return s, s.IsValid()
}
