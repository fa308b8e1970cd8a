package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"become/internal/engine"
	"become/internal/ui"
)

// Actions is the subset of the service the board drives.
type Actions interface {
	Snapshot(ctx context.Context) (engine.Snapshot, error)
	CompleteQuest(ctx context.Context, questRef string) (engine.Result, error)
	FailQuest(ctx context.Context, questRef string) (engine.Result, error)
}

type boardModel struct {
	ctx context.Context
	svc Actions

	width  int
	height int

	snap     engine.Snapshot
	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	snap engine.Snapshot
	err  error
}

type actionMsg struct {
	verb string
	id   string
	res  engine.Result
	err  error
}

func newBoardModel(ctx context.Context, svc Actions) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.svc.Snapshot(m.ctx)
		return loadedMsg{snap: snap, err: err}
	}
}

func (m boardModel) completeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.CompleteQuest(m.ctx, id)
		return actionMsg{verb: "Completed", id: id, res: res, err: err}
	}
}

func (m boardModel) failCmd(id string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.FailQuest(m.ctx, id)
		return actionMsg{verb: "Failed", id: id, res: res, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.snap = msg.snap
		m.clampSelection()
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case actionMsg:
		if msg.err != nil {
			m.lastLog = strings.ToLower(msg.verb) + " failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = summarizeAwards(msg.verb, msg.id, msg.res.Awards)
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.questLines())-1 {
				m.selected++
			}
			return m, nil
		case "c", " ":
			q := m.selectedQuest()
			if q == nil {
				return m, nil
			}
			if q.Status != engine.QuestPending {
				m.lastLog = "Only pending quests can be completed."
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Completing %s…", shortID(q.ID))
			return m, m.completeCmd(q.ID)
		case "f":
			q := m.selectedQuest()
			if q == nil {
				return m, nil
			}
			if q.Status != engine.QuestPending {
				m.lastLog = "Only pending quests can be failed."
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Failing %s…", shortID(q.ID))
			return m, m.failCmd(q.ID)
		}
	}
	return m, nil
}

// questLines orders quests pending first, then by creation time.
func (m boardModel) questLines() []engine.Quest {
	out := append([]engine.Quest(nil), m.snap.Quests...)
	sort.SliceStable(out, func(i, j int) bool {
		pi := out[i].Status == engine.QuestPending
		pj := out[j].Status == engine.QuestPending
		if pi != pj {
			return pi
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *boardModel) clampSelection() {
	n := len(m.snap.Quests)
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m boardModel) selectedQuest() *engine.Quest {
	lines := m.questLines()
	if m.selected < 0 || m.selected >= len(lines) {
		return nil
	}
	return &lines[m.selected]
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	leftW := 34
	if m.width > 0 && m.width/2 < leftW {
		leftW = max(m.width/2, 18)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(leftW).MarginRight(2).Render(sidebar),
		main,
	)
	return header + "\n" + body + "\n" + footer
}

func (m boardModel) renderHeader() string {
	if m.loading && len(m.snap.Badges) == 0 {
		return ui.Title.Render("Become") + " | loading…"
	}
	total := engine.TotalXP(m.snap)
	return ui.Title.Render("Become") + fmt.Sprintf(" | %d identities | XP %d | badges %d/%d",
		len(m.snap.Identities), total, engine.CountUnlocked(m.snap.Badges), len(m.snap.Badges))
}

func (m boardModel) renderSidebar() string {
	lines := []string{ui.PanelTitle.Render("Identities")}
	if len(m.snap.Identities) == 0 {
		lines = append(lines, "(none yet)")
	}
	for _, id := range m.snap.Identities {
		lines = append(lines, fmt.Sprintf("- %s L%d %s", id.Name, engine.LevelForXP(id.XP), ui.LevelBar(id.XP, 10)))
	}
	st := m.snap.Streaks
	lines = append(lines,
		"",
		ui.PanelTitle.Render("Streaks"),
		fmt.Sprintf("- discipline %d (best %d)", st.Discipline.Count, st.Discipline.Best),
		fmt.Sprintf("- wisdom     %d (best %d)", st.Wisdom.Count, st.Wisdom.Best),
		fmt.Sprintf("- usage      %d (best %d)", st.Usage.Count, st.Usage.Best),
		"",
		ui.PanelTitle.Render("Keys"),
		"- ↑/↓ or j/k: move",
		"- c/space: complete",
		"- f: fail",
		"- r: refresh",
		"- q: quit",
	)
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	out := []string{ui.PanelTitle.Render("Quest Log")}
	lines := m.questLines()
	if len(lines) == 0 {
		out = append(out, "(empty)")
		return strings.Join(out, "\n")
	}
	for i, q := range lines {
		owner := "Unlinked"
		if id := m.snap.FindIdentity(q.LinkedIdentityID); id != nil {
			owner = id.Name
		}
		line := fmt.Sprintf("%s %s (%s, %d xp, %s)", shortID(q.ID), q.Title, owner, q.XPReward, q.Status)
		if i == m.selected {
			line = ui.SelectedRow.Render("> " + line)
		} else {
			line = "  " + line
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func summarizeAwards(verb, id string, awards []engine.Award) string {
	parts := []string{fmt.Sprintf("%s %s", verb, shortID(id))}
	for _, a := range awards {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, " | ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
