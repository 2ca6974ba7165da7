package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/events"
)

// FeedEntry is one line of the activity feed.
type FeedEntry struct {
	Timestamp time.Time
	Kind      events.Kind
	Message   string
}

// FeedPanel keeps the most recent office events.
type FeedPanel struct {
	entries []FeedEntry
	maxLogs int
	width   int
	height  int

	titleStyle  lipgloss.Style
	borderStyle lipgloss.Style
	timeStyle   lipgloss.Style
	starStyle   lipgloss.Style
	plainStyle  lipgloss.Style
	emptyStyle  lipgloss.Style
}

// NewFeedPanel creates an empty feed holding up to maxLogs entries.
func NewFeedPanel(maxLogs int) *FeedPanel {
	if maxLogs <= 0 {
		maxLogs = 200
	}
	return &FeedPanel{
		maxLogs: maxLogs,
		height:  8,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1),

		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")),

		timeStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		starStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true),
		plainStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		emptyStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
	}
}

// SetSize sets the panel dimensions. Height is the number of entry lines.
func (p *FeedPanel) SetSize(width, height int) {
	p.width = width
	if height > 0 {
		p.height = height
	}
}

// Add records an event if it is worth showing.
func (p *FeedPanel) Add(e events.Event) {
	msg, ok := describe(e)
	if !ok {
		return
	}
	p.entries = append(p.entries, FeedEntry{Timestamp: e.Timestamp, Kind: e.Kind, Message: msg})
	if over := len(p.entries) - p.maxLogs; over > 0 {
		p.entries = append(p.entries[:0], p.entries[over:]...)
	}
}

// Entries returns a copy of the feed, oldest first.
func (p *FeedPanel) Entries() []FeedEntry {
	return append([]FeedEntry(nil), p.entries...)
}

// View renders the newest entries that fit.
func (p *FeedPanel) View() string {
	var lines []string
	start := len(p.entries) - p.height
	if start < 0 {
		start = 0
	}
	for _, e := range p.entries[start:] {
		style := p.plainStyle
		switch e.Kind {
		case events.KindAchievementUnlocked, events.KindQuestCompleted, events.KindLevelUp:
			style = p.starStyle
		}
		lines = append(lines, p.timeStyle.Render(e.Timestamp.Format("15:04:05"))+" "+style.Render(e.Message))
	}
	body := p.emptyStyle.Render("nothing has happened yet")
	if len(lines) > 0 {
		body = strings.Join(lines, "\n")
	}

	box := p.borderStyle
	if p.width > 2 {
		box = box.Width(p.width - 2)
	}
	return lipgloss.JoinVertical(lipgloss.Left, p.titleStyle.Render("Activity"), box.Render(body))
}

func describe(e events.Event) (string, bool) {
	switch e.Kind {
	case events.KindAgentRemoved:
		return fmt.Sprintf("#%d left the office", e.AgentID), true
	case events.KindAgentLevelUp:
		return fmt.Sprintf("%s reached level %d", e.Agent.Name, e.Level), true
	case events.KindDelegationCreated:
		d := e.Delegation
		if d.SelfExecuted() {
			return fmt.Sprintf("#%d runs %s", d.FromID, d.Skill), true
		}
		return fmt.Sprintf("#%d → #%d %s", d.FromID, d.ToID, d.Skill), true
	case events.KindDelegationCompleted:
		return fmt.Sprintf("#%d finished %s", e.Delegation.ToID, e.Delegation.Skill), true
	case events.KindModifierActivated:
		return "⚡ " + e.Modifier.Label + " on", true
	case events.KindModifierDeactivated:
		return "⚡ " + e.Modifier.Label + " off", true
	case events.KindCheatAccepted:
		return "cheat accepted: " + e.Code, true
	case events.KindSpecialEvent:
		return "✦ " + string(e.Special), true
	case events.KindAchievementUnlocked:
		return "★ " + e.Achievement.Name, true
	case events.KindQuestCompleted:
		return fmt.Sprintf("★ %s (+%d xp)", e.Quest.Name, e.Quest.XPReward), true
	case events.KindLevelUp:
		return fmt.Sprintf("★ team level %d", e.Level), true
	default:
		return "", false
	}
}
