package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/console"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/events"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/office"
)

// DefaultTickRate is used when no tick rate is configured.
const DefaultTickRate = 250 * time.Millisecond

// TickMsg advances the office clock.
type TickMsg time.Time

// Option configures an App.
type Option func(*App)

// WithTickRate sets how often the office is ticked.
func WithTickRate(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.tickRate = d
		}
	}
}

// WithFeedSize sets how many feed entries are kept.
func WithFeedSize(n int) Option {
	return func(a *App) {
		a.feed = NewFeedPanel(n)
	}
}

// App is the bubbletea model for the dashboard.
type App struct {
	office *office.Office
	detach func()

	header *Header
	footer *Footer
	feed   *FeedPanel
	xpBar  progress.Model

	tickRate time.Duration
	lastTick time.Time

	width    int
	height   int
	quitting bool

	panelStyle lipgloss.Style
	titleStyle lipgloss.Style
	dimStyle   lipgloss.Style
}

// New creates a dashboard over off and subscribes to its events. Call Close
// when the program exits.
func New(off *office.Office, opts ...Option) *App {
	a := &App{
		office:   off,
		header:   NewHeader(),
		footer:   NewFooter(),
		feed:     NewFeedPanel(0),
		xpBar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		tickRate: DefaultTickRate,
		width:    80,

		panelStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")),
		dimStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.xpBar.Width = 40
	a.detach = off.SubscribeAll(func(e events.Event) { a.feed.Add(e) })
	return a
}

// Close detaches the dashboard from the office.
func (a *App) Close() {
	if a.detach != nil {
		a.detach()
		a.detach = nil
	}
}

// Feed exposes the activity feed.
func (a *App) Feed() *FeedPanel {
	return a.feed
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.tick()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			a.quitting = true
			return a, tea.Quit
		case tea.KeyRunes, tea.KeySpace:
			for _, r := range msg.Runes {
				a.typeRune(r)
			}
			if msg.Type == tea.KeySpace && len(msg.Runes) == 0 {
				a.typeRune(' ')
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.header.SetWidth(msg.Width)
		a.footer.SetWidth(msg.Width)
		a.feed.SetSize(msg.Width, feedLines(msg.Height))
		a.xpBar.Width = max(10, msg.Width-30)

	case TickMsg:
		now := time.Time(msg)
		dt := a.tickRate
		if !a.lastTick.IsZero() {
			dt = now.Sub(a.lastTick)
		}
		a.lastTick = now
		a.office.Tick(dt)
		return a, a.tick()
	}

	return a, nil
}

func (a *App) typeRune(r rune) {
	if code, ok := a.office.ProcessCheatToken(string(r)); ok {
		a.footer.SetMessage("cheat accepted: "+code.Code, true)
	}
	a.footer.SetBuffer(a.office.CheatBuffer())
}

func feedLines(height int) int {
	// header, org chart, team line and footer take roughly two thirds
	if n := height / 3; n > 3 {
		return n
	}
	return 3
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return "Goodbye!\n"
	}

	snap := a.office.Snapshot()

	org := a.panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		a.titleStyle.Render(fmt.Sprintf("Org chart (%d)", len(snap.Agents))),
		console.OrgChart(snap.Agents),
	))

	var mods []string
	for _, m := range snap.Modifiers {
		if !m.Active {
			continue
		}
		line := "⚡ " + m.Label
		if left := a.office.TimeRemaining(m.ID); left > 0 {
			line += a.dimStyle.Render(fmt.Sprintf(" %s", left.Round(time.Second)))
		}
		mods = append(mods, line)
	}
	if len(mods) == 0 {
		mods = append(mods, a.dimStyle.Render("no modifiers"))
	}
	mods = append(mods, a.dimStyle.Render(fmt.Sprintf("speed ×%.2f", snap.Effects.Speed)))
	side := a.panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		a.titleStyle.Render("Modifiers"),
		strings.Join(mods, "\n"),
	))

	pct := 0.0
	if snap.Team.XPForNext > 0 {
		pct = float64(snap.Team.XP) / float64(snap.Team.XPForNext)
	}
	team := fmt.Sprintf("Team lv%d %s %s",
		snap.Team.Level,
		a.xpBar.ViewAs(pct),
		a.dimStyle.Render(fmt.Sprintf("%d/%d xp  ★ %d/%d", snap.Team.XP, snap.Team.XPForNext, snap.Team.Unlocked, len(snap.Achievements))),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		a.header.View(),
		lipgloss.JoinHorizontal(lipgloss.Top, org, " ", side),
		team,
		a.feed.View(),
		a.footer.View(),
	)
}
