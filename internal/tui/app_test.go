package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/config"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/events"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/office"
	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

func newTestApp(t *testing.T, opts ...Option) (*App, *office.Office) {
	t.Helper()
	off, err := office.New(office.WithConfig(config.Default()))
	require.NoError(t, err)
	app := New(off, opts...)
	t.Cleanup(app.Close)
	return app, off
}

func typeString(app *App, s string) {
	for _, r := range s {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestTypingCheatActivatesModifier(t *testing.T) {
	app, off := newTestApp(t)

	typeString(app, "iddq")
	assert.Equal(t, "iddq", off.CheatBuffer())
	assert.Contains(t, app.footer.View(), "> iddq")

	typeString(app, "d")
	active := off.ActiveModifiers()
	require.Len(t, active, 1)
	assert.Equal(t, models.ModifierGodMode, active[0].ID)
	assert.Contains(t, app.footer.View(), "cheat accepted: iddqd")
	assert.Empty(t, off.CheatBuffer())
}

func TestOnlyEscAndCtrlCQuit(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.Nil(t, cmd)
	assert.False(t, app.quitting)

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.True(t, app.quitting)
	assert.Equal(t, "Goodbye!\n", app.View())

	app2, _ := newTestApp(t)
	_, cmd = app2.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, app2.quitting)
}

func TestTickAdvancesOffice(t *testing.T) {
	app, off := newTestApp(t, WithTickRate(time.Second))

	_, ok := off.Spawn(models.TierBoss, models.SourceClaude, nil)
	require.True(t, ok)
	_, ok = off.Spawn(models.TierSupervisor, models.SourceClaude, intp(1))
	require.True(t, ok)
	_, ok = off.Delegate(1, models.SkillResearch, nil)
	require.True(t, ok)
	before, _ := off.Agent(2)

	start := time.Now()
	_, cmd := app.Update(TickMsg(start))
	assert.NotNil(t, cmd)
	_, cmd = app.Update(TickMsg(start.Add(2 * time.Second)))
	assert.NotNil(t, cmd)

	after, _ := off.Agent(2)
	assert.Less(t, after.ActivityLevel, before.ActivityLevel)
}

func TestFeedRecordsEvents(t *testing.T) {
	app, off := newTestApp(t, WithFeedSize(2))

	off.Spawn(models.TierBoss, models.SourceClaude, nil)
	off.ActivateModifier(models.ModifierTurbo)
	off.DeactivateModifier(models.ModifierTurbo)

	entries := app.Feed().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, events.KindModifierActivated, entries[0].Kind)
	assert.Equal(t, "⚡ Turbo Mode off", entries[1].Message)

	app.Close()
	off.ActivateModifier(models.ModifierZen)
	assert.Len(t, app.Feed().Entries(), 2)
}

func TestViewShowsOffice(t *testing.T) {
	app, off := newTestApp(t)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	off.Spawn(models.TierBoss, models.SourceClaude, nil)
	off.ActivateModifier(models.ModifierTurbo)

	view := app.View()
	for _, want := range []string{"Org chart (1)", "BOSS 1", "Turbo Mode", "Team lv", "First Hire"} {
		assert.Contains(t, view, want)
	}
}

func intp(v int) *int { return &v }
