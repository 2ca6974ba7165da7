package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

var tierStyles = map[models.Tier]lipgloss.Style{
	models.TierBoss:       lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
	models.TierSupervisor: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	models.TierEmployee:   lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
	models.TierIntern:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// AgentLine renders one agent as a single line.
func AgentLine(a models.Agent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%-3d %-18s %s lv%d", a.ID, a.Name, tierStyles[a.Tier].Render(a.Tier.Label()), a.Level)
	if len(a.SkillQueue) > 0 {
		skills := make([]string, len(a.SkillQueue))
		for i, s := range a.SkillQueue {
			skills[i] = string(s)
		}
		fmt.Fprintf(&b, " [%s]", strings.Join(skills, " "))
	}
	if a.ParentID == nil && a.Tier != models.TierBoss {
		b.WriteString(" (orphan)")
	}
	return b.String()
}

// OrgChart draws the reporting lines. Agents without a parent start a tree
// of their own, in the order given.
func OrgChart(agents []models.Agent) string {
	if len(agents) == 0 {
		return "(empty office)"
	}
	byID := make(map[int]models.Agent, len(agents))
	for _, a := range agents {
		byID[a.ID] = a
	}

	seen := make(map[int]bool, len(agents))
	var build func(a models.Agent) *tree.Tree
	build = func(a models.Agent) *tree.Tree {
		seen[a.ID] = true
		t := tree.Root(AgentLine(a)).Enumerator(tree.RoundedEnumerator)
		for _, cid := range a.ChildIDs {
			child, ok := byID[cid]
			if !ok || seen[cid] {
				continue
			}
			if len(child.ChildIDs) == 0 {
				seen[cid] = true
				t.Child(AgentLine(child))
				continue
			}
			t.Child(build(child))
		}
		return t
	}

	var roots []string
	for _, a := range agents {
		if pid, ok := a.Parent(); ok {
			if _, known := byID[pid]; known {
				continue
			}
		}
		roots = append(roots, build(a).String())
	}
	return strings.Join(roots, "\n")
}

// XPBar renders progress toward the next level as a fixed-width bar.
func XPBar(xp, next, width int) string {
	filled := 0
	if next > 0 {
		filled = xp * width / next
	}
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %d/%d xp",
		strings.Repeat("█", filled), strings.Repeat("░", width-filled), xp, next)
}
