package console

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/hierarchy"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/modifier"
	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

type command struct {
	usage   string
	summary string
	minArgs int
	// maxArgs of -1 means unbounded.
	maxArgs int
	run     func(c *Console, args []string) error
}

// commandTable is built per console so handlers may reference the table
// through the console without an initialization cycle.
func commandTable() map[string]command {
	return map[string]command{
		"spawn": {
			usage: "spawn <tier> [source] [parentId]", summary: "hire an agent with the next free id",
			minArgs: 1, maxArgs: 3, run: (*Console).spawn,
		},
		"register": {
			usage: "register <id> <tier> <name> [parentId]", summary: "register an agent with a chosen id",
			minArgs: 3, maxArgs: 4, run: (*Console).register,
		},
		"unregister": {
			usage: "unregister <id>", summary: "remove an agent, orphaning its reports",
			minArgs: 1, maxArgs: 1, run: (*Console).unregister,
		},
		"delegate": {
			usage: "delegate <fromId> <skill> [toId]", summary: "route a skill, or hand it to toId",
			minArgs: 2, maxArgs: 3, run: (*Console).delegate,
		},
		"complete": {
			usage: "complete <id>", summary: "finish the agent's oldest queued skill",
			minArgs: 1, maxArgs: 1, run: (*Console).complete,
		},
		"promote": {
			usage: "promote <id>", summary: "move an agent one tier up",
			minArgs: 1, maxArgs: 1, run: (*Console).promote,
		},
		"demote": {
			usage: "demote <id>", summary: "move an agent one tier down",
			minArgs: 1, maxArgs: 1, run: (*Console).demote,
		},
		"xp": {
			usage: "xp <id> <amount>", summary: "grant experience",
			minArgs: 2, maxArgs: 2, run: (*Console).xp,
		},
		"tokens": {
			usage: "tokens <id> <input> <output>", summary: "record token usage",
			minArgs: 3, maxArgs: 3, run: (*Console).tokens,
		},
		"mod": {
			usage: "mod <modifier> on|off", summary: "toggle a modifier",
			minArgs: 2, maxArgs: 2, run: (*Console).mod,
		},
		"mods": {
			usage: "mods", summary: "list modifiers and effective multipliers",
			maxArgs: 0, run: (*Console).mods,
		},
		"cheat": {
			usage: "cheat <code>", summary: "enter a whole cheat code",
			minArgs: 1, maxArgs: -1, run: func(c *Console, args []string) error {
				return c.cheat(strings.Join(args, " "))
			},
		},
		"key": {
			usage: "key <token>...", summary: "feed keystrokes to the cheat buffer",
			minArgs: 1, maxArgs: -1, run: (*Console).key,
		},
		"quest": {
			usage: "quest <id> [n]", summary: "advance a quest",
			minArgs: 1, maxArgs: 2, run: (*Console).quest,
		},
		"ci": {
			usage: "ci green|red", summary: "report a CI result",
			minArgs: 1, maxArgs: 1, run: (*Console).ci,
		},
		"deploy": {
			usage: "deploy", summary: "report a production deploy",
			maxArgs: 0, run: func(c *Console, _ []string) error {
				c.office.ReportDeploy()
				c.ok("deployed")
				return nil
			},
		},
		"tick": {
			usage: "tick <seconds>", summary: "advance the simulation clock",
			minArgs: 1, maxArgs: 1, run: (*Console).tick,
		},
		"list": {
			usage: "list [tier]", summary: "list agents",
			maxArgs: 1, run: (*Console).list,
		},
		"tree": {
			usage: "tree", summary: "draw the org chart",
			maxArgs: 0, run: func(c *Console, _ []string) error {
				fmt.Fprintln(c.out, OrgChart(c.office.Agents()))
				return nil
			},
		},
		"log": {
			usage: "log [agentId]", summary: "show the delegation log",
			maxArgs: 1, run: (*Console).log,
		},
		"achievements": {
			usage: "achievements", summary: "list achievements",
			maxArgs: 0, run: (*Console).achievements,
		},
		"quests": {
			usage: "quests", summary: "list quests",
			maxArgs: 0, run: (*Console).quests,
		},
		"stats": {
			usage: "stats", summary: "show team stats",
			maxArgs: 0, run: (*Console).stats,
		},
		"snapshot": {
			usage: "snapshot [--yaml]", summary: "dump the office state",
			maxArgs: 1, run: (*Console).snapshot,
		},
		"help": {
			usage: "help", summary: "show this list",
			maxArgs: 0, run: func(c *Console, _ []string) error {
				c.help()
				return nil
			},
		},
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid agent id %q", s)
	}
	return id, nil
}

func parseOptionalID(args []string, i int) (*int, error) {
	if len(args) <= i {
		return nil, nil
	}
	id, err := parseID(args[i])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (c *Console) spawn(args []string) error {
	tier, err := models.ParseTier(args[0])
	if err != nil {
		return err
	}
	source := models.SourceCustom
	var parent *int
	for _, arg := range args[1:] {
		if id, convErr := strconv.Atoi(arg); convErr == nil {
			parent = &id
			continue
		}
		if source, err = models.ParseSource(arg); err != nil {
			return err
		}
	}

	a, ok := c.office.Spawn(tier, source, parent)
	if !ok {
		c.noop("cannot hire a %s: tier full or parent cannot hire it", tier)
		return nil
	}
	c.ok("hired %s (#%d)", a.Name, a.ID)
	return nil
}

func (c *Console) register(args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	tier, err := models.ParseTier(args[1])
	if err != nil {
		return err
	}
	parent, err := parseOptionalID(args, 3)
	if err != nil {
		return err
	}

	a, ok := c.office.Register(hierarchy.Registration{ID: id, Tier: tier, Name: args[2], ParentID: parent})
	if !ok {
		c.noop("#%d is already %s", id, a.Name)
		return nil
	}
	c.ok("registered %s (#%d)", a.Name, a.ID)
	return nil
}

func (c *Console) unregister(args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if !c.office.Unregister(id) {
		c.noop("no agent #%d", id)
		return nil
	}
	c.ok("removed #%d", id)
	return nil
}

func (c *Console) delegate(args []string) error {
	from, err := parseID(args[0])
	if err != nil {
		return err
	}
	skill, err := models.ParseSkill(args[1])
	if err != nil {
		return err
	}
	to, err := parseOptionalID(args, 2)
	if err != nil {
		return err
	}

	d, ok := c.office.Delegate(from, skill, to)
	if !ok {
		c.noop("no route for %s from #%d", skill, from)
		return nil
	}
	if d.SelfExecuted() {
		c.ok("#%d runs %s itself", d.FromID, d.Skill)
		return nil
	}
	c.ok("#%d → #%d %s (%s)", d.FromID, d.ToID, d.Skill, d.Status)
	return nil
}

func (c *Console) complete(args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	skill, ok := c.office.CompleteSkill(id)
	if !ok {
		c.noop("#%d has nothing queued", id)
		return nil
	}
	c.ok("#%d finished %s", id, skill)
	return nil
}

func (c *Console) promote(args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	tier, ok := c.office.Promote(id)
	if !ok {
		c.noop("cannot promote #%d", id)
		return nil
	}
	c.ok("#%d promoted to %s", id, tier.Label())
	return nil
}

func (c *Console) demote(args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	tier, ok := c.office.Demote(id)
	if !ok {
		c.noop("cannot demote #%d", id)
		return nil
	}
	c.ok("#%d demoted to %s", id, tier.Label())
	return nil
}

func (c *Console) xp(args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	amount, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[1])
	}
	gained, ok := c.office.AddXP(id, amount)
	if !ok {
		c.noop("cannot grant %d xp to #%d", amount, id)
		return nil
	}
	c.ok("#%d +%d xp (%d levels)", id, amount, gained)
	return nil
}

func (c *Console) tokens(args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	in, err1 := strconv.Atoi(args[1])
	out, err2 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil {
		return fmt.Errorf("usage: tokens <id> <input> <output>")
	}
	if !c.office.AddTokens(id, in, out) {
		c.noop("cannot record tokens for #%d", id)
		return nil
	}
	c.ok("#%d +%d tokens", id, in+out)
	return nil
}

func (c *Console) mod(args []string) error {
	id, err := models.ParseModifierID(args[0])
	if err != nil {
		return err
	}
	switch strings.ToLower(args[1]) {
	case "on":
		switch c.office.ActivateModifier(id) {
		case modifier.OutcomeExtended:
			c.ok("%s extended, %s left", id, c.office.TimeRemaining(id).Round(time.Second))
		default:
			c.ok("%s on", id)
		}
	case "off":
		if !c.office.DeactivateModifier(id) {
			c.noop("%s is not active", id)
			return nil
		}
		c.ok("%s off", id)
	default:
		return fmt.Errorf("usage: mod <modifier> on|off")
	}
	return nil
}

func (c *Console) mods(_ []string) error {
	snap := c.office.Snapshot()
	for _, m := range snap.Modifiers {
		state := dimColor.Sprint("off")
		if m.Active {
			state = okColor.Sprint("on")
			if m.ExpiresAt != nil {
				state += fmt.Sprintf(" (%s left)", c.office.TimeRemaining(m.ID).Round(time.Second))
			}
		}
		fmt.Fprintf(c.out, "  %-10s %-14s %s\n", m.ID, m.Label, state)
	}
	e := snap.Effects
	fmt.Fprintf(c.out, "  speed ×%.2f  spawn ×%.2f  particles ×%.2f  bypass %t  auto-promote %t  telemetry %t\n",
		e.Speed, e.SpawnRate, e.ParticleIntensity, e.BypassCapacity, e.AutoPromote, e.Telemetry)
	return nil
}

func (c *Console) cheat(line string) error {
	code, ok := c.office.ProcessCommand(line)
	if !ok {
		c.noop("nothing happens")
		return nil
	}
	c.ok("cheat accepted: %s", code.Code)
	return nil
}

func (c *Console) key(args []string) error {
	for _, tok := range args {
		if code, ok := c.office.ProcessCheatToken(tok); ok {
			c.ok("cheat accepted: %s", code.Code)
		}
	}
	return nil
}

func (c *Console) quest(args []string) error {
	id := models.QuestID(strings.ToLower(args[0]))
	n := 1
	if len(args) > 1 {
		var err error
		if n, err = strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("invalid quest increment %q", args[1])
		}
	}
	q, ok := c.office.AdvanceQuest(id, n)
	if !ok {
		c.noop("quest %s unchanged", id)
		return nil
	}
	c.ok("%s %d/%d", q.Name, q.Progress, q.Target)
	return nil
}

func (c *Console) ci(args []string) error {
	switch strings.ToLower(args[0]) {
	case "green":
		c.office.ReportCI(true)
		c.ok("CI green")
	case "red":
		c.office.ReportCI(false)
		c.noop("CI red")
	default:
		return fmt.Errorf("usage: ci green|red")
	}
	return nil
}

func (c *Console) tick(args []string) error {
	secs, err := strconv.ParseFloat(args[0], 64)
	if err != nil || secs < 0 {
		return fmt.Errorf("invalid seconds %q", args[0])
	}
	c.office.Tick(time.Duration(secs * float64(time.Second)))
	return nil
}

func (c *Console) list(args []string) error {
	agents := c.office.Agents()
	if len(args) == 1 {
		tier, err := models.ParseTier(args[0])
		if err != nil {
			return err
		}
		agents = c.office.AgentsByTier(tier)
	}
	if len(agents) == 0 {
		fmt.Fprintln(c.out, dimColor.Sprint("  (empty office)"))
		return nil
	}
	for _, a := range agents {
		fmt.Fprintln(c.out, " ", AgentLine(a))
	}
	return nil
}

func (c *Console) log(args []string) error {
	log := c.office.Delegations()
	if len(args) == 1 {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		log = c.office.DelegationsFor(id)
	}
	for _, d := range log {
		fmt.Fprintf(c.out, "  %s %s #%d → #%d %-12s %s\n",
			dimColor.Sprint(d.Timestamp.Format("15:04:05")), d.ID, d.FromID, d.ToID, d.Skill, d.Status)
	}
	return nil
}

func (c *Console) achievements(_ []string) error {
	for _, a := range c.office.Achievements() {
		mark := dimColor.Sprint("·")
		if a.Unlocked {
			mark = starColor.Sprint("★")
		}
		fmt.Fprintf(c.out, "  %s %-16s %s\n", mark, a.Name, dimColor.Sprint(a.Description))
	}
	return nil
}

func (c *Console) quests(_ []string) error {
	for _, q := range c.office.Quests() {
		mark := dimColor.Sprint("·")
		if q.Completed {
			mark = starColor.Sprint("✓")
		}
		fmt.Fprintf(c.out, "  %s %-16s %d/%d  %s\n", mark, q.Name, q.Progress, q.Target,
			dimColor.Sprintf("%d xp", q.XPReward))
	}
	return nil
}

func (c *Console) stats(_ []string) error {
	snap := c.office.Snapshot()
	fmt.Fprintf(c.out, "  agents %d  avg level %d  agent xp %d\n",
		snap.Team.Stats.AgentCount, snap.Team.Stats.AverageLevel, snap.Team.Stats.TotalXP)
	fmt.Fprintf(c.out, "  team level %d  %s\n", snap.Team.Level, XPBar(snap.Team.XP, snap.Team.XPForNext, 20))
	fmt.Fprintf(c.out, "  delegations %d  achievements %d/%d\n",
		snap.DelegationCount, snap.Team.Unlocked, len(snap.Achievements))
	for _, tier := range models.AllTiers() {
		spec, _ := c.office.Catalog().Spec(tier)
		fmt.Fprintf(c.out, "  %-10s %d/%d\n", spec.Label, len(c.office.AgentsByTier(tier)), spec.Capacity)
	}
	return nil
}

func (c *Console) snapshot(args []string) error {
	snap := c.office.Snapshot()
	if len(args) == 1 {
		if args[0] != "--yaml" {
			return fmt.Errorf("usage: snapshot [--yaml]")
		}
		out, err := yaml.Marshal(snap)
		if err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}
		_, err = c.out.Write(out)
		return err
	}
	active := make([]string, 0, len(snap.Modifiers))
	for _, m := range snap.Modifiers {
		if m.Active {
			active = append(active, string(m.ID))
		}
	}
	fmt.Fprintf(c.out, "  %s  agents %d  delegations %d  team level %d  modifiers [%s]\n",
		snap.Time.Format(time.RFC3339), len(snap.Agents), snap.DelegationCount, snap.Team.Level,
		strings.Join(active, " "))
	return nil
}
