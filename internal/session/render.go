package session

import (
	"fmt"
	"strings"

	"github.com/npow/galactic-uprising/internal/combat"
	"github.com/npow/galactic-uprising/internal/content"
	"github.com/npow/galactic-uprising/internal/engine"
	"github.com/npow/galactic-uprising/internal/parser"
	"github.com/npow/galactic-uprising/internal/world"
)

// logTail is how many log lines "show log" prints.
const logTail = 15

func describe(res engine.Result) string {
	var b strings.Builder
	b.WriteString(res.String())
	if rr := res.Round; rr != nil {
		for _, f := range content.Factions {
			side := rr.Sides[f]
			if side == nil {
				continue
			}
			fmt.Fprintf(&b, "\n  %s", rollLine(f, side))
		}
	}
	if out := res.Outcome; out != nil {
		fmt.Fprintf(&b, "\n  %s", outcomeLine(out))
	}
	return b.String()
}

func rollLine(f content.Faction, side *combat.SideRoll) string {
	faces := make([]string, 0, len(side.Dice))
	for _, d := range side.Dice {
		faces = append(faces, string(d.Face))
	}
	line := fmt.Sprintf("%s rolls [%s]: %d hits, %d crits", f.Title(), strings.Join(faces, " "), side.Hits, side.Crits)
	if side.Card != "" {
		line += ", card " + side.Card
	}
	if side.Blocked > 0 {
		line += fmt.Sprintf(", %d blocked", side.Blocked)
	}
	if len(side.Lost) > 0 {
		lost := make([]string, 0, len(side.Lost))
		for _, u := range side.Lost {
			lost = append(lost, u.Name)
		}
		line += ", loses " + strings.Join(lost, ", ")
	}
	return line
}

func outcomeLine(out *combat.Outcome) string {
	switch {
	case out.Retreated != "":
		return fmt.Sprintf("Battle over, %s retreated. %d units destroyed.", out.Retreated.Title(), out.Destroyed)
	case out.Winner != "":
		return fmt.Sprintf("Battle over, %s wins. %d units destroyed.", out.Winner.Title(), out.Destroyed)
	}
	return fmt.Sprintf("Battle over with no survivors. %d units destroyed.", out.Destroyed)
}

func (s *Session) show(cmd *parser.ShowCmd) string {
	switch cmd.Subject() {
	case "status":
		return strings.TrimRight(s.e.Snapshot().String(), "\n")
	case "systems":
		return s.showSystems()
	case "units":
		return s.showUnits(cmd.Arg)
	case "leaders":
		return s.showLeaders()
	case "missions":
		return s.showMissions()
	case "objectives":
		return s.showObjectives()
	case "cards":
		return s.showCards(cmd.Arg)
	case "combat":
		return s.showCombat()
	case "log":
		return s.showLog()
	}
	return parser.Usage["show"]
}

func (s *Session) showSystems() string {
	w := s.e.World()
	var b strings.Builder
	for i, id := range w.Order {
		sys := w.Systems[id]
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-16s %-14s %-10s", sys.ID, s.cat.RegionName(sys.Region), sys.Loyalty.Title())
		var flags []string
		if sys.Production {
			flags = append(flags, "production")
		}
		if sys.Probed {
			flags = append(flags, "probed")
		}
		if sys.Subjugated {
			flags = append(flags, "subjugated")
		}
		if w.BaseRevealed && id == w.Base {
			flags = append(flags, "BASE")
		}
		if len(flags) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(flags, ", "))
		}
		for _, f := range content.Factions {
			if n := len(s.e.UnitsOf(id, f)); n > 0 {
				fmt.Fprintf(&b, " %s:%d", f.Title(), n)
			}
		}
	}
	return b.String()
}

func (s *Session) showUnits(system string) string {
	w := s.e.World()
	sys, ok := w.System(system)
	if !ok {
		return fmt.Sprintf("Unknown system %q. Usage: %s", system, parser.Usage["show"])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s), adjacent: %s", sys.Name, sys.Loyalty.Title(), strings.Join(w.Adjacent(sys.ID), ", "))
	for _, f := range content.Factions {
		units := s.e.UnitsOf(sys.ID, f)
		leaders := s.e.LeadersIn(sys.ID, f)
		if len(units) == 0 && len(leaders) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:", f.Title())
		for _, u := range units {
			fmt.Fprintf(&b, "\n  %-8s %-16s %-9s %d/%d", u.ID, u.Name, u.Domain, u.Remaining(), u.MaxHealth)
		}
		for _, l := range leaders {
			fmt.Fprintf(&b, "\n  leader %s (%s)", l.Name, l.ID)
		}
	}
	return b.String()
}

func (s *Session) showLeaders() string {
	w := s.e.World()
	var b strings.Builder
	for i, f := range content.Factions {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s:", f.Title())
		for _, l := range w.Leaders[f] {
			sk := l.Skills
			fmt.Fprintf(&b, "\n  %-7s %-20s D%d I%d C%d L%d  %s", l.ID, l.Name,
				sk.Diplomacy, sk.Intel, sk.Combat, sk.Logistics, leaderStatus(w, l))
		}
	}
	return b.String()
}

func leaderStatus(w *world.World, l *world.Leader) string {
	switch {
	case l.Captured:
		return "captured"
	case l.OnMission:
		return "on mission"
	case l.Location == "":
		return "in reserve"
	}
	if sys, ok := w.System(l.Location); ok {
		return "at " + sys.Name
	}
	return "at " + l.Location
}

// missionFactions are the hands a player may look at.
func (s *Session) missionFactions() []content.Faction {
	if h := s.Human(); h != "" {
		return []content.Faction{h}
	}
	return content.Factions
}

func (s *Session) showMissions() string {
	var b strings.Builder
	for i, f := range s.missionFactions() {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s hand:", f.Title())
		for _, m := range s.e.Hand(f) {
			fmt.Fprintf(&b, "\n  %-8s %-22s %s %d+ (%s)", m.ID, m.Name, m.Skill, m.MinSkill, m.Effect)
		}
		if pending := s.e.Assignments(f); len(pending) > 0 {
			fmt.Fprintf(&b, "\n%s assignments:", f.Title())
			for n, a := range pending {
				fmt.Fprintf(&b, "\n  %d. %s on %s", n+1, a.Leader.Name, a.Mission.Name)
				if a.Target != "" {
					fmt.Fprintf(&b, " at %s", a.Target)
				}
			}
		}
	}
	return b.String()
}

func (s *Session) showObjectives() string {
	w := s.e.World()
	var b strings.Builder
	b.WriteString("Objectives:")
	for _, o := range w.Objectives {
		met := ""
		if s.e.Met(o.Check) {
			met = " (met)"
		}
		fmt.Fprintf(&b, "\n  %-6s %-24s %d pts, tier %d%s", o.ID, o.Name, o.Points, o.Tier, met)
	}
	if len(w.Completed) > 0 {
		b.WriteString("\nCompleted:")
		for _, o := range w.Completed {
			fmt.Fprintf(&b, "\n  %s", o.Name)
		}
	}
	return b.String()
}

func (s *Session) showCards(arg string) string {
	f := content.Faction(strings.ToLower(arg))
	if arg == "" {
		f = s.Human()
	}
	if !f.Valid() {
		return fmt.Sprintf("Usage: %s", parser.Usage["show"])
	}
	if s.ai != nil && f == s.opponent {
		return fmt.Sprintf("The %s keeps its cards hidden.", f.Title())
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s cards:", f.Title())
	for _, c := range s.e.World().Cards[f] {
		fmt.Fprintf(&b, "\n  %-5s %-20s %-6s %s", c.ID, c.Name, c.Domain, c.Text)
	}
	return b.String()
}

func (s *Session) showCombat() string {
	bt := s.e.Battle()
	if bt == nil {
		return "No combat in progress."
	}
	name := bt.System
	if sys, ok := s.e.World().System(bt.System); ok {
		name = sys.Name
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Combat at %s, %s round %d", name, bt.Status, bt.Round)
	for _, f := range content.Factions {
		side := bt.Sides[f]
		if side == nil {
			continue
		}
		fmt.Fprintf(&b, "\n  %s: %d ships, %d ground", f.Title(), len(side.Space), len(side.Ground))
		if c := bt.Played[f]; c != nil {
			fmt.Fprintf(&b, ", playing %s", c.Name)
		}
	}
	return b.String()
}

func (s *Session) showLog() string {
	entries := s.e.World().Log
	if len(entries) > logTail {
		entries = entries[len(entries)-logTail:]
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("[T%d %s] %s", e.Turn, e.Phase, e.Message))
	}
	return strings.Join(lines, "\n")
}

func help(name string) string {
	name = strings.ToLower(name)
	if name == "exit" {
		name = "quit"
	}
	if name != "" {
		if usage, ok := parser.Usage[name]; ok {
			return usage
		}
		return fmt.Sprintf("Unknown command %q.", name)
	}
	lines := make([]string, 0, len(parser.Commands))
	for _, n := range parser.Commands {
		lines = append(lines, "  "+parser.Usage[n])
	}
	return "Commands:\n" + strings.Join(lines, "\n")
}
