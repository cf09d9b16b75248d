package parser

import (
	"strings"
)

// Command represents one line typed at the REPL
type Command struct {
	Assign  *AssignCmd  `parser:"( @@"`
	Pass    *PassCmd    `parser:"| @@"`
	Resolve *ResolveCmd `parser:"| @@"`
	Move    *MoveCmd    `parser:"| @@"`
	Combat  *CombatCmd  `parser:"| @@"`
	Play    *PlayCmd    `parser:"| @@"`
	Round   *RoundCmd   `parser:"| @@"`
	Retreat *RetreatCmd `parser:"| @@"`
	Show    *ShowCmd    `parser:"| @@"`
	Restart *RestartCmd `parser:"| @@"`
	Help    *HelpCmd    `parser:"| @@"`
	Quit    *QuitCmd    `parser:"| @@ )"`
}

// AssignCmd commits a leader to a mission from the hand: assign L to M [at S]
type AssignCmd struct {
	Keyword string `parser:"@\"assign\""`
	Leader  string `parser:"@Ident"`
	Mission string `parser:"\"to\" @Ident"`
	Target  string `parser:"( \"at\" @Ident )?"`
}

// PassCmd passes in whichever phase is running
type PassCmd struct {
	Keyword string `parser:"@\"pass\""`
}

// ResolveCmd resolves a pending assignment, the first one by default
type ResolveCmd struct {
	Keyword string `parser:"@\"resolve\""`
	Index   *int   `parser:"@Int?"`
}

// Position returns the zero-based assignment index.
func (r *ResolveCmd) Position() int {
	if r.Index == nil || *r.Index <= 0 {
		return 0
	}
	return *r.Index - 1
}

// MoveCmd moves units between adjacent systems: move all|U.. from A to B [with L]
type MoveCmd struct {
	Keyword string   `parser:"@\"move\""`
	All     bool     `parser:"( @\"all\""`
	Units   []string `parser:"| @Ident+ )"`
	From    string   `parser:"\"from\" @Ident"`
	To      string   `parser:"\"to\" @Ident"`
	Leader  string   `parser:"( \"with\" @Ident )?"`
}

// CombatCmd opens a battle at a system
type CombatCmd struct {
	Keyword string `parser:"@\"combat\""`
	System  string `parser:"@Ident"`
}

// PlayCmd plays a tactic card: play C for F
type PlayCmd struct {
	Keyword string `parser:"@\"play\""`
	Card    string `parser:"@Ident"`
	Faction string `parser:"\"for\" @Ident"`
}

// RoundCmd resolves one combat round
type RoundCmd struct {
	Keyword string `parser:"@\"round\""`
}

// RetreatCmd ends the battle with a faction fleeing
type RetreatCmd struct {
	Keyword string `parser:"@\"retreat\""`
	Faction string `parser:"@Ident"`
}

// ShowCmd prints part of the game state
type ShowCmd struct {
	Keyword string `parser:"@\"show\""`
	Topic   string `parser:"@(\"status\"|\"systems\"|\"units\"|\"leaders\"|\"missions\"|\"objectives\"|\"cards\"|\"combat\"|\"log\")"`
	Arg     string `parser:"@Ident?"`
}

// Subject returns the lower-cased topic.
func (s *ShowCmd) Subject() string {
	return strings.ToLower(s.Topic)
}

// RestartCmd starts a new game with the same seed
type RestartCmd struct {
	Keyword string `parser:"@\"restart\""`
}

// HelpCmd lists commands or explains one
type HelpCmd struct {
	Keyword string `parser:"@\"help\""`
	Command string `parser:"@(Ident|Keyword)?"`
}

// QuitCmd leaves the REPL
type QuitCmd struct {
	Keyword string `parser:"@(\"quit\"|\"exit\")"`
}

// Name returns the lower-cased name of the parsed command.
func (c *Command) Name() string {
	switch {
	case c.Assign != nil:
		return "assign"
	case c.Pass != nil:
		return "pass"
	case c.Resolve != nil:
		return "resolve"
	case c.Move != nil:
		return "move"
	case c.Combat != nil:
		return "combat"
	case c.Play != nil:
		return "play"
	case c.Round != nil:
		return "round"
	case c.Retreat != nil:
		return "retreat"
	case c.Show != nil:
		return "show"
	case c.Restart != nil:
		return "restart"
	case c.Help != nil:
		return "help"
	case c.Quit != nil:
		return "quit"
	}
	return ""
}
