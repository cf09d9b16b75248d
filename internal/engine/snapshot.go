package engine

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"lukechampine.com/blake3"

	"github.com/npow/galactic-uprising/internal/content"
	"github.com/npow/galactic-uprising/internal/world"
)

// Snapshot is a read-only diagnostic view of a game.
type Snapshot struct {
	Turn                int             `json:"turn"`
	Phase               world.Phase     `json:"phase"`
	ActivePlayer        content.Faction `json:"activePlayer"`
	TimeMarker          int             `json:"timeMarker"`
	ReputationMarker    int             `json:"reputationMarker"`
	GameOver            bool            `json:"gameOver"`
	Winner              content.Faction `json:"winner,omitempty"`
	Systems             int             `json:"systems"`
	DominionUnits       int             `json:"dominionUnits"`
	LiberationUnits     int             `json:"liberationUnits"`
	ProbeDeckSize       int             `json:"probeDeckSize"`
	BaseRevealed        bool            `json:"baseRevealed"`
	Combat              string          `json:"combat,omitempty"`
	Objectives          []string        `json:"objectives"`
	CompletedObjectives []string        `json:"completedObjectives"`
}

// Snapshot captures the current state.
func (e *Engine) Snapshot() Snapshot {
	w := e.w
	s := Snapshot{
		Turn:                w.Turn,
		Phase:               w.Phase,
		ActivePlayer:        w.Active,
		TimeMarker:          w.TimeMarker,
		ReputationMarker:    w.Reputation,
		GameOver:            w.GameOver,
		Winner:              w.Winner,
		Systems:             len(w.Systems),
		DominionUnits:       w.TotalUnits(content.Dominion),
		LiberationUnits:     w.TotalUnits(content.Liberation),
		ProbeDeckSize:       len(w.ProbeDeck),
		BaseRevealed:        w.BaseRevealed,
		Objectives:          names(w.Objectives),
		CompletedObjectives: names(w.Completed),
	}
	if b := e.combat.Active(); b != nil {
		s.Combat = b.System
	}
	return s
}

func names(objs []content.ObjectiveDef) []string {
	out := make([]string, 0, len(objs))
	for _, o := range objs {
		out = append(out, o.Name)
	}
	return out
}

// JSON renders the snapshot as a single JSON object.
func (s Snapshot) JSON() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

func (s Snapshot) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Turn %d (%s), %s to act\n", s.Turn, s.Phase, s.ActivePlayer.Title())
	fmt.Fprintf(&b, "Reputation %d / Time %d\n", s.ReputationMarker, s.TimeMarker)
	fmt.Fprintf(&b, "Units: Dominion %d, Liberation %d\n", s.DominionUnits, s.LiberationUnits)
	fmt.Fprintf(&b, "Probe deck %d, base revealed: %t\n", s.ProbeDeckSize, s.BaseRevealed)
	if s.Combat != "" {
		fmt.Fprintf(&b, "Combat at %s\n", s.Combat)
	}
	fmt.Fprintf(&b, "Objectives: %s\n", strings.Join(s.Objectives, ", "))
	if len(s.CompletedObjectives) > 0 {
		fmt.Fprintf(&b, "Completed: %s\n", strings.Join(s.CompletedObjectives, ", "))
	}
	if s.GameOver {
		fmt.Fprintf(&b, "GAME OVER: %s wins\n", s.Winner.Title())
	}
	return b.String()
}

// digestState is the part of the world two replays must agree on.
type digestState struct {
	Snapshot Snapshot                     `json:"snapshot"`
	Base     string                       `json:"base"`
	Loyalty  []string                     `json:"loyalty"`
	Rosters  map[string][]string          `json:"rosters"`
	Leaders  map[content.Faction][]string `json:"leaders"`
}

// Digest hashes the game state with BLAKE3. Two games driven by the same
// seed and the same commands produce the same digest.
func (e *Engine) Digest() string {
	w := e.w
	d := digestState{
		Snapshot: e.Snapshot(),
		Base:     w.Base,
		Rosters:  make(map[string][]string, len(w.Order)),
		Leaders:  make(map[content.Faction][]string),
	}
	for _, id := range w.Order {
		d.Loyalty = append(d.Loyalty, id+"="+string(w.Systems[id].Loyalty))
		r := w.Rosters[id]
		var units []string
		for _, u := range append(append([]world.Unit(nil), r.Space...), r.Ground...) {
			units = append(units, fmt.Sprintf("%s:%s:%d", u.ID, u.TypeID, u.Damage))
		}
		if len(units) > 0 {
			d.Rosters[id] = units
		}
	}
	for _, f := range content.Factions {
		for _, l := range w.Leaders[f] {
			d.Leaders[f] = append(d.Leaders[f], fmt.Sprintf("%s@%s:%t", l.ID, l.Location, l.Captured))
		}
	}
	// Map keys are sorted by encoding/json, so the encoding is canonical.
	data, err := json.Marshal(d)
	if err != nil {
		panic(fmt.Sprintf("digest: %v", err))
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
