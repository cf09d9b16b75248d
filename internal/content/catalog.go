package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

var (
	ErrUnknownUnitType = errors.New("unknown unit type")
	ErrUnknownSystem   = errors.New("unknown system")
)

// Catalog holds every static table of a game. It is read-only once loaded.
type Catalog struct {
	Rules         Rules                           `yaml:"rules"`
	Regions       []Region                        `yaml:"regions"`
	Systems       []SystemDef                     `yaml:"systems"`
	Connections   [][2]string                     `yaml:"connections"`
	UnitTypes     []UnitType                      `yaml:"unit_types"`
	Leaders       map[Faction][]LeaderDef         `yaml:"leaders"`
	Missions      map[Faction][]MissionDef        `yaml:"missions"`
	Objectives    []ObjectiveDef                  `yaml:"objectives"`
	Cards         map[Faction][]Card              `yaml:"cards"`
	Production    map[Faction]map[string][]string `yaml:"production"`
	Basics        map[Faction]BasicUnits          `yaml:"basics"`
	StartingUnits map[Faction][]Placement         `yaml:"starting_units"`

	units   map[string]UnitType
	systems map[string]SystemDef
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	c, err := Parse(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded catalog: %w", err)
	}
	return c, nil
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	if c.Leaders == nil {
		c.Leaders = make(map[Faction][]LeaderDef)
	}
	if c.Missions == nil {
		c.Missions = make(map[Faction][]MissionDef)
	}
	if c.Cards == nil {
		c.Cards = make(map[Faction][]Card)
	}
	if c.Production == nil {
		c.Production = make(map[Faction]map[string][]string)
	}
	if c.Basics == nil {
		c.Basics = make(map[Faction]BasicUnits)
	}
	if c.StartingUnits == nil {
		c.StartingUnits = make(map[Faction][]Placement)
	}
	if c.Rules.BuildCaps == nil {
		c.Rules.BuildCaps = make(map[Faction]int)
	}

	c.units = make(map[string]UnitType, len(c.UnitTypes))
	for _, u := range c.UnitTypes {
		c.units[u.ID] = u
	}
	c.systems = make(map[string]SystemDef, len(c.Systems))
	for _, s := range c.Systems {
		c.systems[s.ID] = s
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if !c.Rules.FirstPlayer.Valid() {
		return fmt.Errorf("invalid first player %q", c.Rules.FirstPlayer)
	}
	for _, pair := range c.Connections {
		for _, id := range pair {
			if _, ok := c.systems[id]; !ok {
				return fmt.Errorf("connection %s-%s: %w: %s", pair[0], pair[1], ErrUnknownSystem, id)
			}
		}
	}
	for _, u := range c.UnitTypes {
		if !u.Faction.Valid() {
			return fmt.Errorf("unit type %s: invalid faction %q", u.ID, u.Faction)
		}
	}
	for f, byResource := range c.Production {
		for res, options := range byResource {
			for _, id := range options {
				if _, ok := c.units[id]; !ok {
					return fmt.Errorf("production %s/%s: %w: %s", f, res, ErrUnknownUnitType, id)
				}
			}
		}
	}
	for f, b := range c.Basics {
		for _, id := range []string{b.Trooper, b.Structure, b.Titan} {
			if id == "" {
				continue
			}
			if _, ok := c.units[id]; !ok {
				return fmt.Errorf("basic units of %s: %w: %s", f, ErrUnknownUnitType, id)
			}
		}
	}
	for f, placements := range c.StartingUnits {
		for _, p := range placements {
			if _, ok := c.systems[p.System]; !ok && p.System != BaseSystem {
				return fmt.Errorf("starting units of %s: %w: %s", f, ErrUnknownSystem, p.System)
			}
			for _, uc := range p.Units {
				if _, ok := c.units[uc.Type]; !ok {
					return fmt.Errorf("starting units of %s: %w: %s", f, ErrUnknownUnitType, uc.Type)
				}
			}
		}
	}
	for f, leaders := range c.Leaders {
		for _, l := range leaders {
			if l.Start == "" {
				continue
			}
			if _, ok := c.systems[l.Start]; !ok {
				return fmt.Errorf("leader %s of %s: %w: %s", l.ID, f, ErrUnknownSystem, l.Start)
			}
		}
	}
	for _, o := range c.Objectives {
		if o.Check == CheckUnknown {
			return fmt.Errorf("objective %s has no check", o.ID)
		}
	}
	for f, missions := range c.Missions {
		for _, m := range missions {
			if m.Effect == EffectUnknown {
				return fmt.Errorf("mission %s of %s has no effect", m.ID, f)
			}
		}
	}
	return nil
}

// UnitType looks a unit definition up by id.
func (c *Catalog) UnitType(id string) (UnitType, error) {
	u, ok := c.units[id]
	if !ok {
		return UnitType{}, fmt.Errorf("%w: %s", ErrUnknownUnitType, id)
	}
	return u, nil
}

// MustUnitType is UnitType for ids that come from the validated catalog
// itself; an unknown id there is a programming error.
func (c *Catalog) MustUnitType(id string) UnitType {
	u, err := c.UnitType(id)
	if err != nil {
		panic(err)
	}
	return u
}

// System looks a system definition up by id.
func (c *Catalog) System(id string) (SystemDef, error) {
	s, ok := c.systems[id]
	if !ok {
		return SystemDef{}, fmt.Errorf("%w: %s", ErrUnknownSystem, id)
	}
	return s, nil
}

// Mission finds a mission of the faction pool by id.
func (c *Catalog) Mission(f Faction, id string) (MissionDef, bool) {
	for _, m := range c.Missions[f] {
		if m.ID == id {
			return m, true
		}
	}
	return MissionDef{}, false
}

// Card finds a tactic card of the faction pool by id.
func (c *Catalog) Card(f Faction, id string) (Card, bool) {
	for _, card := range c.Cards[f] {
		if card.ID == id {
			return card, true
		}
	}
	return Card{}, false
}

// RegionName returns the display name of a region, or its id.
func (c *Catalog) RegionName(id string) string {
	for _, r := range c.Regions {
		if r.ID == id {
			return r.Name
		}
	}
	return id
}
