package content

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Effect is the closed set of mission effects.
type Effect int

const (
	EffectUnknown Effect = iota
	EffectProbe
	EffectIntelSweep
	EffectSwayDominion
	EffectSwayLiberation
	EffectPropaganda
	EffectBombardment
	EffectHitAndRun
	EffectGuerrilla
	EffectSubjugate
	EffectBuildTitan
	EffectBuildStructure
	EffectCapture
	EffectLogisticsMove
	EffectRapidMove
	EffectSabotage
	EffectCovertOp
	EffectUprising
	EffectRelocateBase
	EffectRecruit
)

var effectNames = map[Effect]string{
	EffectProbe:          "probe",
	EffectIntelSweep:     "intel_sweep",
	EffectSwayDominion:   "sway_dominion",
	EffectSwayLiberation: "sway_liberation",
	EffectPropaganda:     "propaganda",
	EffectBombardment:    "bombardment",
	EffectHitAndRun:      "hit_and_run",
	EffectGuerrilla:      "guerrilla",
	EffectSubjugate:      "subjugate",
	EffectBuildTitan:     "build_titan",
	EffectBuildStructure: "build_structure",
	EffectCapture:        "capture",
	EffectLogisticsMove:  "logistics_move",
	EffectRapidMove:      "rapid_move",
	EffectSabotage:       "sabotage",
	EffectCovertOp:       "covert_op",
	EffectUprising:       "uprising",
	EffectRelocateBase:   "relocate_base",
	EffectRecruit:        "recruit",
}

// Effects returns every known effect in declaration order.
func Effects() []Effect {
	out := make([]Effect, 0, len(effectNames))
	for e := EffectProbe; e <= EffectRecruit; e++ {
		out = append(out, e)
	}
	return out
}

func (e Effect) String() string {
	if name, ok := effectNames[e]; ok {
		return name
	}
	return "unknown"
}

// ParseEffect maps a tag to its effect.
func ParseEffect(tag string) (Effect, error) {
	for e, name := range effectNames {
		if name == tag {
			return e, nil
		}
	}
	return EffectUnknown, fmt.Errorf("unknown mission effect %q", tag)
}

func (e *Effect) UnmarshalYAML(value *yaml.Node) error {
	tag, err := decodeTag(value, "effect")
	if err != nil {
		return err
	}
	parsed, err := ParseEffect(tag)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

func (e Effect) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// Check is the closed set of objective predicates.
type Check int

const (
	CheckUnknown Check = iota
	CheckLoyaltyOutsideCore3
	CheckWinGroundDefense
	CheckDestroyCapital
	CheckLoyalty3Regions
	CheckControl3Production
	CheckWinSpaceVs3Plus
	CheckLoyalty5Systems
	CheckCaptureDomLeader
	CheckLoyaltyCoreWorld
	CheckControl4Regions
	CheckDestroyTitan
	CheckLoyalty8Systems
	CheckDestroy5UnitsBattle
	CheckSurvive10Turns
)

var checkNames = map[Check]string{
	CheckLoyaltyOutsideCore3: "loyalty_outside_core_3",
	CheckWinGroundDefense:    "win_ground_defense",
	CheckDestroyCapital:      "destroy_capital",
	CheckLoyalty3Regions:     "loyalty_3_regions",
	CheckControl3Production:  "control_3_production",
	CheckWinSpaceVs3Plus:     "win_space_vs_3plus",
	CheckLoyalty5Systems:     "loyalty_5_systems",
	CheckCaptureDomLeader:    "capture_dom_leader",
	CheckLoyaltyCoreWorld:    "loyalty_core_world",
	CheckControl4Regions:     "control_4_regions",
	CheckDestroyTitan:        "destroy_titan",
	CheckLoyalty8Systems:     "loyalty_8_systems",
	CheckDestroy5UnitsBattle: "destroy_5_units_battle",
	CheckSurvive10Turns:      "survive_10_turns",
}

func (c Check) String() string {
	if name, ok := checkNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseCheck maps a tag to its objective check.
func ParseCheck(tag string) (Check, error) {
	for c, name := range checkNames {
		if name == tag {
			return c, nil
		}
	}
	return CheckUnknown, fmt.Errorf("unknown objective check %q", tag)
}

func (c *Check) UnmarshalYAML(value *yaml.Node) error {
	tag, err := decodeTag(value, "check")
	if err != nil {
		return err
	}
	parsed, err := ParseCheck(tag)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Check) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
