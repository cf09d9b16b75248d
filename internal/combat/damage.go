package combat

import (
	"sort"

	"github.com/npow/galactic-uprising/internal/world"
)

// ApplyDamage distributes hits over units in place and returns the units it
// destroyed. Up to crits of the hits land first, one per unit from the
// largest max health down. Every other hit, including crits left over once
// each unit took one, goes to the surviving unit with the least remaining
// health. Units already destroyed are skipped.
func ApplyDamage(units []world.Unit, hits, crits int) []world.Unit {
	var lost []world.Unit
	strike := func(i int) {
		units[i].Damage++
		if units[i].Destroyed() {
			lost = append(lost, units[i])
		}
	}

	landed := min(crits, hits)
	remaining := hits - landed
	order := aliveIndexes(units)
	sort.SliceStable(order, func(a, b int) bool {
		return units[order[a]].MaxHealth > units[order[b]].MaxHealth
	})
	for _, i := range order {
		if landed == 0 {
			break
		}
		strike(i)
		landed--
	}
	remaining += landed

	for ; remaining > 0; remaining-- {
		i := weakest(units)
		if i < 0 {
			break
		}
		strike(i)
	}
	return lost
}

// directHit deals one damage to each of up to n light units.
func directHit(units []world.Unit, n int) []world.Unit {
	var lost []world.Unit
	for i := range units {
		if n == 0 {
			break
		}
		if units[i].Destroyed() || !isLight(units[i]) {
			continue
		}
		units[i].Damage++
		n--
		if units[i].Destroyed() {
			lost = append(lost, units[i])
		}
	}
	return lost
}

// sacrifice destroys the n weakest surviving units.
func sacrifice(units []world.Unit, n int) []world.Unit {
	var lost []world.Unit
	for ; n > 0; n-- {
		i := weakest(units)
		if i < 0 {
			break
		}
		units[i].Damage = units[i].MaxHealth
		lost = append(lost, units[i])
	}
	return lost
}

func survivors(units []world.Unit) []world.Unit {
	out := make([]world.Unit, 0, len(units))
	for _, u := range units {
		if !u.Destroyed() {
			out = append(out, u)
		}
	}
	return out
}

func aliveIndexes(units []world.Unit) []int {
	var out []int
	for i, u := range units {
		if !u.Destroyed() {
			out = append(out, i)
		}
	}
	return out
}

func weakest(units []world.Unit) int {
	best := -1
	for i, u := range units {
		if u.Destroyed() {
			continue
		}
		if best < 0 || u.Remaining() < units[best].Remaining() {
			best = i
		}
	}
	return best
}

// isLight matches fighters and any other single-health hull.
func isLight(u world.Unit) bool {
	return u.Light || u.MaxHealth == 1
}
