package dice

// Color is a combat die color.
type Color string

const (
	Red   Color = "red"
	Black Color = "black"
)

// Face is the outcome of one die.
type Face string

const (
	Hit  Face = "hit"
	Crit Face = "crit"
	Miss Face = "miss"
)

var faces = map[Color][6]Face{
	Red:   {Hit, Hit, Hit, Crit, Miss, Miss},
	Black: {Hit, Hit, Crit, Miss, Miss, Miss},
}

// Die is a rolled die.
type Die struct {
	Color    Color `json:"color"`
	Face     Face  `json:"face"`
	Rerolled bool  `json:"rerolled,omitempty"`
}

// RollDie rolls a single die of color c.
func RollDie(src Source, c Color) Face {
	f := faces[c]
	return f[src.Intn(len(f))]
}

// Roll rolls the red dice, then the black dice. With reroll set, each miss is
// rolled again once, in place.
func Roll(src Source, red, black int, reroll bool) []Die {
	out := make([]Die, 0, red+black)
	for i := 0; i < red; i++ {
		out = append(out, Die{Color: Red, Face: RollDie(src, Red)})
	}
	for i := 0; i < black; i++ {
		out = append(out, Die{Color: Black, Face: RollDie(src, Black)})
	}
	if reroll {
		for i := range out {
			if out[i].Face == Miss {
				out[i].Face = RollDie(src, out[i].Color)
				out[i].Rerolled = true
			}
		}
	}
	return out
}

// Tally counts successes. A crit counts both as a hit and as a crit.
func Tally(rolled []Die) (hits, crits int) {
	for _, d := range rolled {
		switch d.Face {
		case Hit:
			hits++
		case Crit:
			hits++
			crits++
		}
	}
	return hits, crits
}
