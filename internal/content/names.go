package content

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func title(s string) string {
	return cases.Title(language.English).String(s)
}

// Title returns the display name of the faction.
func (f Faction) Title() string {
	return title(string(f))
}

// Title returns the display name of the domain.
func (d Domain) Title() string {
	return title(string(d))
}

// Title returns the display name of the loyalty.
func (l Loyalty) Title() string {
	return title(string(l))
}
