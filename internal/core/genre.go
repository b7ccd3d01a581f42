package core

import (
	"fmt"
	"strings"
)

// Genre tags what kind of payment an entry is.
type Genre int

const (
	GenreCulture Genre = iota
	GenreTechnology
	GenreTransfer
	GenreMembership
	GenreOthers
)

var genreNames = map[Genre]string{
	GenreCulture:    "culture",
	GenreTechnology: "technology",
	GenreTransfer:   "transfer",
	GenreMembership: "membership",
	GenreOthers:     "others",
}

// Genres returns all known genres in id order.
func Genres() []Genre {
	return []Genre{GenreCulture, GenreTechnology, GenreTransfer, GenreMembership, GenreOthers}
}

func (g Genre) String() string {
	if name, ok := genreNames[g]; ok {
		return name
	}
	return fmt.Sprintf("genre(%d)", int(g))
}

// Title returns the display title, e.g. "Membership".
func (g Genre) Title() string {
	name := g.String()
	if !g.IsValid() {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func (g Genre) IsValid() bool {
	_, ok := genreNames[g]
	return ok
}

// GenreFromID maps a persisted genre id. Unknown ids fall back to GenreOthers.
func GenreFromID(id int) Genre {
	g := Genre(id)
	if !g.IsValid() {
		return GenreOthers
	}
	return g
}

// ParseGenre accepts a genre name (case-insensitive) or its numeric id.
func ParseGenre(s string) (Genre, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for g, name := range genreNames {
		if name == s || fmt.Sprint(int(g)) == s {
			return g, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidGenre, s)
}
