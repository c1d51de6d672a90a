/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package roster

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Seednode/whosthat/games/guess"
)

// ErrInvalidRoster is wrapped by every validation failure.
var ErrInvalidRoster = errors.New("invalid roster")

// DisplayName turns a roster name such as "mr-mime" into "Mr Mime".
func DisplayName(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "-", " "))
}

// Enrich validates records and turns them into engine entities, deriving
// display names, weaknesses and strengths. Order is preserved.
func Enrich(records []Record) ([]guess.Entity, error) {
	out := make([]guess.Entity, 0, len(records))

	ids := make(map[int]bool, len(records))
	names := make(map[string]bool, len(records))

	for i, r := range records {
		name := strings.ToLower(strings.TrimSpace(r.Name))

		switch {
		case r.ID <= 0:
			return nil, fmt.Errorf("%w: entry %d: id must be positive, got %d", ErrInvalidRoster, i, r.ID)
		case ids[r.ID]:
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidRoster, r.ID)
		case name == "":
			return nil, fmt.Errorf("%w: creature %d has no name", ErrInvalidRoster, r.ID)
		case names[name]:
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidRoster, name)
		case len(r.Types) == 0:
			return nil, fmt.Errorf("%w: %s has no types", ErrInvalidRoster, name)
		case r.Height < 0 || r.Weight < 0:
			return nil, fmt.Errorf("%w: %s has a negative height or weight", ErrInvalidRoster, name)
		}

		ids[r.ID] = true
		names[name] = true

		types := make([]string, 0, len(r.Types))
		for _, t := range r.Types {
			t = strings.ToLower(strings.TrimSpace(t))
			if !KnownType(t) {
				return nil, fmt.Errorf("%w: %s has unknown type %q", ErrInvalidRoster, name, t)
			}
			types = append(types, t)
		}

		color := strings.ToLower(strings.TrimSpace(r.Color))
		if color == "" {
			color = guess.UnknownColor
		}

		out = append(out, guess.Entity{
			ID:          r.ID,
			Name:        name,
			DisplayName: DisplayName(name),
			Height:      r.Height,
			Weight:      r.Weight,
			Types:       types,
			Generation:  r.Generation,
			Legendary:   r.Legendary,
			Mythical:    r.Mythical,
			Baby:        r.Baby,
			EvolvesFrom: strings.ToLower(strings.TrimSpace(r.EvolvesFrom)),
			ChainID:     r.Chain,
			Color:       color,
			Weaknesses:  Weaknesses(types),
			Strengths:   Strengths(types),
		})
	}

	if cycle := guess.NewLineage(out).Cycle(); cycle != nil {
		return nil, fmt.Errorf("%w: evolution cycle %s", ErrInvalidRoster, strings.Join(append(cycle, cycle[0]), " -> "))
	}

	return out, nil
}
