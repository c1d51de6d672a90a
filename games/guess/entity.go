/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package guess

import (
	"context"
	"slices"
)

// UnknownColor is stored when a creature has no recorded color.
const UnknownColor = "unknown"

// Entity is one guessable creature. Engine code never modifies an Entity;
// populations are narrowed by building new slices.
type Entity struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Height      int      `json:"height"` // decimetres
	Weight      int      `json:"weight"` // hectograms
	Types       []string `json:"types"`
	Generation  int      `json:"generation"`
	Legendary   bool     `json:"legendary,omitempty"`
	Mythical    bool     `json:"mythical,omitempty"`
	Baby        bool     `json:"baby,omitempty"`
	EvolvesFrom string   `json:"evolves_from,omitempty"`
	ChainID     int      `json:"chain_id,omitempty"`
	Color       string   `json:"color"`
	Weaknesses  []string `json:"weaknesses,omitempty"`
	Strengths   []string `json:"strengths,omitempty"`
}

// Clone returns a copy of e that shares no slices with it.
func (e Entity) Clone() Entity {
	e.Types = slices.Clone(e.Types)
	e.Weaknesses = slices.Clone(e.Weaknesses)
	e.Strengths = slices.Clone(e.Strengths)

	return e
}

// Label is the name shown to players, falling back to the raw name.
func (e Entity) Label() string {
	if e.DisplayName != "" {
		return e.DisplayName
	}

	return e.Name
}

// Suggestion is the lightweight listing used for autocomplete.
type Suggestion struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// Provider supplies the roster a game is played against.
type Provider interface {
	// LoadEntities returns the full, enriched roster in a stable order.
	LoadEntities(ctx context.Context) ([]Entity, error)

	// LoadEntityByID returns full detail for one creature.
	LoadEntityByID(id int) (Entity, bool)
}

// StaticProvider serves a fixed in-memory roster.
type StaticProvider []Entity

func (p StaticProvider) LoadEntities(_ context.Context) ([]Entity, error) {
	out := make([]Entity, len(p))
	for i, e := range p {
		out[i] = e.Clone()
	}

	return out, nil
}

func (p StaticProvider) LoadEntityByID(id int) (Entity, bool) {
	for _, e := range p {
		if e.ID == id {
			return e.Clone(), true
		}
	}

	return Entity{}, false
}
