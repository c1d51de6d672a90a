/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package guess

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func kanto() []Entity {
	return []Entity{
		{ID: 1, Name: "bulbasaur", Height: 7, Weight: 69, Types: []string{"grass", "poison"}, Generation: 1, Color: "green", ChainID: 1},
		{ID: 2, Name: "ivysaur", Height: 10, Weight: 130, Types: []string{"grass", "poison"}, Generation: 1, Color: "green", ChainID: 1, EvolvesFrom: "bulbasaur"},
		{ID: 4, Name: "charmander", Height: 6, Weight: 85, Types: []string{"fire"}, Generation: 1, Color: "red", ChainID: 2},
		{ID: 5, Name: "charmeleon", Height: 11, Weight: 190, Types: []string{"fire"}, Generation: 1, Color: "red", ChainID: 2, EvolvesFrom: "charmander"},
		{ID: 7, Name: "squirtle", Height: 5, Weight: 90, Types: []string{"water"}, Generation: 1, Color: "blue", ChainID: 3},
		{ID: 25, Name: "pikachu", Height: 4, Weight: 60, Types: []string{"electric"}, Generation: 1, Color: "yellow", ChainID: 10, EvolvesFrom: "pichu"},
		{ID: 172, Name: "pichu", Height: 3, Weight: 20, Types: []string{"electric"}, Generation: 2, Color: "yellow", ChainID: 10, Baby: true},
		{ID: 150, Name: "mewtwo", Height: 20, Weight: 1220, Types: []string{"psychic"}, Generation: 1, Color: "purple", Legendary: true},
		{ID: 151, Name: "mew", Height: 4, Weight: 40, Types: []string{"psychic"}, Generation: 1, Color: "pink", Mythical: true},
	}
}

func byName(t *testing.T, entities []Entity, name string) Entity {
	t.Helper()

	for _, e := range entities {
		if e.Name == name {
			return e
		}
	}

	require.FailNow(t, "no entity named "+name)

	return Entity{}
}

func names(entities []Entity) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.Name
	}

	return out
}

// truthfully answers every question the way a player thinking of target would.
func truthfully(t *testing.T, g *Game, target Entity) {
	t.Helper()

	for i := 0; i <= g.budget; i++ {
		snap := g.State()
		if snap.Complete {
			return
		}

		require.NotNil(t, snap.CurrentQuestion)

		s, ok := Lookup(snap.CurrentQuestion.Type)
		require.True(t, ok)

		if s.Match(target, g.lineage, *snap.CurrentQuestion) {
			g.AnswerQuestion(Yes)
		} else {
			g.AnswerQuestion(No)
		}
	}

	require.FailNow(t, "game did not complete within its budget")
}

func started(t *testing.T, entities []Entity, opts ...Option) *Game {
	t.Helper()

	g := New(StaticProvider(entities), opts...)
	require.NoError(t, g.StartNewGame(context.Background()))

	return g
}

var errOffline = errors.New("roster offline")

type failingProvider struct{}

func (failingProvider) LoadEntities(context.Context) ([]Entity, error) {
	return nil, errOffline
}

func (failingProvider) LoadEntityByID(int) (Entity, bool) {
	return Entity{}, false
}

// detailProvider serves a reduced projection of its roster and full detail
// only by id.
type detailProvider struct {
	full []Entity
}

func (p detailProvider) LoadEntities(context.Context) ([]Entity, error) {
	out := make([]Entity, len(p.full))
	for i, e := range p.full {
		out[i] = Entity{ID: e.ID, Name: e.Name, Weight: e.Weight, Types: e.Types, Color: e.Color}
	}

	return out, nil
}

func (p detailProvider) LoadEntityByID(id int) (Entity, bool) {
	return StaticProvider(p.full).LoadEntityByID(id)
}
