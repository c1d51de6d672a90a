/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package guess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLookup(t *testing.T, st StrategyType) Strategy {
	t.Helper()

	s, ok := Lookup(st)
	require.True(t, ok, "strategy %s not registered", st)

	return s
}

func TestRegistry_OrderAndLookup(t *testing.T) {
	want := []StrategyType{
		StrategyElement, StrategyGeneration, StrategyColor, StrategyHeight, StrategyWeight,
		StrategyLegendary, StrategyMythical, StrategyBaby, StrategyEvolution,
		StrategyWeakness, StrategyStrength,
	}

	got := make([]StrategyType, 0, len(want))
	for _, s := range Registry() {
		got = append(got, s.Type)

		require.NotNil(t, s.Generate, s.Type)
		require.NotNil(t, s.Match, s.Type)
		require.NotNil(t, s.Describe, s.Type)
	}

	assert.Equal(t, want, got)

	_, ok := Lookup("shininess")
	assert.False(t, ok)
}

func TestNumeric_TwoEntitiesUsesSmallestValue(t *testing.T) {
	pop := []Entity{
		{ID: 1, Name: "a", Weight: 10},
		{ID: 2, Name: "b", Weight: 90},
	}
	s := mustLookup(t, StrategyWeight)

	q, ok := s.Generate(Pool{Entities: pop})
	require.True(t, ok)
	assert.Equal(t, 10, q.Threshold)
	assert.Equal(t, "Is it heavier than 1.0 kg?", q.Text)

	assert.Equal(t, []string{"b"}, names(s.Filter(pop, nil, q, Yes)))
	assert.Equal(t, []string{"a"}, names(s.Filter(pop, nil, q, No)))
}

func TestNumeric_SmallPopulationWithoutSplit(t *testing.T) {
	pop := []Entity{
		{ID: 1, Name: "a", Height: 5},
		{ID: 2, Name: "b", Height: 5},
		{ID: 3, Name: "c", Height: 5},
	}

	_, ok := mustLookup(t, StrategyHeight).Generate(Pool{Entities: pop})
	assert.False(t, ok)
}

func TestNumeric_SmallPopulationKeepsSmallestWhenItSplits(t *testing.T) {
	pop := []Entity{
		{ID: 1, Name: "a", Height: 30},
		{ID: 2, Name: "b", Height: 10},
		{ID: 3, Name: "c", Height: 10},
	}

	q, ok := mustLookup(t, StrategyHeight).Generate(Pool{Entities: pop})
	require.True(t, ok)
	assert.Equal(t, 10, q.Threshold)
	assert.Equal(t, "Is it taller than 1.0 m?", q.Text)
}

func TestNumeric_LargePopulationUsesMedianIndex(t *testing.T) {
	pop := []Entity{
		{ID: 1, Name: "a", Weight: 40},
		{ID: 2, Name: "b", Weight: 10},
		{ID: 3, Name: "c", Weight: 30},
		{ID: 4, Name: "d", Weight: 20},
		{ID: 5, Name: "e", Weight: 50},
	}
	s := mustLookup(t, StrategyWeight)

	q, ok := s.Generate(Pool{Entities: pop})
	require.True(t, ok)
	assert.Equal(t, 30, q.Threshold)

	assert.Equal(t, []string{"a", "e"}, names(s.Filter(pop, nil, q, Yes)))
	assert.Equal(t, []string{"b", "c", "d"}, names(s.Filter(pop, nil, q, No)))
}

func TestNumeric_SingleEntity(t *testing.T) {
	_, ok := mustLookup(t, StrategyWeight).Generate(Pool{Entities: []Entity{{ID: 1, Name: "a", Weight: 1}}})
	assert.False(t, ok)
}

func TestMembership_ExactHalf(t *testing.T) {
	pop := []Entity{
		{ID: 1, Name: "a", Types: []string{"fire"}},
		{ID: 2, Name: "b", Types: []string{"fire"}},
		{ID: 3, Name: "c", Types: []string{"water"}},
		{ID: 4, Name: "d", Types: []string{"water"}},
	}
	s := mustLookup(t, StrategyElement)

	q, ok := s.Generate(Pool{Entities: pop})
	require.True(t, ok)
	assert.Equal(t, "fire", q.Value)
	assert.Equal(t, "Is it a fire type?", q.Text)

	assert.Equal(t, []string{"c", "d"}, names(s.Filter(pop, nil, q, No)))
	assert.Equal(t, []string{"a", "b"}, names(s.Filter(pop, nil, q, Yes)))
}

func TestMembership_ClosestToHalf(t *testing.T) {
	pop := []Entity{
		{ID: 1, Name: "a", Types: []string{"grass"}},
		{ID: 2, Name: "b", Types: []string{"ice"}},
		{ID: 3, Name: "c", Types: []string{"ice"}},
		{ID: 4, Name: "d", Types: []string{"water"}},
		{ID: 5, Name: "e", Types: []string{"water"}},
	}

	q, ok := mustLookup(t, StrategyElement).Generate(Pool{Entities: pop})
	require.True(t, ok)
	assert.Equal(t, "ice", q.Value)
	assert.Equal(t, "Is it an ice type?", q.Text)
}

func TestMembership_SkipsAskedValues(t *testing.T) {
	pop := []Entity{
		{ID: 1, Name: "a", Types: []string{"fire"}},
		{ID: 2, Name: "b", Types: []string{"fire"}},
		{ID: 3, Name: "c", Types: []string{"water"}},
		{ID: 4, Name: "d", Types: []string{"water"}},
	}
	asked := map[string]bool{
		Question{Type: StrategyElement, Text: "Is it a fire type?"}.Key(): true,
	}

	q, ok := mustLookup(t, StrategyElement).Generate(Pool{Entities: pop, Asked: asked})
	require.True(t, ok)
	assert.Equal(t, "water", q.Value)

	asked[q.Key()] = true

	_, ok = mustLookup(t, StrategyElement).Generate(Pool{Entities: pop, Asked: asked})
	assert.False(t, ok)
}

func TestMembership_NoValues(t *testing.T) {
	pop := []Entity{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}

	for _, st := range []StrategyType{StrategyElement, StrategyGeneration, StrategyWeakness, StrategyStrength} {
		_, ok := mustLookup(t, st).Generate(Pool{Entities: pop})
		assert.False(t, ok, st)
	}
}

func TestColor_IgnoresUnknown(t *testing.T) {
	pop := []Entity{
		{ID: 1, Name: "a", Color: UnknownColor},
		{ID: 2, Name: "b", Color: UnknownColor},
		{ID: 3, Name: "c", Color: "blue"},
	}

	q, ok := mustLookup(t, StrategyColor).Generate(Pool{Entities: pop})
	require.True(t, ok)
	assert.Equal(t, "blue", q.Value)
	assert.Equal(t, "Is it mostly blue?", q.Text)
}

func TestGeneration_Equality(t *testing.T) {
	pop := kanto()
	s := mustLookup(t, StrategyGeneration)

	q, ok := s.Generate(Pool{Entities: pop})
	require.True(t, ok)
	assert.Equal(t, "1", q.Value)
	assert.Equal(t, []string{"pichu"}, names(s.Filter(pop, nil, q, No)))
}

func TestFlag_RequiresBothSides(t *testing.T) {
	s := mustLookup(t, StrategyLegendary)

	_, ok := s.Generate(Pool{Entities: []Entity{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}})
	assert.False(t, ok)

	_, ok = s.Generate(Pool{Entities: []Entity{{ID: 1, Name: "a", Legendary: true}, {ID: 2, Name: "b", Legendary: true}}})
	assert.False(t, ok)

	pop := kanto()
	q, ok := s.Generate(Pool{Entities: pop})
	require.True(t, ok)
	assert.Equal(t, "Is it a legendary creature?", q.Text)
	assert.Equal(t, []string{"mewtwo"}, names(s.Filter(pop, nil, q, Yes)))
	assert.Len(t, s.Filter(pop, nil, q, No), len(pop)-1)
}

func TestEvolution_PrefersEvolvedOnTie(t *testing.T) {
	roster := kanto()
	l := NewLineage(roster)
	pop := []Entity{
		byName(t, roster, "bulbasaur"),
		byName(t, roster, "ivysaur"),
		byName(t, roster, "charmander"),
		byName(t, roster, "charmeleon"),
	}
	s := mustLookup(t, StrategyEvolution)

	q, ok := s.Generate(Pool{Entities: pop, Lineage: l})
	require.True(t, ok)
	assert.Equal(t, evolutionEvolved, q.Value)
	assert.Equal(t, []string{"ivysaur", "charmeleon"}, names(s.Filter(pop, l, q, Yes)))
}

func TestEvolution_FallsBackToHasEvolution(t *testing.T) {
	roster := kanto()
	l := NewLineage(roster)
	pop := []Entity{
		byName(t, roster, "bulbasaur"),
		byName(t, roster, "charmander"),
		byName(t, roster, "squirtle"),
		byName(t, roster, "mew"),
	}
	s := mustLookup(t, StrategyEvolution)

	q, ok := s.Generate(Pool{Entities: pop, Lineage: l})
	require.True(t, ok)
	assert.Equal(t, evolutionEvolves, q.Value)
	assert.Equal(t, "Can it evolve into another creature?", q.Text)
	assert.Equal(t, []string{"bulbasaur", "charmander"}, names(s.Filter(pop, l, q, Yes)))
	assert.Equal(t, []string{"squirtle", "mew"}, names(s.Filter(pop, l, q, No)))
}

func TestEvolution_NoUsefulSplit(t *testing.T) {
	roster := kanto()
	pop := []Entity{byName(t, roster, "squirtle"), byName(t, roster, "mewtwo")}

	_, ok := mustLookup(t, StrategyEvolution).Generate(Pool{Entities: pop, Lineage: NewLineage(roster)})
	assert.False(t, ok)
}

func TestWeakness_CountsEachSetMember(t *testing.T) {
	pop := []Entity{
		{ID: 1, Name: "a", Weaknesses: []string{"fire", "ice"}},
		{ID: 2, Name: "b", Weaknesses: []string{"ice"}},
		{ID: 3, Name: "c", Weaknesses: []string{"ice", "rock"}},
		{ID: 4, Name: "d", Weaknesses: []string{"rock", "fire"}},
	}
	s := mustLookup(t, StrategyWeakness)

	q, ok := s.Generate(Pool{Entities: pop})
	require.True(t, ok)
	assert.Equal(t, "fire", q.Value)
	assert.Equal(t, "Is it weak against fire-type moves?", q.Text)
	assert.Equal(t, []string{"a", "d"}, names(s.Filter(pop, nil, q, Yes)))
	assert.Equal(t, []string{"b", "c"}, names(s.Filter(pop, nil, q, No)))
}

func TestStrength_Filter(t *testing.T) {
	pop := []Entity{
		{ID: 1, Name: "a", Strengths: []string{"grass"}},
		{ID: 2, Name: "b", Strengths: []string{"water", "grass"}},
		{ID: 3, Name: "c", Strengths: []string{"water"}},
	}
	s := mustLookup(t, StrategyStrength)

	q, ok := s.Generate(Pool{Entities: pop})
	require.True(t, ok)
	assert.Equal(t, "Is it strong against grass-type creatures?", q.Text)
	assert.Equal(t, []string{"c"}, names(s.Filter(pop, nil, q, No)))
}

func TestFilter_UnknownKeepsEveryone(t *testing.T) {
	pop := kanto()
	s := mustLookup(t, StrategyHeight)

	q, ok := s.Generate(Pool{Entities: pop})
	require.True(t, ok)

	assert.Equal(t, names(pop), names(s.Filter(pop, nil, q, Unknown)))
}

func TestDescribe(t *testing.T) {
	roster := kanto()
	l := NewLineage(roster)
	ivysaur := byName(t, roster, "ivysaur")

	cases := map[StrategyType]string{
		StrategyElement:    "its types are grass and poison",
		StrategyGeneration: "it was introduced in generation 1",
		StrategyColor:      "it is mostly green",
		StrategyHeight:     "it is 1.0 m tall",
		StrategyWeight:     "it weighs 13.0 kg",
		StrategyLegendary:  "it is not a legendary creature",
		StrategyEvolution:  "it evolves from bulbasaur and cannot evolve further",
		StrategyWeakness:   "it is weak against nothing",
	}

	for st, want := range cases {
		assert.Equal(t, want, mustLookup(t, st).Describe(ivysaur, l), st)
	}

	pichu := byName(t, roster, "pichu")
	assert.Equal(t, "it does not evolve from anything and can evolve into pikachu", mustLookup(t, StrategyEvolution).Describe(pichu, l))
	assert.Equal(t, "it is a baby creature", mustLookup(t, StrategyBaby).Describe(pichu, l))
}

func TestParseResponse(t *testing.T) {
	for in, want := range map[string]Response{"yes": Yes, " Y ": Yes, "no": No, "N": No, "unknown": Unknown, "?": Unknown} {
		got, err := ParseResponse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseResponse("maybe")
	assert.Error(t, err)
}
