/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package guess

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGame_TwoEntitiesByWeight(t *testing.T) {
	g := started(t, []Entity{
		{ID: 1, Name: "a", Weight: 10},
		{ID: 2, Name: "b", Weight: 90},
	})

	snap := g.State()
	require.NotNil(t, snap.CurrentQuestion)
	assert.Equal(t, StrategyWeight, snap.CurrentQuestion.Type)
	assert.Equal(t, 10, snap.CurrentQuestion.Threshold)
	assert.Equal(t, 2, snap.Remaining)

	g.AnswerQuestion(Yes)

	snap = g.State()
	assert.True(t, snap.Complete)
	assert.Nil(t, snap.CurrentQuestion)
	assert.Equal(t, ReasonIdentified, snap.Reason)
	require.NotNil(t, snap.Guess)
	assert.Equal(t, 2, snap.Guess.ID)
	assert.Equal(t, 1, snap.Remaining)
}

func TestGame_FireOrWater(t *testing.T) {
	g := started(t, []Entity{
		{ID: 1, Name: "a", Types: []string{"fire"}},
		{ID: 2, Name: "b", Types: []string{"fire"}},
		{ID: 3, Name: "c", Types: []string{"water"}},
		{ID: 4, Name: "d", Types: []string{"water"}},
	})

	snap := g.State()
	require.NotNil(t, snap.CurrentQuestion)
	assert.Equal(t, StrategyElement, snap.CurrentQuestion.Type)
	assert.Equal(t, "fire", snap.CurrentQuestion.Value)

	g.AnswerQuestion(No)

	assert.Equal(t, []string{"c", "d"}, names(g.st.population))

	// Nothing else tells c and d apart.
	snap = g.State()
	assert.True(t, snap.Complete)
	assert.Equal(t, ReasonInconclusive, snap.Reason)
	require.NotNil(t, snap.Guess)
	assert.Equal(t, "c", snap.Guess.Name)
}

func TestGame_UnknownUntilBudget(t *testing.T) {
	a := Entity{ID: 1, Name: "a"}
	b := Entity{ID: 2, Name: "b"}
	for i := 1; i <= 12; i++ {
		a.Types = append(a.Types, fmt.Sprintf("t%02d", i))
		b.Types = append(b.Types, fmt.Sprintf("u%02d", i))
	}

	g := started(t, []Entity{a, b})

	asked := 0
	for !g.State().Complete {
		require.Less(t, asked, DefaultBudget)

		g.AnswerQuestion(Unknown)
		asked++

		assert.Equal(t, 2, g.State().Remaining)
	}

	snap := g.State()
	assert.Equal(t, DefaultBudget, asked)
	assert.Equal(t, DefaultBudget, snap.Asked)
	assert.Equal(t, ReasonBudget, snap.Reason)
	require.NotNil(t, snap.Guess)
	assert.Equal(t, "a", snap.Guess.Name)
}

func TestGame_Budget(t *testing.T) {
	g := started(t, kanto(), WithBudget(1))

	g.AnswerQuestion(Unknown)

	snap := g.State()
	assert.True(t, snap.Complete)
	assert.Equal(t, 1, snap.Budget)
	assert.Equal(t, ReasonBudget, snap.Reason)
	assert.Equal(t, "bulbasaur", snap.Guess.Name)
}

func TestGame_IdentifiesEveryCreature(t *testing.T) {
	roster := kanto()

	for _, target := range roster {
		t.Run(target.Name, func(t *testing.T) {
			g := started(t, roster)
			truthfully(t, g, target)

			snap := g.State()
			require.NotNil(t, snap.Guess)
			assert.Equal(t, target.Name, snap.Guess.Name)
			assert.Equal(t, ReasonIdentified, snap.Reason)
		})
	}
}

func TestGame_Invariants(t *testing.T) {
	patterns := map[string][]Response{
		"yes":     {Yes},
		"no":      {No},
		"unknown": {Unknown},
		"mixed":   {Yes, No, Unknown, No},
		"alt":     {No, Unknown, Yes},
	}

	for name, pattern := range patterns {
		t.Run(name, func(t *testing.T) {
			g := started(t, kanto())
			seen := map[string]bool{}

			for i := 0; !g.State().Complete; i++ {
				require.LessOrEqual(t, i, DefaultBudget, "game must end within its budget")

				snap := g.State()
				q := snap.CurrentQuestion
				require.NotNil(t, q)

				assert.False(t, seen[q.Key()], "question %q repeated", q.Text)
				seen[q.Key()] = true

				s, ok := Lookup(q.Type)
				require.True(t, ok)

				yes, no := s.split(g.st.population, g.lineage, *q)
				assert.Positive(t, yes, q.Text)
				assert.Positive(t, no, q.Text)

				r := pattern[i%len(pattern)]
				before := snap.Remaining
				g.AnswerQuestion(r)
				after := g.State().Remaining

				if r == Unknown {
					assert.Equal(t, before, after)
				} else {
					assert.LessOrEqual(t, after, before)
				}
			}

			assert.LessOrEqual(t, g.State().Asked, DefaultBudget)
		})
	}
}

func TestGame_Deterministic(t *testing.T) {
	play := func() []Snapshot {
		g := started(t, kanto())
		responses := []Response{No, Unknown, Yes, No, No, Yes}

		var out []Snapshot
		for i := 0; !g.State().Complete; i++ {
			out = append(out, g.State())
			g.AnswerQuestion(responses[i%len(responses)])
		}

		return append(out, g.State())
	}

	assert.Equal(t, play(), play())
}

func TestGame_SnapshotsAreCopies(t *testing.T) {
	g := started(t, kanto())
	g.AnswerQuestion(Yes)

	first := g.State()
	second := g.State()
	require.Equal(t, first, second)

	first.History[0].Response = No
	first.History = append(first.History, AnsweredQuestion{})
	first.CurrentQuestion.Text = "changed"
	first.Remaining = 0

	assert.Equal(t, second, g.State())

	truthfully(t, g, byName(t, kanto(), "mewtwo"))

	done := g.State()
	require.NotNil(t, done.Guess)
	done.Guess.Types[0] = "changed"

	assert.Equal(t, "psychic", g.State().Guess.Types[0])
}

func TestGame_StrayAnswersIgnored(t *testing.T) {
	g := New(StaticProvider(kanto()))

	g.AnswerQuestion(Yes)
	assert.False(t, g.State().Started)

	require.NoError(t, g.StartNewGame(context.Background()))

	before := g.State()
	g.AnswerQuestion("maybe")
	assert.Equal(t, before, g.State())

	truthfully(t, g, byName(t, kanto(), "squirtle"))

	done := g.State()
	g.AnswerQuestion(No)
	assert.Equal(t, done, g.State())
}

func TestGame_StartNewGameResets(t *testing.T) {
	g := started(t, kanto())
	g.AnswerQuestion(No)
	g.AnswerQuestion(Yes)

	require.NoError(t, g.StartNewGame(context.Background()))

	snap := g.State()
	assert.Empty(t, snap.History)
	assert.Equal(t, len(kanto()), snap.Remaining)
	assert.False(t, snap.Complete)
	assert.Nil(t, snap.Guess)
}

func TestGame_ProviderFailure(t *testing.T) {
	g := New(failingProvider{})

	err := g.StartNewGame(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errOffline)
	assert.False(t, g.Started())

	_, err = g.Suggestions(context.Background())
	assert.ErrorIs(t, err, errOffline)
}

func TestGame_EmptyRoster(t *testing.T) {
	g := New(StaticProvider(nil))

	assert.ErrorIs(t, g.StartNewGame(context.Background()), ErrNoEntities)
	assert.False(t, g.Started())
}

func TestGame_SingleCreatureCompletesImmediately(t *testing.T) {
	g := started(t, []Entity{{ID: 9, Name: "solo", Types: []string{"normal"}}})

	snap := g.State()
	assert.True(t, snap.Complete)
	assert.Empty(t, snap.History)
	assert.Equal(t, ReasonIdentified, snap.Reason)
	assert.Equal(t, "solo", snap.Guess.Name)
}

func TestGame_EliminatedHasNoGuess(t *testing.T) {
	g := started(t, kanto())

	g.mu.Lock()
	g.st.population = nil
	g.complete()
	g.mu.Unlock()

	snap := g.State()
	assert.True(t, snap.Complete)
	assert.Equal(t, ReasonEliminated, snap.Reason)
	assert.Nil(t, snap.Guess)
}

func TestGame_GuessUsesFullDetail(t *testing.T) {
	full := kanto()
	for i := range full {
		full[i].DisplayName = "Detailed " + full[i].Name
	}

	g := New(detailProvider{full: full})
	require.NoError(t, g.StartNewGame(context.Background()))

	target := byName(t, full, "charmeleon")
	for !g.State().Complete {
		snap := g.State()
		s, _ := Lookup(snap.CurrentQuestion.Type)

		if s.Match(target, g.lineage, *snap.CurrentQuestion) {
			g.AnswerQuestion(Yes)
		} else {
			g.AnswerQuestion(No)
		}
	}

	snap := g.State()
	require.NotNil(t, snap.Guess)
	assert.Equal(t, "Detailed charmeleon", snap.Guess.DisplayName)
	assert.Equal(t, 11, snap.Guess.Height)
}

func TestGame_Suggestions(t *testing.T) {
	roster := kanto()
	roster[0].DisplayName = "Bulbasaur"

	g := New(StaticProvider(roster))

	got, err := g.Suggestions(context.Background())
	require.NoError(t, err)
	require.Len(t, got, len(roster))
	assert.Equal(t, Suggestion{ID: 1, Name: "bulbasaur", DisplayName: "Bulbasaur"}, got[0])
	assert.Equal(t, "ivysaur", got[1].DisplayName)
}

func TestGame_LogsSelection(t *testing.T) {
	var lines []string

	started(t, kanto(), WithLogger(func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}))

	assert.Contains(t, lines, `GUESS: height considered "Is it taller than 0.6 m?" (split 4/5)`)
	assert.Contains(t, lines, `GUESS: Asking "Is it taller than 0.6 m?" (9 candidates, question 1 of 20)`)
}
