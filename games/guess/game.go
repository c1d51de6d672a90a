/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package guess

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// DefaultBudget is the number of questions a game may ask.
const DefaultBudget = 20

// ErrNoEntities is returned when the provider supplies an empty roster.
var ErrNoEntities = errors.New("roster contains no creatures")

// CompletionReason records why a game finished.
type CompletionReason string

const (
	// ReasonIdentified means exactly one candidate remained.
	ReasonIdentified CompletionReason = "identified"
	// ReasonBudget means the question budget ran out with several candidates left.
	ReasonBudget CompletionReason = "budget"
	// ReasonInconclusive means no remaining question could tell the candidates apart.
	ReasonInconclusive CompletionReason = "inconclusive"
	// ReasonEliminated means every candidate was ruled out; there is no guess.
	ReasonEliminated CompletionReason = "eliminated"
)

type state struct {
	current    *Question
	history    []AnsweredQuestion
	population []Entity
	usedTypes  map[StrategyType]bool
	asked      map[string]bool
	complete   bool
	reason     CompletionReason
	guess      *Entity
}

// Snapshot is a read-only copy of a game's state. Changing it has no effect
// on the game it came from.
type Snapshot struct {
	Started         bool               `json:"started"`
	CurrentQuestion *Question          `json:"current_question,omitempty"`
	History         []AnsweredQuestion `json:"history"`
	Remaining       int                `json:"remaining"`
	Asked           int                `json:"asked"`
	Budget          int                `json:"budget"`
	Complete        bool               `json:"complete"`
	Reason          CompletionReason   `json:"reason,omitempty"`
	Guess           *Entity            `json:"guess,omitempty"`
}

// Game drives one session of the guessing game. All methods are safe for
// concurrent use; calls on one Game are serialized.
type Game struct {
	mu sync.Mutex

	provider Provider
	budget   int
	logf     func(format string, args ...any)

	roster  []Entity
	lineage *Lineage
	st      *state
}

// Option configures a Game.
type Option func(*Game)

// WithBudget overrides the number of questions a game may ask.
func WithBudget(n int) Option {
	return func(g *Game) {
		if n > 0 {
			g.budget = n
		}
	}
}

// WithLogger receives the engine's selection reasoning.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(g *Game) {
		if logf != nil {
			g.logf = logf
		}
	}
}

// New returns a game that has not been started.
func New(provider Provider, opts ...Option) *Game {
	g := &Game{
		provider: provider,
		budget:   DefaultBudget,
		logf:     func(string, ...any) {},
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// StartNewGame loads the roster and asks the first question. On error the
// previous game, if any, is left untouched.
func (g *Game) StartNewGame(ctx context.Context) error {
	entities, err := g.provider.LoadEntities(ctx)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	if len(entities) == 0 {
		return ErrNoEntities
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.roster = entities
	g.lineage = NewLineage(entities)
	g.st = &state{
		population: slices.Clone(entities),
		usedTypes:  make(map[StrategyType]bool),
		asked:      make(map[string]bool),
	}

	g.logf("GUESS: Started game with %d candidates", len(entities))

	g.advance()

	return nil
}

// AnswerQuestion records a response to the pending question and moves on.
// It does nothing when the game is complete, nothing is pending, or the
// response is not one of Yes, No or Unknown.
func (g *Game) AnswerQuestion(r Response) {
	g.mu.Lock()
	defer g.mu.Unlock()

	st := g.st
	if st == nil || st.complete || st.current == nil || !r.valid() {
		return
	}

	q := *st.current
	st.history = append(st.history, AnsweredQuestion{Question: q, Response: r})

	if r != Unknown {
		if s, ok := Lookup(q.Type); ok {
			before := len(st.population)
			st.population = s.Filter(st.population, g.lineage, q, r)

			g.logf("GUESS: %q answered %s, %d -> %d candidates", q.Text, r, before, len(st.population))
		}
	}

	g.advance()
}

func (g *Game) complete() {
	st := g.st

	st.complete = true
	st.current = nil

	switch {
	case len(st.population) == 0:
		st.reason = ReasonEliminated
	case len(st.population) == 1:
		st.reason = ReasonIdentified
	case len(st.history) >= g.budget:
		st.reason = ReasonBudget
	default:
		st.reason = ReasonInconclusive
	}

	if len(st.population) > 0 {
		guess := st.population[0]
		if full, ok := g.provider.LoadEntityByID(guess.ID); ok {
			guess = full
		}
		st.guess = &guess
	}

	if st.guess != nil {
		g.logf("GUESS: Complete (%s) after %d questions, guessing %s", st.reason, len(st.history), st.guess.Name)
	} else {
		g.logf("GUESS: Complete (%s) after %d questions, no guess", st.reason, len(st.history))
	}
}

// Started reports whether a game has been started.
func (g *Game) Started() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.st != nil
}

// State returns a snapshot of the current game.
func (g *Game) State() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	snap := Snapshot{
		Budget:  g.budget,
		History: []AnsweredQuestion{},
	}

	st := g.st
	if st == nil {
		return snap
	}

	snap.Started = true
	snap.History = append(snap.History, st.history...)
	snap.Remaining = len(st.population)
	snap.Asked = len(st.history)
	snap.Complete = st.complete
	snap.Reason = st.reason

	if st.current != nil {
		q := *st.current
		snap.CurrentQuestion = &q
	}

	if st.guess != nil {
		e := st.guess.Clone()
		snap.Guess = &e
	}

	return snap
}

// Suggestions lists the whole roster for autocomplete.
func (g *Game) Suggestions(ctx context.Context) ([]Suggestion, error) {
	g.mu.Lock()
	roster := g.roster
	g.mu.Unlock()

	if roster == nil {
		var err error
		roster, err = g.provider.LoadEntities(ctx)
		if err != nil {
			return nil, fmt.Errorf("load roster: %w", err)
		}
	}

	out := make([]Suggestion, len(roster))
	for i, e := range roster {
		out[i] = Suggestion{ID: e.ID, Name: e.Name, DisplayName: e.Label()}
	}

	return out, nil
}
