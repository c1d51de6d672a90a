/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package guess

import (
	"strings"
)

// Elimination is one answered question that ruled a creature out.
type Elimination struct {
	QuestionText string   `json:"question_text"`
	Response     Response `json:"response"`
	Reason       string   `json:"reason"`
}

// Explanation describes why a named creature is no longer a candidate.
type Explanation struct {
	Found        bool          `json:"found"`
	Entity       *Entity       `json:"entity,omitempty"`
	EliminatedBy []Elimination `json:"eliminated_by"`
}

// ExplainElimination replays the answered questions against the creature
// called name and reports every answer that excluded it. A creature that
// matches every answer yields an empty list rather than an error.
func (g *Game) ExplainElimination(name string) Explanation {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := Explanation{EliminatedBy: []Elimination{}}

	e, ok := g.findLocked(name)
	if !ok {
		return out
	}

	found := e.Clone()
	out.Found = true
	out.Entity = &found

	if g.st == nil {
		return out
	}

	for _, aq := range g.st.history {
		if aq.Response != Yes && aq.Response != No {
			continue
		}

		s, ok := Lookup(aq.Question.Type)
		if !ok {
			continue
		}

		if len(s.Filter([]Entity{e}, g.lineage, aq.Question, aq.Response)) > 0 {
			continue
		}

		out.EliminatedBy = append(out.EliminatedBy, Elimination{
			QuestionText: aq.Question.Text,
			Response:     aq.Response,
			Reason:       "You answered " + string(aq.Response) + ", but " + s.Describe(e, g.lineage) + ".",
		})
	}

	return out
}

func (g *Game) findLocked(name string) (Entity, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Entity{}, false
	}

	for _, e := range g.roster {
		if strings.EqualFold(e.Name, name) || strings.EqualFold(e.DisplayName, name) {
			return e, true
		}
	}

	return Entity{}, false
}
