/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package guess

// maxSelectionAttempts bounds how many scans advance makes before giving up
// and completing the game with whatever population remains.
const maxSelectionAttempts = 10

// candidateStrategies returns the strategies whose type has not been used
// this round. Once every type has been used, tracking is cleared and the
// whole registry is eligible again. full reports whether the result covers
// the whole registry.
func (st *state) candidateStrategies() (candidates []Strategy, full bool) {
	for _, s := range registry {
		if !st.usedTypes[s.Type] {
			candidates = append(candidates, s)
		}
	}

	if len(candidates) == 0 {
		clear(st.usedTypes)

		return registry, true
	}

	return candidates, len(candidates) == len(registry)
}

// bestQuestion scores every usable question the candidates propose and
// returns the one whose yes and no populations differ least in size. Ties go
// to the earlier strategy.
func (g *Game) bestQuestion(candidates []Strategy) (Question, bool) {
	st := g.st

	p := Pool{
		Entities: st.population,
		Lineage:  g.lineage,
		Asked:    st.asked,
	}

	var best Question
	bestScore := -1

	for _, s := range candidates {
		q, ok := s.Generate(p)
		if !ok {
			g.logf("GUESS: %s offered no question for %d candidates", s.Type, len(st.population))
			continue
		}

		if st.asked[q.Key()] {
			g.logf("GUESS: %s skipped %q (already asked)", s.Type, q.Text)
			continue
		}

		yes, no := s.split(st.population, g.lineage, q)
		if yes == 0 || no == 0 {
			g.logf("GUESS: %s skipped %q (split %d/%d)", s.Type, q.Text, yes, no)
			continue
		}

		score := abs(yes - no)
		g.logf("GUESS: %s considered %q (split %d/%d)", s.Type, q.Text, yes, no)

		if bestScore < 0 || score < bestScore {
			best, bestScore = q, score
		}
	}

	return best, bestScore >= 0
}

// advance selects the next question, or completes the game when the
// population is decided, the budget is spent, or no informative question
// remains.
func (g *Game) advance() {
	st := g.st
	st.current = nil

	if len(st.population) <= 1 || len(st.history) >= g.budget {
		g.complete()

		return
	}

	for attempt := 1; attempt <= maxSelectionAttempts; attempt++ {
		candidates, full := st.candidateStrategies()

		if q, ok := g.bestQuestion(candidates); ok {
			st.current = &q
			st.usedTypes[q.Type] = true
			st.asked[q.Key()] = true

			g.logf("GUESS: Asking %q (%d candidates, question %d of %d)", q.Text, len(st.population), len(st.history)+1, g.budget)

			return
		}

		clear(st.usedTypes)

		// A scan over the whole registry that found nothing will find
		// nothing on retry either.
		if full {
			break
		}
	}

	g.complete()
}
