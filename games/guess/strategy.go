/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package guess

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Pool is what a strategy sees when generating a question: the current
// population, the roster's lineage, and the keys already asked this game.
type Pool struct {
	Entities []Entity
	Lineage  *Lineage
	Asked    map[string]bool
}

// Strategy asks about one attribute dimension.
//
// Generate proposes the question with the most even split it can find, or
// reports false when none exists. Match reports whether an entity satisfies
// a question, i.e. whether it survives a "yes". Describe renders the
// entity's value for the dimension, for explanations.
type Strategy struct {
	Type     StrategyType
	Generate func(p Pool) (Question, bool)
	Match    func(e Entity, l *Lineage, q Question) bool
	Describe func(e Entity, l *Lineage) string
}

// Filter narrows entities by a response to q. Unknown keeps everyone.
func (s Strategy) Filter(entities []Entity, l *Lineage, q Question, r Response) []Entity {
	if r != Yes && r != No {
		return slices.Clone(entities)
	}

	keep := r == Yes

	out := make([]Entity, 0, len(entities))
	for _, e := range entities {
		if s.Match(e, l, q) == keep {
			out = append(out, e)
		}
	}

	return out
}

func (s Strategy) split(entities []Entity, l *Lineage, q Question) (yes, no int) {
	for _, e := range entities {
		if s.Match(e, l, q) {
			yes++
		} else {
			no++
		}
	}

	return yes, no
}

var registry = []Strategy{
	membershipStrategy(StrategyElement,
		func(e Entity) []string { return e.Types },
		func(v string) string { return fmt.Sprintf("Is it %s %s type?", article(v), v) },
		func(e Entity, _ *Lineage) string {
			return "its types are " + joinList(e.Types, "none")
		},
	),
	membershipStrategy(StrategyGeneration,
		func(e Entity) []string {
			if e.Generation <= 0 {
				return nil
			}
			return []string{strconv.Itoa(e.Generation)}
		},
		func(v string) string { return "Was it introduced in generation " + v + "?" },
		func(e Entity, _ *Lineage) string {
			return "it was introduced in generation " + strconv.Itoa(e.Generation)
		},
	),
	membershipStrategy(StrategyColor,
		func(e Entity) []string {
			if e.Color == "" || e.Color == UnknownColor {
				return nil
			}
			return []string{e.Color}
		},
		func(v string) string { return "Is it mostly " + v + "?" },
		func(e Entity, _ *Lineage) string {
			if e.Color == "" || e.Color == UnknownColor {
				return "its color is unknown"
			}
			return "it is mostly " + e.Color
		},
	),
	numericStrategy(StrategyHeight,
		func(e Entity) int { return e.Height },
		func(v int) string { return "Is it taller than " + tenths(v) + " m?" },
		func(e Entity, _ *Lineage) string { return "it is " + tenths(e.Height) + " m tall" },
	),
	numericStrategy(StrategyWeight,
		func(e Entity) int { return e.Weight },
		func(v int) string { return "Is it heavier than " + tenths(v) + " kg?" },
		func(e Entity, _ *Lineage) string { return "it weighs " + tenths(e.Weight) + " kg" },
	),
	flagStrategy(StrategyLegendary, "legendary", func(e Entity) bool { return e.Legendary }),
	flagStrategy(StrategyMythical, "mythical", func(e Entity) bool { return e.Mythical }),
	flagStrategy(StrategyBaby, "baby", func(e Entity) bool { return e.Baby }),
	evolutionStrategy(),
	membershipStrategy(StrategyWeakness,
		func(e Entity) []string { return e.Weaknesses },
		func(v string) string { return "Is it weak against " + v + "-type moves?" },
		func(e Entity, _ *Lineage) string {
			return "it is weak against " + joinList(e.Weaknesses, "nothing")
		},
	),
	membershipStrategy(StrategyStrength,
		func(e Entity) []string { return e.Strengths },
		func(v string) string { return "Is it strong against " + v + "-type creatures?" },
		func(e Entity, _ *Lineage) string {
			return "it is strong against " + joinList(e.Strengths, "nothing")
		},
	),
}

var strategiesByType = func() map[StrategyType]Strategy {
	m := make(map[StrategyType]Strategy, len(registry))
	for _, s := range registry {
		m[s.Type] = s
	}
	return m
}()

// Registry returns the strategies in the order they are evaluated.
func Registry() []Strategy {
	return slices.Clone(registry)
}

// Lookup returns the strategy registered for t.
func Lookup(t StrategyType) (Strategy, bool) {
	s, ok := strategiesByType[t]

	return s, ok
}

// numericStrategy thresholds an integer attribute. Small populations try the
// smallest and then the second value; larger ones split at the median index.
func numericStrategy(t StrategyType, value func(Entity) int, text func(int) string, describe func(Entity, *Lineage) string) Strategy {
	s := Strategy{
		Type: t,
		Match: func(e Entity, _ *Lineage, q Question) bool {
			return value(e) > q.Threshold
		},
		Describe: describe,
	}

	s.Generate = func(p Pool) (Question, bool) {
		n := len(p.Entities)
		if n < 2 {
			return Question{}, false
		}

		values := make([]int, n)
		for i, e := range p.Entities {
			values[i] = value(e)
		}
		slices.Sort(values)

		if n > 3 {
			threshold := values[n/2]
			return Question{Type: t, Text: text(threshold), Threshold: threshold}, true
		}

		for _, threshold := range values[:2] {
			above := 0
			for _, v := range values {
				if v > threshold {
					above++
				}
			}

			if above > 0 && above < n {
				return Question{Type: t, Text: text(threshold), Threshold: threshold}, true
			}
		}

		return Question{}, false
	}

	return s
}

// membershipStrategy asks whether an entity carries a value. Each entity
// contributes once per value it carries, so it serves single categorical
// fields and tag sets alike. The value counted closest to half of the
// population wins, ties going to the value encountered first.
func membershipStrategy(t StrategyType, values func(Entity) []string, text func(string) string, describe func(Entity, *Lineage) string) Strategy {
	s := Strategy{
		Type: t,
		Match: func(e Entity, _ *Lineage, q Question) bool {
			return slices.Contains(values(e), q.Value)
		},
		Describe: describe,
	}

	s.Generate = func(p Pool) (Question, bool) {
		counts := make(map[string]int)
		var order []string

		for _, e := range p.Entities {
			for _, v := range values(e) {
				if counts[v] == 0 {
					order = append(order, v)
				}
				counts[v]++
			}
		}

		n := len(p.Entities)
		best := Question{}
		bestDiff := -1

		for _, v := range order {
			q := Question{Type: t, Text: text(v), Value: v}
			if p.Asked[q.Key()] {
				continue
			}

			diff := abs(2*counts[v] - n)
			if bestDiff < 0 || diff < bestDiff {
				best, bestDiff = q, diff
			}
		}

		return best, bestDiff >= 0
	}

	return s
}

// flagStrategy asks about a boolean attribute when both answers are possible.
func flagStrategy(t StrategyType, label string, flag func(Entity) bool) Strategy {
	text := fmt.Sprintf("Is it %s %s creature?", article(label), label)

	s := Strategy{
		Type: t,
		Match: func(e Entity, _ *Lineage, _ Question) bool {
			return flag(e)
		},
		Describe: func(e Entity, _ *Lineage) string {
			if flag(e) {
				return fmt.Sprintf("it is %s %s creature", article(label), label)
			}
			return fmt.Sprintf("it is not %s %s creature", article(label), label)
		},
	}

	s.Generate = func(p Pool) (Question, bool) {
		flagged := 0
		for _, e := range p.Entities {
			if flag(e) {
				flagged++
			}
		}

		if flagged == 0 || flagged == len(p.Entities) {
			return Question{}, false
		}

		return Question{Type: t, Text: text}, true
	}

	return s
}

// evolutionStrategy asks either whether a creature evolved from another or
// whether it can evolve further, whichever splits the population more evenly.
func evolutionStrategy() Strategy {
	cases := []struct {
		value string
		text  string
		match func(l *Lineage, name string) bool
	}{
		{evolutionEvolved, "Does it evolve from another creature?", (*Lineage).IsEvolved},
		{evolutionEvolves, "Can it evolve into another creature?", (*Lineage).HasEvolution},
	}

	s := Strategy{
		Type: StrategyEvolution,
		Match: func(e Entity, l *Lineage, q Question) bool {
			if q.Value == evolutionEvolves {
				return l.HasEvolution(e.Name)
			}
			return l.IsEvolved(e.Name)
		},
		Describe: func(e Entity, l *Lineage) string {
			var b strings.Builder

			if l.IsEvolved(e.Name) {
				b.WriteString("it evolves from " + e.EvolvesFrom)
			} else {
				b.WriteString("it does not evolve from anything")
			}

			if next := l.Descendants(e.Name); len(next) > 0 {
				b.WriteString(" and can evolve into " + joinList(next, ""))
			} else {
				b.WriteString(" and cannot evolve further")
			}

			return b.String()
		},
	}

	s.Generate = func(p Pool) (Question, bool) {
		n := len(p.Entities)
		best := Question{}
		bestDiff := -1

		for _, c := range cases {
			q := Question{Type: StrategyEvolution, Text: c.text, Value: c.value}
			if p.Asked[q.Key()] {
				continue
			}

			yes := 0
			for _, e := range p.Entities {
				if c.match(p.Lineage, e.Name) {
					yes++
				}
			}

			if yes == 0 || yes == n {
				continue
			}

			diff := abs(yes - (n - yes))
			if bestDiff < 0 || diff < bestDiff {
				best, bestDiff = q, diff
			}
		}

		return best, bestDiff >= 0
	}

	return s
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}

func tenths(v int) string {
	return strconv.Itoa(v/10) + "." + strconv.Itoa(v%10)
}

func article(word string) string {
	if word != "" && strings.ContainsRune("aeiou", rune(word[0])) {
		return "an"
	}

	return "a"
}

func joinList(items []string, empty string) string {
	switch len(items) {
	case 0:
		return empty
	case 1:
		return items[0]
	}

	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}
