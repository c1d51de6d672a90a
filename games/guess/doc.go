// Package guess is the question engine behind the creature guessing game.
//
// The player thinks of a creature from the roster. The game asks yes/no
// questions, each answer narrowing the candidates, until one creature is
// left or the question budget runs out. "Unknown" is always a valid answer;
// it is recorded but narrows nothing.
//
// How a question is picked:
//   - Every strategy in the registry proposes its most even question about
//     the current candidates (type, generation, color, height, weight,
//     rarity flags, evolution, weaknesses, strengths)
//   - Questions already asked, or that every candidate would answer the
//     same way, are dropped
//   - The question whose yes and no groups differ least in size is asked
//   - A strategy type is used at most once per round; a new round starts
//     once every type has been used
//
// When the game ends, the first remaining candidate is the guess. If the
// answers ruled out everyone, there is no guess, and ExplainElimination can
// show which answers excluded the creature the player had in mind.
package guess
