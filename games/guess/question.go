/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package guess

import (
	"fmt"
	"strings"
)

// Response is a player's answer to a question.
type Response string

const (
	Yes     Response = "yes"
	No      Response = "no"
	Unknown Response = "unknown"
)

// ParseResponse accepts yes/no/unknown along with a few common shorthands.
func ParseResponse(s string) (Response, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true":
		return Yes, nil
	case "no", "n", "false":
		return No, nil
	case "unknown", "u", "?", "idk", "don't know", "dont know":
		return Unknown, nil
	}

	return "", fmt.Errorf("invalid response %q (want yes, no or unknown)", s)
}

func (r Response) valid() bool {
	return r == Yes || r == No || r == Unknown
}

// StrategyType names one attribute dimension the engine can ask about.
type StrategyType string

const (
	StrategyElement    StrategyType = "type"
	StrategyGeneration StrategyType = "generation"
	StrategyColor      StrategyType = "color"
	StrategyHeight     StrategyType = "height"
	StrategyWeight     StrategyType = "weight"
	StrategyLegendary  StrategyType = "legendary"
	StrategyMythical   StrategyType = "mythical"
	StrategyBaby       StrategyType = "baby"
	StrategyEvolution  StrategyType = "evolution"
	StrategyWeakness   StrategyType = "weakness"
	StrategyStrength   StrategyType = "strength"
)

// Sub-cases of an evolution question, stored in Question.Value.
const (
	evolutionEvolved = "evolved"
	evolutionEvolves = "evolves"
)

// Question is a single yes/no query. Numeric strategies set Threshold,
// categorical, set and evolution strategies set Value, flags set neither.
type Question struct {
	Text      string       `json:"text"`
	Type      StrategyType `json:"type"`
	Threshold int          `json:"threshold,omitempty"`
	Value     string       `json:"value,omitempty"`
}

// Key identifies a question for duplicate detection.
func (q Question) Key() string {
	return string(q.Type) + "|" + q.Text
}

// AnsweredQuestion pairs a question with the response it received.
type AnsweredQuestion struct {
	Question Question `json:"question"`
	Response Response `json:"response"`
}
