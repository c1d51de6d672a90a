/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/Seednode/whosthat/games/guess"
)

var (
	playTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#e3350d"))

	playGuessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3fa34d"))

	playDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a3a8b4"))

	playBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#a3a8b4")).
			Padding(0, 2)
)

// prompter asks the player for input. An empty explain name ends the session.
type prompter interface {
	Answer(q guess.Question, snap guess.Snapshot) (guess.Response, error)
	Explain() (string, error)
}

type huhPrompter struct{}

func (huhPrompter) Answer(q guess.Question, snap guess.Snapshot) (guess.Response, error) {
	r := guess.Unknown

	err := huh.NewSelect[guess.Response]().
		Title(q.Text).
		Description(fmt.Sprintf("Question %d of %d, %d possible", snap.Asked+1, snap.Budget, snap.Remaining)).
		Options(
			huh.NewOption("Yes", guess.Yes),
			huh.NewOption("No", guess.No),
			huh.NewOption("Don't know", guess.Unknown),
		).
		Value(&r).
		Run()

	return r, err
}

func (huhPrompter) Explain() (string, error) {
	var name string

	err := huh.NewInput().
		Title("Not who you meant? Why not...").
		Description("Enter a creature name, or leave empty to quit.").
		Placeholder("pikachu").
		Value(&name).
		Run()

	return strings.TrimSpace(name), err
}

func playGame(ctx context.Context, cfg *Config, p prompter, w io.Writer) error {
	provider, release, err := newProvider(cfg)
	if err != nil {
		return err
	}
	defer release()

	return playWith(ctx, cfg, provider, p, w)
}

func playWith(ctx context.Context, cfg *Config, provider guess.Provider, p prompter, w io.Writer) error {
	g := guess.New(provider,
		guess.WithBudget(cfg.questions),
		guess.WithLogger(gameLogger(cfg)),
	)

	if err := g.StartNewGame(ctx); err != nil {
		return err
	}

	fmt.Fprintln(w, playTitleStyle.Render("Who's That?"))
	fmt.Fprintln(w, playDimStyle.Render("Think of a creature and answer honestly."))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		snap := g.State()
		if snap.Complete || snap.CurrentQuestion == nil {
			break
		}

		r, err := p.Answer(*snap.CurrentQuestion, snap)
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}

		g.AnswerQuestion(r)
	}

	fmt.Fprintln(w, renderResult(g.State()))

	for {
		name, err := p.Explain()
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if name == "" {
			return nil
		}

		fmt.Fprintln(w, renderExplanation(name, g.ExplainElimination(name)))
	}
}

func renderResult(snap guess.Snapshot) string {
	var b strings.Builder

	switch snap.Reason {
	case guess.ReasonIdentified:
		b.WriteString("Got it! You were thinking of ")
	case guess.ReasonBudget:
		b.WriteString("Out of questions. My best guess is ")
	case guess.ReasonInconclusive:
		b.WriteString("I can't tell the rest apart. My best guess is ")
	default:
		b.WriteString("Nothing on the roster matches those answers.")
	}

	if snap.Guess != nil {
		b.WriteString(playGuessStyle.Render(fmt.Sprintf("%s (#%d)", snap.Guess.Label(), snap.Guess.ID)))
	}

	b.WriteString("\n")
	b.WriteString(playDimStyle.Render(fmt.Sprintf("%d of %d questions asked", snap.Asked, snap.Budget)))

	return playBoxStyle.Render(b.String())
}

func renderExplanation(name string, exp guess.Explanation) string {
	if !exp.Found {
		return fmt.Sprintf("No creature called %q is on the roster.", name)
	}

	label := exp.Entity.Label()

	if len(exp.EliminatedBy) == 0 {
		return fmt.Sprintf("None of your answers ruled out %s.", label)
	}

	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s was ruled out by:", playTitleStyle.Render(label)))
	for _, e := range exp.EliminatedBy {
		b.WriteString(fmt.Sprintf("\n  %s %s", e.QuestionText, playDimStyle.Render(e.Reason)))
	}

	return b.String()
}
