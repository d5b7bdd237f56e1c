package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/ofcgym/internal/config"
	"github.com/lox/ofcgym/internal/env"
	"github.com/lox/ofcgym/internal/randutil"
	"github.com/lox/ofcgym/internal/render"
	"github.com/lox/ofcgym/internal/tui"
)

// PlayCmd opens the interactive board.
type PlayCmd struct {
	Seed      int64   `default:"0" help:"RNG seed (0 for time based)"`
	Evaluator *string `help:"Hand evaluator backend"`
}

func (c *PlayCmd) Run(g *Globals) error {
	logger := g.Logger()

	cfg, err := config.Load(g.Config)
	if err != nil {
		return err
	}
	if c.Evaluator != nil {
		cfg.Env.Evaluator = *c.Evaluator
	}
	opts, err := cfg.EnvOptions()
	if err != nil {
		return err
	}

	seed := randutil.Seed(c.Seed)
	e, err := env.New(append(opts, env.WithSeed(seed), env.WithLogger(logger))...)
	if err != nil {
		return err
	}
	logger.Debug("Starting interactive play", "seed", seed, "evaluator", e.Evaluator().Name())
	return tui.Run(e, render.DefaultTheme(), logger, tea.WithAltScreen())
}
