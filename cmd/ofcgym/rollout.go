package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/ofcgym/internal/config"
	"github.com/lox/ofcgym/internal/experience"
	"github.com/lox/ofcgym/internal/randutil"
	"github.com/lox/ofcgym/internal/rollout"
	"github.com/lox/ofcgym/poker"
)

// RolloutCmd plays episodes with a fixed policy. Flags override the config file.
type RolloutCmd struct {
	Episodes  *int    `short:"n" help:"Number of episodes"`
	Workers   *int    `short:"w" help:"Parallel environments"`
	Seed      *int64  `help:"Base RNG seed (0 for time based)"`
	Policy    *string `help:"Policy: random or alternate"`
	Evaluator *string `help:"Hand evaluator backend"`
	Output    *string `short:"o" help:"Write transitions to this Parquet file"`
}

func (c *RolloutCmd) Run(g *Globals) error {
	logger := g.Logger()

	cfg, err := config.Load(g.Config)
	if err != nil {
		return err
	}
	c.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	envOpts, err := cfg.EnvOptions()
	if err != nil {
		return err
	}

	seed := randutil.Seed(cfg.Rollout.Seed)
	logger.Info("Starting rollout",
		"episodes", cfg.Rollout.Episodes,
		"workers", cfg.Rollout.Workers,
		"policy", cfg.Rollout.Policy,
		"evaluator", cfg.Env.Evaluator,
		"seed", seed)

	run := rollout.Config{
		Episodes:   cfg.Rollout.Episodes,
		Workers:    cfg.Rollout.Workers,
		Seed:       seed,
		Policy:     cfg.Rollout.Policy,
		EnvOptions: envOpts,
		Logger:     logger,
	}

	var writer *experience.Writer
	if cfg.Rollout.Output != "" {
		writer, err = experience.NewWriter(cfg.Rollout.Output)
		if err != nil {
			return err
		}
		run.Recorder = writer
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := rollout.Run(ctx, run)
	if err != nil {
		return err
	}

	if writer != nil {
		rows := writer.Rows()
		if err := writer.Close(); err != nil {
			return fmt.Errorf("write experience: %w", err)
		}
		logger.Info("Wrote transitions", "path", writer.Path(), "rows", rows)
	}

	logger.Info("Rollout complete",
		"episodes", summary.Stats.Episodes,
		"elapsed", summary.Elapsed,
		"episodes_per_sec", fmt.Sprintf("%.0f", summary.EpisodesPerSecond()))
	return printSummary(os.Stdout, summary)
}

func (c *RolloutCmd) apply(cfg *config.Config) {
	if c.Episodes != nil {
		cfg.Rollout.Episodes = *c.Episodes
	}
	if c.Workers != nil {
		cfg.Rollout.Workers = *c.Workers
	}
	if c.Seed != nil {
		cfg.Rollout.Seed = *c.Seed
	}
	if c.Policy != nil {
		cfg.Rollout.Policy = *c.Policy
	}
	if c.Evaluator != nil {
		cfg.Env.Evaluator = *c.Evaluator
	}
	if c.Output != nil {
		cfg.Rollout.Output = *c.Output
	}
}

func printSummary(w io.Writer, s *rollout.Summary) error {
	st := &s.Stats
	lo, hi := st.ConfidenceInterval95()

	overview := table.New().
		Border(lipgloss.RoundedBorder()).
		Rows(
			[]string{"Policy", s.Policy},
			[]string{"Evaluator", s.Evaluator},
			[]string{"Seed", fmt.Sprint(s.Seed)},
			[]string{"Episodes", fmt.Sprint(st.Episodes)},
			[]string{"Front wins", fmt.Sprintf("%d (%.1f%%)", st.Wins, 100*st.WinRate())},
			[]string{"Mean reward", fmt.Sprintf("%.2f ± %.2f [%.2f, %.2f]", st.Mean(), st.StdError(), lo, hi)},
			[]string{"Ignored placements", fmt.Sprint(st.IgnoredPlacements)},
		)

	classes := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Hand class", "Front", "Back")
	for t := poker.HighCard; t <= poker.StraightFlush; t++ {
		classes.Row(t.String(), fmt.Sprint(st.FrontClasses[t]), fmt.Sprint(st.BackClasses[t]))
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n", overview, classes)
	return err
}
