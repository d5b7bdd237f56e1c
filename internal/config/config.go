// Package config loads environment and rollout settings from HCL.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/ofcgym/internal/env"
	"github.com/lox/ofcgym/internal/evaluator"
)

// Policy names understood by the rollout runner.
const (
	PolicyRandom    = "random"
	PolicyAlternate = "alternate"
)

// Config is the complete ofcgym configuration.
type Config struct {
	Env     EnvSettings     `hcl:"env,block"`
	Rollout RolloutSettings `hcl:"rollout,block"`
}

// EnvSettings configures each environment instance.
type EnvSettings struct {
	WinReward  float64 `hcl:"win_reward,optional"`
	LossReward float64 `hcl:"loss_reward,optional"`
	Evaluator  string  `hcl:"evaluator,optional"`
}

// RolloutSettings configures batch self-play.
type RolloutSettings struct {
	Episodes int    `hcl:"episodes,optional"`
	Workers  int    `hcl:"workers,optional"`
	Seed     int64  `hcl:"seed,optional"`
	Policy   string `hcl:"policy,optional"`
	Output   string `hcl:"output,optional"` // parquet path, empty to skip export
}

// file mirrors Config with optional blocks so either may be omitted.
type file struct {
	Env     *EnvSettings     `hcl:"env,block"`
	Rollout *RolloutSettings `hcl:"rollout,block"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Env: EnvSettings{
			WinReward:  env.DefaultWinReward,
			LossReward: env.DefaultLossReward,
			Evaluator:  evaluator.NativeName,
		},
		Rollout: RolloutSettings{
			Episodes: 1000,
			Workers:  4,
			Policy:   PolicyRandom,
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults; fields left out of the file are filled from the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw file
	diags = gohcl.DecodeBody(f.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := &Config{}
	if raw.Env != nil {
		cfg.Env = *raw.Env
	}
	if raw.Rollout != nil {
		cfg.Rollout = *raw.Rollout
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Env.WinReward == 0 {
		c.Env.WinReward = def.Env.WinReward
	}
	if c.Env.LossReward == 0 {
		c.Env.LossReward = def.Env.LossReward
	}
	if c.Env.Evaluator == "" {
		c.Env.Evaluator = def.Env.Evaluator
	}
	if c.Rollout.Episodes == 0 {
		c.Rollout.Episodes = def.Rollout.Episodes
	}
	if c.Rollout.Workers == 0 {
		c.Rollout.Workers = def.Rollout.Workers
	}
	if c.Rollout.Policy == "" {
		c.Rollout.Policy = def.Rollout.Policy
	}
	c.Rollout.Policy = strings.ToLower(strings.TrimSpace(c.Rollout.Policy))
}

// Validate checks the configuration for values no environment accepts.
func (c *Config) Validate() error {
	if c.Env.WinReward <= 0 {
		return fmt.Errorf("env: win_reward must be positive, got %v", c.Env.WinReward)
	}
	if c.Env.LossReward >= 0 {
		return fmt.Errorf("env: loss_reward must be negative, got %v", c.Env.LossReward)
	}
	if _, err := evaluator.New(c.Env.Evaluator); err != nil {
		return fmt.Errorf("env: %w", err)
	}

	if c.Rollout.Episodes < 1 {
		return fmt.Errorf("rollout: episodes must be positive, got %d", c.Rollout.Episodes)
	}
	if c.Rollout.Workers < 1 {
		return fmt.Errorf("rollout: workers must be positive, got %d", c.Rollout.Workers)
	}
	switch c.Rollout.Policy {
	case PolicyRandom, PolicyAlternate:
	default:
		return fmt.Errorf("rollout: invalid policy %q", c.Rollout.Policy)
	}
	return nil
}

// EnvOptions converts the env block into environment options.
func (c *Config) EnvOptions() ([]env.Option, error) {
	ev, err := evaluator.New(c.Env.Evaluator)
	if err != nil {
		return nil, err
	}
	return []env.Option{
		env.WithRewards(c.Env.WinReward, c.Env.LossReward),
		env.WithEvaluator(ev),
	}, nil
}
