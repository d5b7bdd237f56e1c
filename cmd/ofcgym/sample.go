package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lox/ofcgym/internal/board"
	"github.com/lox/ofcgym/internal/env"
	"github.com/lox/ofcgym/internal/randutil"
	"github.com/lox/ofcgym/internal/render"
)

// SampleCmd prints random valid observations, useful for checking an
// agent's input pipeline against the wire format.
type SampleCmd struct {
	Count  int    `short:"n" default:"1" help:"Number of observations"`
	Seed   int64  `default:"0" help:"RNG seed (0 for time based)"`
	Format string `default:"board" enum:"board,bits" help:"Output format: board or bits"`
}

func (c *SampleCmd) Run(g *Globals) error {
	logger := g.Logger()
	seed := randutil.Seed(c.Seed)
	logger.Debug("Sampling observations", "count", c.Count, "seed", seed)
	return c.write(os.Stdout, env.NewSampler(randutil.New(seed)))
}

func (c *SampleCmd) write(w io.Writer, s *env.Sampler) error {
	for i := 0; i < c.Count; i++ {
		b, err := s.Sample()
		if err != nil {
			return err
		}
		out := render.Plain(b)
		if c.Format == "bits" {
			out = bitString(board.Encode(b))
		}
		if _, err := fmt.Fprintln(w, out); err != nil {
			return err
		}
	}
	return nil
}

func bitString(obs board.Observation) string {
	var sb strings.Builder
	sb.Grow(len(obs))
	for _, bit := range obs {
		sb.WriteByte('0' + bit)
	}
	return sb.String()
}
