package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/ofcgym/internal/board"
	"github.com/lox/ofcgym/internal/config"
	"github.com/lox/ofcgym/internal/env"
	"github.com/lox/ofcgym/internal/randutil"
	"github.com/lox/ofcgym/internal/rollout"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, ctx
}

func TestParseRollout(t *testing.T) {
	cli, ctx := parse(t, "--debug", "rollout", "-n", "20", "--policy", "alternate", "-o", "out.parquet")
	assert.Equal(t, "rollout", ctx.Command())
	assert.True(t, cli.Debug)
	require.NotNil(t, cli.Rollout.Episodes)
	assert.Equal(t, 20, *cli.Rollout.Episodes)
	assert.Nil(t, cli.Rollout.Workers, "unset flags keep the config value")

	cfg := config.Default()
	cli.Rollout.apply(cfg)
	assert.Equal(t, 20, cfg.Rollout.Episodes)
	assert.Equal(t, config.Default().Rollout.Workers, cfg.Rollout.Workers)
	assert.Equal(t, config.PolicyAlternate, cfg.Rollout.Policy)
	assert.True(t, strings.HasSuffix(cfg.Rollout.Output, "out.parquet"))
	assert.NoError(t, cfg.Validate())
}

func TestParseRejectsUnknownLogFormat(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	require.NoError(t, err)
	_, err = parser.Parse([]string{"--log-format", "xml", "sample"})
	assert.Error(t, err)
}

func TestSampleBoards(t *testing.T) {
	var out bytes.Buffer
	cmd := &SampleCmd{Count: 3, Format: "board"}
	require.NoError(t, cmd.write(&out, env.NewSampler(randutil.New(1))))
	assert.Equal(t, 3, strings.Count(out.String(), "Step "))
}

func TestSampleBits(t *testing.T) {
	var out bytes.Buffer
	cmd := &SampleCmd{Count: 5, Format: "bits"}
	require.NoError(t, cmd.write(&out, env.NewSampler(randutil.New(2))))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	for _, line := range lines {
		require.Len(t, line, board.ObservationBits)
		bits := make([]uint8, len(line))
		for i := range line {
			bits[i] = line[i] - '0'
		}
		b, err := board.Decode(bits)
		require.NoError(t, err)
		assert.NoError(t, b.Validate())
	}
}

func TestPrintSummary(t *testing.T) {
	sum, err := rollout.Run(context.Background(), rollout.Config{
		Episodes: 10,
		Workers:  2,
		Seed:     5,
		Policy:   config.PolicyAlternate,
	})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printSummary(&out, sum))
	text := out.String()
	assert.Contains(t, text, "alternate")
	assert.Contains(t, text, "Straight Flush")
	assert.Contains(t, text, "Ignored placements")
}

func TestLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, false, "json")
	logger.Debug("hidden")
	logger.Info("shown", "episodes", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "debug is off")
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.EqualValues(t, 3, rec["episodes"])

	buf.Reset()
	newLogger(&buf, true, "logfmt").Debug("visible", "seed", 7)
	assert.Contains(t, buf.String(), "seed=7")
}
