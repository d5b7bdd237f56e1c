// Package rollout plays batches of episodes across parallel environments.
//
// Every worker owns an Env and a Policy seeded from the run seed and its
// worker index, so a run is reproducible for a given seed and worker count.
package rollout

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/ofcgym/internal/board"
	"github.com/lox/ofcgym/internal/env"
	"github.com/lox/ofcgym/internal/episodeid"
	"github.com/lox/ofcgym/internal/experience"
	"github.com/lox/ofcgym/internal/randutil"
	"github.com/lox/ofcgym/internal/statistics"
	"github.com/lox/ofcgym/poker"
)

// Recorder receives the transitions of each finished episode.
// Implementations must be safe for concurrent use.
type Recorder interface {
	Record(rows []experience.Transition) error
}

// Config controls a rollout run.
type Config struct {
	Episodes   int
	Workers    int
	Seed       int64
	Policy     string
	EnvOptions []env.Option

	Recorder Recorder     // optional
	Logger   *log.Logger  // optional
	Clock    quartz.Clock // optional, defaults to the real clock
}

// Summary is the result of a run.
type Summary struct {
	Stats     statistics.Statistics
	Policy    string
	Evaluator string
	Seed      int64
	Workers   int
	Elapsed   time.Duration
}

// EpisodesPerSecond returns throughput, or zero when no time was measured.
func (s *Summary) EpisodesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Stats.Episodes) / s.Elapsed.Seconds()
}

// Run plays cfg.Episodes episodes split across cfg.Workers goroutines.
// The first worker error cancels the others and is returned.
func Run(ctx context.Context, cfg Config) (*Summary, error) {
	if cfg.Episodes < 1 {
		return nil, fmt.Errorf("episodes must be positive, got %d", cfg.Episodes)
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	if _, err := NewPolicy(cfg.Policy, nil); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	workers := min(cfg.Workers, cfg.Episodes)

	ids := episodeid.NewGenerator(cfg.Clock, randutil.New(cfg.Seed))
	start := cfg.Clock.Now()

	perWorker := cfg.Episodes / workers
	remainder := cfg.Episodes % workers
	results := make([]statistics.Statistics, workers)

	g, ctx := errgroup.WithContext(ctx)
	var evalName string
	for w := 0; w < workers; w++ {
		episodes := perWorker
		if w < remainder {
			episodes++
		}
		seed := randutil.Derive(cfg.Seed, w)

		// Built before the goroutines start so option errors surface here.
		wk, err := newWorker(cfg, w, seed, ids)
		if err != nil {
			return nil, err
		}
		evalName = wk.env.Evaluator().Name()

		g.Go(func() error {
			for i := 0; i < episodes; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				res, err := wk.playEpisode()
				if err != nil {
					return fmt.Errorf("worker %d episode %d: %w", w, i, err)
				}
				results[w].Add(res)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{
		Policy:    cfg.Policy,
		Evaluator: evalName,
		Seed:      cfg.Seed,
		Workers:   workers,
		Elapsed:   cfg.Clock.Now().Sub(start),
	}
	for i := range results {
		summary.Stats.Merge(&results[i])
	}
	return summary, nil
}

type worker struct {
	id       int
	seed     int64
	env      *env.Env
	policy   Policy
	recorder Recorder
	ids      *episodeid.Generator
	logger   *log.Logger
}

func newWorker(cfg Config, id int, seed int64, ids *episodeid.Generator) (*worker, error) {
	logger := cfg.Logger.With("worker", id)
	opts := append([]env.Option{}, cfg.EnvOptions...)
	opts = append(opts, env.WithSeed(seed), env.WithLogger(logger))
	e, err := env.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("worker %d: %w", id, err)
	}
	policy, err := NewPolicy(cfg.Policy, randutil.New(randutil.Derive(seed, 0)))
	if err != nil {
		return nil, err
	}
	return &worker{
		id:       id,
		seed:     seed,
		env:      e,
		policy:   policy,
		recorder: cfg.Recorder,
		ids:      ids,
		logger:   logger,
	}, nil
}

func (w *worker) playEpisode() (statistics.EpisodeResult, error) {
	obs, err := w.env.Reset()
	if err != nil {
		return statistics.EpisodeResult{}, err
	}

	id := w.ids.Next()
	var (
		rows    []experience.Transition
		ignored int
		reward  float64
	)
	for call := 0; !w.env.Done(); call++ {
		action := w.policy.Act(obs, call)
		res, err := w.env.Step(action)
		if err != nil {
			return statistics.EpisodeResult{}, err
		}
		if !res.Info.Placed {
			ignored++
		}
		if w.recorder != nil {
			rows = append(rows, experience.Transition{
				EpisodeID:       id,
				Step:            int32(call),
				Observation:     experience.ObservationBytes(obs),
				Action:          int32(action),
				Reward:          float32(res.Reward),
				Done:            res.Done,
				Placed:          res.Info.Placed,
				NextObservation: experience.ObservationBytes(res.Observation),
				Policy:          w.policy.Name(),
				Evaluator:       w.env.Evaluator().Name(),
			})
		}
		obs = res.Observation
		reward = res.Reward
	}

	if w.recorder != nil {
		if err := w.recorder.Record(rows); err != nil {
			return statistics.EpisodeResult{}, fmt.Errorf("record episode %s: %w", id, err)
		}
	}

	final := w.env.Board()
	front, err := handClass(final, board.Front)
	if err != nil {
		return statistics.EpisodeResult{}, err
	}
	back, err := handClass(final, board.Back)
	if err != nil {
		return statistics.EpisodeResult{}, err
	}

	w.logger.Debug("episode finished", "id", id, "reward", reward, "ignored", ignored, "front", front, "back", back)
	return statistics.EpisodeResult{
		Reward:            reward,
		Win:               reward > 0,
		IgnoredPlacements: ignored,
		FrontClass:        front,
		BackClass:         back,
		Seed:              w.seed,
	}, nil
}

func handClass(b board.Board, r board.Row) (poker.HandType, error) {
	cards, err := b.Hand(r)
	if err != nil {
		return 0, err
	}
	rank, err := poker.Evaluate5Cards(cards)
	if err != nil {
		return 0, fmt.Errorf("classify %s row: %w", r, err)
	}
	return rank.Type(), nil
}
