package rollout

import (
	"fmt"
	rand "math/rand/v2"
	"strings"

	"github.com/lox/ofcgym/internal/board"
	"github.com/lox/ofcgym/internal/config"
	"github.com/lox/ofcgym/internal/env"
)

// Policy chooses actions for an environment.
type Policy interface {
	Name() string
	// Act picks the action for the call'th Step of the current episode.
	Act(obs board.Observation, call int) env.Action
}

// NewPolicy returns the named policy. rng must not be shared with another goroutine.
func NewPolicy(name string, rng *rand.Rand) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case config.PolicyRandom:
		return &Random{rng: rng}, nil
	case config.PolicyAlternate:
		return Alternate{}, nil
	default:
		return nil, fmt.Errorf("unknown policy %q", name)
	}
}

// Random picks either row uniformly. Once a row fills it keeps choosing it
// half the time, so it exercises the ignored-placement path.
type Random struct {
	rng *rand.Rand
}

func (p *Random) Name() string { return config.PolicyRandom }

func (p *Random) Act(board.Observation, int) env.Action {
	return env.Action(p.rng.IntN(env.NumActions))
}

// Alternate plays front, back, front, back. It never picks a full row.
type Alternate struct{}

func (Alternate) Name() string { return config.PolicyAlternate }

func (Alternate) Act(_ board.Observation, call int) env.Action {
	return env.Action(call % env.NumActions)
}
