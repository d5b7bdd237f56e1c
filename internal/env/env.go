// Package env implements the two-row card placement environment.
//
// An episode starts with Reset, which deals one pending card onto an empty
// board. Each Step places the pending card into the first empty slot of the
// chosen row and deals the next one. After the tenth placement the episode
// is done and the reward says whether the front row beat the back row.
//
// # Full rows
//
// Choosing a row that is already full is ignored: nothing is placed, the
// step count does not move, the offered card is discarded and a fresh one
// is dealt. Reward for that transition is zero and the episode continues.
//
// # Reward
//
// Every non-terminal transition pays zero. The transition that completes
// the board pays WinReward when the front row is the stronger hand and
// LossReward otherwise (including the equal-strength case).
//
// An Env is not safe for concurrent use. Run independent Env values to
// parallelise; they share nothing but the stateless evaluator.
package env

import (
	"fmt"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/ofcgym/internal/board"
	"github.com/lox/ofcgym/internal/evaluator"
	"github.com/lox/ofcgym/internal/randutil"
	"github.com/lox/ofcgym/poker"
)

// Action is the agent's choice of row. The numeric values are the wire
// contract: 0 places in the front row, 1 in the back row.
type Action int

const (
	PlaceFront Action = Action(board.Front)
	PlaceBack  Action = Action(board.Back)
)

// NumActions is the size of the discrete action space.
const NumActions = 2

// Default terminal rewards.
const (
	DefaultWinReward  = 100.0
	DefaultLossReward = -100.0
)

// StepResult is the outcome of one Step.
type StepResult struct {
	Observation board.Observation
	Reward      float64
	Done        bool
	Info        StepInfo
}

// StepInfo describes what the step did to the board.
type StepInfo struct {
	Row    board.Row
	Slot   int  // slot filled, -1 if the placement was ignored
	Placed bool // false when the row was full or the episode already over
}

// Option configures an Env.
type Option func(*Env)

// WithRewards sets the terminal rewards paid when the front row wins or loses.
func WithRewards(win, loss float64) Option {
	return func(e *Env) {
		e.winReward = win
		e.lossReward = loss
	}
}

// WithEvaluator sets the hand evaluator. Defaults to evaluator.Native.
func WithEvaluator(ev evaluator.HandEvaluator) Option {
	return func(e *Env) { e.eval = ev }
}

// WithLogger sets the logger. Defaults to a logger that discards output.
func WithLogger(logger *log.Logger) Option {
	return func(e *Env) { e.logger = logger }
}

// WithSeed seeds the environment's private RNG.
func WithSeed(seed int64) Option {
	return func(e *Env) { e.rng = randutil.New(seed) }
}

// WithRNG hands the environment an RNG it will own exclusively.
func WithRNG(rng *rand.Rand) Option {
	return func(e *Env) { e.rng = rng }
}

// Env is one placement game. It owns its deck and board.
type Env struct {
	rng        *rand.Rand
	deck       *poker.Deck
	eval       evaluator.HandEvaluator
	logger     *log.Logger
	winReward  float64
	lossReward float64

	board board.Board
	done  bool
}

// New creates an environment and resets it, so it is ready for Step.
func New(opts ...Option) (*Env, error) {
	e := &Env{
		eval:       evaluator.Native{},
		winReward:  DefaultWinReward,
		lossReward: DefaultLossReward,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = randutil.New(randutil.Seed(0))
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	if e.eval == nil {
		return nil, fmt.Errorf("evaluator is required")
	}
	if e.winReward <= 0 || e.lossReward >= 0 {
		return nil, fmt.Errorf("win reward must be positive and loss reward negative, got %v and %v", e.winReward, e.lossReward)
	}
	e.deck = poker.NewDeck(e.rng)
	if _, err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

// Reset reshuffles the full deck, clears the board and deals a pending card.
func (e *Env) Reset() (board.Observation, error) {
	e.deck.Reset()
	e.board = board.Board{}
	e.done = false

	c, err := e.deck.DealOne()
	if err != nil {
		return board.Observation{}, fmt.Errorf("reset: %w", err)
	}
	e.board.Pending = board.IDOf(c)
	e.logger.Debug("reset", "pending", e.board.Pending)
	return board.Encode(e.board), nil
}

// Step places the pending card into the chosen row.
//
// Stepping a finished episode returns the final observation, zero reward
// and Done without error. An action other than PlaceFront or PlaceBack
// returns *InvalidActionError and leaves the state untouched, as does a
// step that needs a card from an empty deck (ErrDeckExhausted).
func (e *Env) Step(action Action) (StepResult, error) {
	if e.done {
		return StepResult{
			Observation: board.Encode(e.board),
			Done:        true,
			Info:        StepInfo{Slot: -1},
		}, nil
	}
	if action != PlaceFront && action != PlaceBack {
		return StepResult{}, &InvalidActionError{Action: action}
	}

	row := board.Row(action)
	slot := e.board.FirstEmpty(row)
	terminal := slot >= 0 && int(e.board.Steps)+1 == board.MaxSteps

	var next poker.Card
	if !terminal {
		c, err := e.deck.DealOne()
		if err != nil {
			return StepResult{}, fmt.Errorf("step %d: %w", e.board.Steps, err)
		}
		next = c
	}

	info := StepInfo{Row: row, Slot: slot, Placed: slot >= 0}
	if info.Placed {
		e.board.Rows[row][slot] = e.board.Pending
		e.board.Steps++
		e.logger.Debug("placed", "card", e.board.Pending, "row", row, "slot", slot, "steps", e.board.Steps)
	} else {
		e.logger.Debug("row full, placement ignored", "card", e.board.Pending, "row", row)
	}
	e.board.Pending = board.IDOf(next)

	var reward float64
	if terminal {
		e.done = true
		r, err := e.Reward(e.board)
		if err != nil {
			return StepResult{}, err
		}
		reward = r
	}

	return StepResult{
		Observation: board.Encode(e.board),
		Reward:      reward,
		Done:        e.done,
		Info:        info,
	}, nil
}

// Reward scores a board: zero unless both rows are complete, otherwise
// the win reward if the front row is strictly stronger and the loss reward
// if not. It does not change the environment.
func (e *Env) Reward(b board.Board) (float64, error) {
	if !b.Complete() {
		return 0, nil
	}
	front, err := b.Hand(board.Front)
	if err != nil {
		return 0, err
	}
	back, err := b.Hand(board.Back)
	if err != nil {
		return 0, err
	}
	cmp, err := evaluator.Compare(e.eval, front, back)
	if err != nil {
		return 0, fmt.Errorf("score board: %w", err)
	}

	reward := e.lossReward
	if cmp > 0 {
		reward = e.winReward
	}
	e.logger.Debug("episode complete",
		"front", evaluator.Describe(front),
		"back", evaluator.Describe(back),
		"reward", reward)
	return reward, nil
}

// Load replaces the current state with b, which must be a valid board that
// is not yet complete. The deck is rebuilt from the cards not on b.
func (e *Env) Load(b board.Board) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("load board: %w", err)
	}
	if b.Steps >= board.MaxSteps {
		return fmt.Errorf("load board: board is already complete")
	}
	e.deck.Reset()
	e.deck.Exclude(b.Cards())
	e.board = b
	e.done = false
	e.logger.Debug("loaded board", "steps", b.Steps, "remaining", e.deck.CardsRemaining())
	return nil
}

// Board returns a copy of the current board.
func (e *Env) Board() board.Board {
	return e.board
}

// Observation encodes the current board.
func (e *Env) Observation() board.Observation {
	return board.Encode(e.board)
}

// Done reports whether the episode is over.
func (e *Env) Done() bool {
	return e.done
}

// Evaluator returns the evaluator used for rewards.
func (e *Env) Evaluator() evaluator.HandEvaluator {
	return e.eval
}

// CardsRemaining returns the undealt cards left in this episode's deck.
func (e *Env) CardsRemaining() int {
	return e.deck.CardsRemaining()
}
