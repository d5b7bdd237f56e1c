package env

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/ofcgym/internal/board"
	"github.com/lox/ofcgym/internal/evaluator"
	"github.com/lox/ofcgym/internal/randutil"
	"github.com/lox/ofcgym/poker"
)

func newEnv(t *testing.T, opts ...Option) *Env {
	t.Helper()
	e, err := New(append([]Option{WithSeed(1)}, opts...)...)
	require.NoError(t, err)
	return e
}

func ids(t *testing.T, s string) []board.CardID {
	t.Helper()
	cards, err := poker.ParseCards(s)
	require.NoError(t, err)
	out := make([]board.CardID, len(cards))
	for i, c := range cards {
		out[i] = board.IDOf(c)
	}
	return out
}

func row(t *testing.T, s string) [board.RowSize]board.CardID {
	t.Helper()
	var r [board.RowSize]board.CardID
	copy(r[:], ids(t, s))
	return r
}

func TestReset(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	obs, err := e.Reset()
	require.NoError(t, err)
	b, err := board.Decode(obs[:])
	require.NoError(t, err)

	assert.Equal(t, e.Board(), b)
	assert.Zero(t, b.Steps)
	assert.Equal(t, [board.RowSize]board.CardID{}, b.Row(board.Front))
	assert.Equal(t, [board.RowSize]board.CardID{}, b.Row(board.Back))
	assert.NotEqual(t, board.Empty, b.Pending)
	assert.False(t, e.Done())
	assert.Equal(t, poker.NumCards-1, e.CardsRemaining())
}

func TestResetStartsFreshEpisode(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	for range board.MaxSteps {
		_, err := e.Step(PlaceFront)
		require.NoError(t, err)
		_, err = e.Step(PlaceBack)
		require.NoError(t, err)
	}
	require.True(t, e.Done())

	_, err := e.Reset()
	require.NoError(t, err)
	assert.False(t, e.Done())
	assert.Zero(t, e.Board().Steps)
	assert.Equal(t, poker.NumCards-1, e.CardsRemaining(), "reset restores the whole deck")
}

func TestAlternatingPlacement(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	var offered []board.CardID
	for i := range board.MaxSteps {
		offered = append(offered, e.Board().Pending)
		action := Action(i % 2)

		res, err := e.Step(action)
		require.NoError(t, err)

		assert.True(t, res.Info.Placed)
		assert.Equal(t, board.Row(action), res.Info.Row)
		assert.Equal(t, i/2, res.Info.Slot)
		assert.Equal(t, uint8(i+1), res.Observation.Steps())

		if i < board.MaxSteps-1 {
			assert.False(t, res.Done, "done early at call %d", i+1)
			assert.Zero(t, res.Reward, "reward before the end at call %d", i+1)
			assert.NotEqual(t, board.Empty, res.Observation.Pending())
		} else {
			assert.True(t, res.Done, "not done after the tenth card")
			assert.Contains(t, []float64{DefaultWinReward, DefaultLossReward}, res.Reward)
			assert.Equal(t, board.Empty, res.Observation.Pending())
		}
	}

	b := e.Board()
	assert.Equal(t, uint8(board.MaxSteps), b.Steps)
	for slot := range board.RowSize {
		assert.Equal(t, offered[2*slot], b.Slot(board.Front, slot), "front slot %d", slot)
		assert.Equal(t, offered[2*slot+1], b.Slot(board.Back, slot), "back slot %d", slot)
	}
	assert.Equal(t, poker.NumCards-board.MaxSteps, e.CardsRemaining(), "a full episode leaves cards in the deck")
}

func TestFullRowIsIgnored(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	var front []board.CardID
	for i := range board.RowSize {
		front = append(front, e.Board().Pending)
		res, err := e.Step(PlaceFront)
		require.NoError(t, err)
		require.True(t, res.Info.Placed)

		var want [board.RowSize]board.CardID
		copy(want[:], front)
		assert.Equal(t, want, e.Board().Row(board.Front), "after call %d", i+1)
		assert.Equal(t, [board.RowSize]board.CardID{}, e.Board().Row(board.Back))
		assert.Equal(t, uint8(i+1), e.Board().Steps)
	}

	before := e.Board()
	res, err := e.Step(PlaceFront)
	require.NoError(t, err)

	after := e.Board()
	assert.False(t, res.Info.Placed)
	assert.Equal(t, -1, res.Info.Slot)
	assert.False(t, res.Done)
	assert.Zero(t, res.Reward)
	assert.Equal(t, before.Rows, after.Rows, "rows unchanged by the ignored placement")
	assert.Equal(t, uint8(board.RowSize), after.Steps)
	assert.NotEqual(t, before.Pending, after.Pending, "a fresh card is dealt")
	assert.NotEqual(t, board.Empty, after.Pending)
	assert.False(t, after.Cards().HasCard(mustCard(t, before.Pending)), "the refused card is discarded")

	res, err = e.Step(PlaceBack)
	require.NoError(t, err)
	assert.True(t, res.Info.Placed)
	assert.Equal(t, after.Pending, e.Board().Slot(board.Back, 0))
}

func mustCard(t *testing.T, id board.CardID) poker.Card {
	t.Helper()
	c, ok := id.Card()
	require.True(t, ok)
	return c
}

func nineCardBoard(t *testing.T, front, back, pending string) board.Board {
	t.Helper()
	b := board.Board{Steps: 9}
	b.Rows[board.Front] = row(t, front)
	b.Rows[board.Back] = row(t, back)
	b.Pending = ids(t, pending)[0]
	require.NoError(t, b.Validate())
	return b
}

func TestTerminalReward(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		front   string
		back    string
		pending string
		action  Action
		opts    []Option
		want    float64
	}{
		{
			name:  "back pair beats front high card",
			front: "AsKd9h7c", back: "2s2h5d8cJc", pending: "3s",
			action: PlaceFront, want: DefaultLossReward,
		},
		{
			name:  "front pair beats back high card",
			front: "2s2h5d8cJc", back: "AsKd9h7c", pending: "3s",
			action: PlaceBack, want: DefaultWinReward,
		},
		{
			name:  "front flush beats back straight",
			front: "2h5h8hJh", back: "9c8d7s6c5d", pending: "Ah",
			action: PlaceFront, want: DefaultWinReward,
		},
		{
			name:  "equal strength is a loss",
			front: "AsKs9h7c", back: "AdKd9c7d2h", pending: "2s",
			action: PlaceFront, want: DefaultLossReward,
		},
		{
			name:  "small reward magnitudes",
			front: "2s2h5d8cJc", back: "AsKd9h7c", pending: "3s",
			action: PlaceBack, opts: []Option{WithRewards(2, -1)}, want: 2,
		},
		{
			name:  "small reward loss",
			front: "AsKd9h7c", back: "2s2h5d8cJc", pending: "3s",
			action: PlaceFront, opts: []Option{WithRewards(2, -1)}, want: -1,
		},
		{
			name:  "library evaluator",
			front: "AsKd9h7c", back: "2s2h5d8cJc", pending: "3s",
			action: PlaceFront, opts: []Option{WithEvaluator(evaluator.PaulHankin{})}, want: DefaultLossReward,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newEnv(t, tt.opts...)
			b := nineCardBoard(t, tt.front, tt.back, tt.pending)
			require.NoError(t, e.Load(b))

			res, err := e.Step(tt.action)
			require.NoError(t, err)
			assert.True(t, res.Done)
			assert.Equal(t, tt.want, res.Reward)
			assert.Equal(t, uint8(board.MaxSteps), res.Observation.Steps())

			reward, err := e.Reward(e.Board())
			require.NoError(t, err)
			assert.Equal(t, tt.want, reward)
		})
	}
}

func TestStepIntoFullRowNearEnd(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	require.NoError(t, e.Load(nineCardBoard(t, "AsKd9h7c", "2s2h5d8cJc", "3s")))

	res, err := e.Step(PlaceBack)
	require.NoError(t, err)
	assert.False(t, res.Info.Placed)
	assert.False(t, res.Done, "the ignored placement does not end the episode")
	assert.Zero(t, res.Reward)
	assert.Equal(t, uint8(9), e.Board().Steps)

	res, err = e.Step(PlaceFront)
	require.NoError(t, err)
	assert.True(t, res.Done)
	assert.Equal(t, DefaultLossReward, res.Reward)
}

func TestStepAfterDone(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	require.NoError(t, e.Load(nineCardBoard(t, "AsKd9h7c", "2s2h5d8cJc", "3s")))
	last, err := e.Step(PlaceFront)
	require.NoError(t, err)
	require.True(t, last.Done)

	final := e.Board()
	for _, a := range []Action{PlaceFront, PlaceBack, 7} {
		res, err := e.Step(a)
		require.NoError(t, err)
		assert.True(t, res.Done)
		assert.Zero(t, res.Reward, "reward is paid once")
		assert.False(t, res.Info.Placed)
		assert.Equal(t, last.Observation, res.Observation)
		assert.Equal(t, final, e.Board())
	}
}

func TestInvalidAction(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	before := e.Board()

	for _, a := range []Action{-1, 2, 100} {
		_, err := e.Step(a)
		var invalid *InvalidActionError
		require.True(t, errors.As(err, &invalid), "action %d: %v", a, err)
		assert.Equal(t, a, invalid.Action)
	}
	assert.Equal(t, before, e.Board(), "invalid actions leave the state untouched")
}

func TestDeckExhaustion(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	b := board.Board{Steps: 5, Pending: ids(t, "2c")[0]}
	b.Rows[board.Front] = row(t, "AsKsQsJsTs")
	require.NoError(t, e.Load(b))
	require.Equal(t, poker.NumCards-6, e.CardsRemaining())

	// Every refused placement burns a card.
	for i := range poker.NumCards - 6 {
		res, err := e.Step(PlaceFront)
		require.NoError(t, err, "ignored placement %d", i)
		require.False(t, res.Info.Placed)
	}
	stuck := e.Board()

	_, err := e.Step(PlaceFront)
	require.ErrorIs(t, err, ErrDeckExhausted)
	_, err = e.Step(PlaceBack)
	require.ErrorIs(t, err, ErrDeckExhausted)
	assert.Equal(t, stuck, e.Board(), "a failed draw does not mutate the board")
	assert.False(t, e.Done())
}

func TestEpisodeInvariants(t *testing.T) {
	t.Parallel()
	for seed := range int64(200) {
		e, err := New(WithSeed(seed))
		require.NoError(t, err)
		rng := randutil.New(seed + 1000)

		prev := e.Board()
		for calls := 0; !e.Done(); calls++ {
			require.Less(t, calls, 40, "seed %d did not terminate", seed)
			res, err := e.Step(Action(rng.IntN(NumActions)))
			require.NoError(t, err)

			cur := e.Board()
			require.NoError(t, roundTrip(res.Observation, cur))

			if res.Info.Placed {
				require.Equal(t, prev.Steps+1, cur.Steps, "seed %d: one slot per step", seed)
			} else {
				require.Equal(t, prev.Steps, cur.Steps)
				require.Equal(t, prev.Rows, cur.Rows)
			}

			placed := cur.Filled(board.Front) + cur.Filled(board.Back)
			require.Equal(t, int(cur.Steps), placed)
			cards := placed
			if cur.Pending != board.Empty {
				cards++
			}
			require.Equal(t, cards, cur.Cards().CountCards(), "seed %d: duplicate card on the board", seed)

			require.Equal(t, cur.Steps == board.MaxSteps, res.Done)
			if res.Done {
				require.Contains(t, []float64{DefaultWinReward, DefaultLossReward}, res.Reward)
			} else {
				require.Zero(t, res.Reward)
			}
			prev = cur
		}
	}
}

func roundTrip(obs board.Observation, want board.Board) error {
	got, err := obs.Decode()
	if err != nil {
		return err
	}
	if got != want {
		return errors.New("decoded board differs: " + got.String() + " vs " + want.String())
	}
	return nil
}

func TestSeededEnvsAreReproducible(t *testing.T) {
	t.Parallel()
	a, b := newEnv(t), newEnv(t)
	assert.Equal(t, a.Observation(), b.Observation())
	for i := range board.MaxSteps {
		ra, err := a.Step(Action(i % 2))
		require.NoError(t, err)
		rb, err := b.Step(Action(i % 2))
		require.NoError(t, err)
		assert.Equal(t, ra, rb)
	}
}

func TestLoadRejectsBadBoards(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	before := e.Board()

	dup := board.Board{Steps: 1, Pending: ids(t, "As")[0]}
	dup.Rows[board.Front][0] = ids(t, "As")[0]
	assert.Error(t, e.Load(dup))

	complete := board.Board{Steps: board.MaxSteps}
	complete.Rows[board.Front] = row(t, "AsKsQsJsTs")
	complete.Rows[board.Back] = row(t, "2c3c4c5c7d")
	assert.Error(t, e.Load(complete))

	assert.Equal(t, before, e.Board())
}

func TestRewardOfIncompleteBoard(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	r, err := e.Reward(e.Board())
	require.NoError(t, err)
	assert.Zero(t, r)
}

func TestNewValidatesOptions(t *testing.T) {
	t.Parallel()
	_, err := New(WithRewards(-1, 1))
	assert.Error(t, err)
	_, err = New(WithRewards(1, 0))
	assert.Error(t, err)
	_, err = New(WithEvaluator(nil))
	assert.Error(t, err)
}

func TestEvaluatorsGiveSameRewards(t *testing.T) {
	t.Parallel()
	for seed := range int64(50) {
		native, err := New(WithSeed(seed))
		require.NoError(t, err)
		lib, err := New(WithSeed(seed), WithEvaluator(evaluator.PaulHankin{}))
		require.NoError(t, err)

		var rn, rl StepResult
		for i := range board.MaxSteps {
			rn, err = native.Step(Action(i % 2))
			require.NoError(t, err)
			rl, err = lib.Step(Action(i % 2))
			require.NoError(t, err)
		}
		require.Equal(t, native.Board(), lib.Board())
		require.Equal(t, rn.Reward, rl.Reward, "seed %d: %s", seed, native.Board())
	}
}
