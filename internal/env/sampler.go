package env

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/ofcgym/internal/board"
	"github.com/lox/ofcgym/poker"
)

// Sampler draws random boards that are syntactically valid observations:
// rows packed from slot 0, distinct cards, a pending card and a step count
// equal to the cards placed. At most one row is ever full, so a sample is
// never terminal. Samples are not necessarily reachable by play.
type Sampler struct {
	rng  *rand.Rand
	deck *poker.Deck
}

// NewSampler creates a sampler that owns rng.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng, deck: poker.NewDeck(rng)}
}

// Sample returns a random non-terminal board.
func (s *Sampler) Sample() (board.Board, error) {
	s.deck.Reset()

	// One row, chosen by coin flip, is capped at four cards.
	counts := [board.NumRows]int{s.rng.IntN(board.RowSize), s.rng.IntN(board.RowSize + 1)}
	if s.rng.IntN(2) == 1 {
		counts[0], counts[1] = counts[1], counts[0]
	}

	var b board.Board
	for r, n := range counts {
		cards, err := s.deck.Deal(n)
		if err != nil {
			return board.Board{}, fmt.Errorf("sample row %d: %w", r, err)
		}
		for i, c := range cards {
			b.Rows[r][i] = board.IDOf(c)
		}
	}
	pending, err := s.deck.DealOne()
	if err != nil {
		return board.Board{}, fmt.Errorf("sample pending card: %w", err)
	}
	b.Pending = board.IDOf(pending)
	b.Steps = uint8(counts[0] + counts[1])
	return b, nil
}

// SampleObservation returns the encoding of a random board.
func (s *Sampler) SampleObservation() (board.Observation, error) {
	b, err := s.Sample()
	if err != nil {
		return board.Observation{}, err
	}
	return board.Encode(b), nil
}

// SampleAction returns a uniformly random action.
func (s *Sampler) SampleAction() Action {
	return Action(s.rng.IntN(NumActions))
}
