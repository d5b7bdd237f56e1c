// Package board holds the two-row placement board and its fixed-width
// binary observation encoding.
//
// An observation is 356 bits, one byte per bit, most significant bit first
// within each field:
//
//	bits   0-159  front row, slots 0..4, 32 bits each
//	bits 160-319  back row, slots 0..4, 32 bits each
//	bits 320-351  pending card
//	bits 352-355  step count
//
// Card fields hold a CardID; the all-zero field means the slot is empty.
// All offset arithmetic lives in this package.
package board

import (
	"errors"
	"fmt"

	"github.com/lox/ofcgym/poker"
)

// Row selects one of the two rows.
type Row uint8

const (
	Front Row = iota
	Back
)

// NumRows, RowSize and MaxSteps describe the board geometry.
const (
	NumRows  = 2
	RowSize  = 5
	MaxSteps = NumRows * RowSize
)

func (r Row) String() string {
	switch r {
	case Front:
		return "front"
	case Back:
		return "back"
	default:
		return fmt.Sprintf("row(%d)", uint8(r))
	}
}

// CardID is the wire identifier of a card. Empty (0) marks a vacant slot;
// real cards are 1..52, the poker card index plus one.
type CardID uint32

// ErrIncompleteRow is returned when a hand is requested from a row with empty slots.
var ErrIncompleteRow = errors.New("row is not complete")

// Empty is the reserved identifier for "no card".
const Empty CardID = 0

// MaxCardID is the largest identifier a real card can have.
const MaxCardID = CardID(poker.NumCards)

// IDOf returns the identifier of a poker card, or Empty for the zero card.
func IDOf(c poker.Card) CardID {
	if !c.Valid() {
		return Empty
	}
	return CardID(c.Index() + 1)
}

// Card converts the identifier back to a poker card. Empty and out of
// range identifiers return the zero card and false.
func (id CardID) Card() (poker.Card, bool) {
	if id == Empty || id > MaxCardID {
		return 0, false
	}
	c, err := poker.CardFromIndex(int(id) - 1)
	return c, err == nil
}

func (id CardID) String() string {
	if id == Empty {
		return "__"
	}
	c, ok := id.Card()
	if !ok {
		return "??"
	}
	return c.String()
}

// Board is the logical game state: two rows, the card waiting to be
// placed and the number of cards placed so far. Board is a value type;
// two boards are equal when every field matches.
type Board struct {
	Rows    [NumRows][RowSize]CardID
	Pending CardID
	Steps   uint8
}

// Slot returns the card in row r at index i.
func (b Board) Slot(r Row, i int) CardID {
	return b.Rows[r][i]
}

// Row returns a copy of one row.
func (b Board) Row(r Row) [RowSize]CardID {
	return b.Rows[r]
}

// FirstEmpty returns the leftmost empty slot of row r, or -1 if the row is full.
func (b Board) FirstEmpty(r Row) int {
	for i, id := range b.Rows[r] {
		if id == Empty {
			return i
		}
	}
	return -1
}

// Filled counts the occupied slots in row r.
func (b Board) Filled(r Row) int {
	n := 0
	for _, id := range b.Rows[r] {
		if id != Empty {
			n++
		}
	}
	return n
}

// Complete reports whether all ten slots are filled.
func (b Board) Complete() bool {
	return b.Filled(Front) == RowSize && b.Filled(Back) == RowSize
}

// Hand returns the five cards of a completed row.
func (b Board) Hand(r Row) ([RowSize]poker.Card, error) {
	var out [RowSize]poker.Card
	for i, id := range b.Rows[r] {
		c, ok := id.Card()
		if !ok {
			return out, fmt.Errorf("%s row slot %d: %w", r, i, ErrIncompleteRow)
		}
		out[i] = c
	}
	return out, nil
}

// Cards returns every card on the board, including the pending card.
func (b Board) Cards() poker.Hand {
	var h poker.Hand
	for r := range b.Rows {
		for _, id := range b.Rows[r] {
			if c, ok := id.Card(); ok {
				h.AddCard(c)
			}
		}
	}
	if c, ok := b.Pending.Card(); ok {
		h.AddCard(c)
	}
	return h
}

// Validate checks the invariants a board reached by play always holds:
// rows are packed from slot 0, the step count equals the filled slots,
// identifiers are in range, no card appears twice and a pending card is
// present exactly while the board is incomplete.
func (b Board) Validate() error {
	seen := map[CardID]bool{}
	check := func(id CardID, where string) error {
		if id > MaxCardID {
			return fmt.Errorf("%s: card id %d out of range", where, id)
		}
		if id == Empty {
			return nil
		}
		if seen[id] {
			return fmt.Errorf("%s: card %s appears twice", where, id)
		}
		seen[id] = true
		return nil
	}

	filled := 0
	for r := Front; r <= Back; r++ {
		gap := false
		for i, id := range b.Rows[r] {
			if err := check(id, fmt.Sprintf("%s row slot %d", r, i)); err != nil {
				return err
			}
			switch {
			case id == Empty:
				gap = true
			case gap:
				return fmt.Errorf("%s row slot %d: card after an empty slot", r, i)
			default:
				filled++
			}
		}
	}
	if err := check(b.Pending, "pending card"); err != nil {
		return err
	}
	if int(b.Steps) != filled {
		return fmt.Errorf("step count %d does not match %d placed cards", b.Steps, filled)
	}
	if filled < MaxSteps && b.Pending == Empty {
		return fmt.Errorf("pending card missing with %d cards placed", filled)
	}
	if filled == MaxSteps && b.Pending != Empty {
		return fmt.Errorf("pending card %s on a complete board", b.Pending)
	}
	return nil
}

func (b Board) String() string {
	return fmt.Sprintf("step %d front %v back %v pending %s", b.Steps, b.Rows[Front], b.Rows[Back], b.Pending)
}
