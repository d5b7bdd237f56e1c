package evaluator

import (
	"fmt"

	ph "github.com/paulhankin/poker"

	"github.com/lox/ofcgym/poker"
)

// PaulHankin ranks hands with github.com/paulhankin/poker.
type PaulHankin struct{}

func (PaulHankin) Name() string { return PaulHankinName }

func (PaulHankin) Rank(cards [5]poker.Card) (Strength, error) {
	var hand [5]ph.Card
	var seen poker.Hand
	for i, c := range cards {
		if !c.Valid() || seen.HasCard(c) {
			return 0, fmt.Errorf("evaluate hand: invalid or repeated card %s", c)
		}
		seen.AddCard(c)
		pc, err := toPH(c)
		if err != nil {
			return 0, err
		}
		hand[i] = pc
	}
	// Eval5 scores stronger hands higher.
	return Strength(ph.Eval5(&hand)), nil
}

var phSuits = [4]ph.Suit{
	poker.Clubs:    ph.Club,
	poker.Diamonds: ph.Diamond,
	poker.Hearts:   ph.Heart,
	poker.Spades:   ph.Spade,
}

// toPH converts a card. The library numbers ranks 1..13 with the ace as 1.
func toPH(c poker.Card) (ph.Card, error) {
	r := ph.Rank(c.Rank() + 2)
	if c.Rank() == poker.Ace {
		r = ph.Rank(1)
	}
	pc, err := ph.MakeCard(phSuits[c.Suit()], r)
	if err != nil {
		return 0, fmt.Errorf("convert %s: %w", c, err)
	}
	return pc, nil
}
