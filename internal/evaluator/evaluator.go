// Package evaluator ranks five-card rows for the placement game.
//
// A HandEvaluator is a pure function of its five cards. Strength is
// normalised across backends so that a higher value is a stronger hand.
package evaluator

import (
	"fmt"
	"strings"

	"github.com/lox/ofcgym/poker"
)

// Strength orders hands: higher is stronger. Values are only comparable
// between hands ranked by the same evaluator.
type Strength int32

// HandEvaluator ranks a five-card hand.
type HandEvaluator interface {
	Name() string
	Rank(cards [5]poker.Card) (Strength, error)
}

// Backend names accepted by New.
const (
	NativeName     = "native"
	PaulHankinName = "paulhankin"
)

// New returns the evaluator registered under name.
func New(name string) (HandEvaluator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NativeName:
		return Native{}, nil
	case PaulHankinName:
		return PaulHankin{}, nil
	default:
		return nil, fmt.Errorf("unknown evaluator %q (want %s or %s)", name, NativeName, PaulHankinName)
	}
}

// Compare returns 1 if a is stronger than b, -1 if weaker and 0 if equal.
func Compare(e HandEvaluator, a, b [5]poker.Card) (int, error) {
	sa, err := e.Rank(a)
	if err != nil {
		return 0, fmt.Errorf("rank first hand: %w", err)
	}
	sb, err := e.Rank(b)
	if err != nil {
		return 0, fmt.Errorf("rank second hand: %w", err)
	}
	switch {
	case sa > sb:
		return 1, nil
	case sa < sb:
		return -1, nil
	}
	return 0, nil
}

// Native uses the exact five-card evaluator in package poker.
type Native struct{}

func (Native) Name() string { return NativeName }

func (Native) Rank(cards [5]poker.Card) (Strength, error) {
	r, err := poker.Evaluate5Cards(cards)
	if err != nil {
		return 0, err
	}
	return Strength(poker.WorstHandRank - r), nil
}

// Describe names the hand class, e.g. "Two Pair".
func Describe(cards [5]poker.Card) string {
	r, err := poker.Evaluate5Cards(cards)
	if err != nil {
		return "Incomplete"
	}
	return r.String()
}
