package poker

import (
	"fmt"
	"math/bits"
	"strings"
)

// Card is a single playing card stored as one bit of a 52-bit set.
// The bit position is suit*13 + rank. The zero Card means "no card".
type Card uint64

// Hand is a set of cards; the union of Card bits.
type Hand uint64

// Suits, ordered to match the bit layout.
const (
	Clubs uint8 = iota
	Diamonds
	Hearts
	Spades
)

// Ranks from deuce (0) to ace (12).
const (
	Two uint8 = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// NumCards is the size of a standard deck.
const NumCards = 52

const (
	rankChars = "23456789TJQKA"
	suitChars = "cdhs"
	suitMask  = 0x1FFF
)

// NewCard creates a card from a rank (0-12) and suit (0-3).
func NewCard(rank, suit uint8) Card {
	return Card(1) << (uint(suit)*13 + uint(rank))
}

// CardFromIndex returns the card at bit position idx (0-51).
func CardFromIndex(idx int) (Card, error) {
	if idx < 0 || idx >= NumCards {
		return 0, fmt.Errorf("card index %d out of range", idx)
	}
	return Card(1) << uint(idx), nil
}

// Index returns the bit position of the card, or -1 for the zero Card.
func (c Card) Index() int {
	if c == 0 || bits.OnesCount64(uint64(c)) != 1 {
		return -1
	}
	return bits.TrailingZeros64(uint64(c))
}

// Valid reports whether c is exactly one of the 52 cards.
func (c Card) Valid() bool {
	idx := c.Index()
	return idx >= 0 && idx < NumCards
}

// Rank returns the card rank (0-12).
func (c Card) Rank() uint8 {
	return uint8(c.Index() % 13)
}

// Suit returns the card suit (0-3).
func (c Card) Suit() uint8 {
	return uint8(c.Index() / 13)
}

// IsRed is true for hearts and diamonds.
func (c Card) IsRed() bool {
	s := c.Suit()
	return s == Hearts || s == Diamonds
}

// String returns the two character notation, e.g. "As" or "Td".
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return string([]byte{rankChars[c.Rank()], suitChars[c.Suit()]})
}

// ParseCard parses two character notation such as "As".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid card %q: want two characters", s)
	}
	rank := strings.IndexByte(rankChars, strings.ToUpper(s[:1])[0])
	if rank < 0 {
		return 0, fmt.Errorf("invalid card %q: unknown rank", s)
	}
	suit := strings.IndexByte(suitChars, strings.ToLower(s[1:])[0])
	if suit < 0 {
		return 0, fmt.Errorf("invalid card %q: unknown suit", s)
	}
	return NewCard(uint8(rank), uint8(suit)), nil
}

// ParseCards parses concatenated or space separated card notation,
// e.g. "AsKsQs" or "As Ks Qs".
func ParseCards(s string) ([]Card, error) {
	s = strings.ReplaceAll(s, " ", "")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card list %q", s)
	}
	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		c, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for fixtures; it panics on bad input.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// NewHand builds a hand from cards.
func NewHand(cards ...Card) Hand {
	var h Hand
	for _, c := range cards {
		h |= Hand(c)
	}
	return h
}

// AddCard adds a card to the hand.
func (h *Hand) AddCard(c Card) {
	*h |= Hand(c)
}

// HasCard reports whether the hand holds c.
func (h Hand) HasCard(c Card) bool {
	return c != 0 && uint64(h)&uint64(c) == uint64(c)
}

// CountCards returns the number of cards in the hand.
func (h Hand) CountCards() int {
	return bits.OnesCount64(uint64(h))
}

// GetSuitMask returns a 13-bit rank mask for one suit.
func (h Hand) GetSuitMask(suit uint8) uint16 {
	return uint16(uint64(h)>>(uint(suit)*13)) & suitMask
}

// Cards lists the hand in ascending bit order.
func (h Hand) Cards() []Card {
	out := make([]Card, 0, h.CountCards())
	for rest := uint64(h); rest != 0; rest &= rest - 1 {
		out = append(out, Card(rest&-rest))
	}
	return out
}
