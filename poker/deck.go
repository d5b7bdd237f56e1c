package poker

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
)

// ErrDeckExhausted is returned when a deal asks for more cards than remain.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck is a standard 52-card deck dealt without replacement.
type Deck struct {
	cards [NumCards]Card
	size  int // cards in play; shrinks when cards are excluded
	next  int
	rng   *rand.Rand
}

// NewDeck creates a shuffled deck. The RNG is required so that every deck
// is reproducible from its seed.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("rng is required for deck creation")
	}
	d := &Deck{rng: rng}
	d.Reset()
	return d
}

// Reset restores all 52 cards and reshuffles.
func (d *Deck) Reset() {
	for i := range d.cards {
		d.cards[i] = Card(1) << uint(i)
	}
	d.size = NumCards
	d.Shuffle()
}

// Shuffle reshuffles the cards in play with Fisher-Yates and rewinds the deal position.
func (d *Deck) Shuffle() {
	d.next = 0
	for i := d.size - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Exclude removes the given cards from the deck and reshuffles the rest.
// Used when play resumes from a board that already holds cards.
func (d *Deck) Exclude(used Hand) {
	kept := 0
	for i := 0; i < d.size; i++ {
		if !used.HasCard(d.cards[i]) {
			d.cards[kept] = d.cards[i]
			kept++
		}
	}
	d.size = kept
	d.Shuffle()
}

// Deal removes and returns n cards. It never returns fewer than n cards.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 {
		return nil, fmt.Errorf("deal %d cards: negative count", n)
	}
	if d.next+n > d.size {
		return nil, fmt.Errorf("deal %d cards with %d remaining: %w", n, d.CardsRemaining(), ErrDeckExhausted)
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards, nil
}

// DealOne deals a single card.
func (d *Deck) DealOne() (Card, error) {
	if d.next >= d.size {
		return 0, fmt.Errorf("deal one card: %w", ErrDeckExhausted)
	}
	c := d.cards[d.next]
	d.next++
	return c, nil
}

// CardsRemaining returns the number of undealt cards.
func (d *Deck) CardsRemaining() int {
	return d.size - d.next
}
