package poker

import (
	"fmt"
	"math/bits"
	"slices"
)

// HandRank represents the strength of a five-card poker hand. Lower values
// are stronger: 0 is a royal flush, 7461 is the weakest seven-high.
type HandRank uint16

// HandType enumerates the categories of poker hands ordered from weakest to strongest.
type HandType uint8

const (
	HighCard HandType = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

const (
	straightFlushCount = 10
	fourOfAKindCount   = 13 * 12
	fullHouseCount     = 13 * 12
	flushCount         = 1277
	straightCount      = 10
	threeOfAKindCount  = 13 * 66
	twoPairCount       = 78 * 11
	onePairCount       = 13 * 220
	highCardCount      = 1277
)

const (
	baseStraightFlush = 0
	baseFourOfAKind   = baseStraightFlush + straightFlushCount
	baseFullHouse     = baseFourOfAKind + fourOfAKindCount
	baseFlush         = baseFullHouse + fullHouseCount
	baseStraight      = baseFlush + flushCount
	baseThreeOfAKind  = baseStraight + straightCount
	baseTwoPair       = baseThreeOfAKind + threeOfAKindCount
	baseOnePair       = baseTwoPair + twoPairCount
	baseHighCard      = baseOnePair + onePairCount
)

// WorstHandRank is the weakest possible five-card hand.
const WorstHandRank = HandRank(baseHighCard + highCardCount - 1)

var handTypeBases = [...]HandRank{
	StraightFlush: baseStraightFlush,
	FourOfAKind:   baseFourOfAKind,
	FullHouse:     baseFullHouse,
	Flush:         baseFlush,
	Straight:      baseStraight,
	ThreeOfAKind:  baseThreeOfAKind,
	TwoPair:       baseTwoPair,
	Pair:          baseOnePair,
	HighCard:      baseHighCard,
}

// Type returns the category of the hand (pair, flush, etc.).
func (hr HandRank) Type() HandType {
	for t := HighCard; t < StraightFlush; t++ {
		if hr >= handTypeBases[t] {
			return t
		}
	}
	return StraightFlush
}

// String returns a human-readable hand description.
func (hr HandRank) String() string {
	return hr.Type().String()
}

func (t HandType) String() string {
	switch t {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// EvaluateHand ranks a hand holding exactly five distinct cards.
func EvaluateHand(hand Hand) (HandRank, error) {
	if n := hand.CountCards(); n != 5 {
		return WorstHandRank, fmt.Errorf("evaluate hand: want 5 cards, got %d", n)
	}
	return rankFive(hand), nil
}

// Evaluate5Cards ranks five cards. Duplicate or zero cards are an error.
func Evaluate5Cards(cards [5]Card) (HandRank, error) {
	var hand Hand
	for _, c := range cards {
		if !c.Valid() {
			return WorstHandRank, fmt.Errorf("evaluate hand: invalid card %#x", uint64(c))
		}
		hand.AddCard(c)
	}
	return EvaluateHand(hand)
}

func rankFive(hand Hand) HandRank {
	var suitMasks [4]uint16
	var rankMask uint16
	flush := false
	for suit := range uint8(4) {
		m := hand.GetSuitMask(suit)
		suitMasks[suit] = m
		rankMask |= m
		if bits.OnesCount16(m) == 5 {
			flush = true
		}
	}

	high := straightHigh(rankMask)
	if flush && high > 0 {
		return HandRank(baseStraightFlush + straightFlushCount - 1 - straightIndex(high))
	}

	s0, s1, s2, s3 := suitMasks[0], suitMasks[1], suitMasks[2], suitMasks[3]
	quads := s0 & s1 & s2 & s3
	trips := ((s0 & s1 & s2) | (s0 & s1 & s3) | (s0 & s2 & s3) | (s1 & s2 & s3)) &^ quads
	pairs := ((s0 & s1) | (s0 & s2) | (s0 & s3) | (s1 & s2) | (s1 & s3) | (s2 & s3)) &^ (trips | quads)

	switch {
	case quads != 0:
		q := topRank(quads)
		kicker := squeeze(rankMask&^quads, q)
		idx := int(q)*12 + bits.TrailingZeros16(kicker)
		return HandRank(baseFourOfAKind + fourOfAKindCount - 1 - idx)

	case trips != 0 && pairs != 0:
		t := topRank(trips)
		pair := squeeze(pairs, t)
		idx := int(t)*12 + bits.TrailingZeros16(pair)
		return HandRank(baseFullHouse + fullHouseCount - 1 - idx)

	case flush:
		return HandRank(baseFlush + flushCount - 1 - distinctIndex(rankMask))

	case high > 0:
		return HandRank(baseStraight + straightCount - 1 - straightIndex(high))

	case trips != 0:
		t := topRank(trips)
		idx := int(t)*66 + colex(squeeze(rankMask&^trips, t))
		return HandRank(baseThreeOfAKind + threeOfAKindCount - 1 - idx)

	case bits.OnesCount16(pairs) == 2:
		hi := topRank(pairs)
		lo := topRank(pairs &^ (1 << hi))
		kicker := squeeze(squeeze(rankMask&^pairs, hi), lo)
		idx := colex(pairs)*11 + bits.TrailingZeros16(kicker)
		return HandRank(baseTwoPair + twoPairCount - 1 - idx)

	case pairs != 0:
		p := topRank(pairs)
		idx := int(p)*220 + colex(squeeze(rankMask&^pairs, p))
		return HandRank(baseOnePair + onePairCount - 1 - idx)
	}

	return HandRank(baseHighCard + highCardCount - 1 - distinctIndex(rankMask))
}

// binomial[n][k] for n < 14.
var binomial = func() [14][6]int {
	var t [14][6]int
	for n := range 14 {
		t[n][0] = 1
		for k := 1; k < 6 && k <= n; k++ {
			t[n][k] = t[n-1][k-1] + t[n-1][k]
		}
	}
	return t
}()

// colex returns the position of a rank set among all sets of the same size
// in colexicographic order, which is the order poker compares kickers in:
// the set holding the highest differing rank is larger.
func colex(mask uint16) int {
	idx, k := 0, 1
	for rest := mask; rest != 0; rest &= rest - 1 {
		idx += binomial[bits.TrailingZeros16(rest)][k]
		k++
	}
	return idx
}

// straightColex holds the colex positions of the ten straight rank sets, ascending.
var straightColex = func() []int {
	out := []int{colex(0x100F)}
	for low := 0; low <= 8; low++ {
		out = append(out, colex(uint16(0x1F)<<low))
	}
	slices.Sort(out)
	return out
}()

// distinctIndex ranks five distinct non-straight ranks, skipping the
// straight sets so the range is exactly 0..1276.
func distinctIndex(mask uint16) int {
	idx := colex(mask)
	skip := 0
	for _, s := range straightColex {
		if s < idx {
			skip++
		}
	}
	return idx - skip
}

// straightHigh returns the high rank of a straight in the mask, 3 for the
// wheel, or 0 when there is none.
func straightHigh(mask uint16) uint8 {
	const wheel = 0x100F
	mask &= suitMask
	seq := mask & (mask >> 1) & (mask >> 2) & (mask >> 3) & (mask >> 4)
	if seq != 0 {
		return uint8(bits.Len16(seq)-1) + 4
	}
	if mask&wheel == wheel {
		return 3
	}
	return 0
}

func straightIndex(high uint8) int {
	return int(high) - 3
}

func topRank(mask uint16) uint8 {
	return uint8(bits.Len16(mask) - 1)
}

// squeeze deletes bit r from mask, shifting the higher bits down by one.
func squeeze(mask uint16, r uint8) uint16 {
	low := mask & (1<<r - 1)
	return low | (mask>>(r+1))<<r
}

// CompareHands returns 1 if a is stronger, -1 if b is stronger, 0 for a tie.
func CompareHands(a, b HandRank) int {
	switch {
	case a < b:
		return 1
	case a > b:
		return -1
	}
	return 0
}
