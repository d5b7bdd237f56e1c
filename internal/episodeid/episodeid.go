// Package episodeid generates sortable identifiers for rollout episodes.
//
// An ID is a UUIDv7 rendered as 26 lowercase Crockford base32 characters,
// the same shape as a TypeID suffix. IDs from one Generator sort in the
// order they were issued.
package episodeid

import (
	"fmt"
	rand "math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/coder/quartz"
)

const (
	alphabet = "0123456789abcdefghjkmnpqrstvwxyz"
	// Length is the number of characters in an ID.
	Length = 26
)

// Generator issues episode IDs. It is safe for concurrent use.
type Generator struct {
	clock quartz.Clock

	mu     sync.Mutex
	rng    *rand.Rand
	lastMS int64
	seq    uint16 // 12-bit counter for IDs within one millisecond
}

// NewGenerator creates a generator reading time from clock and random bits
// from rng. A seeded rng and a mock clock make the sequence reproducible.
func NewGenerator(clock quartz.Clock, rng *rand.Rand) *Generator {
	return &Generator{clock: clock, rng: rng}
}

// Next returns a new ID.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.clock.Now().UnixMilli()
	if ms <= g.lastMS {
		// Stay on the last timestamp and count up so IDs keep sorting.
		ms = g.lastMS
		g.seq++
		if g.seq > 0x0fff {
			ms++
			g.seq = uint16(g.rng.IntN(0x0800))
		}
	} else {
		g.seq = uint16(g.rng.IntN(0x0800))
	}
	g.lastMS = ms

	// Layout: 48-bit ms timestamp, version 7, 12-bit seq, variant 10, 62 random bits.
	hi := uint64(ms)<<16 | 0x7000 | uint64(g.seq)
	lo := g.rng.Uint64()&(1<<62-1) | 1<<63
	return encode(hi, lo)
}

func encode(hi, lo uint64) string {
	var out [Length]byte
	for i := Length - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}

func decode(id string) (hi, lo uint64, err error) {
	if err := Validate(id); err != nil {
		return 0, 0, err
	}
	for i := 0; i < Length; i++ {
		v := uint64(strings.IndexByte(alphabet, id[i]))
		hi = hi<<5 | lo>>59
		lo = lo<<5 | v
	}
	return hi, lo, nil
}

// Timestamp returns the creation time encoded in id, to the millisecond.
func Timestamp(id string) (time.Time, error) {
	hi, _, err := decode(id)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(int64(hi >> 16)), nil
}

// Validate checks that id is 26 base32 characters whose first character
// keeps the value within 128 bits.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("episode ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("episode ID first character must be 0-7, got %c", id[0])
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}
