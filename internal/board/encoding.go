package board

import "fmt"

// Field widths and offsets of the observation layout.
const (
	CardBits        = 32
	StepBits        = 4
	RowBits         = RowSize * CardBits
	PendingOffset   = NumRows * RowBits
	StepOffset      = PendingOffset + CardBits
	ObservationBits = StepOffset + StepBits
)

// Observation is the flat bit vector handed to agents. Each element is 0 or 1.
type Observation [ObservationBits]uint8

// MalformedObservationError reports a bit vector that does not decode to a board.
type MalformedObservationError struct {
	Reason string
}

func (e *MalformedObservationError) Error() string {
	return "malformed observation: " + e.Reason
}

func malformed(format string, args ...any) error {
	return &MalformedObservationError{Reason: fmt.Sprintf(format, args...)}
}

func slotOffset(r Row, i int) int {
	return int(r)*RowBits + i*CardBits
}

func putUint(obs *Observation, offset, width int, v uint32) {
	for i := 0; i < width; i++ {
		obs[offset+i] = uint8(v>>(width-1-i)) & 1
	}
}

func getUint(bits []uint8, offset, width int) uint32 {
	var v uint32
	for _, b := range bits[offset : offset+width] {
		v = v<<1 | uint32(b)
	}
	return v
}

// Encode packs a board into its observation. Steps above 15 cannot be
// represented and are truncated to their low four bits.
func Encode(b Board) Observation {
	var obs Observation
	for r := Front; r <= Back; r++ {
		for i, id := range b.Rows[r] {
			putUint(&obs, slotOffset(r, i), CardBits, uint32(id))
		}
	}
	putUint(&obs, PendingOffset, CardBits, uint32(b.Pending))
	putUint(&obs, StepOffset, StepBits, uint32(b.Steps))
	return obs
}

// Decode unpacks an observation produced by Encode. Bit vectors of the wrong
// length, with values other than 0 and 1, with a card field above MaxCardID
// or a step count above MaxSteps are rejected with *MalformedObservationError.
func Decode(bits []uint8) (Board, error) {
	var b Board
	if len(bits) != ObservationBits {
		return b, malformed("length %d, want %d", len(bits), ObservationBits)
	}
	for i, v := range bits {
		if v > 1 {
			return b, malformed("bit %d has value %d", i, v)
		}
	}

	card := func(offset int, where string) (CardID, error) {
		id := CardID(getUint(bits, offset, CardBits))
		if id > MaxCardID {
			return Empty, malformed("%s holds card id %d", where, id)
		}
		return id, nil
	}

	for r := Front; r <= Back; r++ {
		for i := range RowSize {
			id, err := card(slotOffset(r, i), fmt.Sprintf("%s row slot %d", r, i))
			if err != nil {
				return Board{}, err
			}
			b.Rows[r][i] = id
		}
	}
	pending, err := card(PendingOffset, "pending card")
	if err != nil {
		return Board{}, err
	}
	b.Pending = pending

	steps := getUint(bits, StepOffset, StepBits)
	if steps > MaxSteps {
		return Board{}, malformed("step count %d exceeds %d", steps, MaxSteps)
	}
	b.Steps = uint8(steps)
	return b, nil
}

// Decode is a convenience wrapper around the package level Decode.
func (o Observation) Decode() (Board, error) {
	return Decode(o[:])
}

// Card returns the identifier stored in row r, slot i.
func (o Observation) Card(r Row, i int) CardID {
	return CardID(getUint(o[:], slotOffset(r, i), CardBits))
}

// Pending returns the pending card field.
func (o Observation) Pending() CardID {
	return CardID(getUint(o[:], PendingOffset, CardBits))
}

// Steps returns the step count field.
func (o Observation) Steps() uint8 {
	return uint8(getUint(o[:], StepOffset, StepBits))
}

// Float32 returns the observation as float features, the form most
// trainers feed to a network.
func (o Observation) Float32() []float32 {
	out := make([]float32, ObservationBits)
	for i, v := range o {
		out[i] = float32(v)
	}
	return out
}
