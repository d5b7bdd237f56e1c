package env

import (
	"fmt"

	"github.com/lox/ofcgym/poker"
)

// ErrDeckExhausted is returned when a step needs a card and none remain.
// It is the same value as poker.ErrDeckExhausted.
var ErrDeckExhausted = poker.ErrDeckExhausted

// InvalidActionError reports an action outside {Front, Back}.
type InvalidActionError struct {
	Action Action
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid action %d: want 0 (front) or 1 (back)", int(e.Action))
}
