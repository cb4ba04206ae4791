// Package pricing implements the buyer and seller price strategies.
// Strategies are pure apart from an injected random source and hold
// state for exactly one negotiation.
package pricing

import (
	"errors"
	"fmt"
)

// ErrRangeViolation marks a computed price outside the agent's permitted range.
// The clamps make this unreachable; strategies panic with it if it ever happens.
var ErrRangeViolation = errors.New("price outside permitted range")

// Source supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Kind classifies a strategy decision.
type Kind string

const (
	KindOpening Kind = "opening"
	KindAccept  Kind = "accept"
	KindCounter Kind = "counter"
	KindRefuse  Kind = "refuse"
)

// Decision is the outcome of one strategy invocation.
type Decision struct {
	Kind Kind
	// Price is the price the agent puts forward.
	Price float64
	// Incoming is the counterpart price being answered. Zero for openings.
	Incoming float64
	// Turn is the agent's turn counter after this decision.
	Turn int
}

// firm refusals start on the third out-of-range response.
const refusalTurn = 3

func uniform(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

func rangeViolation(role string, price, bound float64) {
	panic(fmt.Errorf("%w: %s price %.4f against bound %.4f", ErrRangeViolation, role, price, bound))
}
