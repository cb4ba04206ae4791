// Package mediation decides when a mediator steps into a stalled negotiation
// and what compromise price it suggests.
package mediation

import "math"

const (
	// MinOffers is the number of priced offers required before intervening.
	MinOffers = 3
	// StallRatio is the gap, as a fraction of the average, below which the
	// parties are close enough that no intervention is needed.
	StallRatio = 0.05
)

// Proposal describes a mediator intervention.
type Proposal struct {
	Price    float64 // average of the two most recent prices
	Gap      float64
	Previous float64
	Latest   float64
	First    float64 // first price of the negotiation
}

// Evaluate inspects the full price history, oldest first, and returns a
// proposal when the negotiation looks stalled.
func Evaluate(prices []float64) (Proposal, bool) {
	if len(prices) < MinOffers {
		return Proposal{}, false
	}
	prev, latest := prices[len(prices)-2], prices[len(prices)-1]
	gap := math.Abs(prev - latest)
	avg := (prev + latest) / 2
	if gap < avg*StallRatio {
		return Proposal{}, false
	}
	return Proposal{
		Price:    avg,
		Gap:      gap,
		Previous: prev,
		Latest:   latest,
		First:    prices[0],
	}, true
}
