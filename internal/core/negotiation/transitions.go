package negotiation

import (
	"math"
	"strings"
)

const (
	// DefaultMaxRounds is the round cap; reaching it without agreement fails the negotiation.
	DefaultMaxRounds = 12
	// DefaultMinRounds is the first round at which termination is evaluated.
	DefaultMinRounds = 6
	// DefaultConvergenceThreshold is the absolute price gap treated as convergence.
	DefaultConvergenceThreshold = 10.0

	mediatorFirstRound = 4
	mediatorQuietUntil = 6
	mediatorCadence    = 3

	// ReasonMaxRounds is the failure reason recorded at the round cap.
	ReasonMaxRounds = "maximum rounds reached"
)

// acceptanceKeywords are matched case-insensitively as substrings of a regular offer.
var acceptanceKeywords = []string{"accept", "deal", "agreed", "proceed", "paperwork", "finalize"}

// Rules holds the tunable termination parameters.
type Rules struct {
	MaxRounds            int
	MinRounds            int
	ConvergenceThreshold float64
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		MaxRounds:            DefaultMaxRounds,
		MinRounds:            DefaultMinRounds,
		ConvergenceThreshold: DefaultConvergenceThreshold,
	}
}

// ShouldMediate reports whether a mediator check happens before the regular
// offer that would otherwise take the given round slot. The last slot is
// never given to the mediator so the round cap is never exceeded.
func (r Rules) ShouldMediate(round int) bool {
	if round >= r.MaxRounds {
		return false
	}
	return round == mediatorFirstRound || (round > mediatorQuietUntil && round%mediatorCadence == 0)
}

// ContainsAcceptance reports whether a message uses any acceptance keyword.
func ContainsAcceptance(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range acceptanceKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// TerminationRule names which rule ended a negotiation.
type TerminationRule string

const (
	RuleNone        TerminationRule = ""
	RuleKeyword     TerminationRule = "keyword"
	RuleConvergence TerminationRule = "convergence"
	RuleRoundCap    TerminationRule = "round_cap"
)

// TerminationResult is the outcome of evaluating the termination rules.
type TerminationResult struct {
	Status     Status
	FinalPrice float64
	Reason     string
	Rule       TerminationRule
}

// TerminationInput is what Evaluate needs after a regular offer was appended.
type TerminationInput struct {
	Offers  []Offer
	Floor   float64
	Ceiling float64
}

// Evaluate applies the termination rules to the transcript whose last entry is
// the regular offer just appended.
func (r Rules) Evaluate(input TerminationInput) TerminationResult {
	if len(input.Offers) == 0 {
		return TerminationResult{Status: StatusOngoing}
	}
	last := input.Offers[len(input.Offers)-1]
	inRange := func(p float64) bool { return input.Floor <= p && p <= input.Ceiling }

	if last.Round >= r.MinRounds {
		if last.HasPrice() && ContainsAcceptance(last.Message) && inRange(*last.Price) {
			return TerminationResult{Status: StatusAgreed, FinalPrice: *last.Price, Rule: RuleKeyword}
		}

		if recent := RecentPrices(input.Offers, 2); len(recent) == 2 {
			if math.Abs(recent[1]-recent[0]) < r.ConvergenceThreshold {
				avg := (recent[0] + recent[1]) / 2
				if inRange(avg) {
					return TerminationResult{Status: StatusAgreed, FinalPrice: avg, Rule: RuleConvergence}
				}
			}
		}
	}

	if last.Round >= r.MaxRounds {
		return TerminationResult{Status: StatusFailed, Reason: ReasonMaxRounds, Rule: RuleRoundCap}
	}
	return TerminationResult{Status: StatusOngoing}
}

// ApplyTermination records a terminal result on the negotiation.
// Ongoing results leave the negotiation untouched.
func ApplyTermination(n *Negotiation, result TerminationResult) {
	switch result.Status {
	case StatusAgreed:
		price := result.FinalPrice
		n.Status = StatusAgreed
		n.FinalPrice = &price
		n.FailureReason = ""
	case StatusFailed:
		n.Status = StatusFailed
		n.FinalPrice = nil
		n.FailureReason = result.Reason
	}
}

// InitialStatus returns the status for a new negotiation.
func InitialStatus() Status {
	return StatusOngoing
}
