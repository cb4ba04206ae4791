// Package negotiation contains the pure business logic for the negotiation state machine.
// This file contains pure planner functions that generate effects.
package negotiation

import (
	"fmt"

	"github.com/example/haggle/internal/core/effects"
)

// CompletionPlan represents the planned effects once a negotiation terminates.
type CompletionPlan struct {
	NegotiationID string
	DatabaseOps   []effects.PersistEffect
	LogOps        []effects.LogEffect
}

// Effects returns all effects as a flat slice for execution.
func (p CompletionPlan) Effects() []effects.Effect {
	result := make([]effects.Effect, 0, len(p.DatabaseOps)+len(p.LogOps))
	for _, e := range p.LogOps {
		result = append(result, e)
	}
	for _, e := range p.DatabaseOps {
		result = append(result, e)
	}
	return result
}

// GenerateCompletionPlan creates the plan for a terminated negotiation.
// Only agreed negotiations are persisted. Ongoing negotiations produce an empty plan.
func GenerateCompletionPlan(n *Negotiation) CompletionPlan {
	plan := CompletionPlan{NegotiationID: n.ID}

	switch n.Status {
	case StatusAgreed:
		plan.LogOps = append(plan.LogOps, effects.LogEffect{
			Level:   "INFO",
			Message: fmt.Sprintf("negotiation agreed at $%.2f", *n.FinalPrice),
			Fields: map[string]any{
				"negotiation_id": n.ID,
				"rounds":         n.LastRound(),
				"final_price":    *n.FinalPrice,
			},
		})
		plan.DatabaseOps = append(plan.DatabaseOps, effects.PersistEffect{
			Entity:    "negotiation",
			Operation: "create",
			Data:      n,
		})
	case StatusFailed:
		plan.LogOps = append(plan.LogOps, effects.LogEffect{
			Level:   "INFO",
			Message: "negotiation failed: " + n.FailureReason,
			Fields: map[string]any{
				"negotiation_id": n.ID,
				"rounds":         n.LastRound(),
			},
		})
	}

	return plan
}
