// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/haggle/internal/core/effects"
	corenegotiation "github.com/example/haggle/internal/core/negotiation"
	"github.com/example/haggle/internal/logging"
	"github.com/example/haggle/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place I/O happens.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// DefaultEffectExecutor implements EffectExecutor against the negotiation repository and logger.
type DefaultEffectExecutor struct {
	negotiationRepo secondary.NegotiationRepository
	logger          *logging.Logger
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(negotiationRepo secondary.NegotiationRepository, logger *logging.Logger) *DefaultEffectExecutor {
	return &DefaultEffectExecutor{negotiationRepo: negotiationRepo, logger: logger}
}

// Execute processes a slice of effects, executing each in sequence.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.PersistEffect:
		return e.executePersist(ctx, typed)
	case effects.LogEffect:
		e.executeLog(typed)
		return nil
	case effects.CompositeEffect:
		return e.Execute(ctx, typed.Effects)
	case effects.NoEffect:
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executeLog(eff effects.LogEffect) {
	args := make([]any, 0, len(eff.Fields)*2)
	for k, v := range eff.Fields {
		args = append(args, k, v)
	}
	switch strings.ToUpper(eff.Level) {
	case logging.LevelDebug:
		e.logger.Debug(eff.Message, args...)
	case logging.LevelWarn:
		e.logger.Warn(eff.Message, args...)
	case logging.LevelError:
		e.logger.Error(eff.Message, args...)
	default:
		e.logger.Info(eff.Message, args...)
	}
}

func (e *DefaultEffectExecutor) executePersist(ctx context.Context, eff effects.PersistEffect) error {
	switch eff.Entity {
	case "negotiation":
		return e.executeNegotiationOp(ctx, eff)
	default:
		return fmt.Errorf("unknown entity: %s", eff.Entity)
	}
}

func (e *DefaultEffectExecutor) executeNegotiationOp(ctx context.Context, eff effects.PersistEffect) error {
	n, ok := eff.Data.(*corenegotiation.Negotiation)
	if !ok {
		return fmt.Errorf("negotiation effect carries %T", eff.Data)
	}

	switch eff.Operation {
	case "create":
		record, err := negotiationToRecord(n)
		if err != nil {
			return err
		}
		if err := e.negotiationRepo.Save(ctx, record); err != nil {
			return fmt.Errorf("failed to save negotiation %s: %w", n.ID, err)
		}
		return nil
	default:
		return fmt.Errorf("unknown negotiation operation: %s", eff.Operation)
	}
}
