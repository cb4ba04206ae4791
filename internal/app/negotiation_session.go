package app

import (
	"context"

	"github.com/example/haggle/internal/core/compose"
	"github.com/example/haggle/internal/core/mediation"
	corenegotiation "github.com/example/haggle/internal/core/negotiation"
	"github.com/example/haggle/internal/core/pricing"
	"github.com/example/haggle/internal/logging"
)

// session drives a single negotiation. It owns the buyer and seller strategy
// state and is discarded once the negotiation call returns.
type session struct {
	n        *corenegotiation.Negotiation
	buyer    *pricing.Buyer
	seller   *pricing.Seller
	rules    corenegotiation.Rules
	composer *OfferComposer
	logger   *logging.Logger
}

// newSession rebuilds strategy state from the transcript so a resumed
// negotiation continues with the right turn counters.
func newSession(n *corenegotiation.Negotiation, src pricing.Source, rules corenegotiation.Rules, composer *OfferComposer, logger *logging.Logger) *session {
	return &session{
		n:        n,
		buyer:    pricing.NewBuyer(n.Ceiling, corenegotiation.TurnsTaken(n.Offers, corenegotiation.RoleBuyer), src),
		seller:   pricing.NewSeller(n.Floor, corenegotiation.TurnsTaken(n.Offers, corenegotiation.RoleSeller), src),
		rules:    rules,
		composer: composer,
		logger:   logger,
	}
}

// run advances the negotiation until it reaches a terminal state.
func (s *session) run(ctx context.Context) {
	for !s.n.Status.IsTerminal() {
		s.step(ctx)
	}
}

// step advances one logical step: the buyer opening when the transcript has
// no regular offers, otherwise an optional mediator offer followed by one
// regular offer and a termination check.
func (s *session) step(ctx context.Context) {
	if s.n.Status.IsTerminal() {
		return
	}

	speaker, incoming, ok := s.nextTurn()
	if !ok {
		s.open(ctx)
		return
	}

	var decision pricing.Decision
	var limit float64
	switch speaker {
	case corenegotiation.RoleBuyer:
		decision, limit = s.buyer.Respond(incoming.PriceValue()), s.n.Ceiling
	default:
		decision, limit = s.seller.Respond(incoming.PriceValue()), s.n.Floor
	}

	if s.rules.ShouldMediate(s.n.NextRound()) {
		s.mediate(ctx)
	}

	req := compose.ForDecision(speaker, s.n.Item, limit, decision, incoming.Message)
	offer := s.n.Append(corenegotiation.NewOffer(0, speaker, s.composer.Compose(ctx, req), decision.Price))
	s.n.NextSpeaker = speaker.Counterpart()

	s.logger.Debug("offer appended",
		"round", offer.Round,
		"role", string(speaker),
		"kind", string(decision.Kind),
		"price", decision.Price,
	)

	result := s.rules.Evaluate(corenegotiation.TerminationInput{
		Offers:  s.n.Offers,
		Floor:   s.n.Floor,
		Ceiling: s.n.Ceiling,
	})
	if result.Status.IsTerminal() {
		corenegotiation.ApplyTermination(s.n, result)
		s.logger.Info("negotiation terminated",
			"status", string(result.Status),
			"rule", string(result.Rule),
			"round", offer.Round,
		)
	}
}

// nextTurn returns who speaks next and the counterpart offer they answer.
func (s *session) nextTurn() (corenegotiation.Role, corenegotiation.Offer, bool) {
	speaker := s.n.NextSpeaker
	if !speaker.IsRegular() {
		speaker = corenegotiation.ResolveNextSpeaker(s.n.Offers)
	}
	if incoming, ok := s.n.LastBy(speaker.Counterpart()); ok {
		return speaker, incoming, true
	}

	// The stored next speaker disagrees with the transcript.
	speaker = corenegotiation.ResolveNextSpeaker(s.n.Offers)
	incoming, ok := s.n.LastBy(speaker.Counterpart())
	return speaker, incoming, ok
}

func (s *session) open(ctx context.Context) {
	decision := s.buyer.Open()
	req := compose.ForDecision(corenegotiation.RoleBuyer, s.n.Item, s.n.Ceiling, decision, "")
	offer := s.n.Append(corenegotiation.NewOffer(0, corenegotiation.RoleBuyer, s.composer.Compose(ctx, req), decision.Price))
	s.n.NextSpeaker = corenegotiation.RoleSeller

	s.logger.Debug("opening offer", "round", offer.Round, "price", decision.Price)
}

func (s *session) mediate(ctx context.Context) {
	proposal, ok := mediation.Evaluate(corenegotiation.Prices(s.n.Offers))
	if !ok {
		s.logger.Debug("mediator stays out", "round", s.n.NextRound())
		return
	}

	messages := corenegotiation.Messages(s.n.Offers)
	if len(messages) > 2 {
		messages = messages[len(messages)-2:]
	}
	req := compose.Request{
		Role:     corenegotiation.RoleMediator,
		Item:     s.n.Item,
		Price:    proposal.Price,
		Previous: proposal.Previous,
		Latest:   proposal.Latest,
		Gap:      proposal.Gap,
		First:    proposal.First,
		Context:  messages,
	}
	offer := s.n.Append(corenegotiation.NewOffer(0, corenegotiation.RoleMediator, s.composer.Compose(ctx, req), proposal.Price))

	s.logger.Info("mediator intervened", "round", offer.Round, "price", proposal.Price, "gap", proposal.Gap)
}
