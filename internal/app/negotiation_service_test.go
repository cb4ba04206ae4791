package app

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/example/haggle/internal/core/negotiation"
	"github.com/example/haggle/internal/logging"
	"github.com/example/haggle/internal/ports/primary"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func priceOf(t *testing.T, o primary.Offer) float64 {
	t.Helper()
	if o.Price == nil {
		t.Fatalf("round %d has no price", o.Round)
	}
	return *o.Price
}

func TestStartNegotiation_AgreesByKeyword(t *testing.T) {
	gen := newFailingGenerator()
	repo := newMockNegotiationRepository()
	svc := newTestService(gen, repo)

	got, err := svc.StartNegotiation(context.Background(), primary.StartNegotiationRequest{
		Item: "road bike", BuyerMax: 1000, SellerMin: 600,
	})
	if err != nil {
		t.Fatalf("StartNegotiation error: %v", err)
	}

	if got.Status != "agreed" {
		t.Fatalf("Status = %q, want agreed", got.Status)
	}
	if len(got.Rounds) != 6 {
		t.Fatalf("rounds = %d, want 6", len(got.Rounds))
	}
	if got.FinalPrice == nil || !approx(*got.FinalPrice, 750) {
		t.Errorf("FinalPrice = %v, want 750", got.FinalPrice)
	}
	if !strings.HasPrefix(got.Rounds[0].Message, "Hello! I'm interested in your road bike.") {
		t.Errorf("opening message = %q", got.Rounds[0].Message)
	}
	if !strings.HasPrefix(got.Summary, "Summary generation failed:") {
		t.Errorf("Summary = %q", got.Summary)
	}
	if !strings.HasPrefix(got.Analysis, "Analysis generation failed:") {
		t.Errorf("Analysis = %q", got.Analysis)
	}
	if !negotiation.IsValidNegotiationID(got.ID) {
		t.Errorf("ID %q is not a negotiation ID", got.ID)
	}

	if len(repo.saved) != 1 {
		t.Fatalf("saved = %d, want 1", len(repo.saved))
	}
	saved := repo.saved[0]
	if saved.ID != got.ID || !approx(saved.FinalPrice, 750) {
		t.Errorf("saved record = %+v", saved)
	}
	if !strings.HasPrefix(saved.Conversation, "Round 1 - Buyer: Hello!") {
		t.Errorf("Conversation = %q", saved.Conversation)
	}
}

func TestStartNegotiation_HardStopAtRoundCap(t *testing.T) {
	repo := newMockNegotiationRepository()
	svc := newTestService(newFailingGenerator(), repo)

	got, err := svc.StartNegotiation(context.Background(), primary.StartNegotiationRequest{
		Item: "lamp", BuyerMax: 1000, SellerMin: 995,
	})
	if err != nil {
		t.Fatalf("StartNegotiation error: %v", err)
	}

	if got.Status != "failed" || got.Reason != negotiation.ReasonMaxRounds {
		t.Fatalf("Status = %q, Reason = %q, want failed / %q", got.Status, got.Reason, negotiation.ReasonMaxRounds)
	}
	if got.FinalPrice != nil {
		t.Errorf("FinalPrice = %v, want nil", *got.FinalPrice)
	}
	if len(got.Rounds) != 12 {
		t.Fatalf("rounds = %d, want exactly 12", len(got.Rounds))
	}

	wantAgents := []string{"buyer", "seller", "buyer", "mediator", "seller", "buyer", "seller", "buyer", "seller", "buyer", "seller", "buyer"}
	wantPrices := []float64{750, 1069.625, 900, 984.8125, 1014.9, 950, 995, 980, 995, 980, 995, 980}
	for i, r := range got.Rounds {
		if r.Round != i+1 {
			t.Errorf("rounds[%d].Round = %d, want %d", i, r.Round, i+1)
		}
		if r.Agent != wantAgents[i] {
			t.Errorf("round %d agent = %q, want %q", i+1, r.Agent, wantAgents[i])
		}
		if p := priceOf(t, r); !approx(p, wantPrices[i]) {
			t.Errorf("round %d price = %v, want %v", i+1, p, wantPrices[i])
		}
	}

	if len(repo.saved) != 0 {
		t.Errorf("failed negotiation was persisted")
	}
}

func TestStartNegotiation_AlternationSkipsMediator(t *testing.T) {
	svc := newTestService(newFailingGenerator(), newMockNegotiationRepository())

	got, err := svc.StartNegotiation(context.Background(), primary.StartNegotiationRequest{
		Item: "lamp", BuyerMax: 1000, SellerMin: 995,
	})
	if err != nil {
		t.Fatalf("StartNegotiation error: %v", err)
	}

	last := ""
	for _, r := range got.Rounds {
		if r.Agent == "mediator" {
			continue
		}
		if r.Agent == last {
			t.Fatalf("round %d: %s spoke twice in a row", r.Round, r.Agent)
		}
		last = r.Agent
	}
	if got.Rounds[3].Agent != "mediator" || got.Rounds[4].Agent != "seller" {
		t.Errorf("expected mediator at round 4 followed by seller, got %s then %s", got.Rounds[3].Agent, got.Rounds[4].Agent)
	}
}

func TestStartNegotiation_GeneratedPriceIsIgnored(t *testing.T) {
	gen := newCannedGenerator(`Here: {"message": "Let us keep talking.", "price": 1}`)
	repo := newMockNegotiationRepository()
	svc := newTestService(gen, repo)

	got, err := svc.StartNegotiation(context.Background(), primary.StartNegotiationRequest{
		Item: "road bike", BuyerMax: 1000, SellerMin: 600,
	})
	if err != nil {
		t.Fatalf("StartNegotiation error: %v", err)
	}

	for _, r := range got.Rounds {
		if r.Message != "Let us keep talking." {
			t.Errorf("round %d message = %q", r.Round, r.Message)
		}
		if p := priceOf(t, r); !approx(p, 750) {
			t.Errorf("round %d price = %v, want strategy price 750", r.Round, p)
		}
	}
	// No keyword in generated text, so agreement comes from convergence at round 6.
	if got.Status != "agreed" || len(got.Rounds) != 6 || !approx(*got.FinalPrice, 750) {
		t.Errorf("got status %q after %d rounds", got.Status, len(got.Rounds))
	}
	if !strings.Contains(got.Summary, "Let us keep talking.") {
		t.Errorf("Summary = %q, want generated text", got.Summary)
	}
}

func TestStartNegotiation_Precondition(t *testing.T) {
	gen := newFailingGenerator()
	repo := newMockNegotiationRepository()
	svc := newTestService(gen, repo)

	_, err := svc.StartNegotiation(context.Background(), primary.StartNegotiationRequest{
		Item: "bike", BuyerMax: 400, SellerMin: 500,
	})
	if !errors.Is(err, primary.ErrPrecondition) {
		t.Fatalf("err = %v, want ErrPrecondition", err)
	}
	if !strings.Contains(err.Error(), "Seller minimum ($500.00) exceeds buyer maximum ($400.00)") {
		t.Errorf("err = %q", err.Error())
	}
	if gen.callCount() != 0 || len(repo.saved) != 0 {
		t.Error("rejected negotiation should not touch collaborators")
	}
}

func TestStartNegotiation_PersistenceFailureDoesNotAbort(t *testing.T) {
	repo := newMockNegotiationRepository()
	repo.saveErr = errors.New("disk full")
	svc := newTestService(newFailingGenerator(), repo)

	got, err := svc.StartNegotiation(context.Background(), primary.StartNegotiationRequest{
		Item: "bike", BuyerMax: 1000, SellerMin: 600,
	})
	if err != nil {
		t.Fatalf("StartNegotiation error: %v", err)
	}
	if got.Status != "agreed" {
		t.Errorf("Status = %q, want agreed", got.Status)
	}
}

func TestStartNegotiation_GenerationTimeoutFallsBack(t *testing.T) {
	gen := &mockTextGenerator{respond: func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	logger := logging.NopLogger()
	svc := newTestService(gen, newMockNegotiationRepository())
	svc.composer = NewOfferComposer(gen, 5*time.Millisecond, logger)

	got, err := svc.StartNegotiation(context.Background(), primary.StartNegotiationRequest{
		Item: "bike", BuyerMax: 1000, SellerMin: 600,
	})
	if err != nil {
		t.Fatalf("StartNegotiation error: %v", err)
	}
	if got.Status != "agreed" {
		t.Errorf("Status = %q, want agreed", got.Status)
	}
	if !strings.HasPrefix(got.Rounds[1].Message, "I accept your offer of $750.00") {
		t.Errorf("seller message = %q, want fallback", got.Rounds[1].Message)
	}
}

// TestStartNegotiation_PriceBounds runs real seeded negotiations across many
// price ranges and checks the transcript invariants.
func TestStartNegotiation_PriceBounds(t *testing.T) {
	logger := logging.NopLogger()
	for seed := int64(1); seed <= 60; seed++ {
		repo := newMockNegotiationRepository()
		gen := newFailingGenerator()
		svc := NewNegotiationService(repo, NewOfferComposer(gen, 0, logger), NewEffectExecutor(repo, logger), logger,
			NegotiationServiceConfig{Rules: negotiation.DefaultRules()})

		floor := float64(100 + seed*37%900)
		ceiling := floor + float64(seed*53%700)
		s := seed
		got, err := svc.StartNegotiation(context.Background(), primary.StartNegotiationRequest{
			Item: "widget", BuyerMax: ceiling, SellerMin: floor, Seed: &s,
		})
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}

		if len(got.Rounds) > 12 {
			t.Fatalf("seed %d: %d rounds exceeds cap", seed, len(got.Rounds))
		}
		for i, r := range got.Rounds {
			if r.Round != i+1 {
				t.Fatalf("seed %d: round numbering broken at %d", seed, i)
			}
			p := priceOf(t, r)
			switch r.Agent {
			case "buyer":
				if p > ceiling {
					t.Fatalf("seed %d: buyer price %v above ceiling %v", seed, p, ceiling)
				}
			case "seller":
				if p < floor {
					t.Fatalf("seed %d: seller price %v below floor %v", seed, p, floor)
				}
			}
		}
		if opening := priceOf(t, got.Rounds[0]); opening < 0.70*ceiling-1e-9 || opening > 0.80*ceiling+1e-9 {
			t.Fatalf("seed %d: opening %v outside [0.7C, 0.8C]", seed, opening)
		}
		switch got.Status {
		case "agreed":
			if *got.FinalPrice < floor || *got.FinalPrice > ceiling {
				t.Fatalf("seed %d: final price %v outside [%v, %v]", seed, *got.FinalPrice, floor, ceiling)
			}
		case "failed":
			if len(got.Rounds) != 12 {
				t.Fatalf("seed %d: failed after %d rounds", seed, len(got.Rounds))
			}
		default:
			t.Fatalf("seed %d: non-terminal status %q", seed, got.Status)
		}
	}
}

func TestContinueNegotiation_TerminalIsNoOp(t *testing.T) {
	for _, status := range []string{"agreed", "failed"} {
		t.Run(status, func(t *testing.T) {
			gen := newFailingGenerator()
			repo := newMockNegotiationRepository()
			svc := newTestService(gen, repo)

			price := 750.0
			in := &primary.Negotiation{
				ID: "NEG-01ARZ3NDEKTSV4RRFFQ69G5FAV", Item: "bike", BuyerMax: 1000, SellerMin: 600,
				Status: status,
				Rounds: []primary.Offer{{Round: 1, Agent: "buyer", Message: "hi", Price: &price}},
			}

			got, err := svc.ContinueNegotiation(context.Background(), in)
			if err != nil {
				t.Fatalf("ContinueNegotiation error: %v", err)
			}
			if len(got.Rounds) != 1 || got.Status != status {
				t.Errorf("terminal negotiation changed: %d rounds, status %q", len(got.Rounds), got.Status)
			}
			if gen.callCount() != 0 || len(repo.saved) != 0 {
				t.Error("no-op continue touched collaborators")
			}
		})
	}
}

func TestContinueNegotiation_ResumesWithMediator(t *testing.T) {
	svc := newTestService(newFailingGenerator(), newMockNegotiationRepository())

	p1, p2, p3 := 750.0, 1050.0, 900.0
	in := &primary.Negotiation{
		Item: "lamp", BuyerMax: 1000, SellerMin: 995, Status: "ongoing",
		Rounds: []primary.Offer{
			{Round: 1, Agent: "buyer", Message: "open", Price: &p1},
			{Round: 2, Agent: "seller", Message: "counter", Price: &p2},
			{Round: 3, Agent: "buyer", Message: "counter", Price: &p3},
		},
	}

	got, err := svc.ContinueNegotiation(context.Background(), in)
	if err != nil {
		t.Fatalf("ContinueNegotiation error: %v", err)
	}
	if len(got.Rounds) != 5 {
		t.Fatalf("rounds = %d, want 5", len(got.Rounds))
	}
	med, sell := got.Rounds[3], got.Rounds[4]
	if med.Agent != "mediator" || !approx(priceOf(t, med), 975) {
		t.Errorf("round 4 = %s at %v, want mediator at 975", med.Agent, med.Price)
	}
	// Second seller turn reconstructed from the transcript.
	if sell.Agent != "seller" || !approx(priceOf(t, sell), 1014.9) {
		t.Errorf("round 5 = %s at %v, want seller at 1014.9", sell.Agent, sell.Price)
	}
	if got.Status != "ongoing" || got.NextSpeaker != "buyer" {
		t.Errorf("status %q next %q, want ongoing / buyer", got.Status, got.NextSpeaker)
	}
	if got.ID == "" {
		t.Error("continue should assign an ID")
	}
}

func TestContinueNegotiation_EmptyTranscriptOpens(t *testing.T) {
	svc := newTestService(newFailingGenerator(), newMockNegotiationRepository())

	got, err := svc.ContinueNegotiation(context.Background(), &primary.Negotiation{
		Item: "bike", BuyerMax: 1000, SellerMin: 600,
	})
	if err != nil {
		t.Fatalf("ContinueNegotiation error: %v", err)
	}
	if len(got.Rounds) != 1 || got.Rounds[0].Agent != "buyer" || !approx(priceOf(t, got.Rounds[0]), 750) {
		t.Errorf("rounds = %+v, want buyer opening at 750", got.Rounds)
	}
	if got.NextSpeaker != "seller" {
		t.Errorf("NextSpeaker = %q, want seller", got.NextSpeaker)
	}
}

func TestContinueNegotiation_ReachesAgreement(t *testing.T) {
	repo := newMockNegotiationRepository()
	svc := newTestService(newFailingGenerator(), repo)

	p := 750.0
	agents := []string{"buyer", "seller", "buyer", "seller", "buyer"}
	rounds := make([]primary.Offer, len(agents))
	for i, a := range agents {
		rounds[i] = primary.Offer{Round: i + 1, Agent: a, Message: "talking", Price: &p}
	}

	got, err := svc.ContinueNegotiation(context.Background(), &primary.Negotiation{
		Item: "bike", BuyerMax: 1000, SellerMin: 600, Status: "ongoing", NextSpeaker: "seller", Rounds: rounds,
	})
	if err != nil {
		t.Fatalf("ContinueNegotiation error: %v", err)
	}
	if got.Status != "agreed" || len(got.Rounds) != 6 {
		t.Fatalf("status %q after %d rounds, want agreed after 6", got.Status, len(got.Rounds))
	}
	if got.Summary == "" || got.Analysis == "" {
		t.Error("summary and analysis should be attached on termination")
	}
	if len(repo.saved) != 1 {
		t.Errorf("saved = %d, want 1", len(repo.saved))
	}
}

func TestContinueNegotiation_InvalidInput(t *testing.T) {
	svc := newTestService(newFailingGenerator(), newMockNegotiationRepository())
	p := 1.0

	tests := []struct {
		name string
		in   *primary.Negotiation
	}{
		{"nil negotiation", nil},
		{"floor above ceiling", &primary.Negotiation{Item: "x", BuyerMax: 1, SellerMin: 2}},
		{"unknown agent", &primary.Negotiation{Item: "x", BuyerMax: 2, SellerMin: 1, Rounds: []primary.Offer{{Agent: "auctioneer", Price: &p}}}},
		{"unknown status", &primary.Negotiation{Item: "x", BuyerMax: 2, SellerMin: 1, Status: "paused"}},
		{"mediator as next speaker", &primary.Negotiation{Item: "x", BuyerMax: 2, SellerMin: 1, NextSpeaker: "mediator"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ContinueNegotiation(context.Background(), tt.in)
			if !errors.Is(err, primary.ErrPrecondition) {
				t.Errorf("err = %v, want ErrPrecondition", err)
			}
		})
	}
}

func TestGetNegotiation(t *testing.T) {
	repo := newMockNegotiationRepository()
	svc := newTestService(newFailingGenerator(), repo)

	started, err := svc.StartNegotiation(context.Background(), primary.StartNegotiationRequest{
		Item: "bike", BuyerMax: 1000, SellerMin: 600,
	})
	if err != nil {
		t.Fatalf("StartNegotiation error: %v", err)
	}

	got, err := svc.GetNegotiation(context.Background(), started.ID)
	if err != nil {
		t.Fatalf("GetNegotiation error: %v", err)
	}
	if got.ID != started.ID || len(got.Rounds) != len(started.Rounds) || got.Status != "agreed" {
		t.Errorf("replayed negotiation differs: %+v", got)
	}
	if got.Rounds[5].Message != started.Rounds[5].Message {
		t.Errorf("round 6 message = %q, want %q", got.Rounds[5].Message, started.Rounds[5].Message)
	}

	_, err = svc.GetNegotiation(context.Background(), "NEG-missing")
	if !errors.Is(err, primary.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListHistory(t *testing.T) {
	repo := newMockNegotiationRepository()
	svc := newTestService(newFailingGenerator(), repo)

	for _, item := range []string{"first", "second"} {
		if _, err := svc.StartNegotiation(context.Background(), primary.StartNegotiationRequest{
			Item: item, BuyerMax: 1000, SellerMin: 600,
		}); err != nil {
			t.Fatalf("StartNegotiation error: %v", err)
		}
	}

	got, err := svc.ListHistory(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListHistory error: %v", err)
	}
	if repo.lastLimit != DefaultHistoryLimit {
		t.Errorf("limit = %d, want %d", repo.lastLimit, DefaultHistoryLimit)
	}
	if len(got) != 2 || got[0].Item != "second" {
		t.Errorf("history = %+v, want newest first", got)
	}

	repo.listErr = errors.New("db down")
	if _, err := svc.ListHistory(context.Background(), 5); err == nil {
		t.Error("expected error from repository")
	}
}
