package pricing

// Buyer is the buyer's strategy state: a fixed ceiling and a turn counter.
type Buyer struct {
	ceiling float64
	turns   int
	src     Source
}

// NewBuyer creates buyer state. turns is the number of responses already made,
// used when resuming a negotiation.
func NewBuyer(ceiling float64, turns int, src Source) *Buyer {
	return &Buyer{ceiling: ceiling, turns: turns, src: src}
}

// Turns returns the number of responses made so far.
func (b *Buyer) Turns() int { return b.turns }

// Ceiling returns the buyer maximum.
func (b *Buyer) Ceiling() float64 { return b.ceiling }

// Open draws the opening offer in [0.70C, 0.80C]. It does not advance the turn counter.
func (b *Buyer) Open() Decision {
	price := b.ceiling * uniform(b.src, 0.70, 0.80)
	return b.check(Decision{Kind: KindOpening, Price: price, Turn: b.turns})
}

// Respond answers the seller's price p.
func (b *Buyer) Respond(p float64) Decision {
	b.turns++
	c := b.ceiling

	// Before the third turn an over-budget price falls through to the counter logic.
	if p > c && b.turns >= refusalTurn {
		return b.check(Decision{Kind: KindRefuse, Price: c * 0.95, Incoming: p, Turn: b.turns})
	}

	if p <= c && p <= c*0.95 {
		return b.check(Decision{Kind: KindAccept, Price: p, Incoming: p, Turn: b.turns})
	}

	var counter float64
	switch b.turns {
	case 1:
		counter = min(p*1.10, c*0.90)
	case 2:
		counter = min((p+c*0.90)/2, c*0.95)
	default:
		counter = min(p*1.03, c*0.98)
	}
	counter = min(counter, c*0.99)

	return b.check(Decision{Kind: KindCounter, Price: counter, Incoming: p, Turn: b.turns})
}

func (b *Buyer) check(d Decision) Decision {
	if !(d.Price <= b.ceiling) {
		rangeViolation("buyer", d.Price, b.ceiling)
	}
	return d
}
