package pricing

// Seller is the seller's strategy state: a fixed floor and a turn counter.
type Seller struct {
	floor float64
	turns int
	src   Source
}

// NewSeller creates seller state. turns is the number of responses already made.
func NewSeller(floor float64, turns int, src Source) *Seller {
	return &Seller{floor: floor, turns: turns, src: src}
}

// Turns returns the number of responses made so far.
func (s *Seller) Turns() int { return s.turns }

// Floor returns the seller minimum.
func (s *Seller) Floor() float64 { return s.floor }

// Respond answers the buyer's price p.
func (s *Seller) Respond(p float64) Decision {
	s.turns++
	f := s.floor

	if p < f && s.turns >= refusalTurn {
		return s.check(Decision{Kind: KindRefuse, Price: f, Incoming: p, Turn: s.turns})
	}

	if p >= f {
		return s.check(Decision{Kind: KindAccept, Price: p, Incoming: p, Turn: s.turns})
	}

	var counter float64
	switch s.turns {
	case 1:
		counter = f * uniform(s.src, 1.05, 1.10)
	case 2:
		counter = max(f*1.02, (p+f*1.05)/2)
	default:
		counter = max(f*1.01, p*0.98)
	}
	counter = max(counter, f*1.001)

	return s.check(Decision{Kind: KindCounter, Price: counter, Incoming: p, Turn: s.turns})
}

func (s *Seller) check(d Decision) Decision {
	if !(d.Price >= s.floor) {
		rangeViolation("seller", d.Price, s.floor)
	}
	return d
}
