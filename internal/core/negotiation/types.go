// Package negotiation contains the pure business logic for the negotiation state machine.
// This is part of the Functional Core - no I/O, only pure functions.
package negotiation

import (
	"strings"
	"time"
)

// Role identifies who produced an offer.
type Role string

const (
	RoleBuyer    Role = "buyer"
	RoleSeller   Role = "seller"
	RoleMediator Role = "mediator"
)

// Title returns the role name with an upper-case first letter ("Buyer").
func (r Role) Title() string {
	if r == "" {
		return ""
	}
	s := string(r)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Counterpart returns the other regular role. Mediators have no counterpart.
func (r Role) Counterpart() Role {
	switch r {
	case RoleBuyer:
		return RoleSeller
	case RoleSeller:
		return RoleBuyer
	default:
		return ""
	}
}

// IsRegular reports whether the role takes alternating turns.
func (r Role) IsRegular() bool {
	return r == RoleBuyer || r == RoleSeller
}

// ParseRole converts a stored role name.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(s)); r {
	case RoleBuyer, RoleSeller, RoleMediator:
		return r, true
	}
	return "", false
}

// Status represents the possible states of a negotiation.
type Status string

const (
	StatusOngoing Status = "ongoing"
	StatusAgreed  Status = "agreed"
	StatusFailed  Status = "failed"
)

// ParseStatus converts a stored status. The empty string reads as ongoing.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case "", StatusOngoing:
		return StatusOngoing, true
	case StatusAgreed, StatusFailed:
		return Status(s), true
	}
	return "", false
}

// IsTerminal reports whether no further offers may be appended.
func (s Status) IsTerminal() bool {
	return s == StatusAgreed || s == StatusFailed
}

// Offer is one appended round of the transcript.
// Price is nil for pure commentary.
type Offer struct {
	Round   int
	Role    Role
	Message string
	Price   *float64
}

// HasPrice reports whether the offer carries a price.
func (o Offer) HasPrice() bool {
	return o.Price != nil
}

// PriceValue returns the offer price, or 0 when absent.
func (o Offer) PriceValue() float64 {
	if o.Price == nil {
		return 0
	}
	return *o.Price
}

// NewOffer builds a priced offer.
func NewOffer(round int, role Role, message string, price float64) Offer {
	p := price
	return Offer{Round: round, Role: role, Message: message, Price: &p}
}

// Negotiation is the full record of one negotiation.
type Negotiation struct {
	ID            string
	Item          string
	Ceiling       float64 // buyer maximum
	Floor         float64 // seller minimum
	Offers        []Offer
	Status        Status
	FinalPrice    *float64 // set iff Status == StatusAgreed
	FailureReason string   // set iff Status == StatusFailed
	NextSpeaker   Role
	Summary       string
	Analysis      string
	CreatedAt     time.Time
}

// NextRound returns the round number the next appended offer will take.
func (n *Negotiation) NextRound() int {
	return len(n.Offers) + 1
}

// LastRound returns the round of the most recent offer, or 0 when empty.
func (n *Negotiation) LastRound() int {
	if len(n.Offers) == 0 {
		return 0
	}
	return n.Offers[len(n.Offers)-1].Round
}

// LastRegular returns the most recent buyer or seller offer.
func (n *Negotiation) LastRegular() (Offer, bool) {
	for i := len(n.Offers) - 1; i >= 0; i-- {
		if n.Offers[i].Role.IsRegular() {
			return n.Offers[i], true
		}
	}
	return Offer{}, false
}

// LastBy returns the most recent offer made by role.
func (n *Negotiation) LastBy(role Role) (Offer, bool) {
	for i := len(n.Offers) - 1; i >= 0; i-- {
		if n.Offers[i].Role == role {
			return n.Offers[i], true
		}
	}
	return Offer{}, false
}

// Append adds an offer at the next round. The offer's Round is overwritten so
// rounds stay contiguous.
func (n *Negotiation) Append(o Offer) Offer {
	o.Round = n.NextRound()
	n.Offers = append(n.Offers, o)
	return o
}
