// Package access decides whether a viewer may see a piece of content.
package access

import "github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/actor"

const StatusApproved = "approved"

// Content is the part of a content item the gate looks at.
type Content struct {
	OwnerID string
	Status  string
	IsFree  bool
}

// Facts are looked up per (viewer, content); a zero value means "unknown",
// which the gate treats as false.
type Facts struct {
	IsOwner                      bool
	HasActiveSubscriptionToOwner bool
	HasPurchasedThisItem         bool
}

// Decision names the rule that decided, for metrics and debugging.
type Decision string

const (
	DeniedUnapproved Decision = "denied_unapproved"
	AllowedFree      Decision = "allowed_free"
	AllowedOwner     Decision = "allowed_owner"
	AllowedSubscribe Decision = "allowed_subscription"
	AllowedPurchase  Decision = "allowed_purchase"
	Denied           Decision = "denied"
)

func (d Decision) Allowed() bool {
	switch d {
	case AllowedFree, AllowedOwner, AllowedSubscribe, AllowedPurchase:
		return true
	}
	return false
}

func CanView(viewer actor.Actor, c Content, f Facts) bool {
	return Decide(viewer, c, f).Allowed()
}

// Decide applies the rules in order; the first match wins.
func Decide(viewer actor.Actor, c Content, f Facts) Decision {
	owner := viewer.Is(c.OwnerID)
	switch {
	case c.Status != StatusApproved && !owner:
		return DeniedUnapproved
	case c.IsFree:
		return AllowedFree
	case f.IsOwner || owner:
		return AllowedOwner
	case f.HasActiveSubscriptionToOwner:
		return AllowedSubscribe
	case f.HasPurchasedThisItem:
		return AllowedPurchase
	}
	return Denied
}
