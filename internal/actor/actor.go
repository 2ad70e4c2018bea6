// Package actor carries the authenticated caller through service calls.
package actor

type Role string

const (
	RoleInfluencer Role = "influencer"
	RoleSubscriber Role = "subscriber"
	RoleAdmin      Role = "admin"
	// RoleSystem is used for transitions driven by timers, never by tokens.
	RoleSystem Role = "system"
)

type Actor struct {
	ID   string
	Role Role
}

func System() Actor {
	return Actor{ID: "system", Role: RoleSystem}
}

func (a Actor) IsZero() bool {
	return a.ID == ""
}

func (a Actor) Is(id string) bool {
	return a.ID != "" && a.ID == id
}

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleInfluencer, RoleSubscriber, RoleAdmin:
		return Role(s), true
	}
	return "", false
}
