package actor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("influencer")
	assert.True(t, ok)
	assert.Equal(t, RoleInfluencer, r)

	_, ok = ParseRole("system")
	assert.False(t, ok, "system role must never come from a token")

	_, ok = ParseRole("")
	assert.False(t, ok)
}

func TestIs(t *testing.T) {
	a := Actor{ID: "u1", Role: RoleSubscriber}
	assert.True(t, a.Is("u1"))
	assert.False(t, a.Is("u2"))
	assert.False(t, Actor{}.Is(""))
	assert.True(t, Actor{}.IsZero())
}
