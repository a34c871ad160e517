package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalPair(t *testing.T) {
	a, b := CanonicalPair("b", "a")
	assert.Equal(t, "a", a)
	assert.Equal(t, "b", b)

	a, b = CanonicalPair("a", "b")
	assert.Equal(t, "a", a)
	assert.Equal(t, "b", b)
}

func TestNewFriendshipIsOrderIndependent(t *testing.T) {
	f1 := NewFriendship("u2", "u1")
	f2 := NewFriendship("u1", "u2")
	assert.Equal(t, *f1, *f2)
	assert.Equal(t, "u1-u2", f1.PairKey())
	assert.Equal(t, "u2", f1.Other("u1"))
	assert.Equal(t, "u1", f1.Other("u2"))
}
