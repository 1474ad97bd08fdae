package arena_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stellate-proxy/splitcache/internal/arena"
)

func TestInternReturnsCanonicalString(t *testing.T) {
	a := arena.New()
	first := a.Intern("hello")
	second := a.Intern("hello")
	assert.Equal(t, first, second)
}

func TestInternIsPerArena(t *testing.T) {
	a := arena.New()
	b := arena.New()
	assert.Equal(t, "x", a.Intern("x"))
	assert.Equal(t, "x", b.Intern("x"))
}

func TestAllocTracksNodeCount(t *testing.T) {
	a := arena.New()
	assert.Equal(t, 0, a.NodeCount())

	p := arena.Alloc(a, 42)
	assert.Equal(t, 1, a.NodeCount())
	assert.Equal(t, 42, *p)

	arena.Alloc(a, "another")
	assert.Equal(t, 2, a.NodeCount())
}
