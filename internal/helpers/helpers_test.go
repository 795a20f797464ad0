package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptional(t *testing.T) {
	assert.True(t, Empty[string]().IsEmpty())
	assert.False(t, Empty[string]().HasValue())

	v := Some("e2e4")
	assert.True(t, v.HasValue())
	assert.Equal(t, "e2e4", v.Value())
	assert.Equal(t, "e2e4", v.ValueOr("d2d4"))
	assert.Equal(t, "d2d4", Empty[string]().ValueOr("d2d4"))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"uciok", "readyok"}, "uciok"))
	assert.False(t, Contains([]string{"uciok", "readyok"}, "bestmove"))
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "a\n.  b\n.  c", Indent("a\nb\nc", ".  "))
}

func TestEllipses(t *testing.T) {
	assert.Equal(t, "info dep...", Ellipses("info depth 20", 8))
	assert.Equal(t, "go", Ellipses("go", 8))
}

func TestFilterSlice(t *testing.T) {
	assert.Equal(t, []int{2, 4}, FilterSlice([]int{1, 2, 3, 4}, func(i int) bool {
		return i%2 == 0
	}))
}
