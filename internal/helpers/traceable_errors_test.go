package helpers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilError(t *testing.T) {
	assert.True(t, IsNil(NilError))
	assert.True(t, NilError.IsNil())

	err := Errorf("engine exploded: %v", 42)
	assert.False(t, IsNil(err))
	assert.True(t, err.HasError())
	assert.Contains(t, err.Error(), "engine exploded: 42")
}

func TestWrap(t *testing.T) {
	assert.True(t, IsNil(Wrap(nil)))

	err := Wrap(errors.New("broken pipe"))
	assert.False(t, IsNil(err))
	assert.Contains(t, err.Error(), "broken pipe")
}

func TestWrapReturn(t *testing.T) {
	v, err := WrapReturn(7, nil)
	assert.Equal(t, 7, v)
	assert.True(t, IsNil(err))

	_, err = WrapReturn(0, errors.New("no such file"))
	assert.False(t, IsNil(err))
}

func TestJoin(t *testing.T) {
	assert.True(t, IsNil(Join(NilError, NilError)))

	joined := Join(NilError, Errorf("first"), Errorf("second"))
	assert.False(t, IsNil(joined))
	assert.Contains(t, joined.Error(), "first")
	assert.Contains(t, joined.Error(), "second")
}
