package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateSetGet(t *testing.T) {
	s := NewState()

	assert.Nil(t, s.Get("missing"))
	assert.Zero(t, s.Len())

	s.Set("user", "tomsmith")
	assert.Equal(t, "tomsmith", s.Get("user"))
	assert.Equal(t, 1, s.Len())

	s.Set("user", "other")
	assert.Equal(t, "other", s.Get("user"))
	assert.Equal(t, 1, s.Len())
}

func TestStateLookup(t *testing.T) {
	s := NewStateFrom(map[string]any{"flag": false})

	v, ok := s.Lookup("flag")
	assert.True(t, ok)
	assert.Equal(t, false, v)

	_, ok = s.Lookup("missing")
	assert.False(t, ok)
}

func TestStateDelete(t *testing.T) {
	s := NewStateFrom(map[string]any{"a": 1})

	s.Delete("a")
	s.Delete("absent") // no-op
	assert.Zero(t, s.Len())
}

func TestStateSnapshotIsolated(t *testing.T) {
	s := NewStateFrom(map[string]any{"a": 1})

	snap := s.Snapshot()
	snap["a"] = 99
	snap["b"] = 2

	assert.Equal(t, 1, s.Get("a"))
	assert.Nil(t, s.Get("b"))
}

func TestNewStateFromNil(t *testing.T) {
	s := NewStateFrom(nil)

	s.Set("k", "v")
	assert.Equal(t, "v", s.Get("k"))
}
