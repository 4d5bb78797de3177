package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPath(t *testing.T) {
	s := NewSet()

	require.NoError(t, s.AddPath("/photos/a.jpg"))
	assert.True(t, s.Match("/photos/a.jpg"))
	assert.False(t, s.Match("/photos/a.jpg.bak"))
	assert.False(t, s.Match("/PHOTOS/A.JPG"), "path rules are exact")

	assert.ErrorIs(t, s.AddPath(""), ErrEmptyRule)
}

func TestAddPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		match   bool
	}{
		{"substring search", "backup", "/home/user/Backup/x.txt", true},
		{"case insensitive", "\\.JPG$", "/a/b.jpg", true},
		{"anchored pattern", "^/tmp/", "/home/tmp/x", false},
		{"no match", "copy of", "/a/b.txt", false},
		{"pattern with spaces", "copy of", "/a/Copy of b.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSet()
			require.NoError(t, s.AddPattern(tt.pattern))
			assert.Equal(t, tt.match, s.Match(tt.path))
		})
	}
}

func TestAddPattern_Errors(t *testing.T) {
	s := NewSet()

	assert.ErrorIs(t, s.AddPattern(""), ErrEmptyRule)
	assert.ErrorIs(t, s.AddPattern("(unclosed"), ErrInvalidPattern)
	assert.Equal(t, 0, s.Len(), "failed adds must not change the set")
}

func TestDuplicateRulesAreRejected(t *testing.T) {
	s := NewSet()

	require.NoError(t, s.AddPath("/a/b"))
	require.NoError(t, s.AddPattern("/a/b"), "a pattern with the same text as a path rule is a different rule")

	err := s.AddPath("/a/b")
	assert.True(t, errors.Is(err, ErrDuplicateRule))
	err = s.AddPath("/a/./b")
	assert.True(t, errors.Is(err, ErrDuplicateRule), "paths are compared after cleaning")
	err = s.AddPattern("/a/b")
	assert.True(t, errors.Is(err, ErrDuplicateRule))

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"path:  /a/b", "regex: /a/b"}, []string{s.Rules()[0].String(), s.Rules()[1].String()})
}

func TestRemove(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.AddPattern("one"))
	require.NoError(t, s.AddPattern("two"))
	require.NoError(t, s.AddPattern("three"))

	assert.ErrorIs(t, s.Remove(0), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Remove(4), ErrIndexOutOfRange)
	assert.Equal(t, 3, s.Len())

	require.NoError(t, s.Remove(2))
	require.Equal(t, 2, s.Len())
	assert.Equal(t, "one", s.Rules()[0].Text())
	assert.Equal(t, "three", s.Rules()[1].Text())
}

func TestClear(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.AddPath("/x"))
	require.NoError(t, s.AddPattern("y"))

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Match("/x"))
	assert.ErrorIs(t, s.Remove(1), ErrIndexOutOfRange)
}

func TestRulesReturnsCopy(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.AddPattern("keep"))

	rules := s.Rules()
	rules[0] = Rule{}
	assert.Equal(t, "keep", s.Rules()[0].Text())
}
