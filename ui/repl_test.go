package ui

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestREPL_QuitWithoutDeleting(t *testing.T) {
	fsys, c, rs, nav := newSession(t)
	in := &scriptedReader{lines: []string{"trash", "quit"}}
	var out bytes.Buffer

	require.NoError(t, NewREPL(nav, in, &out).Run())

	assert.Equal(t, 1, rs.Len())
	assert.Equal(t, 2, c.Len())
	ok, _ := afero.Exists(fsys, "/trash/a")
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Commands:")
	assert.Contains(t, in.prompts[0], "1 / 2 > ")
}

func TestREPL_ShowsErrors(t *testing.T) {
	_, _, _, nav := newSession(t)
	in := &scriptedReader{lines: []string{"p", "delete"}}
	var out bytes.Buffer

	require.NoError(t, NewREPL(nav, in, &out).Run())

	assert.Contains(t, out.String(), "already at the first group")
	assert.Contains(t, out.String(), "nothing to delete yet")
}

func TestREPL_DeleteAfterConfirmation(t *testing.T) {
	fsys, _, _, nav := newSession(t)
	in := &scriptedReader{lines: []string{"/trash/", "delete", "maybe", "y"}}
	var out bytes.Buffer

	r := NewREPL(nav, in, &out)
	require.NoError(t, r.Run())

	assert.True(t, nav.Done())
	assert.Contains(t, out.String(), "Deleted 3 files")
	assert.Contains(t, out.String(), "No more duplicates found")

	for _, p := range []string{"/trash/a", "/trash/b", "/trash/c"} {
		ok, _ := afero.Exists(fsys, p)
		assert.False(t, ok, p)
	}
	for _, p := range []string{"/keep/a", "/keep/b"} {
		ok, _ := afero.Exists(fsys, p)
		assert.True(t, ok, p)
	}

	// the confirmation was asked twice because "maybe" is not an answer
	var asked int
	for _, p := range in.prompts {
		if p == "About to delete 3 files (400 bytes) Delete? (y/n) > " {
			asked++
		}
	}
	assert.Equal(t, 2, asked)
}

func TestREPL_DeclinedDelete(t *testing.T) {
	fsys, c, rs, nav := newSession(t)
	in := &scriptedReader{lines: []string{"trash", "delete", "N"}}
	var out bytes.Buffer

	require.NoError(t, NewREPL(nav, in, &out).Run())

	assert.Equal(t, 1, rs.Len())
	assert.Equal(t, 2, c.Len())
	ok, _ := afero.Exists(fsys, "/trash/b")
	assert.True(t, ok)
}

func TestREPL_QuietSkipsFinalMessage(t *testing.T) {
	_, _, _, nav := newSession(t)
	in := &scriptedReader{lines: []string{"trash", "delete", "y"}}
	var out bytes.Buffer

	r := NewREPL(nav, in, &out)
	r.Quiet = true
	require.NoError(t, r.Run())

	assert.True(t, nav.Done())
	assert.NotContains(t, out.String(), "No more duplicates found")
}

func TestConfirm_EndOfInputIsNo(t *testing.T) {
	_, _, _, nav := newSession(t)
	r := NewREPL(nav, &scriptedReader{lines: []string{"", "what"}}, &bytes.Buffer{})

	ok, err := r.Confirm("sure? ")
	require.NoError(t, err)
	assert.False(t, ok)
}
