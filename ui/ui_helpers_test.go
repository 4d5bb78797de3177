package ui

import (
	"io"
	"testing"

	"github.com/lepinkainen/duplex/dupes"
	"github.com/lepinkainen/duplex/files"
	"github.com/lepinkainen/duplex/review"
	"github.com/lepinkainen/duplex/rules"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// scriptedReader replays lines and then reports end of input
type scriptedReader struct {
	lines   []string
	prompts []string
}

func (s *scriptedReader) Readline() (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedReader) SetPrompt(prompt string) {
	s.prompts = append(s.prompts, prompt)
}

// newSession builds two groups on an in-memory filesystem:
//
//	200 bytes: /keep/a /trash/a
//	100 bytes: /keep/b /trash/b /trash/c
func newSession(t *testing.T) (afero.Fs, *dupes.Collection, *rules.Set, *review.Navigator) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	log, _ := test.NewNullLogger()
	c := dupes.NewCollection()
	add := func(size uint64, digest string, paths ...string) {
		for _, p := range paths {
			require.NoError(t, afero.WriteFile(fsys, p, make([]byte, size), 0o644))
			require.NoError(t, c.Add(files.NewRecordWithDigest(p, size, digest)))
		}
	}
	add(200, "d200", "/keep/a", "/trash/a")
	add(100, "d100", "/keep/b", "/trash/b", "/trash/c")

	rs := rules.NewSet()
	nav := review.New(c, rs, &dupes.Deleter{Fs: fsys, Log: log})
	return fsys, c, rs, nav
}
