package dupes

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/lepinkainen/duplex/files"
	"github.com/stretchr/testify/require"
)

// fakeDigester returns canned digests and records which paths were hashed
type fakeDigester struct {
	mu      sync.Mutex
	digests map[string]string
	calls   []string
}

func (f *fakeDigester) Digest(path string, progress io.Writer) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, path)
	f.mu.Unlock()

	d, ok := f.digests[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", files.ErrVanished, path)
	}
	if progress != nil {
		_, _ = progress.Write([]byte(d))
	}
	return d, nil
}

// matchAll marks every file it is asked about
type matchAll struct{}

func (matchAll) Match(string) bool { return true }

// matchSubstring marks files whose path contains any of the substrings
type matchSubstring []string

func (m matchSubstring) Match(path string) bool {
	for _, s := range m {
		if strings.Contains(path, s) {
			return true
		}
	}
	return false
}

// newGroup builds a collection holding one group of hashed files
func newGroup(t *testing.T, c *Collection, size uint64, digest string, paths ...string) *Group {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, c.Add(files.NewRecordWithDigest(p, size, digest)))
	}
	g, ok := c.Get(Key{Size: size, Digest: digest})
	require.True(t, ok)
	return g
}

func groupPaths(g *Group) []string {
	out := make([]string, 0, g.Len())
	for _, r := range g.Files() {
		out = append(out, r.Path)
	}
	return out
}
