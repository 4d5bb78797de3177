// Package dupes turns a flat list of files into groups of byte-identical
// duplicates and applies marking rules to them.
//
// Files are first partitioned by size, since a file with a unique size cannot
// have a duplicate. Only the survivors are hashed, and the digest partitions
// them again into Groups. At least one member of every group always survives
// marking and deletion.
package dupes

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/lepinkainen/duplex/files"
)

// Key identifies a group of duplicates
type Key struct {
	Size   uint64
	Digest string
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%s", k.Size, k.Digest)
}

// Group is a set of files sharing size and digest. Members are kept sorted
// ascending by path.
type Group struct {
	key   Key
	files []*files.Record
}

// Key returns the group identity
func (g *Group) Key() Key { return g.key }

// Size returns the size shared by every member
func (g *Group) Size() uint64 { return g.key.Size }

// Digest returns the digest shared by every member
func (g *Group) Digest() string { return g.key.Digest }

// Len returns the number of members
func (g *Group) Len() int { return len(g.files) }

// Files returns the members in path order. The slice must not be modified.
func (g *Group) Files() []*files.Record { return g.files }

// First returns the member with the smallest path
func (g *Group) First() *files.Record { return g.files[0] }

func (g *Group) firstPath() string {
	if len(g.files) == 0 {
		return ""
	}
	return g.files[0].Path
}

func (g *Group) insert(rec *files.Record) {
	i, _ := slices.BinarySearchFunc(g.files, rec.Path, func(r *files.Record, path string) int {
		return strings.Compare(r.Path, path)
	})
	g.files = slices.Insert(g.files, i, rec)
}

// Collection owns all groups, keyed by size and digest
type Collection struct {
	groups map[Key]*Group
}

// NewCollection creates an empty collection
func NewCollection() *Collection {
	return &Collection{groups: make(map[Key]*Group)}
}

// Add places a hashed record in the group matching its size and digest
func (c *Collection) Add(rec *files.Record) error {
	if !rec.HasDigest() {
		return fmt.Errorf("record has no digest: %s", rec.Path)
	}
	key := Key{Size: rec.Size, Digest: rec.Digest()}
	g, ok := c.groups[key]
	if !ok {
		g = &Group{key: key}
		c.groups[key] = g
	}
	g.insert(rec)
	return nil
}

// Get returns the group with the given key
func (c *Collection) Get(key Key) (*Group, bool) {
	g, ok := c.groups[key]
	return g, ok
}

// Len returns the number of groups
func (c *Collection) Len() int {
	return len(c.groups)
}

// Files returns the number of files across all groups
func (c *Collection) Files() int {
	n := 0
	for _, g := range c.groups {
		n += g.Len()
	}
	return n
}

// Prune removes groups with one member or none, since they no longer hold
// duplicates. It returns the number of groups removed.
func (c *Collection) Prune() int {
	removed := 0
	for key, g := range c.groups {
		if g.Len() <= 1 {
			delete(c.groups, key)
			removed++
		}
	}
	return removed
}

// Order returns the group keys in review order: largest files first, and for
// equal sizes the group whose first path sorts last comes first.
func (c *Collection) Order() []Key {
	keys := make([]Key, 0, len(c.groups))
	for key := range c.groups {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b Key) int {
		if a.Size != b.Size {
			return cmp.Compare(b.Size, a.Size)
		}
		if byPath := strings.Compare(c.groups[b].firstPath(), c.groups[a].firstPath()); byPath != 0 {
			return byPath
		}
		return strings.Compare(a.Digest, b.Digest)
	})
	return keys
}

// Groups returns the groups in review order
func (c *Collection) Groups() []*Group {
	order := c.Order()
	groups := make([]*Group, len(order))
	for i, key := range order {
		groups[i] = c.groups[key]
	}
	return groups
}
