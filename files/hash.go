package files

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"hash/fnv"
	"io"
	"io/fs"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
)

// BlockSize is the read buffer used when streaming a file through a hash
const BlockSize = 1024 * 1024

// Read failures are classified so callers can tell a file that disappeared
// between discovery and hashing from one they are not allowed to read.
var (
	ErrVanished   = errors.New("file vanished")
	ErrPermission = errors.New("permission denied")
	ErrUnreadable = errors.New("file unreadable")
)

// Algorithm names a content hash
type Algorithm string

const (
	MD5    Algorithm = "md5"
	SHA256 Algorithm = "sha256"
	FNV64  Algorithm = "fnv64"
	XXHash Algorithm = "xxhash"
)

// DefaultAlgorithm matches the digests found in imported manifests
const DefaultAlgorithm = MD5

// Algorithms lists every supported algorithm name, in help order
var Algorithms = []Algorithm{MD5, SHA256, FNV64, XXHash}

// ParseAlgorithm validates an algorithm name (case-insensitive). An empty
// name selects DefaultAlgorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	if a == "" {
		return DefaultAlgorithm, nil
	}
	for _, known := range Algorithms {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown hash algorithm %q", name)
}

// New returns a fresh hash.Hash for the algorithm
func (a Algorithm) New() hash.Hash {
	switch a {
	case SHA256:
		return sha256.New()
	case FNV64:
		return fnv.New64a()
	case XXHash:
		return xxhash.New()
	default:
		return md5.New()
	}
}

// HexLen is the number of hex characters in a digest of this algorithm
func (a Algorithm) HexLen() int {
	return a.New().Size() * 2
}

// Hasher computes content digests by streaming files from a filesystem
type Hasher struct {
	Fs        afero.Fs
	Algorithm Algorithm
	BlockSize int
}

// NewHasher creates a hasher for the given filesystem and algorithm
func NewHasher(fsys afero.Fs, algorithm Algorithm) *Hasher {
	return &Hasher{Fs: fsys, Algorithm: algorithm, BlockSize: BlockSize}
}

// Digest hashes the file at path. Every byte read is also written to
// progress when it is non-nil. Memory use does not depend on the file size.
func (h *Hasher) Digest(path string, progress io.Writer) (string, error) {
	f, err := h.Fs.Open(path)
	if err != nil {
		return "", classifyReadError(path, err)
	}
	defer func() { _ = f.Close() }()

	sum := h.Algorithm.New()
	var w io.Writer = sum
	if progress != nil {
		w = io.MultiWriter(sum, progress)
	}

	size := h.BlockSize
	if size <= 0 {
		size = BlockSize
	}
	if _, err := io.CopyBuffer(w, f, make([]byte, size)); err != nil {
		return "", classifyReadError(path, err)
	}

	return hex.EncodeToString(sum.Sum(nil)), nil
}

// classifyReadError wraps err with the sentinel that best describes it
func classifyReadError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrVanished, path, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermission, path, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
	}
}
