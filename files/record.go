package files

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Record is a single regular file considered for duplicate detection.
// Path and Size never change after construction. The digest is filled in
// lazily, either from an imported manifest or by hashing the file.
type Record struct {
	Path string
	Size uint64

	digest string
}

// NewRecord creates a record without a digest
func NewRecord(path string, size uint64) *Record {
	return &Record{Path: path, Size: size}
}

// NewRecordWithDigest creates a record with a precomputed digest
func NewRecordWithDigest(path string, size uint64, digest string) *Record {
	return &Record{Path: path, Size: size, digest: digest}
}

// Digest returns the content digest, or "" if it has not been computed
func (r *Record) Digest() string {
	return r.digest
}

// HasDigest reports whether the digest is known
func (r *Record) HasDigest() bool {
	return r.digest != ""
}

// SetDigest stores the digest. It only succeeds once; later calls and
// empty digests are rejected and leave the record unchanged.
func (r *Record) SetDigest(digest string) bool {
	if r.digest != "" || digest == "" {
		return false
	}
	r.digest = digest
	return true
}

func (r *Record) String() string {
	if r.digest == "" {
		return fmt.Sprintf("%14s %s", humanize.Comma(int64(r.Size)), r.Path)
	}
	return fmt.Sprintf("%14s %s %s", humanize.Comma(int64(r.Size)), r.digest, r.Path)
}
