package dupes

import (
	"context"
	"io"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/lepinkainen/duplex/files"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Digester computes the content digest of a file. files.Hasher is the
// production implementation.
type Digester interface {
	Digest(path string, progress io.Writer) (string, error)
}

// HashOptions controls the hashing pass
type HashOptions struct {
	// Workers is the number of files hashed in parallel; <= 0 means NumCPU
	Workers int
	// Progress receives every byte read while hashing, when non-nil.
	// It must be safe for concurrent use.
	Progress io.Writer
	Log      logrus.FieldLogger
}

// HashFailure is a file that could not be hashed and was left out of every group
type HashFailure struct {
	Record *files.Record
	Err    error
}

// Report summarises a Find run
type Report struct {
	Files          int    // files given to the size pass
	SizeCandidates int    // files sharing their size with another file
	BytesToHash    uint64 // bytes that had to be read to compute digests
	HashFailures   []HashFailure
}

// GroupBySize partitions records by byte size and drops every size that only
// one file has. No file is read.
func GroupBySize(records []*files.Record) map[uint64][]*files.Record {
	bySize := make(map[uint64][]*files.Record)
	for _, rec := range records {
		bySize[rec.Size] = append(bySize[rec.Size], rec)
	}
	for size, recs := range bySize {
		if len(recs) <= 1 {
			delete(bySize, size)
		}
	}
	return bySize
}

// BytesToHash sums the sizes of records that still need a digest
func BytesToHash(bySize map[uint64][]*files.Record) uint64 {
	var total uint64
	for _, recs := range bySize {
		for _, rec := range recs {
			if !rec.HasDigest() {
				total += rec.Size
			}
		}
	}
	return total
}

// GroupByDigest computes the missing digests of the size candidates and
// groups them by size and digest. Files that cannot be read are reported and
// skipped. Hashing runs in parallel; grouping only starts once every worker
// has finished, so the result does not depend on completion order.
func GroupByDigest(ctx context.Context, bySize map[uint64][]*files.Record, d Digester, opts HashOptions) (*Collection, []HashFailure, error) {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	sizes := make([]uint64, 0, len(bySize))
	for size := range bySize {
		sizes = append(sizes, size)
	}
	slices.Sort(sizes)

	var (
		mu       sync.Mutex
		failures []HashFailure
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

schedule:
	for _, size := range sizes {
		for _, rec := range bySize[size] {
			if rec.HasDigest() {
				continue
			}
			if gctx.Err() != nil {
				break schedule
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				digest, err := d.Digest(rec.Path, opts.Progress)
				if err != nil {
					log.WithError(err).WithField("path", rec.Path).Warn("Ignored file")
					mu.Lock()
					failures = append(failures, HashFailure{Record: rec, Err: err})
					mu.Unlock()
					return nil
				}
				rec.SetDigest(digest)
				log.WithField("path", rec.Path).Tracef("Hashed: %s", rec)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	c := NewCollection()
	for _, size := range sizes {
		for _, rec := range bySize[size] {
			if !rec.HasDigest() {
				continue
			}
			_ = c.Add(rec)
		}
	}
	if removed := c.Prune(); removed > 0 {
		log.Debugf("Filtered out %d single item groups", removed)
	}

	slices.SortFunc(failures, func(a, b HashFailure) int {
		return strings.Compare(a.Record.Path, b.Record.Path)
	})

	return c, failures, nil
}

// Find runs the size pass and the digest pass over records
func Find(ctx context.Context, records []*files.Record, d Digester, opts HashOptions) (*Collection, Report, error) {
	report := Report{Files: len(records)}

	bySize := GroupBySize(records)
	for _, recs := range bySize {
		report.SizeCandidates += len(recs)
	}
	report.BytesToHash = BytesToHash(bySize)

	c, failures, err := GroupByDigest(ctx, bySize, d, opts)
	if err != nil {
		return nil, report, err
	}
	report.HashFailures = failures

	return c, report, nil
}
