package files

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Target is a folder to search for files
type Target struct {
	Path      string
	Recursive bool
}

// Filter drops files by size. A zero bound is disabled.
type Filter struct {
	IgnoreSmaller uint64 // ignore files of this size and smaller
	IgnoreLarger  uint64 // ignore files of this size and larger
}

// Allows reports whether a file of the given size passes the filter
func (f Filter) Allows(size uint64) bool {
	if f.IgnoreSmaller > 0 && size <= f.IgnoreSmaller {
		return false
	}
	if f.IgnoreLarger > 0 && size >= f.IgnoreLarger {
		return false
	}
	return true
}

// Discoverer collects the files that will be checked for duplicates.
// A path is only ever recorded once, however many targets reach it.
type Discoverer struct {
	fs     afero.Fs
	filter Filter
	log    logrus.FieldLogger

	seen    map[string]*Record
	records []*Record
}

// NewDiscoverer creates a discoverer reading from fsys
func NewDiscoverer(fsys afero.Fs, filter Filter, log logrus.FieldLogger) *Discoverer {
	return &Discoverer{
		fs:     fsys,
		filter: filter,
		log:    log,
		seen:   make(map[string]*Record),
	}
}

// Discover is a convenience wrapper that walks all targets and returns the records found
func Discover(fsys afero.Fs, targets []Target, filter Filter, log logrus.FieldLogger) []*Record {
	d := NewDiscoverer(fsys, filter, log)
	for _, t := range targets {
		d.AddTarget(t)
	}
	return d.Records()
}

// Records returns the collected records in discovery order
func (d *Discoverer) Records() []*Record {
	return d.records
}

// AddTarget adds every regular file below the target folder. Errors are
// logged and the affected entry is skipped; the walk itself never aborts.
func (d *Discoverer) AddTarget(t Target) {
	root, err := CanonicalPath(d.fs, t.Path)
	if err != nil {
		d.log.WithError(err).WithField("path", t.Path).Warn("Error processing path")
		return
	}

	if t.Recursive {
		d.log.WithField("path", root).Debug("Processing recursive")
		_ = afero.Walk(d.fs, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				d.log.WithError(err).WithField("path", path).Warn("Error processing path")
				return nil
			}
			if info.IsDir() {
				if path != root {
					d.log.WithField("path", path).Trace("Entering dir")
				}
				return nil
			}
			d.addEntry(path, info)
			return nil
		})
		return
	}

	d.log.WithField("path", root).Debug("Processing non-recursive")
	entries, err := afero.ReadDir(d.fs, root)
	if err != nil {
		d.log.WithError(err).WithField("path", root).Warn("Error processing path")
		return
	}
	for _, info := range entries {
		if info.IsDir() {
			continue
		}
		d.addEntry(filepath.Join(root, info.Name()), info)
	}
}

// addEntry records a regular file and ignores everything else
func (d *Discoverer) addEntry(path string, info os.FileInfo) {
	if !info.Mode().IsRegular() {
		// symlinks, junctions and device files are never followed
		d.log.WithField("path", path).Debug("Ignored special file")
		return
	}
	// the walk starts at a canonical root and never follows links
	d.add(NewRecord(filepath.Clean(path), uint64(info.Size())))
}

// AddFile records a single file of known size, applying the zero-size and
// size filters. It returns true when the file was added.
func (d *Discoverer) AddFile(path string, size uint64) bool {
	canonical, err := CanonicalPath(d.fs, path)
	if err != nil {
		d.log.WithError(err).WithField("path", path).Warn("Ignored file")
		return false
	}
	return d.add(NewRecord(canonical, size))
}

// AddRecord records an already built record, for example one imported from a
// manifest. Relative paths are resolved against the working directory. When
// the path is already known without a digest and the sizes agree, the
// imported digest is adopted instead.
func (d *Discoverer) AddRecord(rec *Record) bool {
	canonical, err := CanonicalPath(d.fs, rec.Path)
	if err != nil {
		d.log.WithError(err).WithField("path", rec.Path).Warn("Ignored file")
		return false
	}
	rec.Path = canonical
	return d.add(rec)
}

// CanonicalPath returns the absolute path of p with every symlink resolved,
// so that one physical file has exactly one path. Filesystems without
// symlinks only get the path made absolute and cleaned.
func CanonicalPath(fsys afero.Fs, p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if _, ok := fsys.(*afero.OsFs); !ok {
		return abs, nil
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", p, err)
	}
	return resolved, nil
}

func (d *Discoverer) add(rec *Record) bool {
	if rec.Size == 0 {
		d.log.WithField("path", rec.Path).Trace("Ignored empty file")
		return false
	}
	if !d.filter.Allows(rec.Size) {
		d.log.WithFields(logrus.Fields{"path": rec.Path, "size": rec.Size}).Debug("Ignored file outside size filter")
		return false
	}
	if existing, ok := d.seen[rec.Path]; ok {
		if rec.HasDigest() && existing.Size == rec.Size {
			existing.SetDigest(rec.Digest())
		}
		d.log.WithField("path", rec.Path).Trace("Ignored path found more than once")
		return false
	}

	d.seen[rec.Path] = rec
	d.records = append(d.records, rec)
	d.log.WithField("path", rec.Path).Tracef("Found: %s", rec)
	return true
}

// ValidateTargets checks that every path exists and is a directory.
// All invalid paths are reported together.
func ValidateTargets(fsys afero.Fs, paths []string) error {
	var invalid []string
	for _, p := range paths {
		info, err := fsys.Stat(p)
		if err != nil || !info.IsDir() {
			invalid = append(invalid, p)
		}
	}
	if len(invalid) == 1 {
		return fmt.Errorf("invalid path: %s", invalid[0])
	}
	if len(invalid) > 1 {
		return fmt.Errorf("invalid paths: %v", invalid)
	}
	return nil
}
