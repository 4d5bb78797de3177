package dupes

import (
	"github.com/lepinkainen/duplex/files"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Counter receives one Add per processed file. *progressbar.ProgressBar implements it.
type Counter interface {
	Add(num int) error
}

// DeleteFailure is a marked file that could not be removed
type DeleteFailure struct {
	Record *files.Record
	Err    error
}

// DeleteSummary describes one deletion pass
type DeleteSummary struct {
	Deleted  []*files.Record
	Failures []DeleteFailure
	Freed    uint64
	Pruned   int
}

// Deleter removes marked files from storage and from the groups that hold them
type Deleter struct {
	Fs       afero.Fs
	DryRun   bool
	Log      logrus.FieldLogger
	Progress Counter
}

// Delete removes every marked file. Marks are recomputed here with the same
// survivor rule used for display, so a group is never emptied. A file that
// cannot be removed stays in its group. Groups left with a single member are
// pruned afterwards.
func (d *Deleter) Delete(c *Collection, m Matcher) DeleteSummary {
	log := d.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	var sum DeleteSummary
	for _, g := range c.Groups() {
		marks := Marks(g, m)
		kept := make([]*files.Record, 0, g.Len())
		for i, rec := range g.files {
			if !marks[i] {
				kept = append(kept, rec)
				continue
			}

			if err := d.remove(log, rec); err != nil {
				log.WithError(err).WithField("path", rec.Path).Error("Couldn't delete")
				sum.Failures = append(sum.Failures, DeleteFailure{Record: rec, Err: err})
				kept = append(kept, rec)
			} else {
				sum.Deleted = append(sum.Deleted, rec)
				sum.Freed += rec.Size
			}
			if d.Progress != nil {
				_ = d.Progress.Add(1)
			}
		}
		g.files = kept
	}

	sum.Pruned = c.Prune()
	return sum
}

func (d *Deleter) remove(log logrus.FieldLogger, rec *files.Record) error {
	if d.DryRun {
		log.WithField("path", rec.Path).Info("Dry-run: skipped delete")
		return nil
	}
	if err := d.Fs.Remove(rec.Path); err != nil {
		return err
	}
	log.WithField("path", rec.Path).Debug("Deleted")
	return nil
}
