package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/lepinkainen/duplex/dupes"
	"github.com/lepinkainen/duplex/files"
	"github.com/lepinkainen/duplex/ui"
	"github.com/lepinkainen/duplex/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// ManifestCmd hashes every file below the given folders with md5 and writes
// a manifest that review --md5list can import later.
type ManifestCmd struct {
	Folders   []string `arg:"" name:"folders" help:"Folders to hash" type:"existingdir"`
	Recursive bool     `short:"r" help:"Descend into subfolders"`
	Output    string   `short:"o" help:"Write the manifest to this file instead of stdout" type:"path"`
	Workers   int      `help:"Number of parallel workers (0 = auto)" default:"0"`
}

func (cmd *ManifestCmd) Run(globals *Globals, log *logrus.Logger) error {
	fsys := afero.NewOsFs()

	targets := make([]files.Target, len(cmd.Folders))
	for i, f := range cmd.Folders {
		targets[i] = files.Target{Path: f, Recursive: cmd.Recursive}
	}
	records := files.Discover(fsys, targets, files.Filter{}, log)

	workers, network := utils.HashWorkers(cmd.Workers, cmd.Folders)
	if network {
		log.Info("Network drive detected, using 1 worker")
	}

	var total uint64
	for _, rec := range records {
		total += rec.Size
	}
	if !globals.Quiet {
		// stdout carries the manifest
		fmt.Fprintln(os.Stderr, ui.ProcessingStyle.Render(fmt.Sprintf("Hashing %s files (%s) with %d workers",
			humanize.Comma(int64(len(records))), humanize.Bytes(total), workers)))
	}
	bar := ui.NewByteBar(os.Stderr, total, "Hashing", ui.ProgressVisible(globals.Quiet))
	failed := hashRecords(records, files.NewHasher(fsys, files.MD5), workers, bar, log)
	_ = bar.Finish()

	if err := saveManifest(fsys, cmd.Output, os.Stdout, records); err != nil {
		return err
	}

	log.Infof("Hashed %s files, %s failed",
		humanize.Comma(int64(len(records)-failed)), humanize.Comma(int64(failed)))
	return nil
}

// saveManifest writes records to path, or to stdout when path is empty.
// The file is only reported as written once it has been closed.
func saveManifest(fsys afero.Fs, path string, stdout io.Writer, records []*files.Record) (err error) {
	if path == "" {
		if err := files.WriteManifest(stdout, records); err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}
		return nil
	}

	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close manifest: %w", cerr)
		}
	}()

	if err := files.WriteManifest(f, records); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// hashRecords fills in the digest of every record using a fixed pool of
// workers and returns how many files could not be read
func hashRecords(records []*files.Record, d dupes.Digester, workers int, progress io.Writer, log logrus.FieldLogger) int {
	if workers <= 0 {
		workers = 1
	}

	jobs := make(chan *files.Record, len(records))
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)

	// Start workers
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for rec := range jobs {
				digest, err := d.Digest(rec.Path, progress)
				if err != nil {
					log.WithError(err).WithField("path", rec.Path).Warn("Ignored file")
					mu.Lock()
					failed++
					mu.Unlock()
					continue
				}
				rec.SetDigest(digest)
				log.WithField("worker", workerID+1).Tracef("Hashed: %s", rec)
			}
		}(i)
	}

	// Send jobs
	for _, rec := range records {
		jobs <- rec
	}
	close(jobs)

	wg.Wait()
	return failed
}
