package files

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// manifestLineRegex matches "<size> <md5> <path>" as written by md5deep -z
var manifestLineRegex = regexp.MustCompile(`^\s*([0-9]+)\s+([0-9a-fA-F]{32})\s+(.*\S)\s*$`)

// ReadManifest imports a digest manifest from fsys
func ReadManifest(fsys afero.Fs, path string, log logrus.FieldLogger) ([]*Record, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't open manifest: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseManifest(f, path, log)
}

// ParseManifest reads one record per line. Blank lines are ignored and
// malformed lines are skipped with a warning; only read errors are returned.
func ParseManifest(r io.Reader, name string, log logrus.FieldLogger) ([]*Record, error) {
	var records []*Record

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		m := manifestLineRegex.FindStringSubmatch(line)
		if m == nil {
			log.WithFields(logrus.Fields{"manifest": name, "line": lineNo}).Warnf("Malformed line in manifest: %s", line)
			continue
		}
		size, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			log.WithFields(logrus.Fields{"manifest": name, "line": lineNo}).Warnf("Invalid size in manifest: %s", m[1])
			continue
		}

		records = append(records, NewRecordWithDigest(m[3], size, strings.ToLower(m[2])))
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("failed to read manifest %s: %w", name, err)
	}

	return records, nil
}

// WriteManifest writes records sorted by path in the format ParseManifest reads.
// Records without a digest are skipped.
func WriteManifest(w io.Writer, records []*Record) error {
	sorted := slices.Clone(records)
	slices.SortFunc(sorted, func(a, b *Record) int { return strings.Compare(a.Path, b.Path) })

	bw := bufio.NewWriter(w)
	for _, rec := range sorted {
		if !rec.HasDigest() {
			continue
		}
		if _, err := fmt.Fprintf(bw, "%d  %s  %s\n", rec.Size, rec.Digest(), rec.Path); err != nil {
			return err
		}
	}
	return bw.Flush()
}
