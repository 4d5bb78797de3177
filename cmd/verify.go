package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/lepinkainen/duplex/dupes"
	"github.com/lepinkainen/duplex/files"
	"github.com/lepinkainen/duplex/ui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// VerifyCmd re-hashes every file listed in one or more manifests and reports
// the files whose content no longer matches the recorded md5 digest.
type VerifyCmd struct {
	Manifests []string `arg:"" name:"manifests" help:"Manifests to verify" type:"existingfile"`
}

// Run executes the verify command. It fails when any listed file is missing,
// unreadable or changed.
func (cmd *VerifyCmd) Run(log *logrus.Logger) error {
	fsys := afero.NewOsFs()
	hasher := files.NewHasher(fsys, files.MD5)

	var verified, failed int
	for _, m := range cmd.Manifests {
		records, err := files.ReadManifest(fsys, m, log)
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", ui.InfoStyle.Render(fmt.Sprintf("Verifying %d files from %s...", len(records), m)))
		v, f := verifyRecords(records, hasher, os.Stdout)
		verified += v
		failed += f
	}

	fmt.Printf("\n%s\n", ui.InfoStyle.Render(fmt.Sprintf("Verified: %d, Failed: %d", verified, failed)))
	if failed > 0 {
		return fmt.Errorf("%d files failed verification", failed)
	}
	return nil
}

// verifyRecords compares each record's stored digest with the file content
func verifyRecords(records []*files.Record, d dupes.Digester, out io.Writer) (verified, failed int) {
	for _, rec := range records {
		actual, err := d.Digest(rec.Path, nil)
		if err != nil {
			fmt.Fprintf(out, "%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ Error calculating hash for %s: %v", rec.Path, err)))
			failed++
			continue
		}

		if actual == rec.Digest() {
			fmt.Fprintf(out, "%s\n", ui.SuccessStyle.Render(fmt.Sprintf("✅ %s", rec.Path)))
			verified++
		} else {
			fmt.Fprintf(out, "%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ %s (expected: %s, got: %s)", rec.Path, rec.Digest(), actual)))
			failed++
		}
	}
	return verified, failed
}
