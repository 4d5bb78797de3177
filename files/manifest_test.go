package files

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifest(t *testing.T) {
	input := strings.Join([]string{
		"43912  ccd6dad4b72d1255cf2e7a9dadd64083  /home/user/Desktop/test file.txt",
		"",
		"   12 5EB63BBBE01EEED093CB22BB8F5ACDC3 /tmp/a",
		"not a manifest line",
		"12 deadbeef /tmp/short-digest",
		"99999999999999999999999 5eb63bbbe01eeed093cb22bb8f5acdc3 /tmp/overflow",
	}, "\n")

	log, hook := test.NewNullLogger()
	records, err := ParseManifest(strings.NewReader(input), "list.md5", log)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "/home/user/Desktop/test file.txt", records[0].Path)
	assert.Equal(t, uint64(43912), records[0].Size)
	assert.Equal(t, "ccd6dad4b72d1255cf2e7a9dadd64083", records[0].Digest())

	assert.Equal(t, "/tmp/a", records[1].Path)
	assert.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", records[1].Digest(), "digests are lowercased")

	require.Len(t, hook.AllEntries(), 3)
	for _, entry := range hook.AllEntries() {
		assert.Equal(t, logrus.WarnLevel, entry.Level)
		assert.Equal(t, "list.md5", entry.Data["manifest"])
	}
	assert.Equal(t, 4, hook.AllEntries()[0].Data["line"])
}

func TestReadManifest_Missing(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, err := ReadManifest(afero.NewMemMapFs(), "/missing.md5", log)
	assert.Error(t, err)
}

func TestWriteManifest(t *testing.T) {
	records := []*Record{
		NewRecordWithDigest("/z/last", 3, "0123456789abcdef0123456789abcdef"),
		NewRecord("/m/undigested", 5),
		NewRecordWithDigest("/a/first file", 1024, "fedcba9876543210fedcba9876543210"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteManifest(&buf, records))

	expected := "1024  fedcba9876543210fedcba9876543210  /a/first file\n" +
		"3  0123456789abcdef0123456789abcdef  /z/last\n"
	assert.Equal(t, expected, buf.String())

	log, _ := test.NewNullLogger()
	parsed, err := ParseManifest(&buf, "written", log)
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, "/a/first file", parsed[0].Path)
}
