package cmd

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/lepinkainen/duplex/files"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashRecords(t *testing.T) {
	fsys := afero.NewMemMapFs()
	log, hook := test.NewNullLogger()
	require.NoError(t, afero.WriteFile(fsys, "/a.txt", []byte("hello world"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/b.txt", []byte("hello world"), 0o644))

	records := []*files.Record{
		files.NewRecord("/a.txt", 11),
		files.NewRecord("/b.txt", 11),
		files.NewRecord("/gone.txt", 5),
	}
	var progress bytes.Buffer

	failed := hashRecords(records, files.NewHasher(fsys, files.MD5), 2, &lockedBuffer{buf: &progress}, log)

	assert.Equal(t, 1, failed)
	assert.Equal(t, helloMD5, records[0].Digest())
	assert.Equal(t, helloMD5, records[1].Digest())
	assert.False(t, records[2].HasDigest())
	assert.Equal(t, 22, progress.Len())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Ignored file", hook.LastEntry().Message)

	var manifest bytes.Buffer
	require.NoError(t, files.WriteManifest(&manifest, records))
	assert.Equal(t, "11  "+helloMD5+"  /a.txt\n11  "+helloMD5+"  /b.txt\n", manifest.String())

	parsed, err := files.ParseManifest(strings.NewReader(manifest.String()), "test", log)
	require.NoError(t, err)
	assert.Len(t, parsed, 2)
}

func TestHashRecords_ZeroWorkers(t *testing.T) {
	fsys := afero.NewMemMapFs()
	log, _ := test.NewNullLogger()
	require.NoError(t, afero.WriteFile(fsys, "/a.txt", []byte("hello world"), 0o644))
	records := []*files.Record{files.NewRecord("/a.txt", 11)}

	assert.Zero(t, hashRecords(records, files.NewHasher(fsys, files.MD5), 0, nil, log))
	assert.Equal(t, helloMD5, records[0].Digest())
}

// closeFailingFs hands out files whose Close always fails
type closeFailingFs struct {
	afero.Fs
}

type closeFailingFile struct {
	afero.File
}

func (fs closeFailingFs) Create(name string) (afero.File, error) {
	f, err := fs.Fs.Create(name)
	if err != nil {
		return nil, err
	}
	return closeFailingFile{f}, nil
}

func (f closeFailingFile) Close() error {
	_ = f.File.Close()
	return errors.New("disk full")
}

func TestSaveManifest(t *testing.T) {
	records := []*files.Record{
		files.NewRecordWithDigest("/b.txt", 11, helloMD5),
		files.NewRecordWithDigest("/a.txt", 11, helloMD5),
	}
	want := "11  " + helloMD5 + "  /a.txt\n11  " + helloMD5 + "  /b.txt\n"

	t.Run("stdout", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, saveManifest(afero.NewMemMapFs(), "", &out, records))
		assert.Equal(t, want, out.String())
	})

	t.Run("file", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		var out bytes.Buffer
		require.NoError(t, saveManifest(fsys, "/out/list.md5", &out, records))
		assert.Empty(t, out.String())

		data, err := afero.ReadFile(fsys, "/out/list.md5")
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	})

	t.Run("close error", func(t *testing.T) {
		err := saveManifest(closeFailingFs{afero.NewMemMapFs()}, "/list.md5", io.Discard, records)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to close manifest")
	})
}
