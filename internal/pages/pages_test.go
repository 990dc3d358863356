package pages

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestDirProviderPages(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "doc1", "page_002.jpg"), []byte("second"))
	writeFile(t, filepath.Join(root, "doc1", "page_001.png"), []byte("first"))
	writeFile(t, filepath.Join(root, "doc1", "notes.txt"), []byte("ignored"))

	p := &DirProvider{Root: root}
	images, err := p.Pages("doc1")
	require.NoError(t, err)
	require.Len(t, images, 2)

	assert.Equal(t, "image/png", images[0].MediaType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("first")), images[0].Data)
	assert.Equal(t, "image/jpeg", images[1].MediaType)
}

func TestDirProviderMissingDocument(t *testing.T) {
	p := &DirProvider{Root: t.TempDir()}
	_, err := p.Pages("nope")
	require.Error(t, err)
}

func TestSlice(t *testing.T) {
	images := []Image{{Data: "a"}, {Data: "b"}, {Data: "c"}, {Data: "d"}}

	assert.Len(t, Slice(images, 1, 4), 4)
	assert.Equal(t, "b", Slice(images, 2, 3)[0].Data)
	assert.Len(t, Slice(images, 3, 10), 2, "end clamps to page count")
	assert.Nil(t, Slice(images, 5, 4))
}

func TestReadManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "doc_info.csv"),
		[]byte("doc_id,nacc_id,doc_location_url\ndoc1,101,doc1.pdf\n,102,scans/doc2.pdf\n,0,\n"))
	writeFile(t, filepath.Join(dir, "nacc_detail.csv"),
		[]byte("nacc_id,submitter_id\n101,7\n102,9\n"))

	docs, err := ReadManifest(filepath.Join(dir, "doc_info.csv"))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, Document{DocID: "doc1", NaccID: 101, SubmitterID: 7}, docs[0])
	assert.Equal(t, Document{DocID: "doc2", NaccID: 102, SubmitterID: 9}, docs[1], "doc id falls back to the file name")
}

func TestReadManifestWithoutDetailFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "doc_info.csv"),
		[]byte("doc_id,nacc_id,doc_location_url\ndoc1,101,doc1.pdf\n"))

	docs, err := ReadManifest(filepath.Join(dir, "doc_info.csv"))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Zero(t, docs[0].SubmitterID)
}
