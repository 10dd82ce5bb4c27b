package datasets

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noofbiz/tugraphs/errkind"
)

func zipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, body := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func archiveServer(t *testing.T, archives map[string][]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := archives[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcherExtracts(t *testing.T) {
	srv := archiveServer(t, map[string][]byte{
		"/TOY.zip": zipArchive(t, map[string]string{
			"TOY/TOY_A.txt":               "1, 2\n2, 1\n",
			"TOY/TOY_graph_indicator.txt": "1\n1\n",
		}),
	})
	folder := t.TempDir()
	f := &HTTPFetcher{Client: srv.Client()}

	require.NoError(t, f.Fetch(context.Background(), srv.URL+"/TOY.zip", folder))

	got, err := os.ReadFile(filepath.Join(folder, "TOY", "TOY_A.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1, 2\n2, 1\n", string(got))

	matches, err := filepath.Glob(filepath.Join(folder, "archive-*.zip"))
	require.NoError(t, err)
	assert.Empty(t, matches, "downloaded archive should be removed")
}

func TestHTTPFetcherRejectsEscapingEntries(t *testing.T) {
	srv := archiveServer(t, map[string][]byte{
		"/EVIL.zip": zipArchive(t, map[string]string{"../evil.txt": "x"}),
	})
	parent := t.TempDir()
	folder := filepath.Join(parent, "EVIL")
	f := NewHTTPFetcher(nil)
	f.Client = srv.Client()

	err := f.Fetch(context.Background(), srv.URL+"/EVIL.zip", folder)
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(parent, "evil.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestHTTPFetcherBadStatus(t *testing.T) {
	srv := archiveServer(t, nil)
	f := &HTTPFetcher{Client: srv.Client()}
	err := f.Fetch(context.Background(), srv.URL+"/MISSING.zip", t.TempDir())
	assert.ErrorIs(t, err, errkind.ErrIO)
}

func TestHTTPFetcherCanceled(t *testing.T) {
	srv := archiveServer(t, map[string][]byte{"/TOY.zip": zipArchive(t, nil)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &HTTPFetcher{Client: srv.Client()}
	err := f.Fetch(ctx, srv.URL+"/TOY.zip", t.TempDir())
	assert.ErrorIs(t, err, errkind.ErrIO)
	assert.ErrorIs(t, err, context.Canceled)
}
