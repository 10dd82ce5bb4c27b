package datasets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"

	"github.com/Noofbiz/tugraphs/errkind"
)

// Archive sources of the regular and the cleaned (isomorphism-free) dataset
// variants.
const (
	DefaultURL        = "https://www.chrsmrrs.com/graphkerneldatasets"
	DefaultCleanedURL = "https://raw.githubusercontent.com/nd7141/graph_datasets/master/datasets"
)

// Fetcher downloads the archive at url and extracts it into folder.
// Re-running it over an existing folder overwrites the extracted files.
type Fetcher interface {
	Fetch(ctx context.Context, url, folder string) error
}

// HTTPFetcher fetches zip archives over HTTP.
type HTTPFetcher struct {
	Client *http.Client
	Logger *zap.Logger
}

// NewHTTPFetcher returns a fetcher using http.DefaultClient.
func NewHTTPFetcher(logger *zap.Logger) *HTTPFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPFetcher{Client: http.DefaultClient, Logger: logger}
}

// Fetch implements Fetcher.
func (h *HTTPFetcher) Fetch(ctx context.Context, url, folder string) error {
	start := time.Now()
	logger := h.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	if err := os.MkdirAll(folder, 0755); err != nil {
		return errkind.IO(err, "mkdir %s", folder)
	}
	logger.Info("downloading archive", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errkind.Configf("create request for %s: %v", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return errkind.IO(err, "download %s", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errkind.IO(fmt.Errorf("status code %d", resp.StatusCode), "download %s", url)
	}

	archive, err := os.CreateTemp(folder, "archive-*.zip")
	if err != nil {
		return errkind.IO(err, "create archive file in %s", folder)
	}
	archivePath := archive.Name()
	defer os.Remove(archivePath)

	size, err := archive.ReadFrom(resp.Body)
	if err != nil {
		archive.Close()
		return errkind.IO(err, "write archive %s", archivePath)
	}
	if err := archive.Close(); err != nil {
		return errkind.IO(err, "close archive %s", archivePath)
	}

	files, err := extractZip(archivePath, folder)
	if err != nil {
		return err
	}
	logger.Info("download complete",
		zap.String("url", url),
		zap.String("size", humanize.Bytes(uint64(size))),
		zap.Int("files", files),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// extractZip unpacks every entry of the archive under folder and returns the
// number of regular files written. Entries escaping folder are rejected.
func extractZip(archivePath, folder string) (int, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return 0, errkind.IO(err, "open archive %s", archivePath)
	}
	defer r.Close()

	root := filepath.Clean(folder) + string(os.PathSeparator)
	files := 0
	for _, f := range r.File {
		target := filepath.Join(folder, f.Name)
		if !strings.HasPrefix(target, root) {
			return files, errkind.Formatf("archive entry %q escapes %s", f.Name, folder)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return files, errkind.IO(err, "mkdir %s", target)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return files, err
		}
		files++
	}
	return files, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errkind.IO(err, "mkdir %s", filepath.Dir(target))
	}
	src, err := f.Open()
	if err != nil {
		return errkind.IO(err, "open archive entry %s", f.Name)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return errkind.IO(err, "create %s", target)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return errkind.IO(err, "extract %s", f.Name)
	}
	if err := dst.Close(); err != nil {
		return errkind.IO(err, "close %s", target)
	}
	return nil
}
