package datasets

import (
	"bytes"
	"encoding/gob"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"lukechampine.com/blake3"

	"github.com/Noofbiz/tugraphs/errkind"
	"github.com/Noofbiz/tugraphs/graphs"
)

// cacheVersion is incremented when the on-disk format changes.
const cacheVersion = 1

// CacheFileName is the processed blob inside ProcessedDir.
const CacheFileName = "data.gob.zst"

// cacheFormat is the outer record of the cache file. Payload is the gob
// encoding of the collection and Digest its blake3 sum.
type cacheFormat struct {
	Version   int
	Name      string
	CreatedAt int64
	Digest    [32]byte
	Payload   []byte
}

// SaveCache writes c to path as one zstd-compressed gob blob. It writes a
// temp file next to path and renames it into place.
func SaveCache(path, name string, c *graphs.Collection) error {
	if path == "" {
		return errkind.Configf("empty cache path")
	}
	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(c); err != nil {
		return errkind.Formatf("encode collection: %v", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errkind.IO(err, "mkdir %s", dir)
	}
	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return errkind.IO(err, "create temp cache file")
	}
	tmpName := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		_ = os.Remove(tmpName)
	}()

	enc, err := zstd.NewWriter(tmpFile)
	if err != nil {
		return errkind.IO(err, "create zstd writer")
	}
	pc := cacheFormat{
		Version:   cacheVersion,
		Name:      name,
		CreatedAt: time.Now().Unix(),
		Digest:    blake3.Sum256(payload.Bytes()),
		Payload:   payload.Bytes(),
	}
	if err := gob.NewEncoder(enc).Encode(&pc); err != nil {
		enc.Close()
		return errkind.IO(err, "encode cache to temp file")
	}
	if err := enc.Close(); err != nil {
		return errkind.IO(err, "flush zstd stream")
	}
	if err := tmpFile.Sync(); err != nil {
		return errkind.IO(err, "sync temp cache file")
	}
	if err := tmpFile.Close(); err != nil {
		return errkind.IO(err, "close temp cache file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errkind.IO(err, "rename temp cache to %s", path)
	}
	return nil
}

// LoadCache reads a blob written by SaveCache and checks its version,
// dataset name, digest and offsets.
func LoadCache(path, name string) (*graphs.Collection, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errkind.IO(err, "open cache file %s", path)
	}
	defer fh.Close()

	dec, err := zstd.NewReader(fh)
	if err != nil {
		return nil, errkind.IO(err, "create zstd reader for %s", path)
	}
	defer dec.Close()

	var pc cacheFormat
	if err := gob.NewDecoder(dec).Decode(&pc); err != nil {
		return nil, errkind.Formatf("decode cache %s: %v", path, err)
	}
	if pc.Version != cacheVersion {
		return nil, errkind.Formatf("cache version mismatch: cache=%d expected=%d", pc.Version, cacheVersion)
	}
	if pc.Name != name {
		return nil, errkind.Formatf("cache holds dataset %q, expected %q", pc.Name, name)
	}
	if blake3.Sum256(pc.Payload) != pc.Digest {
		return nil, errkind.Formatf("cache %s digest mismatch", path)
	}

	var c graphs.Collection
	if err := gob.NewDecoder(bytes.NewReader(pc.Payload)).Decode(&c); err != nil {
		return nil, errkind.Formatf("decode collection in %s: %v", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
