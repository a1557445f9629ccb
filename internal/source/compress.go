package source

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// decompress inflates gzip and zstd captures. The magic bytes decide;
// the extension is only consulted to report a mismatch.
func decompress(path string, raw []byte) ([]byte, bool, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case bytes.HasPrefix(raw, zstdMagic):
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, false, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(raw, nil)
		if err != nil {
			return nil, false, fmt.Errorf("zstd: %w", err)
		}
		return out, true, nil
	case bytes.HasPrefix(raw, gzipMagic):
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, false, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, false, fmt.Errorf("gzip: %w", err)
		}
		return out, true, nil
	case ext == ".zst" || ext == ".gz":
		return nil, false, fmt.Errorf("file has %s extension but is not compressed", ext)
	}
	return raw, false, nil
}
