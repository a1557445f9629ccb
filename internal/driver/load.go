package driver

import (
	"fmt"
	"io"

	"stracejson/internal/source"
)

// StdinPath names standard input on the command line.
const StdinPath = "-"

// Load reads path into fs. "-" reads stdin instead; both forms accept
// gzip and zstd captures.
func Load(fs *source.FileSet, path string, stdin io.Reader) (source.FileID, error) {
	if path == StdinPath || path == "" {
		if stdin == nil {
			return 0, fmt.Errorf("no input: stdin is not available")
		}
		return fs.LoadReader("<stdin>", stdin)
	}
	id, err := fs.Load(path)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", path, err)
	}
	return id, nil
}
