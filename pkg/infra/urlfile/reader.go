package urlfile

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// maxLineSize bounds a single line; bufio's 64KiB default is too small for
// long signed URLs.
const maxLineSize = 1024 * 1024

// Read returns one URL per line of the file at path, trimmed of surrounding
// whitespace. Blank lines and duplicates are kept in place.
func Read(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open input file", goerr.V("path", path))
	}
	defer f.Close()

	urls, err := Parse(f)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read input file", goerr.V("path", path))
	}

	ctxlog.From(ctx).Debug("Read URL list", "path", path, "count", len(urls))
	return urls, nil
}

// Parse splits r into trimmed lines
func Parse(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	urls := []string{}
	for scanner.Scan() {
		urls = append(urls, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to scan lines")
	}

	return urls, nil
}
