// Package quotes bundles the quote corpus into the binary.
package quotes

import (
	"embed"
	"io/fs"
	"os"

	"github.com/xfnw/ircqrs/internal/model/quote"
)

//go:embed *.txt
var files embed.FS

// FS returns the embedded corpus.
func FS() fs.FS {
	return files
}

// Open returns a store over dir, or over the embedded corpus when dir is empty.
func Open(dir string) (*quote.FSStore, error) {
	if dir == "" {
		return quote.NewFSStore(files)
	}
	return quote.NewFSStore(os.DirFS(dir))
}
