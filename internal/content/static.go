package content

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFS embed.FS

// Static holds the browser script that drives reveal, menu, scrolling and
// the loading screen from the attributes the templates emit.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
