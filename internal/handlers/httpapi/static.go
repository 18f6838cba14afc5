package httpapi

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
)

//go:embed static
var fallbackAssets embed.FS

// staticHandler serves dir, or the embedded fallback page when dir is unset
// or missing.
func staticHandler(dir string) http.Handler {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return http.FileServer(http.Dir(dir))
		}
	}

	sub, err := fs.Sub(fallbackAssets, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServerFS(sub)
}
