package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

// serveStatic delivers the single-page application shell. Real assets under
// the static directory are served as-is; unmatched script assets and API
// paths get a hard 404 instead of falling back to the shell, so missing
// files surface as errors rather than rendering the app.
func (app *App) serveStatic(c echo.Context) error {
	path := strings.TrimPrefix(c.Request().URL.Path, "/")

	if strings.HasPrefix(path, "api/") {
		return c.String(http.StatusNotFound, "API route not found")
	}

	if path != "" {
		asset := filepath.Join(app.cfg.StaticDir, filepath.Clean(path))
		if info, err := os.Stat(asset); err == nil && !info.IsDir() {
			return c.File(asset)
		}
	}

	if strings.HasSuffix(path, ".js") {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "File not found"})
	}

	shell := filepath.Join(app.cfg.StaticDir, "index.html")
	if _, err := os.Stat(shell); err != nil {
		return c.String(http.StatusNotFound, "File not found")
	}
	return c.File(shell)
}
