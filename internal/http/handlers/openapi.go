package handlers

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/render"
)

//go:embed openapi.json
var openAPISpec []byte

const docsPage = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <title>GarmentGrid API</title>
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <style>body { margin: 0; } redoc { display: block; height: 100vh; }</style>
  </head>
  <body>
    <redoc spec-url="/v1/openapi.json" hide-download-button></redoc>
    <script src="https://cdn.jsdelivr.net/npm/redoc@2.2.0/bundles/redoc.standalone.js"></script>
  </body>
</html>`

func (a *App) OpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPISpec)
}

// OpenAPIDocs serves a ReDoc page for the embedded document.
func (a *App) OpenAPIDocs(w http.ResponseWriter, r *http.Request) {
	render.HTML(w, r, docsPage)
}
