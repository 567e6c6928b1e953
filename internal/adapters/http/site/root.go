// Package site serves the embedded dashboard page that renders the prize API.
package site

import (
	"context"
	"net/http"
)

// Register attaches the dashboard routes to mux:
//
//	GET /          -> index.html
//	GET /assets/*  -> scripts and styles
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	files := http.FileServer(FS())
	mux.Handle("GET /{$}", files)
	mux.Handle("GET /assets/", files)
}
