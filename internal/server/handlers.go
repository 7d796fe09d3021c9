// Package server handles HTTP requests and middleware for the results viewer.
package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const etagCap = 64

// contentTypes maps artifact extensions the sweep produces. Everything else
// is left to net/http detection.
var contentTypes = map[string]string{
	".html":    "text/html; charset=utf-8",
	".csv":     "text/csv; charset=utf-8",
	".geojson": "application/geo+json",
	".webp":    "image/webp",
}

// HandleArtifactsList serves the JSON list of available artifacts.
func (s *Context) HandleArtifactsList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(s.artifacts())
}

// HandleIndex serves the coverage map if one exists, or the artifact list.
func (s *Context) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if s.serveFile(w, r, filepath.Join(s.Dir, "map.html"), contentTypes[".html"]) {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<!DOCTYPE html><title>Sweep artifacts</title><ul>"))
	for _, name := range s.artifacts() {
		_, _ = w.Write([]byte(`<li><a href="/files/` + name + `">` + name + "</a></li>"))
	}
	_, _ = w.Write([]byte("</ul>"))
}

// HandleArtifact serves a single artifact file by name.
func (s *Context) HandleArtifact(w http.ResponseWriter, r *http.Request) {
	// Path: /files/{name}
	name := strings.TrimPrefix(r.URL.Path, "/files/")
	if name == "" || name != filepath.Base(name) {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(s.Dir, name)
	if !s.serveFile(w, r, path, contentTypes[strings.ToLower(filepath.Ext(name))]) {
		http.NotFound(w, r)
	}
}

// serveFile tries to serve a file from disk with ETag generation.
// It returns true if the file was found and served (or 304).
func (s *Context) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')
	etag := string(buf)

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	http.ServeFile(w, r, path)
	return true
}
