// Package media serves the lesson and question videos that gate attempts.
// Keys are the video_url values stored on lessons, quizzes and questions;
// absolute URLs bypass this store entirely and stream from wherever they
// point.
package media

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var ErrBadKey = errors.New("bad media key")

// FS serves media from a local directory, the offline deployment's only
// video source.
type FS struct{ base string }

func NewFS(base string) (*FS, error) {
	if base == "" {
		base = "./media"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FS{base: base}, nil
}

// Open resolves a key inside the base directory. Keys that escape the
// base are rejected.
func (s *FS) Open(key string) (*os.File, error) {
	if key == "" {
		return nil, ErrBadKey
	}
	clean := filepath.Clean("/" + key) // force-rooted, then strip
	full := filepath.Join(s.base, clean)
	if !strings.HasPrefix(full, filepath.Clean(s.base)+string(os.PathSeparator)) {
		return nil, ErrBadKey
	}
	return os.Open(full)
}

// Handler streams one video with range support so players can scrub.
// GET /media/*
func Handler(s *FS, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "*")
		f, err := s.Open(key)
		if err != nil {
			if errors.Is(err, ErrBadKey) {
				http.Error(w, "bad key", http.StatusBadRequest)
				return
			}
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()

		fi, err := f.Stat()
		if err != nil || fi.IsDir() {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		log.Debug("serving media", zap.String("key", key), zap.Int64("bytes", fi.Size()))
		http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
	}
}
