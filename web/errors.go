package web

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ErrorHandler replaces the body of error responses with an error page read
// from fsys, when one exists. Pages are named after the status code and looked
// up from the folder of the request outward, so a 404 at "/articles/missing"
// tries "articles/404" and then "404". Over the preview file system those
// pages are rendered from content files such as 404.md or 404.mdx.
func ErrorHandler(h http.Handler, fsys fs.FS, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseWriter{
			ResponseWriter: w,
			fsys:           fsys,
			logger:         logger,
			path:           r.URL.Path,
		}
		h.ServeHTTP(writer, r)
	})
}

// errorPage reads the page for status nearest to urlPath.
func errorPage(fsys fs.FS, urlPath string, status int) ([]byte, string, error) {
	code := strconv.Itoa(status)
	dir := path.Dir(strings.TrimPrefix(path.Clean("/"+urlPath), "/"))
	for {
		name := path.Join(dir, code)
		b, err := fs.ReadFile(fsys, name)
		if err == nil {
			return b, name, nil
		}
		if !errors.Is(err, fs.ErrNotExist) || dir == "." {
			return nil, name, err
		}
		dir = path.Dir(dir)
	}
}

type responseWriter struct {
	http.ResponseWriter
	fsys    fs.FS
	logger  *zap.Logger
	path    string
	noWrite bool
	err     error
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.noWrite {
		return len(b), w.err
	}
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteHeader(statusCode int) {
	if statusCode >= http.StatusInternalServerError {
		w.logger.Error("Server error", zap.String("path", w.path), zap.Int("status", statusCode))
	}
	if statusCode < http.StatusBadRequest {
		w.ResponseWriter.WriteHeader(statusCode)
		return
	}
	b, name, err := errorPage(w.fsys, w.path, statusCode)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			w.logger.Warn("Cannot read error page", zap.String("name", name), zap.Error(err))
		}
		w.ResponseWriter.WriteHeader(statusCode)
		return
	}
	w.logger.Debug("Serving error page", zap.String("path", w.path), zap.String("page", name))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Del("X-Content-Type-Options")
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(statusCode)
	w.noWrite = true
	_, w.err = w.ResponseWriter.Write(b)
}
