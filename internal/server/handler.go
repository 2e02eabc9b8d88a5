// Package server implements the HTTP surface of the file share: path
// resolution confined to the share root, directory listings, and file
// downloads.
package server

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

// Options configures a Handler.
type Options struct {
	// ShowHidden lists dot-prefixed entries in directory pages. Hidden
	// files are always served on direct request.
	ShowHidden bool
	Log        zerolog.Logger
}

// Handler routes GET requests under the share root to either a directory
// listing or a raw file stream. It holds no mutable state, so it is safe
// for concurrent use by the net/http server.
type Handler struct {
	paths      *pathResolver
	showHidden bool
	log        zerolog.Logger
}

// NewHandler returns the request handler for a share root. The root must
// already be absolute and canonicalized (config.Validate does this).
func NewHandler(root string, opts Options) *Handler {
	return &Handler{
		paths:      &pathResolver{root: root},
		showHidden: opts.ShowHidden,
		log:        opts.Log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// r.URL.Path is already percent-decoded.
	target, info, err := h.paths.Resolve(r.URL.Path)
	switch {
	case errors.Is(err, ErrTraversal):
		// Same generic body whether the target exists or not; no
		// filesystem detail leaves the server.
		http.Error(w, "403 forbidden", http.StatusForbidden)
		return
	case errors.Is(err, ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to resolve path")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if info.IsDir() {
		// Redirect so the listing's relative links resolve correctly.
		if !strings.HasSuffix(r.URL.Path, "/") {
			http.Redirect(w, r, r.URL.Path+"/", http.StatusMovedPermanently)
			return
		}
		if err := h.renderListing(w, target, r.URL.Path); err != nil {
			h.log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to render listing")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.serveFile(w, r, target, info.Size())
}

// serveFile streams the file at target. The handle is scoped to this
// request and released on every exit path.
func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, target string, size int64) {
	f, err := os.Open(target)
	if err != nil {
		if os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to open file")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentType(target))
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, f); err != nil {
		// Usually the client went away mid-download; nothing to send back.
		h.log.Debug().Err(err).Str("path", r.URL.Path).Msg("download aborted")
	}
}

// contentType infers a MIME type from the file extension, falling back to
// content sniffing and finally to a generic binary type.
func contentType(path string) string {
	if ctype := mime.TypeByExtension(filepath.Ext(path)); ctype != "" {
		return ctype
	}
	if m, err := mimetype.DetectFile(path); err == nil {
		return m.String()
	}
	return "application/octet-stream"
}

// AccessLog wraps next with a zerolog request log line per response.
func AccessLog(next http.Handler, log zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info().
			Str("remote", r.RemoteAddr).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Int64("bytes", rec.bytes).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	n, err := r.ResponseWriter.Write(p)
	r.bytes += int64(n)
	return n, err
}

// Flush keeps streaming responses flushable through the recorder.
func (r *statusRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
