package artifact

import (
	"net/http"
	"strings"
)

// Source yields the artifact to serve for a request.
type Source interface {
	Current() *Artifact
}

type handler struct {
	source Source
}

// NewHandler serves the current artifact of source with the same rules as the
// compiled script: non-root paths redirect to the root, a matching If-None-Match
// gets 304 and gzip is sent only to clients that accept it.
func NewHandler(source Source) http.Handler {
	return &handler{source: source}
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	a := h.source.Current()
	if a == nil {
		http.Error(w, "page is not built yet", http.StatusServiceUnavailable)
		return
	}

	if r.Header.Get("If-None-Match") == a.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	header := w.Header()
	header.Set("ETag", a.ETag)
	header.Set("Cache-Control", a.CacheControl)
	header.Set("Content-Type", "text/html")
	header.Add("Vary", "Accept-Encoding")

	body := a.gzipped
	if AcceptsGzip(r.Header.Get("Accept-Encoding")) {
		header.Set("Content-Encoding", "gzip")
	} else {
		html, err := a.HTML()
		if err != nil {
			header.Del("ETag")
			http.Error(w, "corrupt page payload", http.StatusInternalServerError)
			return
		}
		body = html
	}
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}

// AcceptsGzip reports whether an Accept-Encoding header lists gzip.
func AcceptsGzip(acceptEncoding string) bool {
	for _, part := range strings.Split(acceptEncoding, ",") {
		coding, _, _ := strings.Cut(part, ";")
		if strings.EqualFold(strings.TrimSpace(coding), "gzip") {
			return true
		}
	}
	return false
}
