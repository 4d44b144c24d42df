// Package artifact compiles a rendered page into a self-contained edge request
// handler and serves the same protocol in-process.
package artifact

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/nfrund/denote/internal/codec"
)

// DefaultCacheControl is used when Options.CacheControl is empty.
const DefaultCacheControl = "private"

// Options controls compilation.
type Options struct {
	CacheControl string
}

// Artifact is a compiled page. It is immutable; a changed page is compiled anew.
type Artifact struct {
	Payload      string
	ETag         string
	CacheControl string

	gzipped []byte
}

// Compile compresses html and derives its ETag.
func Compile(html string, opts Options) *Artifact {
	payload := codec.Encode(html)
	cacheControl := opts.CacheControl
	if cacheControl == "" {
		cacheControl = DefaultCacheControl
	}

	gzipped, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		panic(fmt.Sprintf("artifact: payload is not base64: %v", err))
	}
	return &Artifact{
		Payload:      payload,
		ETag:         `"` + codec.Fingerprint(payload) + `"`,
		CacheControl: cacheControl,
		gzipped:      gzipped,
	}
}

// HTML decompresses the payload.
func (a *Artifact) HTML() ([]byte, error) {
	return codec.Decompress(a.gzipped)
}

// Current lets a fixed Artifact act as its own Source.
func (a *Artifact) Current() *Artifact {
	return a
}

//go:embed edge_handler.js.tmpl
var edgeHandlerSource string

var edgeHandler = template.Must(template.New("edge_handler").Parse(edgeHandlerSource))

// Script returns the source of a fetch-event handler that serves the artifact.
func (a *Artifact) Script() (string, error) {
	data := map[string]string{}
	for key, value := range map[string]string{
		"Payload":      a.Payload,
		"ETag":         a.ETag,
		"CacheControl": a.CacheControl,
	} {
		literal, err := json.Marshal(value)
		if err != nil {
			return "", err
		}
		data[key] = string(literal)
	}

	var buf bytes.Buffer
	if err := edgeHandler.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render edge handler: %w", err)
	}
	return buf.String(), nil
}
