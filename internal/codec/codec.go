// Package codec compresses and base64-encodes page and config payloads.
//
// Encoded output is byte-stable for identical input: the gzip header carries no
// timestamp or file name and the compression level is fixed. Fingerprints rely on
// that.
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"
)

// Level is the gzip level used for every payload.
const Level = gzip.BestCompression

// Error reports a payload that could not be decoded.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("codec: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Compress gzips data with a zeroed header.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, Level)
	if err != nil {
		return nil, err
	}
	zw.ModTime = time.Time{}
	zw.Name = ""
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &Error{Op: "gunzip", Err: err}
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, &Error{Op: "gunzip", Err: err}
	}
	return out, nil
}

// Encode compresses text and returns it as standard base64.
func Encode(text string) string {
	compressed, err := Compress([]byte(text))
	if err != nil {
		// writes go to an in-memory buffer and the level is a valid constant
		panic(fmt.Sprintf("codec: compress: %v", err))
	}
	return base64.StdEncoding.EncodeToString(compressed)
}

// Decode is the inverse of Encode.
func Decode(encoded string) (string, error) {
	compressed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", &Error{Op: "base64", Err: err}
	}
	text, err := Decompress(compressed)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

// Fingerprint returns a content hash of an encoded payload, suitable for an ETag.
func Fingerprint(encoded string) string {
	return strconv.FormatUint(xxhash.Sum64String(encoded), 16)
}

// EncodeConfig compacts a JSON config and encodes it for storage.
func EncodeConfig(raw []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", &Error{Op: "compact", Err: err}
	}
	return Encode(buf.String()), nil
}

// DecodeConfig returns the JSON of a stored config. Records written before configs
// were compressed hold plain JSON and are returned unchanged.
func DecodeConfig(stored string) ([]byte, error) {
	if IsLegacyConfig(stored) {
		return []byte(stored), nil
	}
	text, err := Decode(stored)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// IsLegacyConfig reports whether a stored config is uncompressed JSON. Base64 never
// starts with '{', so the two forms cannot be confused.
func IsLegacyConfig(stored string) bool {
	trimmed := bytes.TrimLeft([]byte(stored), " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}
