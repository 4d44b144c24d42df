package profile

import (
	"strings"
)

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Sanitize escapes the characters that could break out of HTML text or a quoted attribute.
func Sanitize(s string) string {
	return htmlReplacer.Replace(s)
}

// NormalizeTwitter prefixes a non-empty handle with "@" when it is missing.
func NormalizeTwitter(handle string) string {
	if handle == "" || strings.HasPrefix(handle, "@") {
		return handle
	}
	return "@" + handle
}

const upperhex = "0123456789ABCDEF"

// EncodeURI percent-encodes s the way ECMAScript's encodeURI does: reserved URI
// characters and unreserved marks are kept, every other byte of the UTF-8 encoding
// becomes %XX.
func EncodeURI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if keepInURI(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return b.String()
}

func keepInURI(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte(";,/?:@&=+$-_.!~*'()#", c) >= 0
}
