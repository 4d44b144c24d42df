package render

import (
	"fmt"
	"regexp"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const (
	iconHost  = "https://icongr.am/"
	iconColor = "f0ffff"

	// DefaultIconSize is the size of item icons.
	DefaultIconSize = 20
)

var iconPattern = regexp.MustCompile(`^(clarity|devicon|entypo|feather|fontawesome|jam|material|octicons|simple)/[\w-]+$`)

// IconError reports an icon identifier outside the supported icon packs.
type IconError struct {
	Name string
}

func (e *IconError) Error() string {
	return fmt.Sprintf("invalid icon name: %s, icon name should match %s", e.Name, iconPattern)
}

// ValidIcon reports whether name is a supported "pack/icon" identifier.
func ValidIcon(name string) bool {
	return iconPattern.MatchString(name)
}

// IconURL returns the icon proxy URL for a valid identifier.
func IconURL(name string, size int) string {
	return fmt.Sprintf("%s%s.svg?size=%d&color=%s", iconHost, name, size, iconColor)
}

// Icongram returns an <img> node for the named icon. Extra attribute nodes are
// appended after src and alt.
func Icongram(name string, size int, attrs ...g.Node) (g.Node, error) {
	if !ValidIcon(name) {
		return nil, &IconError{Name: name}
	}
	return h.Img(
		h.Src(IconURL(name, size)),
		h.Alt(name),
		g.Group(attrs),
	), nil
}

var externalLink = mustIcon("feather/external-link", 12, h.Class("inline"))

func mustIcon(name string, size int, attrs ...g.Node) g.Node {
	n, err := Icongram(name, size, attrs...)
	if err != nil {
		panic(err)
	}
	return n
}
