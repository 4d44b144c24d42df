// Package render turns a sanitized profile configuration into a complete HTML page.
package render

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/nfrund/denote/internal/profile"
)

const (
	// DefaultSiteDomain is the hosting domain used to build og:url.
	DefaultSiteDomain = "deno.dev"

	poweredByURL  = "https://deno.com/deploy"
	poweredByName = "Deno Deploy"
)

// Renderer builds profile pages. A Renderer is safe for concurrent use; each
// call to Render draws from its own random source.
type Renderer struct {
	siteDomain string
	seeded     bool
	seed       uint64
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSeed makes the rain stylesheet, and therefore the whole page, reproducible.
func WithSeed(seed uint64) Option {
	return func(r *Renderer) {
		r.seeded = true
		r.seed = seed
	}
}

// WithSiteDomain overrides the domain used in og:url.
func WithSiteDomain(domain string) Option {
	return func(r *Renderer) {
		if domain != "" {
			r.siteDomain = domain
		}
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{siteDomain: DefaultSiteDomain}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) rng() *rand.Rand {
	if r.seeded {
		return rand.New(rand.NewPCG(r.seed, r.seed))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Render returns the full HTML document for cfg. It fails with *IconError when
// any icon identifier is not supported; nothing is written in that case.
func (r *Renderer) Render(cfg *profile.Config) (string, error) {
	var b strings.Builder
	if err := r.Write(&b, cfg); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Write renders cfg to w.
func (r *Renderer) Write(w io.Writer, cfg *profile.Config) error {
	if cfg == nil {
		return errors.New("render: nil config")
	}
	body, err := r.body(cfg)
	if err != nil {
		return err
	}
	doc := h.Doctype(h.HTML(r.head(cfg), body))
	return doc.Render(w)
}

func (r *Renderer) head(cfg *profile.Config) g.Node {
	return h.Head(
		g.Attr("prefix", "og:http://ogp.me/ns#"),
		h.Meta(h.Charset("utf-8")),
		h.Meta(h.Name("viewport"), h.Content("width=device-width,initial-scale=1.0")),
		h.Meta(property("og:url"), rawAttr{"content", fmt.Sprintf("https://%s.%s", cfg.ProjectName, r.siteDomain)}),
		h.Meta(property("og:type"), h.Content("website")),
		h.Meta(property("og:title"), rawAttr{"content", cfg.Title}),
		g.If(cfg.Description != "", h.Meta(property("og:description"), rawAttr{"content", cfg.Description})),
		h.Meta(property("og:site_name"), rawAttr{"content", cfg.Title}),
		h.Meta(property("og:image"), h.Content(cfg.MainImage)),
		h.Meta(h.Name("twitter:card"), h.Content("summary")),
		g.If(cfg.Twitter != "", h.Meta(h.Name("twitter:site"), rawAttr{"content", cfg.Twitter})),
		g.El("title", g.Raw(cfg.Title)),
		g.El("style", g.Raw(Stylesheet(r.rng(), RainCount))),
		g.If(cfg.Favicon != "", h.Link(h.Rel("icon"), h.Href(cfg.Favicon))),
	)
}

func (r *Renderer) body(cfg *profile.Config) (g.Node, error) {
	nav := make([]g.Node, 0, len(cfg.List))
	groups := make([]g.Node, 0, len(cfg.List))
	for _, group := range cfg.List {
		navIcon, err := groupIcon(group, 26)
		if err != nil {
			return nil, err
		}
		heading, err := groupIcon(group, 40)
		if err != nil {
			return nil, err
		}
		nav = append(nav, h.A(h.Href("#"+group.ID), navIcon))
		groups = append(groups, h.H2(h.ID(group.ID), heading))

		for _, item := range group.Items {
			n, err := listItem(item)
			if err != nil {
				return nil, err
			}
			groups = append(groups, n)
		}
	}

	imageClass := "main-image"
	if !cfg.Disabled(profile.DisableRoundedImage) {
		imageClass += " rounded"
	}

	return h.Body(
		g.If(!cfg.Disabled(profile.DisableRain), rain(RainCount)),
		h.Div(h.ID("main"),
			h.Img(h.Alt("main-image"), h.Class(imageClass), h.Src(cfg.MainImage)),
			h.H1(g.Raw(cfg.Name)),
			g.If(cfg.Description != "", h.Div(h.Class("description"), g.Raw(cfg.Description))),
			g.If(!cfg.Disabled(profile.DisableNav), g.Group{
				h.Div(g.Text("Click to jump...")),
				h.Div(h.Class("nav-box"), h.Div(h.Class("nav"), g.Group(nav))),
			}),
			h.Div(h.Class("list-group"), g.Group(groups)),
			h.Div(
				g.Text("Powered by "),
				h.A(h.Href(poweredByURL), g.Text(poweredByName)),
				g.Text(" "),
				externalLink,
			),
		),
	), nil
}

// groupIcon falls back to the group id when the group has no icon.
func groupIcon(group profile.Group, size int) (g.Node, error) {
	if group.Icon == "" {
		return g.Text(group.ID), nil
	}
	return Icongram(group.Icon, size)
}

func listItem(item profile.ListItem) (g.Node, error) {
	var icon g.Node
	if item.Icon != "" {
		n, err := Icongram(item.Icon, DefaultIconSize)
		if err != nil {
			return nil, err
		}
		icon = n
	}

	if item.Link == "" {
		return h.Div(h.Class("list-item"), icon, h.Div(g.Raw(item.Text))), nil
	}
	return h.A(h.Href(item.Link),
		h.Div(h.Class("list-item"), icon, h.Div(g.Raw(item.Text), g.Text(" "), externalLink)),
	), nil
}

func rain(count int) g.Node {
	drops := make(g.Group, count)
	for i := range drops {
		drops[i] = h.Div(h.Class("drop"))
	}
	return h.Div(h.Class("rain"), drops)
}

func property(name string) g.Node {
	return g.Attr("property", name)
}

// rawAttr is an attribute whose value has already been escaped.
type rawAttr struct {
	name  string
	value string
}

func (a rawAttr) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w, ` %s="%s"`, a.name, a.value)
	return err
}

func (a rawAttr) Type() g.NodeType {
	return g.AttributeType
}
