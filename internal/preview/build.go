package preview

import (
	"context"
	"fmt"

	"github.com/nfrund/denote/internal/artifact"
	"github.com/nfrund/denote/internal/profile"
	"github.com/nfrund/denote/internal/render"
	"github.com/nfrund/denote/internal/storage"
)

// Builder turns a profile description on a Store into an artifact.
type Builder struct {
	Store    storage.Store
	Renderer *render.Renderer
	Options  artifact.Options
}

// HTML loads, validates and renders the description at path.
func (b *Builder) HTML(ctx context.Context, path string) (string, error) {
	data, err := storage.ReadFile(ctx, b.Store, path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	cfg, err := profile.Load(data)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", path, err)
	}
	return b.Renderer.Render(cfg)
}

// Build renders the description at path and compiles it.
func (b *Builder) Build(ctx context.Context, path string) (*artifact.Artifact, error) {
	html, err := b.HTML(ctx, path)
	if err != nil {
		return nil, err
	}
	return artifact.Compile(html, b.Options), nil
}
