// Package diagram renders the schema registry as an entity-relationship diagram.
package diagram

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"socialschema/internal/schema"

	"github.com/goccy/go-graphviz"
)

// Renderer writes a diagram of reg to w.
type Renderer interface {
	// Format names the output format, e.g. "dot" or "png".
	Format() string
	Render(ctx context.Context, reg *schema.Registry, w io.Writer) error
}

// RendererFor picks a renderer from the extension of path.
func RendererFor(path string) (Renderer, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".dot", ".gv":
		return DOTRenderer{}, nil
	case ".mmd", ".mermaid":
		return MermaidRenderer{}, nil
	case ".png":
		return NewGraphvizRenderer(graphviz.PNG), nil
	case ".svg":
		return NewGraphvizRenderer(graphviz.SVG), nil
	case ".jpg", ".jpeg":
		return NewGraphvizRenderer(graphviz.JPG), nil
	default:
		return nil, fmt.Errorf("unsupported diagram format %q", ext)
	}
}
