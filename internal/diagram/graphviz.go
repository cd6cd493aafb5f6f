package diagram

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"socialschema/internal/schema"

	"github.com/goccy/go-graphviz"
)

// GraphvizRenderer lays out the DOT source with Graphviz and writes an image.
type GraphvizRenderer struct {
	format graphviz.Format
}

// NewGraphvizRenderer returns a renderer producing format (PNG, SVG or JPG).
func NewGraphvizRenderer(format graphviz.Format) *GraphvizRenderer {
	return &GraphvizRenderer{format: format}
}

func (r *GraphvizRenderer) Format() string { return string(r.format) }

func (r *GraphvizRenderer) Render(ctx context.Context, reg *schema.Registry, w io.Writer) error {
	var src bytes.Buffer
	if err := (DOTRenderer{}).Render(ctx, reg, &src); err != nil {
		return err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("start graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes(src.Bytes())
	if err != nil {
		return fmt.Errorf("parse dot source: %w", err)
	}
	defer graph.Close()

	if err := gv.Render(ctx, graph, r.format, w); err != nil {
		return fmt.Errorf("render %s: %w", r.format, err)
	}
	return nil
}
