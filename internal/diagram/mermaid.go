package diagram

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"socialschema/internal/schema"
)

// MermaidRenderer writes a Mermaid erDiagram.
type MermaidRenderer struct{}

func (MermaidRenderer) Format() string { return "mermaid" }

func (MermaidRenderer) Render(_ context.Context, reg *schema.Registry, w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "erDiagram")

	for _, e := range reg.Entities() {
		fmt.Fprintf(bw, "    %s {\n", e.Table)
		for _, f := range e.Fields {
			fmt.Fprintf(bw, "        %s %s", mermaidType(f), f.Column)
			if keys := mermaidKeys(f); keys != "" {
				fmt.Fprintf(bw, " %s", keys)
			}
			fmt.Fprintln(bw)
		}
		fmt.Fprintln(bw, "    }")
	}

	for _, e := range reg.Entities() {
		for _, rel := range e.Relations {
			if rel.Kind != schema.BelongsTo {
				continue
			}
			fmt.Fprintf(bw, "    %s ||--o{ %s : %q\n", rel.Target, e.Table, rel.ForeignKey)
		}
	}
	return bw.Flush()
}

func mermaidType(f schema.Field) string {
	if f.Size > 0 {
		return fmt.Sprintf("%s_%d", f.Type, f.Size)
	}
	return f.Type
}

func mermaidKeys(f schema.Field) string {
	var keys []string
	if f.PrimaryKey {
		keys = append(keys, "PK")
	}
	if f.ForeignKey != "" {
		keys = append(keys, "FK")
	}
	if f.Unique {
		keys = append(keys, "UK")
	}
	return strings.Join(keys, ", ")
}
