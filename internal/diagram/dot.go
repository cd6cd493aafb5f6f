package diagram

import (
	"bufio"
	"context"
	"fmt"
	"html"
	"io"

	"socialschema/internal/schema"
)

const headerColor = "#dbe8f7"

// DOTRenderer writes Graphviz source: one table-shaped node per entity and
// one edge per foreign key, pointing from the referencing table to the
// referenced one. Cascading references are drawn bold.
type DOTRenderer struct{}

func (DOTRenderer) Format() string { return "dot" }

func (DOTRenderer) Render(_ context.Context, reg *schema.Registry, w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "digraph ER {")
	fmt.Fprintln(bw, `  graph [rankdir=LR, fontname="Helvetica", nodesep=0.6, ranksep=1.2];`)
	fmt.Fprintln(bw, `  node [shape=plaintext, fontname="Helvetica", fontsize=11];`)
	fmt.Fprintln(bw, `  edge [fontname="Helvetica", fontsize=9, dir=both, arrowtail=crow, arrowhead=tee];`)

	for _, e := range reg.Entities() {
		fmt.Fprintf(bw, "  %q [label=<%s>];\n", e.Table, tableLabel(e))
	}

	for _, e := range reg.Entities() {
		for _, rel := range e.Relations {
			if rel.Kind != schema.BelongsTo {
				continue
			}
			style := "solid"
			if rel.Cascades() {
				style = "bold"
			}
			fmt.Fprintf(bw, "  %q -> %q [label=%q, style=%s];\n", e.Table, rel.Target, rel.ForeignKey, style)
		}
	}

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func tableLabel(e schema.Entity) string {
	label := fmt.Sprintf(`<table border="0" cellborder="1" cellspacing="0" cellpadding="4">`+
		`<tr><td bgcolor="%s"><b>%s</b></td></tr>`, headerColor, html.EscapeString(e.Table))
	for _, f := range e.Fields {
		label += fmt.Sprintf(`<tr><td align="left" port=%q>%s</td></tr>`, f.Column, html.EscapeString(fieldLine(f)))
	}
	return label + "</table>"
}

func fieldLine(f schema.Field) string {
	line := f.Column + " : " + f.Type
	if f.Size > 0 {
		line += fmt.Sprintf("(%d)", f.Size)
	}
	switch {
	case f.PrimaryKey:
		line = "PK " + line
	case f.ForeignKey != "":
		line = "FK " + line
	}
	if f.Unique {
		line += " UNIQUE"
	}
	if !f.Required {
		line += " NULL"
	}
	return line
}
