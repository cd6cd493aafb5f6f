package diagram

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"socialschema/internal/observability"
	"socialschema/internal/schema"

	"go.opentelemetry.io/otel/attribute"
)

// FailureMessage is logged whenever a diagram cannot be produced.
const FailureMessage = "There was a problem generating the diagram"

// Generate renders reg with r into the file at path. On success it logs
// "Success! Check the <path> file". On failure it logs FailureMessage and
// returns the cause; no partial file is left behind.
func Generate(ctx context.Context, reg *schema.Registry, r Renderer, path string) (err error) {
	span, ctx := observability.NewSpan(ctx, "diagram.Generate",
		attribute.String("diagram.path", path),
		attribute.String("diagram.format", r.Format()))
	defer func() {
		result := "success"
		if err != nil {
			result = "failure"
			observability.Logger.ErrorContext(ctx, FailureMessage,
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
		}
		observability.DiagramRenders.WithLabelValues(r.Format(), result).Inc()
		span.End(err)
	}()

	if err := writeAtomically(ctx, reg, r, path); err != nil {
		return fmt.Errorf("generate %s diagram: %w", r.Format(), err)
	}

	observability.Logger.InfoContext(ctx, fmt.Sprintf("Success! Check the %s file", path))
	return nil
}

// writeAtomically renders into a temporary sibling of path and renames it
// into place, so readers never observe a half-written diagram.
func writeAtomically(ctx context.Context, reg *schema.Registry, r Renderer, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	tmpName := tmp.Name()

	renderErr := r.Render(ctx, reg, tmp)
	closeErr := tmp.Close()
	if renderErr == nil && closeErr != nil {
		renderErr = fmt.Errorf("close output: %w", closeErr)
	}
	if renderErr != nil {
		_ = os.Remove(tmpName)
		return renderErr
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("move output into place: %w", err)
	}
	return nil
}
