// Command erd renders the entity-relationship diagram of the social schema.
//
// The output format follows the file extension: .png, .svg and .jpg are laid
// out with Graphviz, .dot/.gv writes Graphviz source and .mmd writes Mermaid.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"socialschema/internal/bootstrap"
	"socialschema/internal/diagram"
	"socialschema/internal/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	output := flag.String("o", "", "Output file (default DIAGRAM_OUTPUT)")
	publish := flag.Bool("publish", true, "Upload the diagram when DIAGRAM_S3_BUCKET is set")
	flag.Parse()

	rt, ctx, err := bootstrap.Init(context.Background(), bootstrap.Options{Service: "erd"})
	if err != nil {
		observability.Logger.Error("Startup failed", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := rt.Close(ctx); err != nil {
			observability.Logger.WarnContext(ctx, "Shutdown incomplete", slog.String("error", err.Error()))
		}
	}()

	path := *output
	if path == "" {
		path = rt.Config.DiagramOutput
	}

	renderer, err := diagram.RendererFor(path)
	if err != nil {
		observability.Logger.ErrorContext(ctx, diagram.FailureMessage, slog.String("error", err.Error()))
		return 1
	}

	if err := diagram.Generate(ctx, rt.Registry, renderer, path); err != nil {
		return 1
	}

	if *publish && rt.Config.DiagramS3Bucket != "" {
		publisher, err := diagram.NewPublisher(rt.Config)
		if err != nil {
			observability.Logger.ErrorContext(ctx, "Diagram publishing unavailable", slog.String("error", err.Error()))
			return 1
		}
		if _, err := publisher.Publish(ctx, path); err != nil {
			observability.Logger.ErrorContext(ctx, "Diagram publishing failed", slog.String("error", err.Error()))
			return 1
		}
	}
	return 0
}
