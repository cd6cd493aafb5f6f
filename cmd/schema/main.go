// Command schema creates and inspects the storage layout.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"socialschema/internal/bootstrap"
	"socialschema/internal/database"
	"socialschema/internal/observability"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: schema [-format yaml|json] <apply|status|describe>")
	fmt.Fprintln(os.Stderr, "  apply     create missing tables, columns, indexes and foreign keys")
	fmt.Fprintln(os.Stderr, "  status    report which tables exist")
	fmt.Fprintln(os.Stderr, "  describe  print the schema description")
}

func main() {
	if err := run(); err != nil {
		observability.Logger.Error("schema command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	format := flag.String("format", "yaml", "Output format for describe (yaml or json)")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		return fmt.Errorf("missing command")
	}

	cmd := strings.ToLower(strings.TrimSpace(flag.Arg(0)))
	needsDB := cmd == "apply" || cmd == "status"

	rt, ctx, err := bootstrap.Init(context.Background(), bootstrap.Options{
		Service:         "schema",
		Database:        needsDB,
		SkipAutoMigrate: true,
	})
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(ctx) }()

	switch cmd {
	case "apply":
		if err := database.ApplySchema(ctx, rt.DB, rt.Registry); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		fmt.Printf("schema applied: %s\n", strings.Join(rt.Registry.Tables(), ", "))
	case "status":
		missing := 0
		for _, state := range database.TableStatus(ctx, rt.DB, rt.Registry) {
			mark := "present"
			if !state.Exists {
				mark = "missing"
				missing++
			}
			fmt.Printf("%-15s %s\n", state.Table, mark)
		}
		if missing > 0 {
			return fmt.Errorf("%d tables missing; run `schema apply`", missing)
		}
	case "describe":
		switch strings.ToLower(*format) {
		case "yaml", "yml":
			return rt.Registry.WriteYAML(os.Stdout)
		case "json":
			return rt.Registry.WriteJSON(os.Stdout)
		default:
			return fmt.Errorf("unsupported format %q", *format)
		}
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}
