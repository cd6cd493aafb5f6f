// Command seed fills the database with a fake social graph.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"socialschema/internal/bootstrap"
	"socialschema/internal/observability"
	"socialschema/internal/seed"
	"socialschema/internal/service"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	postsPerUser := flag.Int("posts", 4, "Number of posts per user")
	shouldClean := flag.Bool("clean", false, "Delete existing rows before seeding")
	dryRun := flag.Bool("dry-run", false, "Build the data without writing it")
	randomSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 = time based)")
	flag.Parse()

	rt, ctx, err := bootstrap.Init(context.Background(), bootstrap.Options{
		Service:  "seed",
		Database: true,
		Cache:    true,
	})
	if err != nil {
		observability.Logger.Error("Startup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	code := 0
	if err := run(ctx, rt, seed.Options{
		Users:        *numUsers,
		PostsPerUser: *postsPerUser,
		Clean:        *shouldClean,
		DryRun:       *dryRun,
		RandomSeed:   *randomSeed,
	}); err != nil {
		observability.Logger.ErrorContext(ctx, "Seeding failed", slog.String("error", err.Error()))
		code = 1
	}

	if err := rt.Close(ctx); err != nil {
		observability.Logger.WarnContext(ctx, "Shutdown incomplete", slog.String("error", err.Error()))
	}
	os.Exit(code)
}

func run(ctx context.Context, rt *bootstrap.Runtime, opts seed.Options) error {
	summary, err := seed.NewSeeder(rt.DB, opts).Run(ctx)
	if err != nil {
		return err
	}
	if opts.DryRun || summary.Users == 0 {
		return nil
	}

	// Read one account back through the service layer as a smoke check.
	repos := rt.Repositories()
	list, err := repos.Users.List(ctx, 1, 0)
	if err != nil || len(list) == 0 {
		return err
	}
	profile, err := service.NewUserService(repos.Users).Profile(ctx, list[0].ID)
	if err != nil {
		return err
	}
	observability.Logger.InfoContext(ctx, "Sample profile",
		slog.String("username", profile.Username),
		slog.Int("posts", len(profile.Posts)),
		slog.Int("followers", len(profile.Followers)),
		slog.Int("following", len(profile.Following)),
	)
	return nil
}
