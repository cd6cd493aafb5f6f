package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"socialschema/internal/models"
	"socialschema/internal/observability"
	"socialschema/internal/schema"

	"gorm.io/gorm"
)

// Summary counts the entities a seeding run produced.
type Summary struct {
	Users     int
	Posts     int
	Comments  int
	Likes     int
	Followers int
	Messages  int
}

// Seeder populates a database with a connected social graph.
type Seeder struct {
	db   *gorm.DB
	opts Options
}

// NewSeeder returns a Seeder writing to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, opts: opts}
}

// Run optionally clears existing data, then seeds the social graph.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	if s.opts.Clean && !s.opts.DryRun {
		if err := s.ClearAll(ctx); err != nil {
			return nil, err
		}
	}
	return s.SeedSocialGraph(ctx)
}

// SeedSocialGraph creates Users users with PostsPerUser posts each, then
// comments, likes, follower edges and messages between them. Everything is
// written in one transaction.
func (s *Seeder) SeedSocialGraph(ctx context.Context) (*Summary, error) {
	start := time.Now()
	observability.Logger.InfoContext(ctx, "Starting database seeding",
		slog.Int("users", s.opts.Users),
		slog.Int("posts_per_user", s.opts.PostsPerUser),
		slog.Bool("dry_run", s.opts.DryRun),
	)

	var summary *Summary
	build := func(db *gorm.DB) error {
		var err error
		summary, err = s.build(ctx, NewFactory(db, s.opts))
		return err
	}

	var err error
	if s.opts.DryRun {
		err = build(nil)
	} else {
		err = s.db.WithContext(ctx).Transaction(build)
	}
	if err != nil {
		return nil, fmt.Errorf("seed social graph: %w", err)
	}

	observability.Logger.InfoContext(ctx, "Database seeding completed",
		slog.Int("users", summary.Users),
		slog.Int("posts", summary.Posts),
		slog.Int("comments", summary.Comments),
		slog.Int("likes", summary.Likes),
		slog.Int("followers", summary.Followers),
		slog.Int("messages", summary.Messages),
		slog.Duration("elapsed", time.Since(start)),
	)
	return summary, nil
}

func (s *Seeder) build(ctx context.Context, f *Factory) (*Summary, error) {
	summary := &Summary{}

	users := make([]*models.User, 0, s.opts.Users)
	for i := 0; i < s.opts.Users; i++ {
		u, err := f.CreateUser(ctx)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	summary.Users = len(users)

	for i, author := range users {
		for p := 0; p < s.opts.PostsPerUser; p++ {
			post, err := f.CreatePost(ctx, author)
			if err != nil {
				return nil, err
			}
			summary.Posts++

			for _, j := range f.pickOthers(f.faker.Number(0, 3), i, len(users)) {
				if _, err := f.CreateComment(ctx, users[j], post); err != nil {
					return nil, err
				}
				summary.Comments++
			}
			for _, j := range f.pickOthers(f.faker.Number(0, 4), i, len(users)) {
				if _, err := f.CreateLike(ctx, users[j], post); err != nil {
					return nil, err
				}
				summary.Likes++
			}
		}
	}

	for i, u := range users {
		for _, j := range f.pickOthers(f.faker.Number(1, 3), i, len(users)) {
			if _, err := f.CreateFollower(ctx, u, users[j]); err != nil {
				return nil, err
			}
			summary.Followers++
		}
		for _, j := range f.pickOthers(f.faker.Number(0, 2), i, len(users)) {
			if _, err := f.CreateMessage(ctx, u, users[j]); err != nil {
				return nil, err
			}
			summary.Messages++
		}
	}
	return summary, nil
}

// ClearAll deletes every row of every schema table, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	observability.Logger.InfoContext(ctx, "Clearing existing data")

	tables := schema.PersistentModels()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for i := len(tables) - 1; i >= 0; i-- {
			if err := all.Delete(tables[i]).Error; err != nil {
				return fmt.Errorf("clear %T: %w", tables[i], err)
			}
		}
		return nil
	})
}
