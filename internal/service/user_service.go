// Package service implements account and social-graph operations on top of repositories.
package service

import (
	"context"
	"log/slog"
	"strings"

	"socialschema/internal/models"
	"socialschema/internal/observability"
	"socialschema/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// UserService provides account operations.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates a user after checking that the username and email are free.
// The store's unique indexes still guard against a concurrent registration.
func (s *UserService) Register(ctx context.Context, user *models.User) (*models.User, error) {
	span, ctx := observability.NewSpan(ctx, "UserService.Register",
		attribute.String("user.username", user.Username))
	var err error
	defer func() { span.End(err) }()

	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if err = s.ensureFree(ctx, "username", user.Username, s.userRepo.GetByUsername); err != nil {
		return nil, err
	}
	if err = s.ensureFree(ctx, "email", user.Email, s.userRepo.GetByEmail); err != nil {
		return nil, err
	}

	if err = s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	span.AddAttributes(attribute.Int64("user.id", int64(user.ID)))
	observability.Logger.InfoContext(ctx, "User registered",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("username", user.Username),
	)
	return user, nil
}

func (s *UserService) ensureFree(ctx context.Context, column, value string, lookup func(context.Context, string) (*models.User, error)) error {
	if value == "" {
		// Left for validation to report as a missing field.
		return nil
	}
	existing, err := lookup(ctx, value)
	switch {
	case models.IsNotFound(err):
		return nil
	case err != nil:
		return err
	case existing != nil:
		return models.NewConstraintError(models.ConstraintUnique, column+" is already taken", nil)
	}
	return nil
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Profile returns a user with posts, comments, likes, follower edges and messages loaded.
func (s *UserService) Profile(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetWithRelations(ctx, id)
}

// Delete removes a user account and everything it owns.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	span, ctx := observability.NewSpan(ctx, "UserService.Delete",
		attribute.Int64("user.id", int64(id)))
	err := s.userRepo.Delete(ctx, id)
	span.End(err)

	if err != nil {
		observability.Logger.WarnContext(ctx, "User deletion failed",
			slog.Uint64("user_id", uint64(id)),
			slog.String("error", err.Error()),
		)
		return err
	}

	observability.Logger.InfoContext(ctx, "User deleted", slog.Uint64("user_id", uint64(id)))
	return nil
}
