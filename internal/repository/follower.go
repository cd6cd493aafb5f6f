package repository

import (
	"context"
	"fmt"

	"socialschema/internal/database"
	"socialschema/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	followerResource = "Follower"
	followerTable    = "follower"

	colFollowedID     = "followedID"
	colFollowerUserID = "followerUserID"
)

// FollowerRepository defines persistence operations for follower edges.
type FollowerRepository interface {
	Create(ctx context.Context, edge *models.Follower) error
	GetByID(ctx context.Context, id uint) (*models.Follower, error)
	// Exists reports whether followerUserID follows followedID.
	Exists(ctx context.Context, followerUserID, followedID uint) (bool, error)
	// ListFollowers returns the users following userID.
	ListFollowers(ctx context.Context, userID uint) ([]models.User, error)
	// ListFollowing returns the users userID follows.
	ListFollowing(ctx context.Context, userID uint) ([]models.User, error)
	Delete(ctx context.Context, followerUserID, followedID uint) error
}

type followerRepository struct {
	db *gorm.DB
}

// NewFollowerRepository returns a new FollowerRepository implementation.
func NewFollowerRepository(db *gorm.DB) FollowerRepository {
	return &followerRepository{db: db}
}

func (r *followerRepository) Create(ctx context.Context, edge *models.Follower) error {
	defer metrics.TrackQuery("create", followerTable)()

	if err := r.db.WithContext(ctx).Omit("FollowedUser", "FollowerUser").Create(edge).Error; err != nil {
		return database.TranslateError(followerTable, err)
	}
	return nil
}

func (r *followerRepository) GetByID(ctx context.Context, id uint) (*models.Follower, error) {
	defer metrics.TrackQuery("get_by_id", followerTable)()

	var edge models.Follower
	if err := r.db.WithContext(ctx).Preload("FollowedUser").Preload("FollowerUser").First(&edge, id).Error; err != nil {
		return nil, lookupError(followerResource, id, err)
	}
	return &edge, nil
}

func (r *followerRepository) Exists(ctx context.Context, followerUserID, followedID uint) (bool, error) {
	defer metrics.TrackQuery("exists", followerTable)()

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follower{}).
		Where(eq(colFollowerUserID, followerUserID)).
		Where(eq(colFollowedID, followedID)).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followerRepository) ListFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	return r.listUsers(ctx, "list_followers", colFollowedID, colFollowerUserID, userID)
}

func (r *followerRepository) ListFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	return r.listUsers(ctx, "list_following", colFollowerUserID, colFollowedID, userID)
}

// listUsers selects the users on the other end of the edges whose match column equals userID.
func (r *followerRepository) listUsers(ctx context.Context, operation, match, other string, userID uint) ([]models.User, error) {
	defer metrics.TrackQuery(operation, followerTable)()

	db := r.db.WithContext(ctx)
	var users []models.User
	err := db.
		Where("? IN (?)", clause.Column{Name: "userID"}, db.Model(&models.Follower{}).Select(other).Where(eq(match, userID))).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "username"}}).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// Delete removes the edge followerUserID -> followedID, reporting NOT_FOUND when absent.
func (r *followerRepository) Delete(ctx context.Context, followerUserID, followedID uint) error {
	defer metrics.TrackQuery("delete", followerTable)()

	result := r.db.WithContext(ctx).
		Where(eq(colFollowerUserID, followerUserID)).
		Where(eq(colFollowedID, followedID)).
		Delete(&models.Follower{})
	if result.Error != nil {
		return database.TranslateError(followerTable, result.Error)
	}
	if result.RowsAffected == 0 {
		return &models.AppError{
			Code:    models.CodeNotFound,
			Message: fmt.Sprintf("%s edge %d->%d not found", followerResource, followerUserID, followedID),
		}
	}
	return nil
}
