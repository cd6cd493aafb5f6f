package repository

import (
	"context"

	"socialschema/internal/database"
	"socialschema/internal/models"

	"gorm.io/gorm"
)

const (
	likeResource = "Like"
	likeTable    = "like"
)

// LikeRepository defines persistence operations for likes.
type LikeRepository interface {
	Create(ctx context.Context, like *models.Like) error
	GetByID(ctx context.Context, id uint) (*models.Like, error)
	// Exists reports whether userID already likes postID.
	Exists(ctx context.Context, userID, postID uint) (bool, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Like, error)
	CountByPost(ctx context.Context, postID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
	DeleteByUserAndPost(ctx context.Context, userID, postID uint) error
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	defer metrics.TrackQuery("create", likeTable)()

	if err := r.db.WithContext(ctx).Omit("User", "Post").Create(like).Error; err != nil {
		return database.TranslateError(likeTable, err)
	}
	return nil
}

func (r *likeRepository) GetByID(ctx context.Context, id uint) (*models.Like, error) {
	defer metrics.TrackQuery("get_by_id", likeTable)()

	var like models.Like
	if err := r.db.WithContext(ctx).First(&like, id).Error; err != nil {
		return nil, lookupError(likeResource, id, err)
	}
	return &like, nil
}

func (r *likeRepository) Exists(ctx context.Context, userID, postID uint) (bool, error) {
	defer metrics.TrackQuery("exists", likeTable)()

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where(eq(colUserID, userID)).
		Where(eq(colPostID, postID)).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *likeRepository) ListByPost(ctx context.Context, postID uint) ([]models.Like, error) {
	defer metrics.TrackQuery("list_by_post", likeTable)()

	var likes []models.Like
	if err := r.db.WithContext(ctx).Where(eq(colPostID, postID)).Order(oldestFirst()).Find(&likes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return likes, nil
}

func (r *likeRepository) CountByPost(ctx context.Context, postID uint) (int64, error) {
	defer metrics.TrackQuery("count_by_post", likeTable)()

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where(eq(colPostID, postID)).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *likeRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, likeResource, likeTable, &models.Like{}, id)
}

// DeleteByUserAndPost removes userID's like of postID; a missing like is not an error.
func (r *likeRepository) DeleteByUserAndPost(ctx context.Context, userID, postID uint) error {
	defer metrics.TrackQuery("delete", likeTable)()

	err := r.db.WithContext(ctx).
		Where(eq(colUserID, userID)).
		Where(eq(colPostID, postID)).
		Delete(&models.Like{}).Error
	return database.TranslateError(likeTable, err)
}
