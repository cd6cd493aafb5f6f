package repository

import (
	"context"

	"socialschema/internal/database"
	"socialschema/internal/models"

	"gorm.io/gorm"
)

const (
	postResource = "Post"
	postTable    = "post"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer metrics.TrackQuery("create", postTable)()

	if err := r.db.WithContext(ctx).Omit("User").Create(post).Error; err != nil {
		return database.TranslateError(postTable, err)
	}
	return nil
}

// GetByID loads a post with its author, comments (oldest first) and likes.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	defer metrics.TrackQuery("get_by_id", postTable)()

	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order(oldestFirst()) }).
		Preload("Likes").
		First(&post, id).Error
	if err != nil {
		return nil, lookupError(postResource, id, err)
	}
	return &post, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	defer metrics.TrackQuery("list_by_user", postTable)()

	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where(eq(colUserID, userID)).
		Order(newestFirst()).
		Limit(normalizeLimit(limit)).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	return updateColumns(ctx, r.db, postResource, postTable, colPostID, post.ID, post)
}

// Delete removes the post's comments and likes before the post itself.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(eq(colPostID, id)).Delete(&models.Like{}).Error; err != nil {
			return database.TranslateError(likeTable, err)
		}
		if err := tx.Where(eq(colPostID, id)).Delete(&models.Comment{}).Error; err != nil {
			return database.TranslateError(commentTable, err)
		}
		return deleteByID(ctx, tx, postResource, postTable, &models.Post{}, id)
	})
}
