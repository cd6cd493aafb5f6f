package repository

import (
	"context"

	"socialschema/internal/database"
	"socialschema/internal/models"

	"gorm.io/gorm"
)

const (
	commentResource = "Comment"
	commentTable    = "comment"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Comment, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer metrics.TrackQuery("create", commentTable)()

	if err := r.db.WithContext(ctx).Omit("User", "Post").Create(comment).Error; err != nil {
		return database.TranslateError(commentTable, err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	defer metrics.TrackQuery("get_by_id", commentTable)()

	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, lookupError(commentResource, id, err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	return r.listBy(ctx, "list_by_post", colPostID, postID)
}

func (r *commentRepository) ListByUser(ctx context.Context, userID uint) ([]models.Comment, error) {
	return r.listBy(ctx, "list_by_user", colUserID, userID)
}

func (r *commentRepository) listBy(ctx context.Context, operation, column string, id uint) ([]models.Comment, error) {
	defer metrics.TrackQuery(operation, commentTable)()

	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where(eq(column, id)).
		Order(oldestFirst()).
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return updateColumns(ctx, r.db, commentResource, commentTable, "commentID", comment.ID, comment)
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, commentResource, commentTable, &models.Comment{}, id)
}
