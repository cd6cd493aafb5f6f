package repository

import (
	"context"

	"socialschema/internal/database"
	"socialschema/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	directMessageResource = "DirectMessage"
	directMessageTable    = "directMessage"

	colSenderID   = "senderID"
	colReceiverID = "receiverID"
)

// DirectMessageRepository defines persistence operations for direct messages.
type DirectMessageRepository interface {
	Create(ctx context.Context, message *models.DirectMessage) error
	GetByID(ctx context.Context, id uint) (*models.DirectMessage, error)
	// Conversation returns the messages exchanged between two users, oldest first.
	Conversation(ctx context.Context, userA, userB uint, limit, offset int) ([]models.DirectMessage, error)
	ListSent(ctx context.Context, senderID uint) ([]models.DirectMessage, error)
	ListReceived(ctx context.Context, receiverID uint) ([]models.DirectMessage, error)
	Delete(ctx context.Context, id uint) error
}

type directMessageRepository struct {
	db *gorm.DB
}

// NewDirectMessageRepository returns a new DirectMessageRepository implementation.
func NewDirectMessageRepository(db *gorm.DB) DirectMessageRepository {
	return &directMessageRepository{db: db}
}

func (r *directMessageRepository) Create(ctx context.Context, message *models.DirectMessage) error {
	defer metrics.TrackQuery("create", directMessageTable)()

	if err := r.db.WithContext(ctx).Omit("Sender", "Receiver").Create(message).Error; err != nil {
		return database.TranslateError(directMessageTable, err)
	}
	return nil
}

func (r *directMessageRepository) GetByID(ctx context.Context, id uint) (*models.DirectMessage, error) {
	defer metrics.TrackQuery("get_by_id", directMessageTable)()

	var message models.DirectMessage
	if err := r.db.WithContext(ctx).Preload("Sender").Preload("Receiver").First(&message, id).Error; err != nil {
		return nil, lookupError(directMessageResource, id, err)
	}
	return &message, nil
}

func (r *directMessageRepository) Conversation(ctx context.Context, userA, userB uint, limit, offset int) ([]models.DirectMessage, error) {
	defer metrics.TrackQuery("conversation", directMessageTable)()

	db := r.db.WithContext(ctx)
	var messages []models.DirectMessage
	err := db.
		Where(db.Where(eq(colSenderID, userA)).Where(eq(colReceiverID, userB))).
		Or(db.Where(eq(colSenderID, userB)).Where(eq(colReceiverID, userA))).
		Order(oldestFirst()).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "messageID"}}).
		Limit(normalizeLimit(limit)).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *directMessageRepository) ListSent(ctx context.Context, senderID uint) ([]models.DirectMessage, error) {
	return r.listBy(ctx, "list_sent", colSenderID, senderID)
}

func (r *directMessageRepository) ListReceived(ctx context.Context, receiverID uint) ([]models.DirectMessage, error) {
	return r.listBy(ctx, "list_received", colReceiverID, receiverID)
}

func (r *directMessageRepository) listBy(ctx context.Context, operation, column string, id uint) ([]models.DirectMessage, error) {
	defer metrics.TrackQuery(operation, directMessageTable)()

	var messages []models.DirectMessage
	if err := r.db.WithContext(ctx).Where(eq(column, id)).Order(oldestFirst()).Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *directMessageRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, directMessageResource, directMessageTable, &models.DirectMessage{}, id)
}
