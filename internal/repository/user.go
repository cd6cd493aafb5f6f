package repository

import (
	"context"
	"fmt"
	"time"

	"socialschema/internal/cache"
	"socialschema/internal/config"
	"socialschema/internal/database"
	"socialschema/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const userTable = "User"

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetWithRelations(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}

// UserOptions configures the user repository.
type UserOptions struct {
	// Cache is consulted by GetByID. Nil disables caching.
	Cache    *cache.Cache
	CacheTTL time.Duration
	// DeletePolicy decides what happens to follower edges and direct
	// messages of a deleted user: config.DeletePolicyPurge removes them,
	// config.DeletePolicyRestrict refuses the delete while any exist.
	DeletePolicy string
}

type userRepository struct {
	db   *gorm.DB
	opts UserOptions
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB, opts UserOptions) UserRepository {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.DeletePolicy == "" {
		opts.DeletePolicy = config.DeletePolicyPurge
	}
	return &userRepository{db: db, opts: opts}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer metrics.TrackQuery("create", userTable)()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return database.TranslateError(userTable, err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User

	err := r.opts.Cache.Aside(ctx, cache.UserKey(id), &user, r.opts.CacheTTL, func() error {
		defer metrics.TrackQuery("get_by_id", userTable)()
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			return lookupError(userTable, id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *userRepository) getBy(ctx context.Context, column, value string) (*models.User, error) {
	defer metrics.TrackQuery("get_by_"+column, userTable)()

	var user models.User
	if err := r.db.WithContext(ctx).Where(eq(column, value)).First(&user).Error; err != nil {
		return nil, lookupError(userTable, value, err)
	}
	return &user, nil
}

// GetWithRelations loads a user together with every collection it participates in.
func (r *userRepository) GetWithRelations(ctx context.Context, id uint) (*models.User, error) {
	defer metrics.TrackQuery("get_with_relations", userTable)()

	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Posts", func(db *gorm.DB) *gorm.DB { return db.Order(newestFirst()) }).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order(oldestFirst()) }).
		Preload("Likes").
		Preload("Followers").
		Preload("Following").
		Preload("SentMessages", func(db *gorm.DB) *gorm.DB { return db.Order(oldestFirst()) }).
		Preload("ReceivedMessages", func(db *gorm.DB) *gorm.DB { return db.Order(oldestFirst()) }).
		First(&user, id).Error
	if err != nil {
		return nil, lookupError(userTable, id, err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	defer metrics.TrackQuery("list", userTable)()

	var users []models.User
	err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "userID"}}).
		Limit(normalizeLimit(limit)).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := updateColumns(ctx, r.db, userTable, userTable, "userID", user.ID, user); err != nil {
		return err
	}
	r.invalidate(ctx, user.ID)
	return nil
}

// Delete removes a user and everything it owns in one transaction: likes and
// comments written by the user or left on its posts, then its posts, then the
// user. Follower edges and direct messages follow the configured policy.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	defer metrics.TrackQuery("delete", userTable)()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return lookupError(userTable, id, err)
		}

		if err := r.applyDeletePolicy(tx, id); err != nil {
			return err
		}

		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where(eq(colUserID, id)).Pluck(colPostID, &postIDs).Error; err != nil {
			return models.NewInternalError(err)
		}

		for _, owned := range []struct {
			table string
			model interface{}
		}{
			{likeTable, &models.Like{}},
			{commentTable, &models.Comment{}},
		} {
			q := tx.Where(eq(colUserID, id))
			if len(postIDs) > 0 {
				q = q.Or(eq(colPostID, postIDs))
			}
			if err := q.Delete(owned.model).Error; err != nil {
				return database.TranslateError(owned.table, err)
			}
		}

		if err := tx.Where(eq(colUserID, id)).Delete(&models.Post{}).Error; err != nil {
			return database.TranslateError(postTable, err)
		}
		if err := tx.Delete(&user).Error; err != nil {
			return database.TranslateError(userTable, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *userRepository) applyDeletePolicy(tx *gorm.DB, id uint) error {
	edges := func() *gorm.DB {
		return tx.Where(eq("followedID", id)).Or(eq("followerUserID", id))
	}
	messages := func() *gorm.DB {
		return tx.Where(eq("senderID", id)).Or(eq("receiverID", id))
	}

	if r.opts.DeletePolicy == config.DeletePolicyRestrict {
		var edgeCount, messageCount int64
		if err := edges().Model(&models.Follower{}).Count(&edgeCount).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := messages().Model(&models.DirectMessage{}).Count(&messageCount).Error; err != nil {
			return models.NewInternalError(err)
		}
		if edgeCount+messageCount > 0 {
			return database.TranslateError(userTable, models.NewConstraintError(
				models.ConstraintRestricted,
				fmt.Sprintf("User %d is still referenced by %d follower edges and %d direct messages", id, edgeCount, messageCount),
				nil,
			))
		}
		return nil
	}

	if err := edges().Delete(&models.Follower{}).Error; err != nil {
		return database.TranslateError(followerTable, err)
	}
	if err := messages().Delete(&models.DirectMessage{}).Error; err != nil {
		return database.TranslateError(directMessageTable, err)
	}
	return nil
}

func (r *userRepository) invalidate(ctx context.Context, id uint) {
	// best-effort; the entry expires on its own
	_ = r.opts.Cache.Delete(ctx, cache.UserKey(id))
}
