// Package seed creates demo and load-test data for the social schema.
// It is intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"socialschema/internal/models"
	"socialschema/internal/observability"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configures the factory and the seeder.
type Options struct {
	Users        int
	PostsPerUser int
	Clean        bool
	// DryRun builds every entity and assigns synthetic IDs without writing.
	DryRun bool
	// RandomSeed makes the generated data reproducible. Zero means time-based.
	RandomSeed int64
	// MaxDays spreads creation timestamps over the last MaxDays days.
	MaxDays int
}

// Factory builds entities with fake but column-size-safe values and persists them.
type Factory struct {
	db    *gorm.DB
	opts  Options
	faker *gofakeit.Faker
	// synthetic ID counter when running in DryRun mode
	nextID uint
	// sequence keeps generated usernames and emails unique
	sequence int
}

// NewFactory creates a new Factory bound to the provided Gorm DB. db may be
// nil in DryRun mode.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Factory{db: db, opts: opts, faker: gofakeit.New(seed), nextID: 1000}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

func (f *Factory) pastTime() time.Time {
	minutes := f.faker.Number(0, f.opts.MaxDays*24*60)
	return time.Now().Add(-time.Duration(minutes) * time.Minute)
}

// persist writes v unless running dry, in which case it only assigns an ID.
func (f *Factory) persist(ctx context.Context, table string, v interface{}, setID func(uint)) error {
	if f.opts.DryRun {
		f.nextID++
		setID(f.nextID)
		observability.Logger.DebugContext(ctx, "[dry-run] build", slog.String("table", table), slog.Uint64("id", uint64(f.nextID)))
		return nil
	}
	if err := f.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}
	observability.SeededRows.WithLabelValues(table).Inc()
	return nil
}

// CreateUser constructs and persists a sample user. Optional overrides may
// modify the generated user before saving.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	f.sequence++
	suffix := fmt.Sprintf("_%d", f.sequence)
	first := f.faker.FirstName()
	last := f.faker.LastName()

	user := &models.User{
		Username:       truncate(strings.ToLower(f.faker.Username()), 50-len(suffix)) + suffix,
		Email:          truncate(strings.ToLower(first+"."+last), 50-len(suffix)-len("@example.com")) + strings.Replace(suffix, "_", "+", 1) + "@example.com",
		Name:           truncate(first, 50),
		LastName:       truncate(last, 50),
		Password:       f.faker.Password(true, true, true, false, false, 16),
		ProfilePicture: "avatars/" + f.faker.UUID()[:8] + ".png",
		CreatedAt:      f.pastTime(),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.persist(ctx, "User", user, func(id uint) { user.ID = id }); err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample post for the given user.
func (f *Factory) CreatePost(ctx context.Context, user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		UserID:    user.ID,
		Image:     fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.faker.UUID()),
		CreatedAt: f.pastTime(),
	}
	// roughly a quarter of posts go uncaptioned
	if f.faker.Number(1, 4) > 1 {
		post.Caption = truncate(f.faker.Sentence(f.faker.Number(4, 14)), 250)
	}
	for _, override := range overrides {
		override(post)
	}

	if err := f.persist(ctx, "post", post, func(id uint) { post.ID = id }); err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a comment by user on post.
func (f *Factory) CreateComment(ctx context.Context, user *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:      post.ID,
		UserID:      user.ID,
		CommentText: f.faker.Sentence(f.faker.Number(3, 12)),
		CreatedAt:   f.pastTime(),
	}
	if err := f.persist(ctx, "comment", comment, func(id uint) { comment.ID = id }); err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like from user on post.
func (f *Factory) CreateLike(ctx context.Context, user *models.User, post *models.Post) (*models.Like, error) {
	like := &models.Like{PostID: post.ID, UserID: user.ID}
	if err := f.persist(ctx, "like", like, func(id uint) { like.ID = id }); err != nil {
		return nil, err
	}
	return like, nil
}

// CreateFollower persists the edge follower -> followed.
func (f *Factory) CreateFollower(ctx context.Context, follower, followed *models.User) (*models.Follower, error) {
	edge := &models.Follower{FollowerUserID: follower.ID, FollowedID: followed.ID}
	if err := f.persist(ctx, "follower", edge, func(id uint) { edge.ID = id }); err != nil {
		return nil, err
	}
	return edge, nil
}

// CreateMessage persists a direct message from sender to receiver.
func (f *Factory) CreateMessage(ctx context.Context, sender, receiver *models.User) (*models.DirectMessage, error) {
	message := &models.DirectMessage{
		SenderID:    sender.ID,
		ReceiverID:  receiver.ID,
		MessageText: truncate(f.faker.Sentence(f.faker.Number(2, 20)), models.MaxMessageLength),
		CreatedAt:   f.pastTime(),
	}
	if err := f.persist(ctx, "directMessage", message, func(id uint) { message.ID = id }); err != nil {
		return nil, err
	}
	return message, nil
}

// pickOthers returns up to n distinct indexes in [0, total) other than self.
func (f *Factory) pickOthers(n, self, total int) []int {
	if total < 2 || n <= 0 {
		return nil
	}
	if n > total-1 {
		n = total - 1
	}
	start := f.faker.Number(0, total-2)
	out := make([]int, 0, n)
	for k := 0; k < n; k++ {
		offset := 1 + (start+k)%(total-1)
		out = append(out, (self+offset)%total)
	}
	return out
}
