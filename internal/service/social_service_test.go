package service

import (
	"context"
	"testing"

	"socialschema/internal/config"
	"socialschema/internal/database"
	"socialschema/internal/models"
	"socialschema/internal/repository"
	"socialschema/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	users  *UserService
	social *SocialService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	reg, err := schema.New()
	require.NoError(t, err)
	db, err := database.Connect(&config.Config{
		DBDriver:      config.DriverSQLite,
		SQLiteDSN:     ":memory:",
		DBAutoMigrate: true,
	}, reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	userRepo := repository.NewUserRepository(db, repository.UserOptions{})
	return &fixture{
		db:    db,
		users: NewUserService(userRepo),
		social: NewSocialService(SocialRepositories{
			Users:     userRepo,
			Posts:     repository.NewPostRepository(db),
			Comments:  repository.NewCommentRepository(db),
			Likes:     repository.NewLikeRepository(db),
			Followers: repository.NewFollowerRepository(db),
			Messages:  repository.NewDirectMessageRepository(db),
		}),
	}
}

func (f *fixture) register(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := f.users.Register(context.Background(), &models.User{
		Username:       username,
		Email:          username + "@example.com",
		Name:           "Test",
		LastName:       "User",
		Password:       "secret",
		ProfilePicture: "avatar.png",
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) post(t *testing.T, userID uint) *models.Post {
	t.Helper()
	post := &models.Post{UserID: userID, Image: "photo.png"}
	require.NoError(t, repository.NewPostRepository(f.db).Create(context.Background(), post))
	return post
}

func TestSocialService_Follow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	err := f.social.Follow(ctx, alice.ID, alice.ID)
	require.Error(t, err)

	require.NoError(t, f.social.Follow(ctx, bob.ID, alice.ID))
	require.NoError(t, f.social.Follow(ctx, bob.ID, alice.ID))

	followers, err := f.social.Followers(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "bob", followers[0].Username)

	following, err := f.social.Following(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)

	assert.True(t, models.IsNotFound(f.social.Follow(ctx, bob.ID, 404)))

	require.NoError(t, f.social.Unfollow(ctx, bob.ID, alice.ID))
	assert.True(t, models.IsNotFound(f.social.Unfollow(ctx, bob.ID, alice.ID)))
}

func TestSocialService_LikeAndComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	post := f.post(t, alice.ID)

	require.NoError(t, f.social.LikePost(ctx, bob.ID, post.ID))
	require.NoError(t, f.social.LikePost(ctx, bob.ID, post.ID))
	count, err := repository.NewLikeRepository(f.db).CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.True(t, models.IsNotFound(f.social.LikePost(ctx, bob.ID, 404)))

	require.NoError(t, f.social.Unlike(ctx, bob.ID, post.ID))
	count, err = repository.NewLikeRepository(f.db).CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	comment, err := f.social.CommentOnPost(ctx, bob.ID, post.ID, " lovely ")
	require.NoError(t, err)
	assert.Equal(t, "lovely", comment.CommentText)

	_, err = f.social.CommentOnPost(ctx, bob.ID, post.ID, "   ")
	assert.Equal(t, models.ConstraintRequired, models.ConstraintKindOf(err))

	_, err = f.social.CommentOnPost(ctx, bob.ID, 404, "lost")
	assert.Equal(t, models.ConstraintForeignKey, models.ConstraintKindOf(err))
}

func TestSocialService_Messages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	_, err := f.social.SendMessage(ctx, alice.ID, alice.ID, "note to self")
	require.Error(t, err)

	_, err = f.social.SendMessage(ctx, alice.ID, bob.ID, "")
	assert.Equal(t, models.ConstraintRequired, models.ConstraintKindOf(err))

	msg, err := f.social.SendMessage(ctx, alice.ID, bob.ID, "hello")
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)

	_, err = f.social.SendMessage(ctx, bob.ID, alice.ID, "hi!")
	require.NoError(t, err)

	conversation, err := f.social.Conversation(ctx, bob.ID, alice.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, conversation, 2)
	assert.Equal(t, "hello", conversation[0].MessageText)
}

func TestUserService_RegisterAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	post := f.post(t, alice.ID)

	_, err := f.users.Register(ctx, &models.User{
		Username:       "alice",
		Email:          "someone@example.com",
		Name:           "A",
		LastName:       "B",
		Password:       "x",
		ProfilePicture: "p.png",
	})
	assert.Equal(t, models.ConstraintUnique, models.ConstraintKindOf(err))

	_, err = f.social.CommentOnPost(ctx, bob.ID, post.ID, "nice")
	require.NoError(t, err)
	require.NoError(t, f.social.Follow(ctx, bob.ID, alice.ID))

	profile, err := f.users.Profile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, profile.Posts, 1)
	assert.Len(t, profile.Followers, 1)

	require.NoError(t, f.users.Delete(ctx, alice.ID))
	_, err = f.users.Get(ctx, alice.ID)
	assert.True(t, models.IsNotFound(err))

	bobProfile, err := f.users.Profile(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobProfile.Comments)
	assert.Empty(t, bobProfile.Following)
}

// staleFollowers and staleLikes never see an existing row, like a caller
// whose check ran before another caller's insert committed.
type staleFollowers struct{ repository.FollowerRepository }

func (staleFollowers) Exists(context.Context, uint, uint) (bool, error) { return false, nil }

type staleLikes struct{ repository.LikeRepository }

func (staleLikes) Exists(context.Context, uint, uint) (bool, error) { return false, nil }

func TestSocialService_DuplicateEdgeIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	post := f.post(t, alice.ID)

	social := NewSocialService(SocialRepositories{
		Users:     repository.NewUserRepository(f.db, repository.UserOptions{}),
		Posts:     repository.NewPostRepository(f.db),
		Comments:  repository.NewCommentRepository(f.db),
		Likes:     staleLikes{repository.NewLikeRepository(f.db)},
		Followers: staleFollowers{repository.NewFollowerRepository(f.db)},
		Messages:  repository.NewDirectMessageRepository(f.db),
	})

	for i := 0; i < 2; i++ {
		require.NoError(t, social.Follow(ctx, bob.ID, alice.ID))
		require.NoError(t, social.LikePost(ctx, bob.ID, post.ID))
	}

	var edges, likes int64
	require.NoError(t, f.db.Model(&models.Follower{}).Count(&edges).Error)
	require.NoError(t, f.db.Model(&models.Like{}).Count(&likes).Error)
	assert.Equal(t, int64(1), edges)
	assert.Equal(t, int64(1), likes)
}
