package repository

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"socialschema/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	post := &models.Post{UserID: 1, Image: "a.png", Caption: "Caption"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "post"`)).
		WillReturnRows(sqlmock.NewRows([]string{"postID"}).AddRow(7))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), post))
	assert.Equal(t, uint(7), post.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ListByUser(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "post" WHERE "post"."userID" = $1 ORDER BY "createdAt" DESC LIMIT $2`)).
		WithArgs(3, 20).
		WillReturnRows(sqlmock.NewRows([]string{"postID", "userID", "image"}).
			AddRow(2, 3, "b.png").
			AddRow(1, 3, "a.png"))

	posts, err := repo.ListByUser(context.Background(), 3, 0, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "b.png", posts[0].Image)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_UpdateAndDelete(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")
	post := mustCreatePost(t, db, alice.ID)

	post.Caption = "edited"
	require.NoError(t, repo.Update(ctx, post))
	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Caption)

	require.NoError(t, NewCommentRepository(db).Create(ctx, &models.Comment{PostID: post.ID, UserID: bob.ID, CommentText: "hi"}))
	require.NoError(t, NewLikeRepository(db).Create(ctx, &models.Like{PostID: post.ID, UserID: bob.ID}))

	require.NoError(t, repo.Delete(ctx, post.ID))
	_, err = repo.GetByID(ctx, post.ID)
	assert.True(t, models.IsNotFound(err))
	assertCount(t, db, &models.Comment{}, 0)
	assertCount(t, db, &models.Like{}, 0)

	assert.True(t, models.IsNotFound(repo.Delete(ctx, post.ID)))
}

func TestCommentRepository(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")
	post := mustCreatePost(t, db, alice.ID)

	comment := &models.Comment{PostID: post.ID, UserID: bob.ID, CommentText: "first"}
	require.NoError(t, repo.Create(ctx, comment))
	require.NoError(t, repo.Create(ctx, &models.Comment{PostID: post.ID, UserID: alice.ID, CommentText: "second"}))

	got, err := repo.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	require.NotNil(t, got.User)
	assert.Equal(t, "bob", got.User.Username)

	byPost, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, byPost, 2)

	byUser, err := repo.ListByUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, byUser, 1)

	got.CommentText = "first!"
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "first!", got.CommentText)

	got.CommentText = ""
	assert.Equal(t, models.ConstraintRequired, models.ConstraintKindOf(repo.Update(ctx, got)))

	require.NoError(t, repo.Delete(ctx, comment.ID))
	_, err = repo.GetByID(ctx, comment.ID)
	assert.True(t, models.IsNotFound(err))
}

func TestLikeRepository(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")
	post := mustCreatePost(t, db, alice.ID)

	exists, err := repo.Exists(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	like := &models.Like{PostID: post.ID, UserID: bob.ID}
	require.NoError(t, repo.Create(ctx, like))
	require.NoError(t, repo.Create(ctx, &models.Like{PostID: post.ID, UserID: alice.ID}))

	err = repo.Create(ctx, &models.Like{PostID: post.ID, UserID: bob.ID})
	require.Error(t, err)
	assert.Equal(t, models.ConstraintUnique, models.ConstraintKindOf(err))

	exists, err = repo.Exists(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	count, err := repo.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	likes, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, likes, 2)

	got, err := repo.GetByID(ctx, like.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.UserID)

	require.NoError(t, repo.DeleteByUserAndPost(ctx, bob.ID, post.ID))
	require.NoError(t, repo.DeleteByUserAndPost(ctx, bob.ID, post.ID))
	count, err = repo.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.True(t, models.IsNotFound(repo.Delete(ctx, like.ID)))
}

func TestFollowerRepository(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewFollowerRepository(db)
	ctx := context.Background()

	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")
	carol := mustCreateUser(t, db, "carol")

	// bob and carol follow alice; alice follows carol.
	edge := &models.Follower{FollowerUserID: bob.ID, FollowedID: alice.ID}
	require.NoError(t, repo.Create(ctx, edge))
	require.NoError(t, repo.Create(ctx, &models.Follower{FollowerUserID: carol.ID, FollowedID: alice.ID}))
	require.NoError(t, repo.Create(ctx, &models.Follower{FollowerUserID: alice.ID, FollowedID: carol.ID}))

	assert.False(t, edge.FollowedAt.IsZero())

	err := repo.Create(ctx, &models.Follower{FollowerUserID: bob.ID, FollowedID: alice.ID})
	require.Error(t, err)
	assert.Equal(t, models.ConstraintUnique, models.ConstraintKindOf(err))

	got, err := repo.GetByID(ctx, edge.ID)
	require.NoError(t, err)
	require.NotNil(t, got.FollowerUser)
	require.NotNil(t, got.FollowedUser)
	assert.Equal(t, "bob", got.FollowerUser.Username)
	assert.Equal(t, "alice", got.FollowedUser.Username)

	followers, err := repo.ListFollowers(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol"}, usernames(followers))

	following, err := repo.ListFollowing(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, usernames(following))

	exists, err := repo.Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Delete(ctx, bob.ID, alice.ID))
	err = repo.Delete(ctx, bob.ID, alice.ID)
	assert.True(t, models.IsNotFound(err))
	assert.EqualError(t, err, fmt.Sprintf("Follower edge %d->%d not found", bob.ID, alice.ID))

	withEdges, err := NewUserRepository(db, UserOptions{}).GetWithRelations(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, withEdges.Followers, 1)
	assert.Len(t, withEdges.Following, 1)
}

func TestDirectMessageRepository(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewDirectMessageRepository(db)
	ctx := context.Background()

	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")
	carol := mustCreateUser(t, db, "carol")

	for _, m := range []*models.DirectMessage{
		{SenderID: alice.ID, ReceiverID: bob.ID, MessageText: "hi bob"},
		{SenderID: bob.ID, ReceiverID: alice.ID, MessageText: "hi alice"},
		{SenderID: carol.ID, ReceiverID: alice.ID, MessageText: "hi from carol"},
	} {
		require.NoError(t, repo.Create(ctx, m))
	}

	conversation, err := repo.Conversation(ctx, alice.ID, bob.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, conversation, 2)
	assert.Equal(t, "hi bob", conversation[0].MessageText)
	assert.Equal(t, "hi alice", conversation[1].MessageText)

	sent, err := repo.ListSent(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, sent, 1)

	received, err := repo.ListReceived(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, received, 2)

	got, err := repo.GetByID(ctx, conversation[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got.Sender)
	assert.Equal(t, "alice", got.Sender.Username)
	assert.Empty(t, got.ToMap())

	require.NoError(t, repo.Delete(ctx, got.ID))
	_, err = repo.GetByID(ctx, got.ID)
	assert.True(t, models.IsNotFound(err))
}

func usernames(users []models.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Username)
	}
	return out
}
