package repository

import (
	"context"
	"fmt"
	"testing"

	"socialschema/internal/config"
	"socialschema/internal/database"
	"socialschema/internal/models"
	"socialschema/internal/schema"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupSQLiteDB returns a fresh in-memory database with the full layout applied.
func setupSQLiteDB(t *testing.T) *gorm.DB {
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
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func newTestUser(username string) *models.User {
	return &models.User{
		Username:       username,
		Email:          username + "@example.com",
		Name:           "Test",
		LastName:       "User",
		Password:       "secret",
		ProfilePicture: username + ".png",
	}
}

func mustCreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := newTestUser(username)
	require.NoError(t, NewUserRepository(db, UserOptions{}).Create(context.Background(), user))
	return user
}

func mustCreatePost(t *testing.T, db *gorm.DB, userID uint) *models.Post {
	t.Helper()
	post := &models.Post{UserID: userID, Image: fmt.Sprintf("posts/%d.png", userID), Caption: "hello"}
	require.NoError(t, NewPostRepository(db).Create(context.Background(), post))
	return post
}
