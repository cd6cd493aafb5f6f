package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormschema "gorm.io/gorm/schema"
)

func validUser() *User {
	return &User{
		Username:       "alice",
		Email:          "alice@example.com",
		Name:           "Alice",
		LastName:       "Liddell",
		Password:       "secret",
		ProfilePicture: "alice.png",
	}
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "User", User{}.TableName())
	assert.Equal(t, "post", Post{}.TableName())
	assert.Equal(t, "comment", Comment{}.TableName())
	assert.Equal(t, "like", Like{}.TableName())
	assert.Equal(t, "follower", Follower{}.TableName())
	assert.Equal(t, "directMessage", DirectMessage{}.TableName())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		entity  string
		value   interface{}
		kind    ConstraintKind
		message string
	}{
		{"valid user", "User", validUser(), "", ""},
		{"missing email", "User", func() *User { u := validUser(); u.Email = ""; return u }(), ConstraintRequired, "User.email is required"},
		{"long last name", "User", func() *User { u := validUser(); u.LastName = strings.Repeat("x", 51); return u }(), ConstraintLength, "User.lastName exceeds 50 characters"},
		{"post without image", "Post", &Post{UserID: 1}, ConstraintRequired, "Post.image is required"},
		{"caption is optional", "Post", &Post{UserID: 1, Image: "a.png"}, "", ""},
		{"long caption", "Post", &Post{UserID: 1, Image: "a.png", Caption: strings.Repeat("c", 251)}, ConstraintLength, "Post.caption exceeds 250 characters"},
		{"comment without author", "Comment", &Comment{PostID: 1, CommentText: "hi"}, ConstraintRequired, "Comment.userID is required"},
		{"like without user", "Like", &Like{PostID: 1}, ConstraintRequired, "Like.userID is required"},
		{"follower without follower", "Follower", &Follower{FollowedID: 1}, ConstraintRequired, "Follower.followerUserID is required"},
		{"message too long", "DirectMessage", &DirectMessage{SenderID: 1, ReceiverID: 2, MessageText: strings.Repeat("m", MaxMessageLength+1)}, ConstraintLength, "DirectMessage.messageText exceeds 400 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.entity, tt.value)
			if tt.kind == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsConstraintViolation(err))
			assert.Equal(t, tt.kind, ConstraintKindOf(err))
			var appErr *AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestBeforeCreateHooksValidate(t *testing.T) {
	assert.NoError(t, validUser().BeforeCreate(nil))
	assert.Error(t, (&Post{}).BeforeCreate(nil))
	assert.Error(t, (&Comment{}).BeforeCreate(nil))
	assert.Error(t, (&Like{}).BeforeCreate(nil))
	assert.Error(t, (&Follower{}).BeforeCreate(nil))
	assert.Error(t, (&DirectMessage{}).BeforeCreate(nil))
}

func TestDirectMessageToMap(t *testing.T) {
	for _, m := range []*DirectMessage{
		{},
		{ID: 7, SenderID: 1, ReceiverID: 2, MessageText: "hello"},
	} {
		out := m.ToMap()
		assert.NotNil(t, out)
		assert.Empty(t, out)
	}
}

func TestDirectMessageTextBound(t *testing.T) {
	s, err := gormschema.Parse(&DirectMessage{}, &sync.Map{}, gormschema.NamingStrategy{})
	require.NoError(t, err)

	field := s.LookUpField("messageText")
	require.NotNil(t, field)
	assert.Equal(t, MaxMessageLength, field.Size)

	sf, ok := reflect.TypeOf(DirectMessage{}).FieldByName("MessageText")
	require.True(t, ok)
	assert.Contains(t, sf.Tag.Get("validate"), fmt.Sprintf("max=%d", MaxMessageLength))

	assert.NoError(t, Validate("DirectMessage", &DirectMessage{SenderID: 1, ReceiverID: 2, MessageText: strings.Repeat("m", MaxMessageLength)}))
}

func TestAppError(t *testing.T) {
	cause := errors.New("duplicate key")
	err := NewConstraintError(ConstraintUnique, "username taken", cause)

	assert.Equal(t, "username taken: duplicate key", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ConstraintUnique, ConstraintKindOf(err))
	assert.False(t, IsNotFound(err))

	nf := NewNotFoundError("User", 9)
	assert.Equal(t, "User with ID 9 not found", nf.Error())
	assert.True(t, IsNotFound(nf))
	assert.Equal(t, ConstraintKind(""), ConstraintKindOf(nf))
	assert.Equal(t, ConstraintKind(""), ConstraintKindOf(NewInternalError(cause)))
}
