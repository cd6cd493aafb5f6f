package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is free text left by a user on a post.
type Comment struct {
	ID          uint      `gorm:"column:commentID;primaryKey" json:"commentID"`
	PostID      uint      `gorm:"column:postID;not null;index" json:"postID" validate:"required"`
	UserID      uint      `gorm:"column:userID;not null;index" json:"userID" validate:"required"`
	CommentText string    `gorm:"column:commentText;type:text;not null" json:"commentText" validate:"required"`
	CreatedAt   time.Time `gorm:"column:createdAt" json:"createdAt"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty" validate:"-"`
	Post *Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty" validate:"-"`
}

// TableName specifies the table name for GORM
func (Comment) TableName() string {
	return "comment"
}

// BeforeCreate rejects comments without a post, an author or text.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	return Validate("Comment", c)
}
