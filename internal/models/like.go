package models

import (
	"time"

	"gorm.io/gorm"
)

// Like represents one user's reaction to one post. A user likes a post at
// most once.
type Like struct {
	ID        uint      `gorm:"column:likeID;primaryKey" json:"likeID"`
	PostID    uint      `gorm:"column:postID;not null;index;uniqueIndex:idx_like_edge,priority:2" json:"postID" validate:"required"`
	UserID    uint      `gorm:"column:userID;not null;index;uniqueIndex:idx_like_edge,priority:1" json:"userID" validate:"required"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty" validate:"-"`
	Post *Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty" validate:"-"`
}

// TableName specifies the table name for GORM
func (Like) TableName() string {
	return "like"
}

func (l *Like) BeforeCreate(_ *gorm.DB) error {
	return Validate("Like", l)
}
