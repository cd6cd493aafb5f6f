package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is an image published by a user, optionally captioned.
type Post struct {
	ID        uint      `gorm:"column:postID;primaryKey" json:"postID"`
	UserID    uint      `gorm:"column:userID;not null;index" json:"userID" validate:"required"`
	Image     string    `gorm:"column:image;size:100;not null" json:"image" validate:"required,max=100"`
	Caption   string    `gorm:"column:caption;size:250" json:"caption,omitempty" validate:"max=250"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`

	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty" validate:"-"`
	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty" validate:"-"`
	Likes    []Like    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"likes,omitempty" validate:"-"`
}

// TableName specifies the table name for GORM
func (Post) TableName() string {
	return "post"
}

// BeforeCreate rejects posts with missing or oversized fields.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	return Validate("Post", p)
}
