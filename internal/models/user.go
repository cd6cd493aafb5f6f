// Package models contains the persistent entities of the social schema.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account. Posts, comments and likes are owned by the user
// and go away with it; follower edges and direct messages only reference it.
type User struct {
	ID             uint      `gorm:"column:userID;primaryKey" json:"userID"`
	Username       string    `gorm:"column:username;size:50;not null;unique;index" json:"username" validate:"required,max=50"`
	Email          string    `gorm:"column:email;size:50;not null;unique" json:"email" validate:"required,max=50"`
	Name           string    `gorm:"column:name;size:50;not null" json:"name" validate:"required,max=50"`
	LastName       string    `gorm:"column:lastName;size:50;not null" json:"lastName" validate:"required,max=50"`
	Password       string    `gorm:"column:password;size:50;not null" json:"password" validate:"required,max=50"`
	ProfilePicture string    `gorm:"column:profilePicture;size:50;not null" json:"profilePicture" validate:"required,max=50"`
	CreatedAt      time.Time `gorm:"column:createdAt" json:"createdAt"`

	Posts            []Post          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"posts,omitempty" validate:"-"`
	Comments         []Comment       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"comments,omitempty" validate:"-"`
	Likes            []Like          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"likes,omitempty" validate:"-"`
	Followers        []Follower      `gorm:"foreignKey:FollowedID" json:"followers,omitempty" validate:"-"`
	Following        []Follower      `gorm:"foreignKey:FollowerUserID" json:"following,omitempty" validate:"-"`
	SentMessages     []DirectMessage `gorm:"foreignKey:SenderID" json:"sentMessages,omitempty" validate:"-"`
	ReceivedMessages []DirectMessage `gorm:"foreignKey:ReceiverID" json:"receivedMessages,omitempty" validate:"-"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "User"
}

// BeforeCreate rejects users with missing or oversized fields.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	return Validate("User", u)
}
