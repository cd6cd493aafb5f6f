package models

import (
	"time"

	"gorm.io/gorm"
)

// Follower is a directed edge: FollowerUserID follows FollowedID. Each pair
// is stored at most once.
type Follower struct {
	ID             uint      `gorm:"column:followerID;primaryKey" json:"followerID"`
	FollowedID     uint      `gorm:"column:followedID;not null;index;uniqueIndex:idx_follow_edge,priority:2" json:"followedID" validate:"required"`
	FollowerUserID uint      `gorm:"column:followerUserID;not null;index;uniqueIndex:idx_follow_edge,priority:1" json:"followerUserID" validate:"required"`
	FollowedAt     time.Time `gorm:"column:followedAT;autoCreateTime" json:"followedAT"`

	FollowedUser *User `gorm:"foreignKey:FollowedID" json:"followed,omitempty" validate:"-"`
	FollowerUser *User `gorm:"foreignKey:FollowerUserID" json:"follower,omitempty" validate:"-"`
}

// TableName specifies the table name for GORM
func (Follower) TableName() string {
	return "follower"
}

func (f *Follower) BeforeCreate(_ *gorm.DB) error {
	return Validate("Follower", f)
}
