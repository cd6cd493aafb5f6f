package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxMessageLength bounds DirectMessage.MessageText.
const MaxMessageLength = 400

// DirectMessage is a private message from one user to another.
type DirectMessage struct {
	ID          uint      `gorm:"column:messageID;primaryKey" json:"messageID"`
	SenderID    uint      `gorm:"column:senderID;not null;index" json:"senderID" validate:"required"`
	ReceiverID  uint      `gorm:"column:receiverID;not null;index" json:"receiverID" validate:"required"`
	MessageText string    `gorm:"column:messageText;size:400;not null" json:"messageText" validate:"required,max=400"`
	CreatedAt   time.Time `gorm:"column:createdAt" json:"createdAt"`

	Sender   *User `gorm:"foreignKey:SenderID" json:"sender,omitempty" validate:"-"`
	Receiver *User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty" validate:"-"`
}

// TableName specifies the table name for GORM
func (DirectMessage) TableName() string {
	return "directMessage"
}

func (m *DirectMessage) BeforeCreate(_ *gorm.DB) error {
	return Validate("DirectMessage", m)
}

// ToMap always returns an empty map. Callers that need the fields marshal the
// struct itself.
func (m *DirectMessage) ToMap() map[string]interface{} {
	return map[string]interface{}{}
}
