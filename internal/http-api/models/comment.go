package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	CardID    string    `gorm:"type:uuid;not null;index" json:"card_id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Text      string    `gorm:"not null;type:text" json:"text"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Card *Card `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE;" json:"card,omitempty"`
}

func (comment *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	return
}

func (Comment) TableName() string {
	return "comments"
}
