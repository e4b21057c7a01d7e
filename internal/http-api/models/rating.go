package models

import "time"

// Rating is one user's score for one card. The composite unique index keeps
// at most one row per (card, user) pair.
type Rating struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CardID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_card_user" json:"card_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_card_user" json:"user_id"`
	Value     int       `gorm:"not null;check:value >= 1 AND value <= 10" json:"value"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Card *Card `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE;" json:"card,omitempty"`
}

func (Rating) TableName() string {
	return "ratings"
}
