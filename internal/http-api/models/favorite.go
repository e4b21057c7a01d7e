package models

import "time"

// Favorite marks a card as favorited by a user. Membership is a set: the
// composite unique index makes duplicate toggling impossible.
type Favorite struct {
	ID      int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CardID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_card_user" json:"card_id"`
	UserID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_card_user" json:"user_id"`
	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Card *Card `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE;" json:"card,omitempty"`
}

func (Favorite) TableName() string {
	return "favorites"
}
