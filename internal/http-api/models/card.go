package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Closed vocabularies for wine cards. The catalog uses the Italian terms.
var (
	WineColors = []string{"bianco", "rosso", "rosato"}
	WineTypes  = []string{"secco", "abboccato", "amabile", "dolce"}
)

// PlaceholderImageURL is used when a card is created without an uploaded image.
const PlaceholderImageURL = "https://images.vinoteca.app/placeholder-wine.jpg"

type Card struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string  `gorm:"not null;index" json:"name"`
	Color       string  `gorm:"not null" json:"color"`
	Type        string  `gorm:"not null" json:"type"`
	Alcohol     float64 `gorm:"not null" json:"alcohol"`
	Winery      string  `gorm:"not null" json:"winery"`
	Region      string  `gorm:"not null" json:"region"`
	Country     string  `gorm:"not null" json:"country"`
	Anno        int     `gorm:"not null" json:"anno"`
	Price       float64 `gorm:"not null;index" json:"price"`
	Frizzante   bool    `gorm:"not null;default:false" json:"frizzante"`
	Description string  `gorm:"type:text" json:"description"`
	Img         string  `gorm:"not null" json:"img"`

	// Rating is the derived mean of all rating rows, one decimal place.
	// Never set directly by clients.
	Rating float64 `gorm:"not null;default:0;index" json:"rating"`

	OwnerID   string    `gorm:"type:uuid;not null;index" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Owner     *User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Ratings   []Rating   `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE;" json:"ratings,omitempty"`
	Comments  []Comment  `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE;" json:"comments,omitempty"`
	Favorites []Favorite `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE;" json:"favorites,omitempty"`
}

func (card *Card) BeforeCreate(tx *gorm.DB) (err error) {
	if card.ID == "" {
		card.ID = uuid.New().String()
	}
	return
}

func (Card) TableName() string {
	return "cards"
}
