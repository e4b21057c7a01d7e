package dto

import (
	"time"

	"vinoteca/internal/http-api/models"
)

// CreateCardDTO used for POST /api/cards (multipart form, image in field "img")
type CreateCardDTO struct {
	Name        string   `form:"name" binding:"required,min=2,max=120"`
	Color       string   `form:"color" binding:"required,oneof=bianco rosso rosato"`
	Type        string   `form:"type" binding:"required,oneof=secco abboccato amabile dolce"`
	Alcohol     *float64 `form:"alcohol" binding:"required,min=0,max=100"`
	Winery      string   `form:"winery" binding:"required,min=2,max=120"`
	Region      string   `form:"region" binding:"required,min=2,max=120"`
	Country     string   `form:"country" binding:"required,min=2,max=120"`
	Anno        *int     `form:"anno" binding:"required,min=1900,max=2030"`
	Price       *float64 `form:"price" binding:"required,min=0"`
	Frizzante   bool     `form:"frizzante"`
	Description string   `form:"description" binding:"omitempty,max=2000"`
}

func (d CreateCardDTO) ToModel() models.Card {
	return models.Card{
		Name:        d.Name,
		Color:       d.Color,
		Type:        d.Type,
		Alcohol:     *d.Alcohol,
		Winery:      d.Winery,
		Region:      d.Region,
		Country:     d.Country,
		Anno:        *d.Anno,
		Price:       *d.Price,
		Frizzante:   d.Frizzante,
		Description: d.Description,
	}
}

// UpdateCardDTO used for PUT /api/cards/:id (partial updates allowed)
type UpdateCardDTO struct {
	Name        *string  `form:"name" binding:"omitempty,min=2,max=120"`
	Color       *string  `form:"color" binding:"omitempty,oneof=bianco rosso rosato"`
	Type        *string  `form:"type" binding:"omitempty,oneof=secco abboccato amabile dolce"`
	Alcohol     *float64 `form:"alcohol" binding:"omitempty,min=0,max=100"`
	Winery      *string  `form:"winery" binding:"omitempty,min=2,max=120"`
	Region      *string  `form:"region" binding:"omitempty,min=2,max=120"`
	Country     *string  `form:"country" binding:"omitempty,min=2,max=120"`
	Anno        *int     `form:"anno" binding:"omitempty,min=1900,max=2030"`
	Price       *float64 `form:"price" binding:"omitempty,min=0"`
	Frizzante   *bool    `form:"frizzante"`
	Description *string  `form:"description" binding:"omitempty,max=2000"`
	RemoveImage bool     `form:"removeImage"`
}

// Updates collects the provided fields into a column update map.
// The image column is handled separately by the service.
func (d UpdateCardDTO) Updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if d.Name != nil {
		updates["name"] = *d.Name
	}
	if d.Color != nil {
		updates["color"] = *d.Color
	}
	if d.Type != nil {
		updates["type"] = *d.Type
	}
	if d.Alcohol != nil {
		updates["alcohol"] = *d.Alcohol
	}
	if d.Winery != nil {
		updates["winery"] = *d.Winery
	}
	if d.Region != nil {
		updates["region"] = *d.Region
	}
	if d.Country != nil {
		updates["country"] = *d.Country
	}
	if d.Anno != nil {
		updates["anno"] = *d.Anno
	}
	if d.Price != nil {
		updates["price"] = *d.Price
	}
	if d.Frizzante != nil {
		updates["frizzante"] = *d.Frizzante
	}
	if d.Description != nil {
		updates["description"] = *d.Description
	}
	return updates
}

// CardListQuery holds the validated query parameters of GET /api/cards.
// sortBy/sortOrder accept any string: unknown sort fields fall back to
// createdAt descending instead of erroring.
type CardListQuery struct {
	Page      int      `form:"page" binding:"omitempty,min=1"`
	Limit     int      `form:"limit" binding:"omitempty,min=1,max=100"`
	Color     string   `form:"color" binding:"omitempty,oneof=bianco rosso rosato"`
	Type      string   `form:"type" binding:"omitempty,oneof=secco abboccato amabile dolce"`
	Country   string   `form:"country" binding:"omitempty,min=2,max=120"`
	MinPrice  *float64 `form:"minPrice" binding:"omitempty,min=0"`
	MaxPrice  *float64 `form:"maxPrice" binding:"omitempty,min=0"`
	MinRating *float64 `form:"minRating" binding:"omitempty,min=0,max=10"`
	Winery    string   `form:"winery" binding:"omitempty,max=120"`
	Region    string   `form:"region" binding:"omitempty,max=120"`
	Frizzante *bool    `form:"frizzante"`
	SortBy    string   `form:"sortBy"`
	SortOrder string   `form:"sortOrder"`
	// legacy aliases, take precedence when set
	SortField     string `form:"sortField"`
	SortDirection string `form:"sortDirection"`
	Search        string `form:"search" binding:"omitempty,max=120"`
}

// EffectiveSort resolves the alias pairs: sortField/sortDirection win over
// sortBy/sortOrder.
func (q CardListQuery) EffectiveSort() (string, string) {
	sortBy := q.SortBy
	if q.SortField != "" {
		sortBy = q.SortField
	}
	sortOrder := q.SortOrder
	if q.SortDirection != "" {
		sortOrder = q.SortDirection
	}
	return sortBy, sortOrder
}

// EffectivePage returns the 1-indexed page, defaulting to 1.
func (q CardListQuery) EffectivePage() int {
	if q.Page < 1 {
		return 1
	}
	return q.Page
}

// EffectiveLimit returns the page size, defaulting to 10.
func (q CardListQuery) EffectiveLimit() int {
	if q.Limit < 1 {
		return 10
	}
	return q.Limit
}

// RatingEntryResponse is one resolved rating row on a card detail.
type RatingEntryResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Value    int    `json:"value"`
}

// CardResponse DTO for responses
type CardResponse struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Color       string                `json:"color"`
	Type        string                `json:"type"`
	Alcohol     float64               `json:"alcohol"`
	Winery      string                `json:"winery"`
	Region      string                `json:"region"`
	Country     string                `json:"country"`
	Anno        int                   `json:"anno"`
	Price       float64               `json:"price"`
	Frizzante   bool                  `json:"frizzante"`
	Description string                `json:"description"`
	Img         string                `json:"img"`
	Rating      float64               `json:"rating"`
	Owner       *UserResponse         `json:"owner,omitempty"`
	Ratings     []RatingEntryResponse `json:"ratings,omitempty"`
	IsFavorite  bool                  `json:"isFavorite"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

func FromModelToCardResponse(card models.Card, isFavorite bool) CardResponse {
	resp := CardResponse{
		ID:          card.ID,
		Name:        card.Name,
		Color:       card.Color,
		Type:        card.Type,
		Alcohol:     card.Alcohol,
		Winery:      card.Winery,
		Region:      card.Region,
		Country:     card.Country,
		Anno:        card.Anno,
		Price:       card.Price,
		Frizzante:   card.Frizzante,
		Description: card.Description,
		Img:         card.Img,
		Rating:      card.Rating,
		IsFavorite:  isFavorite,
		CreatedAt:   card.CreatedAt,
		UpdatedAt:   card.UpdatedAt,
	}
	if card.Owner != nil {
		resp.Owner = &UserResponse{
			ID:    card.Owner.ID,
			Name:  card.Owner.Name,
			Email: card.Owner.Email,
		}
	}
	for _, rating := range card.Ratings {
		entry := RatingEntryResponse{
			UserID: rating.UserID,
			Value:  rating.Value,
		}
		if rating.User != nil {
			entry.Username = rating.User.Name
		}
		resp.Ratings = append(resp.Ratings, entry)
	}
	return resp
}

// CardListResponse is the listing envelope.
type CardListResponse struct {
	Results     []CardResponse `json:"results"`
	Total       int64          `json:"total"`
	Page        int            `json:"page"`
	Limit       int            `json:"limit"`
	TotalPages  int            `json:"totalPages"`
	HasNextPage bool           `json:"hasNextPage"`
	HasPrevPage bool           `json:"hasPrevPage"`
}

// NewCardListResponse fills in the pagination math: totalPages is
// ceil(total/limit), page is 1-indexed.
func NewCardListResponse(results []CardResponse, total int64, page, limit int) *CardListResponse {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &CardListResponse{
		Results:     results,
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// RateCardDTO used for PATCH /api/cards/:id/rate
type RateCardDTO struct {
	Rating *int `json:"rating" binding:"required,min=1,max=10"`
	// legacy clients send a display name along; author names are resolved
	// from the users table instead
	Username string `json:"username" binding:"omitempty,max=100"`
}
