package repository

import (
	"context"
	"fmt"
	"strings"

	"vinoteca/internal/http-api/models"

	"gorm.io/gorm"
)

// CardFilter holds the optional listing criteria. All set fields are
// AND-combined; Search OR-matches name and winery.
type CardFilter struct {
	Color     string
	Type      string
	Country   string
	Winery    string
	Region    string
	Frizzante *bool
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Search    string
}

// sortableColumns whitelists client sort keys and maps them to columns.
// Anything else falls back to created_at.
var sortableColumns = map[string]string{
	"price":     "price",
	"rating":    "rating",
	"anno":      "anno",
	"name":      "name",
	"createdAt": "created_at",
}

// OrderClause resolves a client-supplied sort field and direction into a SQL
// ORDER BY fragment. Unknown fields fall back to created_at, anything that is
// not "asc" sorts descending.
func OrderClause(sortBy, sortOrder string) string {
	column, ok := sortableColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if sortOrder == "asc" {
		direction = "ASC"
	}
	return fmt.Sprintf("%s %s", column, direction)
}

type CardRepo struct {
	db *gorm.DB
}

func NewCardRepo(db *gorm.DB) *CardRepo {
	return &CardRepo{db: db}
}

func (r *CardRepo) applyFilter(db *gorm.DB, f CardFilter) *gorm.DB {
	if f.Color != "" {
		db = db.Where("color = ?", f.Color)
	}
	if f.Type != "" {
		db = db.Where("type = ?", f.Type)
	}
	if f.Country != "" {
		db = db.Where("country = ?", f.Country)
	}
	if f.Winery != "" {
		db = db.Where("LOWER(winery) LIKE ?", "%"+strings.ToLower(f.Winery)+"%")
	}
	if f.Region != "" {
		db = db.Where("LOWER(region) LIKE ?", "%"+strings.ToLower(f.Region)+"%")
	}
	if f.Frizzante != nil {
		db = db.Where("frizzante = ?", *f.Frizzante)
	}
	if f.MinPrice != nil {
		db = db.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		db = db.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinRating != nil {
		db = db.Where("rating >= ?", *f.MinRating)
	}
	if f.Search != "" {
		p := "%" + strings.ToLower(f.Search) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(winery) LIKE ?", p, p)
	}
	return db
}

// List returns one page of cards matching the filter plus the total match
// count. page is 1-indexed.
func (r *CardRepo) List(ctx context.Context, f CardFilter, sortBy, sortOrder string, page, limit int) ([]models.Card, int64, error) {
	var list []models.Card
	var total int64

	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.Card{}), f).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count cards: %w", err)
	}

	offset := (page - 1) * limit
	if err := r.applyFilter(r.db.WithContext(ctx), f).
		Preload("Owner").
		Order(OrderClause(sortBy, sortOrder)).
		Limit(limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list cards: %w", err)
	}

	return list, total, nil
}

// GetByID loads one card with its owner and rating authors resolved.
func (r *CardRepo) GetByID(ctx context.Context, id string) (*models.Card, error) {
	var card models.Card
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Ratings.User").
		First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *CardRepo) Create(ctx context.Context, card *models.Card) error {
	if err := r.db.WithContext(ctx).Create(card).Error; err != nil {
		return fmt.Errorf("create card: %w", err)
	}
	return nil
}

// UpdateOwned applies the column updates only when the card belongs to
// ownerID. Returns the number of rows touched; zero means absent or foreign,
// deliberately indistinguishable.
func (r *CardRepo) UpdateOwned(ctx context.Context, id, ownerID string, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Card{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates)
	if result.Error != nil {
		return 0, fmt.Errorf("update card: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteOwned removes the card only when it belongs to ownerID.
func (r *CardRepo) DeleteOwned(ctx context.Context, id, ownerID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Card{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete card: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Exists reports whether a card with the given id is present.
func (r *CardRepo) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Card{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CardRepo) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Card{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}
