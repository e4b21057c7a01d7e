package repository

import (
	"context"
	"fmt"

	"vinoteca/internal/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepository interface {
	Exists(ctx context.Context, userID, cardID string) (bool, error)
	Add(ctx context.Context, userID, cardID string) error
	Remove(ctx context.Context, userID, cardID string) error
	// ListCards returns all cards the user has favorited, sorted per the
	// shared whitelist rule.
	ListCards(ctx context.Context, userID, sortBy, sortOrder string) ([]models.Card, error)
	// FilterFavorited narrows cardIDs down to the set the user has favorited.
	FilterFavorited(ctx context.Context, userID string, cardIDs []string) (map[string]bool, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, cardID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND card_id = ?", userID, cardID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Add inserts the membership row. The (card_id, user_id) unique index plus
// DoNothing makes a racing duplicate insert a no-op instead of an error, so
// the set can never hold duplicates.
func (r *favoriteRepository) Add(ctx context.Context, userID, cardID string) error {
	favorite := models.Favorite{
		UserID: userID,
		CardID: cardID,
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "card_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&favorite).Error; err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, cardID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND card_id = ?", userID, cardID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return fmt.Errorf("remove favorite: %w", result.Error)
	}
	return nil
}

func (r *favoriteRepository) ListCards(ctx context.Context, userID, sortBy, sortOrder string) ([]models.Card, error) {
	var cards []models.Card
	if err := r.db.WithContext(ctx).
		Joins("JOIN favorites ON favorites.card_id = cards.id").
		Where("favorites.user_id = ?", userID).
		Preload("Owner").
		Order("cards." + OrderClause(sortBy, sortOrder)).
		Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("list favorite cards: %w", err)
	}
	return cards, nil
}

func (r *favoriteRepository) FilterFavorited(ctx context.Context, userID string, cardIDs []string) (map[string]bool, error) {
	favorited := make(map[string]bool, len(cardIDs))
	if len(cardIDs) == 0 {
		return favorited, nil
	}

	var rows []models.Favorite
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND card_id IN ?", userID, cardIDs).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("filter favorites: %w", err)
	}
	for _, row := range rows {
		favorited[row.CardID] = true
	}
	return favorited, nil
}

func (r *favoriteRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
