package repository

import (
	"context"
	"fmt"
	"math"

	"vinoteca/internal/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository interface {
	// Upsert writes the user's rating for a card and refreshes the card's
	// derived mean in the same transaction.
	Upsert(ctx context.Context, cardID, userID string, value int) error
	GetByUserAndCard(ctx context.Context, userID, cardID string) (*models.Rating, error)
	CountForCard(ctx context.Context, cardID string) (int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Upsert relies on the (card_id, user_id) unique index: a second submission
// by the same user replaces the value instead of adding a row. The derived
// mean is recomputed from the rating rows inside the same transaction, under
// a lock on the card row, so concurrent raters recompute one after another
// and each mean covers every committed rating.
func (r *ratingRepository) Upsert(ctx context.Context, cardID, userID string, value int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// sqlite allows a single writer and does not parse FOR UPDATE
		if tx.Dialector.Name() == "postgres" {
			var locked models.Card
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Select("id").
				First(&locked, "id = ?", cardID).Error; err != nil {
				return fmt.Errorf("lock card: %w", err)
			}
		}

		rating := models.Rating{
			CardID: cardID,
			UserID: userID,
			Value:  value,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "card_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rating).Error; err != nil {
			return fmt.Errorf("upsert rating: %w", err)
		}

		var avg struct {
			Average float64
		}
		if err := tx.Model(&models.Rating{}).
			Select("COALESCE(AVG(value), 0) as average").
			Where("card_id = ?", cardID).
			Scan(&avg).Error; err != nil {
			return fmt.Errorf("average rating: %w", err)
		}

		// one decimal place
		mean := math.Round(avg.Average*10) / 10

		if err := tx.Model(&models.Card{}).
			Where("id = ?", cardID).
			Update("rating", mean).Error; err != nil {
			return fmt.Errorf("store derived rating: %w", err)
		}
		return nil
	})
}

func (r *ratingRepository) GetByUserAndCard(ctx context.Context, userID, cardID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND card_id = ?", userID, cardID).
		Preload("User").
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) CountForCard(ctx context.Context, cardID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("card_id = ?", cardID).
		Count(&count).Error
	return count, err
}
