package service

import (
	"context"
	"errors"

	"vinoteca/internal/http-api/dto"
	"vinoteca/internal/http-api/repository"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 10")

type RatingService interface {
	// Rate submits or replaces the user's rating and returns the card with
	// the refreshed mean and resolved author names.
	Rate(ctx context.Context, cardID, userID string, value int) (*dto.CardResponse, error)
}

type ratingService struct {
	ratingRepo   repository.RatingRepository
	cardRepo     *repository.CardRepo
	favoriteRepo repository.FavoriteRepository
}

func NewRatingService(ratingRepo repository.RatingRepository, cardRepo *repository.CardRepo, favoriteRepo repository.FavoriteRepository) RatingService {
	return &ratingService{
		ratingRepo:   ratingRepo,
		cardRepo:     cardRepo,
		favoriteRepo: favoriteRepo,
	}
}

func (s *ratingService) Rate(ctx context.Context, cardID, userID string, value int) (*dto.CardResponse, error) {
	// reject before touching storage
	if value < 1 || value > 10 {
		return nil, ErrInvalidRating
	}

	exists, err := s.cardRepo.Exists(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCardNotFound
	}

	if err := s.ratingRepo.Upsert(ctx, cardID, userID, value); err != nil {
		return nil, err
	}

	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	isFavorite, err := s.favoriteRepo.Exists(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromModelToCardResponse(*card, isFavorite)
	return &resp, nil
}
