package service

import (
	"context"

	"vinoteca/internal/http-api/dto"
	"vinoteca/internal/http-api/repository"
)

type FavoriteService interface {
	List(ctx context.Context, userID string, query dto.FavoritesQuery) (*dto.FavoriteListResponse, error)
	// Toggle flips membership for (card, user) and reports the new state.
	// Toggling twice restores the original state.
	Toggle(ctx context.Context, cardID, userID string) (*dto.ToggleFavoriteResponse, error)
	// Check reports membership; anonymous callers get false without error.
	Check(ctx context.Context, cardID, callerID string) (*dto.CheckFavoriteResponse, error)
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	cardRepo     *repository.CardRepo
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, cardRepo *repository.CardRepo) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		cardRepo:     cardRepo,
	}
}

func (s *favoriteService) List(ctx context.Context, userID string, query dto.FavoritesQuery) (*dto.FavoriteListResponse, error) {
	sortBy, sortOrder := query.EffectiveSort()
	cards, err := s.favoriteRepo.ListCards(ctx, userID, sortBy, sortOrder)
	if err != nil {
		return nil, err
	}

	results := make([]dto.CardResponse, 0, len(cards))
	for _, card := range cards {
		// every card here is favorited by definition
		results = append(results, dto.FromModelToCardResponse(card, true))
	}

	return &dto.FavoriteListResponse{
		Results: results,
		Total:   len(results),
	}, nil
}

func (s *favoriteService) Toggle(ctx context.Context, cardID, userID string) (*dto.ToggleFavoriteResponse, error) {
	exists, err := s.cardRepo.Exists(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCardNotFound
	}

	isFavorite, err := s.favoriteRepo.Exists(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	if isFavorite {
		if err := s.favoriteRepo.Remove(ctx, userID, cardID); err != nil {
			return nil, err
		}
	} else {
		if err := s.favoriteRepo.Add(ctx, userID, cardID); err != nil {
			return nil, err
		}
	}

	message := "Added to favorites"
	if isFavorite {
		message = "Removed from favorites"
	}

	return &dto.ToggleFavoriteResponse{
		CardID:     cardID,
		IsFavorite: !isFavorite,
		Message:    message,
	}, nil
}

func (s *favoriteService) Check(ctx context.Context, cardID, callerID string) (*dto.CheckFavoriteResponse, error) {
	if callerID == "" {
		return &dto.CheckFavoriteResponse{IsFavorite: false}, nil
	}

	exists, err := s.cardRepo.Exists(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCardNotFound
	}

	isFavorite, err := s.favoriteRepo.Exists(ctx, callerID, cardID)
	if err != nil {
		return nil, err
	}
	return &dto.CheckFavoriteResponse{IsFavorite: isFavorite}, nil
}
