package service

import (
	"context"
	"errors"

	"vinoteca/internal/http-api/dto"
	"vinoteca/internal/http-api/models"
	"vinoteca/internal/http-api/repository"

	"gorm.io/gorm"
)

// ErrCardNotFound covers both an absent card and a card owned by someone
// else: ownership-scoped mutations must not reveal which one it was.
var ErrCardNotFound = errors.New("card not found")

type CardService interface {
	List(ctx context.Context, query dto.CardListQuery, callerID string) (*dto.CardListResponse, error)
	GetByID(ctx context.Context, id, callerID string) (*dto.CardResponse, error)
	Create(ctx context.Context, ownerID string, in dto.CreateCardDTO, imageURL string) (*dto.CardResponse, error)
	Update(ctx context.Context, id, ownerID string, in dto.UpdateCardDTO, imageURL string) (*dto.CardResponse, error)
	Delete(ctx context.Context, id, ownerID string) error
}

type cardService struct {
	cardRepo     *repository.CardRepo
	favoriteRepo repository.FavoriteRepository
}

func NewCardService(cardRepo *repository.CardRepo, favoriteRepo repository.FavoriteRepository) CardService {
	return &cardService{
		cardRepo:     cardRepo,
		favoriteRepo: favoriteRepo,
	}
}

func (s *cardService) List(ctx context.Context, query dto.CardListQuery, callerID string) (*dto.CardListResponse, error) {
	filter := repository.CardFilter{
		Color:     query.Color,
		Type:      query.Type,
		Country:   query.Country,
		Winery:    query.Winery,
		Region:    query.Region,
		Frizzante: query.Frizzante,
		MinPrice:  query.MinPrice,
		MaxPrice:  query.MaxPrice,
		MinRating: query.MinRating,
		Search:    query.Search,
	}

	page := query.EffectivePage()
	limit := query.EffectiveLimit()
	sortBy, sortOrder := query.EffectiveSort()

	cards, total, err := s.cardRepo.List(ctx, filter, sortBy, sortOrder, page, limit)
	if err != nil {
		return nil, err
	}

	// isFavorite stays false for anonymous callers
	favorited := map[string]bool{}
	if callerID != "" {
		ids := make([]string, 0, len(cards))
		for _, card := range cards {
			ids = append(ids, card.ID)
		}
		favorited, err = s.favoriteRepo.FilterFavorited(ctx, callerID, ids)
		if err != nil {
			return nil, err
		}
	}

	results := make([]dto.CardResponse, 0, len(cards))
	for _, card := range cards {
		results = append(results, dto.FromModelToCardResponse(card, favorited[card.ID]))
	}

	return dto.NewCardListResponse(results, total, page, limit), nil
}

func (s *cardService) GetByID(ctx context.Context, id, callerID string) (*dto.CardResponse, error) {
	card, err := s.cardRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	isFavorite := false
	if callerID != "" {
		isFavorite, err = s.favoriteRepo.Exists(ctx, callerID, id)
		if err != nil {
			return nil, err
		}
	}

	resp := dto.FromModelToCardResponse(*card, isFavorite)
	return &resp, nil
}

func (s *cardService) Create(ctx context.Context, ownerID string, in dto.CreateCardDTO, imageURL string) (*dto.CardResponse, error) {
	card := in.ToModel()
	card.OwnerID = ownerID
	card.Img = imageURL
	if card.Img == "" {
		card.Img = models.PlaceholderImageURL
	}

	if err := s.cardRepo.Create(ctx, &card); err != nil {
		return nil, err
	}

	// re-read to resolve the owner name
	return s.GetByID(ctx, card.ID, ownerID)
}

func (s *cardService) Update(ctx context.Context, id, ownerID string, in dto.UpdateCardDTO, imageURL string) (*dto.CardResponse, error) {
	updates := in.Updates()
	if in.RemoveImage {
		updates["img"] = models.PlaceholderImageURL
	} else if imageURL != "" {
		updates["img"] = imageURL
	}

	if len(updates) == 0 {
		// nothing to change, still enforce the ownership rule
		card, err := s.cardRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCardNotFound
			}
			return nil, err
		}
		if card.OwnerID != ownerID {
			return nil, ErrCardNotFound
		}
		return s.GetByID(ctx, id, ownerID)
	}

	affected, err := s.cardRepo.UpdateOwned(ctx, id, ownerID, updates)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrCardNotFound
	}

	return s.GetByID(ctx, id, ownerID)
}

func (s *cardService) Delete(ctx context.Context, id, ownerID string) error {
	affected, err := s.cardRepo.DeleteOwned(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCardNotFound
	}
	return nil
}
