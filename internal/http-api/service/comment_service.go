package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"vinoteca/internal/http-api/dto"
	"vinoteca/internal/http-api/models"
	"vinoteca/internal/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	// ErrNotCommentAuthor is surfaced as Forbidden: unlike card ownership,
	// comment deletion failure is explicit to the caller.
	ErrNotCommentAuthor = errors.New("only the author can delete this comment")
	ErrEmptyComment     = errors.New("comment text must not be empty")
	ErrCommentTooLong   = errors.New("comment text must not exceed 1000 characters")
)

type CommentService interface {
	List(ctx context.Context, cardID string, page, limit int) (*dto.CommentListResponse, error)
	Add(ctx context.Context, cardID, userID, text string) (*dto.CommentResponse, error)
	Delete(ctx context.Context, cardID, commentID, requesterID string) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	cardRepo    *repository.CardRepo
}

func NewCommentService(commentRepo repository.CommentRepository, cardRepo *repository.CardRepo) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		cardRepo:    cardRepo,
	}
}

func (s *commentService) List(ctx context.Context, cardID string, page, limit int) (*dto.CommentListResponse, error) {
	exists, err := s.cardRepo.Exists(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCardNotFound
	}

	comments, total, err := s.commentRepo.ListByCard(ctx, cardID, page, limit)
	if err != nil {
		return nil, err
	}

	results := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		results = append(results, dto.FromModelToCommentResponse(&comments[i]))
	}

	return dto.NewCommentListResponse(results, total, page, limit), nil
}

func (s *commentService) Add(ctx context.Context, cardID, userID, text string) (*dto.CommentResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	// the limit counts characters, not bytes, same as the binding rule
	if utf8.RuneCountInString(text) > 1000 {
		return nil, ErrCommentTooLong
	}

	exists, err := s.cardRepo.Exists(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCardNotFound
	}

	comment := &models.Comment{
		CardID: cardID,
		UserID: userID,
		Text:   text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// reload to resolve the author name
	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}

	resp := dto.FromModelToCommentResponse(created)
	return &resp, nil
}

func (s *commentService) Delete(ctx context.Context, cardID, commentID, requesterID string) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.CardID != cardID {
		return ErrCommentNotFound
	}
	if comment.UserID != requesterID {
		return ErrNotCommentAuthor
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return nil
}
