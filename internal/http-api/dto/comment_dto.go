package dto

import (
	"time"

	"vinoteca/internal/http-api/models"
)

// CreateCommentDTO for appending a comment to a card. The service trims the
// text; whitespace-only comments are rejected there.
type CreateCommentDTO struct {
	Text string `json:"text" binding:"required,max=1000"`
}

// CommentsQuery holds pagination for GET /api/cards/:id/comments
type CommentsQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (q CommentsQuery) EffectivePage() int {
	if q.Page < 1 {
		return 1
	}
	return q.Page
}

func (q CommentsQuery) EffectiveLimit() int {
	if q.Limit < 1 {
		return 10
	}
	return q.Limit
}

// CommentResponse for returning comment information
type CommentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromModelToCommentResponse(comment *models.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        comment.ID,
		UserID:    comment.UserID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
	if comment.User != nil {
		resp.Username = comment.User.Name
	}
	return resp
}

// CommentListResponse is the comment listing envelope.
type CommentListResponse struct {
	Results     []CommentResponse `json:"results"`
	Total       int64             `json:"total"`
	Page        int               `json:"page"`
	Limit       int               `json:"limit"`
	TotalPages  int               `json:"totalPages"`
	HasNextPage bool              `json:"hasNextPage"`
	HasPrevPage bool              `json:"hasPrevPage"`
}

func NewCommentListResponse(results []CommentResponse, total int64, page, limit int) *CommentListResponse {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &CommentListResponse{
		Results:     results,
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
