package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"vinoteca/internal/http-api/dto"
	"vinoteca/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	comments := rg.Group("/cards/:id/comments")
	{
		comments.GET("", h.List)
		comments.POST("", requireAuth, h.Create)
		comments.DELETE("/:comment_id", requireAuth, h.Delete)
	}
}

// List returns a card's comments, newest first
// GET /api/cards/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	cardID := c.Param("id")
	if uuid.Validate(cardID) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid card ID"})
		return
	}

	var query dto.CommentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.commentService.List(ctx, cardID, query.EffectivePage(), query.EffectiveLimit())
	if err != nil {
		if errors.Is(err, service.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to list comments"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Create appends a comment to a card
// POST /api/cards/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	cardID := c.Param("id")
	if uuid.Validate(cardID) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid card ID"})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var req dto.CreateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	comment, err := h.commentService.Add(ctx, cardID, userID.(string), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		case errors.Is(err, service.ErrEmptyComment), errors.Is(err, service.ErrCommentTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add comment"})
		}
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// Delete removes the caller's own comment
// DELETE /api/cards/:id/comments/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	cardID := c.Param("id")
	commentID := c.Param("comment_id")
	if uuid.Validate(cardID) != nil || uuid.Validate(commentID) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ID"})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.commentService.Delete(ctx, cardID, commentID, userID.(string)); err != nil {
		switch {
		case errors.Is(err, service.ErrCardNotFound), errors.Is(err, service.ErrCommentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		case errors.Is(err, service.ErrNotCommentAuthor):
			c.JSON(http.StatusForbidden, gin.H{"message": "Only the author can delete this comment"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete comment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
