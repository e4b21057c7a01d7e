package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"vinoteca/internal/http-api/dto"
	"vinoteca/internal/http-api/middleware"
	"vinoteca/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FavoriteHandler struct {
	favoriteService service.FavoriteService
}

func NewFavoriteHandler(favoriteService service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

func (h *FavoriteHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth, optionalAuth gin.HandlerFunc) {
	favorites := rg.Group("/favorites")
	{
		favorites.GET("", requireAuth, h.List)
		favorites.POST("/:id", requireAuth, h.Toggle)
		// anonymous callers get isFavorite=false instead of an error
		favorites.GET("/:id", optionalAuth, h.Check)
	}
}

// List returns all cards the caller has favorited
// GET /api/favorites
func (h *FavoriteHandler) List(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var query dto.FavoritesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.favoriteService.List(ctx, userID.(string), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to list favorites"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Toggle flips the caller's favorite state for a card
// POST /api/favorites/:id
func (h *FavoriteHandler) Toggle(c *gin.Context) {
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

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.favoriteService.Toggle(ctx, cardID, userID.(string))
	if err != nil {
		if errors.Is(err, service.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Card not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to toggle favorite"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Check reports whether the caller has favorited a card
// GET /api/favorites/:id
func (h *FavoriteHandler) Check(c *gin.Context) {
	// anonymous callers get false before the id is even looked at
	callerID := middleware.CallerID(c)
	if callerID == "" {
		c.JSON(http.StatusOK, dto.CheckFavoriteResponse{IsFavorite: false})
		return
	}

	cardID := c.Param("id")
	if uuid.Validate(cardID) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid card ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.favoriteService.Check(ctx, cardID, callerID)
	if err != nil {
		if errors.Is(err, service.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Card not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to check favorite"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
