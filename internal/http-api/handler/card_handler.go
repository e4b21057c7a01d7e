package handler

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"vinoteca/internal/http-api/dto"
	"vinoteca/internal/http-api/middleware"
	"vinoteca/internal/http-api/service"
	"vinoteca/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type CardHandler struct {
	cardService   service.CardService
	ratingService service.RatingService
	blobStore     storage.BlobStore
}

func NewCardHandler(cardService service.CardService, ratingService service.RatingService, blobStore storage.BlobStore) *CardHandler {
	return &CardHandler{
		cardService:   cardService,
		ratingService: ratingService,
		blobStore:     blobStore,
	}
}

func (h *CardHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth, optionalAuth gin.HandlerFunc) {
	cards := rg.Group("/cards")
	{
		// Public routes, caller identity only enriches the response
		cards.GET("", optionalAuth, h.List)
		cards.GET("/:id", optionalAuth, h.Get)

		// Write routes
		cards.POST("", requireAuth, h.Create)
		cards.PUT("/:id", requireAuth, h.Update)
		cards.DELETE("/:id", requireAuth, h.Delete)
		cards.PATCH("/:id/rate", requireAuth, h.Rate)
	}
}

// List returns filtered, sorted, paginated cards
// GET /api/cards
func (h *CardHandler) List(c *gin.Context) {
	var query dto.CardListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "details": err.Error()})
		return
	}
	if query.MinPrice != nil && query.MaxPrice != nil && *query.MaxPrice < *query.MinPrice {
		c.JSON(http.StatusBadRequest, gin.H{"message": "maxPrice must be greater than or equal to minPrice"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.cardService.List(ctx, query, middleware.CallerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to list cards"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get returns one card with owner and rating authors resolved
// GET /api/cards/:id
func (h *CardHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if uuid.Validate(id) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid card ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	card, err := h.cardService.GetByID(ctx, id, middleware.CallerID(c))
	if err != nil {
		if errors.Is(err, service.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load card"})
		return
	}

	c.JSON(http.StatusOK, card)
}

// Create adds a card owned by the caller, with an optional multipart image
// POST /api/cards
func (h *CardHandler) Create(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var in dto.CreateCardDTO
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	// the upload must complete before the card row is written, so a failed
	// upload leaves nothing behind
	imageURL, err := h.storeImage(ctx, c)
	if err != nil {
		h.imageError(c, err)
		return
	}

	card, err := h.cardService.Create(ctx, userID.(string), in, imageURL)
	if err != nil {
		h.discardImage(ctx, imageURL)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create card"})
		return
	}

	c.JSON(http.StatusCreated, card)
}

// Update edits an owned card, optionally replacing or clearing its image
// PUT /api/cards/:id
func (h *CardHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if uuid.Validate(id) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid card ID"})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var in dto.UpdateCardDTO
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	imageURL := ""
	if !in.RemoveImage {
		var err error
		imageURL, err = h.storeImage(ctx, c)
		if err != nil {
			h.imageError(c, err)
			return
		}
	}

	card, err := h.cardService.Update(ctx, id, userID.(string), in, imageURL)
	if err != nil {
		// the card row never referenced the upload, take it back out
		h.discardImage(ctx, imageURL)
		if errors.Is(err, service.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update card"})
		return
	}

	c.JSON(http.StatusOK, card)
}

// Delete removes an owned card
// DELETE /api/cards/:id
func (h *CardHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if uuid.Validate(id) != nil {
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

	if err := h.cardService.Delete(ctx, id, userID.(string)); err != nil {
		if errors.Is(err, service.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete card"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Card deleted"})
}

// Rate submits or updates the caller's rating (1-10)
// PATCH /api/cards/:id/rate
func (h *CardHandler) Rate(c *gin.Context) {
	id := c.Param("id")
	if uuid.Validate(id) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid card ID"})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var req dto.RateCardDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	card, err := h.ratingService.Rate(ctx, id, userID.(string), *req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		case errors.Is(err, service.ErrInvalidRating):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to rate card"})
		}
		return
	}

	c.JSON(http.StatusOK, card)
}

// storeImage uploads the multipart "img" file if present and returns its
// URL, or "" when no file was sent.
func (h *CardHandler) storeImage(ctx context.Context, c *gin.Context) (string, error) {
	fileHeader, err := c.FormFile("img")
	if err != nil {
		// no file attached
		return "", nil
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExtensions[ext] {
		return "", errUnsupportedImage
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	return h.blobStore.Save(ctx, fileHeader.Filename, file)
}

// discardImage removes an upload whose card write failed, so nothing is left
// on disk without a referencing row.
func (h *CardHandler) discardImage(ctx context.Context, imageURL string) {
	if imageURL == "" {
		return
	}
	if err := h.blobStore.Remove(ctx, imageURL); err != nil {
		log.WithError(err).WithField("url", imageURL).Warn("could not remove orphaned upload")
	}
}

var errUnsupportedImage = errors.New("unsupported image type")

func (h *CardHandler) imageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errUnsupportedImage):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unsupported image type"})
	case errors.Is(err, storage.ErrFileTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Image exceeds the size limit"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Image upload failed"})
	}
}
