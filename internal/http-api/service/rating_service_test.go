package service

import (
	"fmt"
	"testing"

	"vinoteca/internal/http-api/models"
	"vinoteca/internal/http-api/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRatingService(db *gorm.DB) RatingService {
	return NewRatingService(
		repository.NewRatingRepository(db),
		repository.NewCardRepo(db),
		repository.NewFavoriteRepository(db),
	)
}

func TestRatingService_Rate_RecomputesMean(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "Giulia", "giulia@example.com")
	alice := createTestUser(t, db, "Alice", "alice@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")
	card := createTestCard(t, db, owner.ID, "Barbera", 16)
	svc := newTestRatingService(db)

	resp, err := svc.Rate(testContext(), card.ID, alice.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, 8.0, resp.Rating)

	resp, err = svc.Rate(testContext(), card.ID, bob.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 6.5, resp.Rating)

	// re-rating replaces, never appends
	resp, err = svc.Rate(testContext(), card.ID, alice.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 7.5, resp.Rating)
	assert.Len(t, resp.Ratings, 2)

	var count int64
	require.NoError(t, db.Model(&models.Rating{}).Where("card_id = ?", card.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestRatingService_Rate_ResolvesAuthorNames(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "Giulia", "giulia@example.com")
	card := createTestCard(t, db, owner.ID, "Barbera", 16)
	svc := newTestRatingService(db)

	resp, err := svc.Rate(testContext(), card.ID, owner.ID, 7)
	require.NoError(t, err)

	require.Len(t, resp.Ratings, 1)
	assert.Equal(t, owner.ID, resp.Ratings[0].UserID)
	assert.Equal(t, "Giulia", resp.Ratings[0].Username)
	assert.Equal(t, 7, resp.Ratings[0].Value)
}

func TestRatingService_Rate_OutOfRange(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "Giulia", "giulia@example.com")
	card := createTestCard(t, db, owner.ID, "Barbera", 16)
	svc := newTestRatingService(db)

	for _, value := range []int{0, 11, -3} {
		_, err := svc.Rate(testContext(), card.ID, owner.ID, value)
		assert.ErrorIs(t, err, ErrInvalidRating)
	}

	// state untouched after the rejections
	var count int64
	require.NoError(t, db.Model(&models.Rating{}).Where("card_id = ?", card.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	var stored models.Card
	require.NoError(t, db.First(&stored, "id = ?", card.ID).Error)
	assert.Equal(t, 0.0, stored.Rating)
}

func TestRatingService_Rate_CardNotFound(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Giulia", "giulia@example.com")
	svc := newTestRatingService(db)

	_, err := svc.Rate(testContext(), uuid.New().String(), user.ID, 6)
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestRatingService_Rate_MeanCoversAllCommittedRows(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "Giulia", "giulia@example.com")
	card := createTestCard(t, db, owner.ID, "Barbera", 16)
	svc := newTestRatingService(db)

	// rows written by other raters outside this service instance
	for i, value := range []int{4, 9} {
		other := createTestUser(t, db, fmt.Sprintf("U%d", i), fmt.Sprintf("u%d@example.com", i))
		require.NoError(t, db.Create(&models.Rating{CardID: card.ID, UserID: other.ID, Value: value}).Error)
	}

	resp, err := svc.Rate(testContext(), card.ID, owner.ID, 8)
	require.NoError(t, err)

	// mean of 4, 9, 8
	assert.Equal(t, 7.0, resp.Rating)
	assert.Len(t, resp.Ratings, 3)
}

func TestRatingService_Rate_MeanRoundsToOneDecimal(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "Giulia", "giulia@example.com")
	card := createTestCard(t, db, owner.ID, "Barbera", 16)
	svc := newTestRatingService(db)

	users := []*models.User{
		createTestUser(t, db, "A", "a@example.com"),
		createTestUser(t, db, "B", "b@example.com"),
		createTestUser(t, db, "C", "c@example.com"),
	}
	// mean of 7, 8, 8 is 7.666..., stored as 7.7
	for i, value := range []int{7, 8, 8} {
		_, err := svc.Rate(testContext(), card.ID, users[i].ID, value)
		require.NoError(t, err)
	}

	var stored models.Card
	require.NoError(t, db.First(&stored, "id = ?", card.ID).Error)
	assert.Equal(t, 7.7, stored.Rating)
}
