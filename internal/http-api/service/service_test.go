package service

import (
	"context"
	"fmt"
	"testing"

	"vinoteca/database"
	"vinoteca/internal/http-api/models"
	"vinoteca/internal/http-api/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database for one test. The shared
// cache keeps all pooled connections on the same store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: "$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCard(t *testing.T, db *gorm.DB, ownerID, name string, price float64) *models.Card {
	t.Helper()

	card := &models.Card{
		Name:    name,
		Color:   "rosso",
		Type:    "secco",
		Alcohol: 13.5,
		Winery:  "Cantina di Prova",
		Region:  "Toscana",
		Country: "Italia",
		Anno:    2019,
		Price:   price,
		Img:     models.PlaceholderImageURL,
		OwnerID: ownerID,
	}
	require.NoError(t, db.Create(card).Error)
	return card
}

func newTestCardService(db *gorm.DB) CardService {
	return NewCardService(repository.NewCardRepo(db), repository.NewFavoriteRepository(db))
}

func newFavoriteRepos(db *gorm.DB) (repository.FavoriteRepository, *repository.CardRepo) {
	return repository.NewFavoriteRepository(db), repository.NewCardRepo(db)
}

func testContext() context.Context {
	return context.Background()
}
