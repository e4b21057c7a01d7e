package service

import (
	"context"
	"errors"
	"time"

	"vinoteca/internal/config"
	"vinoteca/internal/http-api/dto"
	"vinoteca/internal/http-api/middleware/auth"
	"vinoteca/internal/http-api/models"
	"vinoteca/internal/http-api/repository"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

var (
	ErrEmailInUse         = errors.New("email in use")
	ErrInvalidCredentials = errors.New("email or password is wrong")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthClaims is the identity the middleware attaches to a request.
type AuthClaims struct {
	UserID string
	Name   string
}

type AuthService interface {
	Register(name, email, password string) (*models.User, error)
	Login(email, password string) (token string, user *models.User, err error)
	Profile(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	ValidateToken(tokenString string) (*AuthClaims, error)
}

type authService struct {
	userRepo     repository.UserRepository
	cardRepo     *repository.CardRepo
	favoriteRepo repository.FavoriteRepository
	jwtSecret    string
	jwtExpiry    time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	cardRepo *repository.CardRepo,
	favoriteRepo repository.FavoriteRepository,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		cardRepo:     cardRepo,
		favoriteRepo: favoriteRepo,
		jwtSecret:    cfg.JWTSecret,
		jwtExpiry:    cfg.JWTExpiry,
	}
}

// Register creates a new user; the email must not be taken yet.
func (s *authService) Register(name, email, password string) (*models.User, error) {
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailInUse
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
	}
	if err := s.userRepo.Create(user); err != nil {
		// a racing registration can slip past the lookup and hit the
		// unique index instead
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}

	return user, nil
}

// Login authenticates a user and returns a bearer token on success.
func (s *authService) Login(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		// dummy compare to mitigate timing attacks (always take same time)
		auth.VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
		return "", nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.Name,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) Profile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	cardCount, err := s.cardRepo.CountByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	favoriteCount, err := s.favoriteRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.ProfileResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		CreatedAt:     user.CreatedAt,
		CardCount:     cardCount,
		FavoriteCount: favoriteCount,
	}, nil
}

func (s *authService) ValidateToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, _ := mapClaims["user_id"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}
	name, _ := mapClaims["name"].(string)

	return &AuthClaims{UserID: userID, Name: name}, nil
}
