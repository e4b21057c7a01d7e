package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"vinoteca/internal/http-api/dto"
	"vinoteca/internal/http-api/middleware"
	"vinoteca/internal/http-api/models"
	"vinoteca/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(name, email, password string) (*models.User, error) {
	args := m.Called(name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthService) Login(email, password string) (string, *models.User, error) {
	args := m.Called(email, password)
	if args.Get(1) == nil {
		return "", nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.User), args.Error(2)
}

func (m *mockAuthService) Profile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProfileResponse), args.Error(1)
}

func (m *mockAuthService) ValidateToken(tokenString string) (*service.AuthClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthClaims), args.Error(1)
}

func echoCaller(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"callerId": middleware.CallerID(c)})
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("MissingHeader", func(t *testing.T) {
		authSvc := new(mockAuthService)
		r := gin.New()
		r.GET("/secure", middleware.AuthMiddleware(authSvc), echoCaller)

		req, _ := http.NewRequest(http.MethodGet, "/secure", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		authSvc.AssertNotCalled(t, "ValidateToken")
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		authSvc := new(mockAuthService)
		r := gin.New()
		r.GET("/secure", middleware.AuthMiddleware(authSvc), echoCaller)

		req, _ := http.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		authSvc := new(mockAuthService)
		authSvc.On("ValidateToken", "bad").Return(nil, service.ErrInvalidToken).Once()
		r := gin.New()
		r.GET("/secure", middleware.AuthMiddleware(authSvc), echoCaller)

		req, _ := http.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set("Authorization", "Bearer bad")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		authSvc.AssertExpectations(t)
	})

	t.Run("ValidToken", func(t *testing.T) {
		authSvc := new(mockAuthService)
		authSvc.On("ValidateToken", "good").
			Return(&service.AuthClaims{UserID: "user-1", Name: "Giulia"}, nil).Once()
		r := gin.New()
		r.GET("/secure", middleware.AuthMiddleware(authSvc), echoCaller)

		req, _ := http.NewRequest(http.MethodGet, "/secure", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"callerId":"user-1"`)
	})
}

func TestOptionalAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("AnonymousPassesThrough", func(t *testing.T) {
		authSvc := new(mockAuthService)
		r := gin.New()
		r.GET("/open", middleware.OptionalAuthMiddleware(authSvc), echoCaller)

		req, _ := http.NewRequest(http.MethodGet, "/open", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"callerId":""`)
	})

	t.Run("InvalidTokenStillRejected", func(t *testing.T) {
		authSvc := new(mockAuthService)
		authSvc.On("ValidateToken", "expired").Return(nil, service.ErrInvalidToken).Once()
		r := gin.New()
		r.GET("/open", middleware.OptionalAuthMiddleware(authSvc), echoCaller)

		req, _ := http.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("Authorization", "Bearer expired")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ValidTokenAttached", func(t *testing.T) {
		authSvc := new(mockAuthService)
		authSvc.On("ValidateToken", "good").
			Return(&service.AuthClaims{UserID: "user-2"}, nil).Once()
		r := gin.New()
		r.GET("/open", middleware.OptionalAuthMiddleware(authSvc), echoCaller)

		req, _ := http.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"callerId":"user-2"`)
	})
}

func TestMemoryLimiter(t *testing.T) {
	limiter := middleware.NewMemoryLimiter(2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "1.2.3.4")
		assert.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.Allow(ctx, "1.2.3.4")
	assert.NoError(t, err)
	assert.False(t, allowed)

	// other clients keep their own bucket
	allowed, err = limiter.Allow(ctx, "5.6.7.8")
	assert.NoError(t, err)
	assert.True(t, allowed)
}

type denyLimiter struct{ err error }

func (l denyLimiter) Allow(context.Context, string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	return false, nil
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Denied", func(t *testing.T) {
		r := gin.New()
		r.GET("/", middleware.RateLimit(denyLimiter{}), echoCaller)

		req, _ := http.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("FailsOpenOnBackendError", func(t *testing.T) {
		r := gin.New()
		r.GET("/", middleware.RateLimit(denyLimiter{err: context.DeadlineExceeded}), echoCaller)

		req, _ := http.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CORS([]string{"http://localhost:5173"}))
	r.GET("/", echoCaller)

	t.Run("AllowedOrigin", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("UnknownOrigin", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Preflight", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
