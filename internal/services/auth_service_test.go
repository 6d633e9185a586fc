package services_test

import (
	"fmt"
	"testing"
	"time"

	"gallery/internal/apperrors"
	"gallery/internal/models"
	"gallery/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func notFoundErr(email string) error {
	return fmt.Errorf("user with email %s: %w", email, apperrors.ErrNotFound)
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	// Successful registration
	mockRepo.On("GetByEmail", "alice@x.com").Return(nil, notFoundErr("alice@x.com")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		user := args.Get(0).(*models.User)
		user.ID = "user-123"
	}).Return(nil).Once()

	user, token, err := authService.Register("Alice", "alice@x.com", "secret1")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Alice", user.Name)
	// The stored password must be a bcrypt hash of the input, not the input.
	assert.NotEqual(t, "secret1", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret1")))
	mockRepo.AssertExpectations(t)

	// Email already registered
	mockRepo.On("GetByEmail", "alice@x.com").Return(&models.User{ID: "user-123"}, nil).Once()
	_, _, err = authService.Register("Alice", "alice@x.com", "secret1")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Name:     "Alice",
		Email:    "alice@x.com",
		Password: string(hashedPassword),
	}

	// Successful login
	mockRepo.On("GetByEmail", "alice@x.com").Return(user, nil).Once()
	loggedIn, token, err := authService.Login("alice@x.com", "secret1")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "user-123", loggedIn.ID)

	// The token must embed the user id and be signed with the secret.
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte("test_jwt_secret"), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, "user-123", claims["userId"])
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByEmail", "alice@x.com").Return(user, nil).Once()
	_, _, err = authService.Login("alice@x.com", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Unknown email reports the same failure as a wrong password.
	mockRepo.On("GetByEmail", "nobody@x.com").Return(nil, notFoundErr("nobody@x.com")).Once()
	_, _, err = authService.Login("nobody@x.com", "secret1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Authenticate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	signToken := func(userID string, exp time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"userId": userID,
			"exp":    exp.Unix(),
		})
		signed, _ := token.SignedString([]byte("test_jwt_secret"))
		return signed
	}

	// Valid token resolves to the user row
	mockRepo.On("GetByID", "user-123").Return(&models.User{ID: "user-123", Name: "Alice"}, nil).Once()
	user, err := authService.Authenticate(signToken("user-123", time.Now().Add(time.Hour)))
	assert.NoError(t, err)
	assert.Equal(t, "user-123", user.ID)
	mockRepo.AssertExpectations(t)

	// Malformed token
	_, err = authService.Authenticate("invalid.token.string")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	// Expired token
	_, err = authService.Authenticate(signToken("user-123", time.Now().Add(-time.Hour)))
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	// Token for a user id that no longer resolves to a row
	mockRepo.On("GetByID", "ghost").Return(nil, fmt.Errorf("user with ID ghost: %w", apperrors.ErrNotFound)).Once()
	_, err = authService.Authenticate(signToken("ghost", time.Now().Add(time.Hour)))
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	mockRepo.AssertExpectations(t)

	// Token signed with a different secret
	foreignToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "user-123",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	foreignSigned, _ := foreignToken.SignedString([]byte("other_secret"))
	_, err = authService.Authenticate(foreignSigned)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestAuthService_RegisterThenAuthenticateRoundTrip(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	mockRepo.On("GetByEmail", "bob@x.com").Return(nil, notFoundErr("bob@x.com")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.User).ID = "user-456"
	}).Return(nil).Once()

	registered, token, err := authService.Register("Bob", "bob@x.com", "hunter22")
	assert.NoError(t, err)

	mockRepo.On("GetByID", "user-456").Return(registered, nil).Once()
	authenticated, err := authService.Authenticate(token)
	assert.NoError(t, err)
	assert.Equal(t, registered.ID, authenticated.ID)
	mockRepo.AssertExpectations(t)
}
