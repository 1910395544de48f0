package services_test

import (
	"testing"
	"time"

	"retromart/internal/kvstore"
	"retromart/internal/models"
	"retromart/internal/repositories"
	"retromart/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetAll() ([]models.User, error) {
	args := m.Called()
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) GetByTRN(trn string) (*models.User, error) {
	args := m.Called(trn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func testAuthConfig() services.AuthConfig {
	return services.AuthConfig{
		JWTSecret:     "test_jwt_secret",
		AdminTRN:      "352-576-920",
		AdminPassword: "AdminLog1n",
	}
}

// newAuthService builds an AuthService with a mocked user repository and a
// real session repository over an in-memory store.
func newAuthService(userRepo repositories.UserRepository) (*services.AuthService, repositories.SessionRepository) {
	sessionRepo := repositories.NewKVSessionRepository(kvstore.NewMemoryStore())
	return services.NewAuthService(userRepo, sessionRepo, testAuthConfig()), sessionRepo
}

func TestAuthService_Register(t *testing.T) {
	adult := time.Now().AddDate(-30, 0, 0).Format("2006-01-02")

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, _ := newAuthService(mockRepo)

		mockRepo.On("GetAll").Return([]models.User{}, nil).Once()
		mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

		user := &models.User{TRN: "123-456-789", FirstName: "Pat", LastName: "Lee", DOB: adult, Gender: "Other", Email: "pat@example.com", Password: "password123"}
		err := authService.Register(user)
		assert.NoError(t, err)
		assert.False(t, user.RegisteredAt.IsZero())
		assert.False(t, user.IsAdmin)
		mockRepo.AssertExpectations(t)
	})

	t.Run("malformed TRN", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, _ := newAuthService(mockRepo)

		for _, trn := range []string{"123456789", "12-345-678", "abc-def-ghi", "1234-567-890", ""} {
			err := authService.Register(&models.User{TRN: trn, DOB: adult, Password: "password123"})
			assert.Error(t, err, "TRN %q should be rejected", trn)
			assert.Contains(t, err.Error(), "format")
		}
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("duplicate TRN", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, _ := newAuthService(mockRepo)

		mockRepo.On("GetAll").Return([]models.User{{TRN: "123-456-789"}}, nil).Once()

		err := authService.Register(&models.User{TRN: "123-456-789", DOB: adult, Password: "password123"})
		assert.ErrorIs(t, err, services.ErrDuplicateTRN)
		mockRepo.AssertExpectations(t)
	})

	t.Run("short password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, _ := newAuthService(mockRepo)

		err := authService.Register(&models.User{TRN: "123-456-789", DOB: adult, Password: "short"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "8 characters")
	})

	t.Run("under 18", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, _ := newAuthService(mockRepo)

		minor := time.Now().AddDate(-17, 0, 0).Format("2006-01-02")
		err := authService.Register(&models.User{TRN: "123-456-789", DOB: minor, Password: "password123"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "18")
	})
}

func TestAuthService_Login(t *testing.T) {
	registered := []models.User{
		{TRN: "111-222-333", Password: "password123"},
	}

	t.Run("admin pair short-circuits", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, sessionRepo := newAuthService(mockRepo)

		// No registered users are consulted for the admin login.
		token, session, err := authService.Login("352-576-920", "AdminLog1n")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.True(t, session.IsAdmin)
		mockRepo.AssertNotCalled(t, "GetAll")

		stored, err := sessionRepo.Get()
		assert.NoError(t, err)
		assert.Equal(t, session.ID, stored.ID)
	})

	t.Run("registered user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, _ := newAuthService(mockRepo)
		mockRepo.On("GetAll").Return(registered, nil).Once()

		token, session, err := authService.Login("111-222-333", "password123")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.False(t, session.IsAdmin)
		assert.Equal(t, "111-222-333", session.TRN)
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), session.Expiry, 5*time.Second)
		mockRepo.AssertExpectations(t)
	})

	t.Run("lockout after three failures", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, _ := newAuthService(mockRepo)
		mockRepo.On("GetAll").Return(registered, nil)

		_, _, err := authService.Login("111-222-333", "wrong")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		assert.Contains(t, err.Error(), "2 attempts left")

		_, _, err = authService.Login("111-222-333", "wrong")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		assert.Contains(t, err.Error(), "1 attempts left")

		_, _, err = authService.Login("111-222-333", "wrong")
		assert.ErrorIs(t, err, services.ErrAccountLocked)

		// Even correct credentials stay locked out.
		_, _, err = authService.Login("111-222-333", "password123")
		assert.ErrorIs(t, err, services.ErrAccountLocked)

		// The admin pair is exempt from the lockout.
		_, session, err := authService.Login("352-576-920", "AdminLog1n")
		assert.NoError(t, err)
		assert.True(t, session.IsAdmin)
	})

	t.Run("success resets the failure counter", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService, _ := newAuthService(mockRepo)
		mockRepo.On("GetAll").Return(registered, nil)

		_, _, err := authService.Login("111-222-333", "wrong")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		_, _, err = authService.Login("111-222-333", "password123")
		assert.NoError(t, err)
		_, _, err = authService.Login("111-222-333", "wrong")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		assert.Contains(t, err.Error(), "2 attempts left")
	})
}

func TestAuthService_CurrentSession(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService, sessionRepo := newAuthService(mockRepo)

	// Nobody logged in
	session, err := authService.CurrentSession()
	assert.NoError(t, err)
	assert.Nil(t, session)

	// Live session
	live := &models.Session{ID: "sid-1", TRN: "111-222-333", Expiry: time.Now().Add(10 * time.Minute)}
	assert.NoError(t, sessionRepo.Set(live))
	session, err = authService.CurrentSession()
	assert.NoError(t, err)
	assert.Equal(t, "sid-1", session.ID)

	// An expired session is cleared from the store and reported as nil
	expired := &models.Session{ID: "sid-2", TRN: "111-222-333", Expiry: time.Now().Add(-time.Minute)}
	assert.NoError(t, sessionRepo.Set(expired))
	session, err = authService.CurrentSession()
	assert.NoError(t, err)
	assert.Nil(t, session)
	stored, err := sessionRepo.Get()
	assert.NoError(t, err)
	assert.Nil(t, stored)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService, _ := newAuthService(mockRepo)

	token, session, err := authService.Login("352-576-920", "AdminLog1n")
	assert.NoError(t, err)

	// A freshly issued token validates against the stored session
	validated, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, session.ID, validated.ID)
	assert.True(t, validated.IsAdmin)

	// Garbage tokens are rejected
	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Logout invalidates outstanding tokens
	assert.NoError(t, authService.Logout())
	_, err = authService.ValidateToken(token)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no longer active")

	// A token from a previous login stops working once a new login
	// replaces the stored session
	oldToken, _, err := authService.Login("352-576-920", "AdminLog1n")
	assert.NoError(t, err)
	_, _, err = authService.Login("352-576-920", "AdminLog1n")
	assert.NoError(t, err)
	_, err = authService.ValidateToken(oldToken)
	assert.Error(t, err)
}

func TestAuthService_SessionTTLOverride(t *testing.T) {
	mockRepo := new(MockUserRepository)
	sessionRepo := repositories.NewKVSessionRepository(kvstore.NewMemoryStore())
	cfg := testAuthConfig()
	cfg.SessionTTL = time.Hour
	authService := services.NewAuthService(mockRepo, sessionRepo, cfg)

	_, session, err := authService.Login("352-576-920", "AdminLog1n")
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.Expiry, 5*time.Second)
}
