package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/repository"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// fakeUserRepository is an in-memory repository.UserRepository.
type fakeUserRepository struct {
	users    map[string]*domain.User
	profiles map[string]*domain.Profile
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		users:    make(map[string]*domain.User),
		profiles: make(map[string]*domain.Profile),
	}
}

func (f *fakeUserRepository) CreateWithProfile(_ context.Context, user *domain.User, profile *domain.Profile) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	profile.ID = uuid.NewString()
	profile.UserID = user.ID
	profile.CreatedAt = now
	profile.UpdatedAt = now

	stored := *user
	f.users[user.ID] = &stored
	storedProfile := *profile
	f.profiles[profile.ID] = &storedProfile
	return nil
}

func (f *fakeUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
		},
	}
}

func newTestService(t *testing.T) (*AuthService, *fakeUserRepository, events.Dispatcher) {
	t.Helper()
	repo := newFakeUserRepository()
	dispatcher := events.NewInMemoryDispatcher()
	svc, err := NewAuthService(testConfig(), AuthDependencies{UserRepo: repo, Dispatcher: dispatcher})
	require.NoError(t, err)
	return svc, repo, dispatcher
}

func registerInput() RegisterInput {
	return RegisterInput{
		Name:           "John Doe",
		Email:          "a@x.com",
		Password:       "secret123",
		IdentityType:   domain.IdentityTypeKTP,
		IdentityNumber: "123456789",
		Address:        "Jl. Sudirman No. 1",
	}
}

func TestRegisterSuccess(t *testing.T) {
	svc, repo, dispatcher := newTestService(t)

	var published []events.Event
	dispatcher.Subscribe(events.EventUserRegistered, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	user, token, exp, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)

	require.Len(t, repo.profiles, 1)
	for _, profile := range repo.profiles {
		assert.Equal(t, user.ID, profile.UserID)
		assert.Equal(t, domain.IdentityTypeKTP, profile.IdentityType)
	}

	require.Len(t, published, 1)
	assert.Equal(t, user.ID, published[0].UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, repo, _ := newTestService(t)

	_, _, _, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, _, _, err = svc.Register(context.Background(), registerInput())
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
	assert.Equal(t, MsgEmailTaken, domainErr.Message)
	assert.Equal(t, 400, domainErr.HTTPStatus)

	assert.Len(t, repo.users, 1)
}

func TestLoginSuccess(t *testing.T) {
	svc, _, dispatcher := newTestService(t)

	var published []events.Event
	dispatcher.Subscribe(events.EventUserLoggedIn, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	registered, _, _, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	user, token, _, err := svc.Login(context.Background(), "a@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)

	require.Len(t, published, 1)
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, _, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, _, _, wrongPassErr := svc.Login(context.Background(), "a@x.com", "wrong-password")
	require.Error(t, wrongPassErr)

	_, _, _, unknownErr := svc.Login(context.Background(), "nobody@x.com", "secret123")
	require.Error(t, unknownErr)

	wrongPass := apperrors.ToDomainError(wrongPassErr)
	unknown := apperrors.ToDomainError(unknownErr)
	assert.Equal(t, wrongPass.Message, unknown.Message)
	assert.Equal(t, wrongPass.Code, unknown.Code)
	assert.Equal(t, wrongPass.HTTPStatus, unknown.HTTPStatus)
	assert.Equal(t, MsgInvalidCredentials, wrongPass.Message)
}
