package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/audit-chat-service/internal/auth"
	"github.com/spec-kit/audit-chat-service/internal/config"
	"github.com/spec-kit/audit-chat-service/internal/domain"
	"github.com/spec-kit/audit-chat-service/internal/events"
	"github.com/spec-kit/audit-chat-service/internal/service"
	apperrors "github.com/spec-kit/audit-chat-service/pkg/util"
)

type memoryUserRepo struct {
	byID    map[uuid.UUID]*domain.User
	byEmail map[string]*domain.User
	saveErr error
	saved   []*domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (r *memoryUserRepo) Save(_ context.Context, user *domain.User) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	user.ID = uuid.New()
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user
	r.saved = append(r.saved, user)
	return nil
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if user, ok := r.byEmail[email]; ok {
		return user, nil
	}
	return nil, apperrors.NewNotFound("user not found")
}

func (r *memoryUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if user, ok := r.byID[id]; ok {
		return user, nil
	}
	return nil, apperrors.NewNotFound("user not found")
}

func (r *memoryUserRepo) FindByName(_ context.Context, name string) (*domain.User, error) {
	for _, user := range r.byID {
		if user.Name == name {
			return user, nil
		}
	}
	return nil, apperrors.NewNotFound("user not found")
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:       "test-secret",
		Issuer:          "audit-chat-api",
		ExpirationHours: 1,
		BcryptCost:      bcrypt.MinCost,
	}
}

func newTestService(repo *memoryUserRepo) *service.AuthService {
	return service.NewAuthService(testAuthConfig(), service.AuthDependencies{
		UserRepo:   repo,
		Dispatcher: events.NewInMemoryDispatcher(),
		Logger:     zap.NewNop(),
	})
}

func seedUser(t *testing.T, repo *memoryUserRepo, email, password string) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{Name: "Ana", Email: email, PasswordHash: hash}
	require.NoError(t, repo.Save(context.Background(), user))
	return user
}

func TestLogin_Success(t *testing.T) {
	repo := newMemoryUserRepo()
	user := seedUser(t, repo, "ana@x.com", "password1")
	svc := newTestService(repo)

	token, err := svc.Login(context.Background(), "ana@x.com", "password1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, ok := svc.TokenCodec().Verify(token)
	assert.True(t, ok)
	assert.Equal(t, user.ID, subject)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	repo := newMemoryUserRepo()
	seedUser(t, repo, "ana@x.com", "password1")
	svc := newTestService(repo)

	_, unknownEmailErr := svc.Login(context.Background(), "nobody@x.com", "password1")
	_, wrongPasswordErr := svc.Login(context.Background(), "ana@x.com", "wrong-password")

	require.Error(t, unknownEmailErr)
	require.Error(t, wrongPasswordErr)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(unknownEmailErr))
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(wrongPasswordErr))
	assert.Equal(t, unknownEmailErr.Error(), wrongPasswordErr.Error())
	assert.Equal(t, "Invalid credentials", unknownEmailErr.Error())
}

func TestRegister_HashesPasswordAndIssuesTokenForStoredID(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := newTestService(repo)

	token, err := svc.Register(context.Background(), "Ana", "ana@x.com", "password1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.Len(t, repo.saved, 1)
	saved := repo.saved[0]
	assert.NotEqual(t, "password1", saved.PasswordHash)
	assert.True(t, auth.PasswordMatches("password1", saved.PasswordHash))
	assert.False(t, saved.CreatedAt.IsZero())

	subject, ok := svc.TokenCodec().Verify(token)
	assert.True(t, ok)
	assert.Equal(t, saved.ID, subject)
}

func TestRegister_PersistenceConflictIssuesNoToken(t *testing.T) {
	repo := newMemoryUserRepo()
	repo.saveErr = apperrors.NewConflict("Conflict detected while saving user", nil)
	svc := newTestService(repo)

	token, err := svc.Register(context.Background(), "Ana", "ana@x.com", "password1")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Empty(t, token)
}

func TestIsAuth(t *testing.T) {
	repo := newMemoryUserRepo()
	user := seedUser(t, repo, "ana@x.com", "password1")
	svc := newTestService(repo)

	t.Run("known subject", func(t *testing.T) {
		status, err := svc.IsAuth(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, "User is authenticated", status.Message)
		assert.Equal(t, "Ana", status.Username)
	})

	t.Run("unknown subject", func(t *testing.T) {
		_, err := svc.IsAuth(context.Background(), uuid.New())
		require.Error(t, err)
		assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
		assert.Equal(t, "User not authenticated", err.Error())
	})
}
