package auth

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"travelhub/internal/domain"
)

type mockIdentityRepo struct {
	mock.Mock
}

func (m *mockIdentityRepo) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *mockIdentityRepo) TouchSignIn(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByIdentityID(ctx context.Context, identityID string) (*domain.User, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockAgentRepo struct {
	mock.Mock
}

func (m *mockAgentRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Agent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agent), args.Error(1)
}

type mockJWTService struct {
	mock.Mock
}

func (m *mockJWTService) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestService_Login_Success(t *testing.T) {
	identities, users, agents, tokens := new(mockIdentityRepo), new(mockUserRepo), new(mockAgentRepo), new(mockJWTService)
	svc := NewService(identities, users, agents, tokens, time.Hour, zerolog.Nop())

	identities.On("GetByEmail", mock.Anything, "dmc@example.com").
		Return(&domain.Identity{ID: "id-1", Email: "dmc@example.com", PasswordHash: hashed(t, "password1")}, nil)
	identities.On("TouchSignIn", mock.Anything, "id-1", mock.Anything).Return(nil)
	users.On("GetByIdentityID", mock.Anything, "id-1").
		Return(&domain.User{ID: 10, Email: "dmc@example.com", Role: domain.RoleAgent}, nil)
	agents.On("GetByUserID", mock.Anything, int64(10)).
		Return(&domain.Agent{ID: 3, UserID: 10, Status: domain.AgentPending}, nil)
	tokens.On("GenerateToken", int64(10), "agent").Return("jwt-token", nil)

	res, box, err := svc.Login(context.Background(), LoginRequest{Email: "dmc@example.com", Password: "password1"})

	require.NoError(t, err)
	assert.Equal(t, "jwt-token", res.Token)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	require.NotNil(t, res.Agent)
	assert.Equal(t, domain.AgentPending, res.Agent.Status)
	require.Len(t, box.Activities, 1)
	assert.Equal(t, domain.ActivityLogin, box.Activities[0].ActivityType)
	identities.AssertExpectations(t)
}

func TestService_Login_InvalidCredentials(t *testing.T) {
	identities, users, agents, tokens := new(mockIdentityRepo), new(mockUserRepo), new(mockAgentRepo), new(mockJWTService)
	svc := NewService(identities, users, agents, tokens, time.Hour, zerolog.Nop())

	identities.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound)
	identities.On("GetByEmail", mock.Anything, "dmc@example.com").
		Return(&domain.Identity{ID: "id-1", PasswordHash: hashed(t, "password1")}, nil)

	_, _, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, box, err := svc.Login(context.Background(), LoginRequest{Email: "dmc@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.True(t, box.Empty())
	tokens.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
}

func TestService_Login_UnknownEmailStillHashes(t *testing.T) {
	identities := new(mockIdentityRepo)
	svc := NewService(identities, new(mockUserRepo), new(mockAgentRepo), new(mockJWTService), time.Hour, zerolog.Nop())
	var compared [][]byte
	svc.compare = func(hash, password []byte) error {
		compared = append(compared, hash)
		return bcrypt.CompareHashAndPassword(hash, password)
	}

	identities.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound)
	_, _, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "password1"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	require.Len(t, compared, 1)
	assert.Equal(t, unknownEmailHash(), compared[0])
}

func TestService_Login_SignInTouchFailureIsLogged(t *testing.T) {
	identities, users, agents, tokens := new(mockIdentityRepo), new(mockUserRepo), new(mockAgentRepo), new(mockJWTService)
	var logs bytes.Buffer
	svc := NewService(identities, users, agents, tokens, time.Hour, zerolog.New(&logs))

	identities.On("GetByEmail", mock.Anything, "c@example.com").
		Return(&domain.Identity{ID: "id-2", PasswordHash: hashed(t, "password1")}, nil)
	identities.On("TouchSignIn", mock.Anything, "id-2", mock.Anything).Return(errors.New("db locked"))
	users.On("GetByIdentityID", mock.Anything, "id-2").Return(&domain.User{ID: 11, Role: domain.RoleCustomer}, nil)
	tokens.On("GenerateToken", int64(11), "customer").Return("jwt-token", nil)

	res, _, err := svc.Login(context.Background(), LoginRequest{Email: "c@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", res.Token)
	assert.Contains(t, logs.String(), "sign-in timestamp not updated")
	assert.Contains(t, logs.String(), "db locked")
	assert.Contains(t, logs.String(), `"level":"warn"`)
}

func TestService_Me(t *testing.T) {
	users, agents := new(mockUserRepo), new(mockAgentRepo)
	svc := NewService(new(mockIdentityRepo), users, agents, new(mockJWTService), time.Hour, zerolog.Nop())

	users.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5, Role: domain.RoleCustomer}, nil)
	res, err := svc.Me(context.Background(), domain.Actor{UserID: 5, Role: domain.RoleCustomer})
	require.NoError(t, err)
	assert.Nil(t, res.Agent)
	agents.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)

	_, err = svc.Me(context.Background(), domain.Actor{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
