package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"travelhub/internal/domain"
)

type Service struct {
	identities IdentityRepositoryInterface
	users      UserRepositoryInterface
	agents     AgentRepositoryInterface
	tokens     TokenGenerator
	ttl        time.Duration
	log        zerolog.Logger
	now        func() time.Time
	compare    func(hash, password []byte) error
}

func NewService(identities IdentityRepositoryInterface, users UserRepositoryInterface, agents AgentRepositoryInterface, tokens TokenGenerator, ttl time.Duration, log zerolog.Logger) *Service {
	return &Service{
		identities: identities,
		users:      users,
		agents:     agents,
		tokens:     tokens,
		ttl:        ttl,
		log:        log,
		now:        time.Now,
		compare:    bcrypt.CompareHashAndPassword,
	}
}

// unknownEmailHash is compared against on the not-found path so both failures cost one bcrypt run.
var unknownEmailHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("travelhub:no-such-identity"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("auth: dummy hash: %v", err))
	}
	return h
})

// Login checks the password and issues a JWT. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, domain.Outbox, error) {
	identity, err := s.identities.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = s.compare(unknownEmailHash(), []byte(req.Password))
			return nil, domain.Outbox{}, ErrInvalidCredentials
		}
		return nil, domain.Outbox{}, err
	}
	if s.compare([]byte(identity.PasswordHash), []byte(req.Password)) != nil {
		return nil, domain.Outbox{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByIdentityID(ctx, identity.ID)
	if err != nil {
		return nil, domain.Outbox{}, fmt.Errorf("load user: %w", err)
	}
	if err := s.identities.TouchSignIn(ctx, identity.ID, s.now().UTC()); err != nil {
		s.log.Warn().Err(err).Int64("user_id", user.ID).Msg("sign-in timestamp not updated")
	}

	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, domain.Outbox{}, fmt.Errorf("generate token: %w", err)
	}

	res := &LoginResponse{Token: token, ExpiresIn: int64(s.ttl.Seconds()), User: *user}
	if user.Role == domain.RoleAgent {
		if agent, err := s.agents.GetByUserID(ctx, user.ID); err == nil {
			res.Agent = agent
		}
	}

	var box domain.Outbox
	box.Log(domain.ActivityLog{
		UserID:       domain.Ref(user.ID),
		ActivityType: domain.ActivityLogin,
		Description:  "User signed in",
		EntityType:   domain.EntityUser,
		EntityID:     domain.Ref(user.ID),
	})
	return res, box, nil
}

func (s *Service) Me(ctx context.Context, actor domain.Actor) (*MeResponse, error) {
	if actor.UserID == 0 {
		return nil, ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	res := &MeResponse{User: *user}
	if user.Role == domain.RoleAgent {
		agent, err := s.agents.GetByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		res.Agent = agent
	}
	return res, nil
}
