package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"travelhub/internal/domain"
	"travelhub/internal/pkg/metrics"
	"travelhub/internal/pkg/validator"
	"travelhub/internal/repository"
)

type Service struct {
	tx    TxRunner
	users AdminLister
	log   zerolog.Logger
	cost  int
	now   func() time.Time
}

func NewService(tx TxRunner, users AdminLister, log zerolog.Logger) *Service {
	return &Service{
		tx:    tx,
		users: users,
		log:   log,
		cost:  bcrypt.DefaultCost,
		now:   time.Now,
	}
}

// ValidateAgent checks every precondition of RegisterAgent without touching storage.
func ValidateAgent(req *AgentRequest) error {
	normalizeAgent(req)

	fields := validator.Validate(req)
	if fields == nil {
		fields = map[string]string{}
	}
	if !req.AcceptTerms {
		fields["accept_terms"] = "must_accept"
	}
	if !req.AcceptDataProcessing {
		fields["accept_data_processing"] = "must_accept"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func normalizeAgent(req *AgentRequest) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.BusinessType = strings.TrimSpace(req.BusinessType)
	req.TaxID = strings.TrimSpace(req.TaxID)
	req.LicenseNumber = strings.TrimSpace(req.LicenseNumber)
	req.Website = strings.TrimSpace(req.Website)
	req.ContactName = strings.TrimSpace(req.ContactName)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Address = strings.TrimSpace(req.Address)
}

// RegisterAgent creates identity, user (role agent) and agent (pending, free plan) in one
// transaction. The returned outbox carries the registration activity and one notice per
// super-admin; the caller dispatches it.
func (s *Service) RegisterAgent(ctx context.Context, req AgentRequest) (*AgentResult, domain.Outbox, error) {
	if err := ValidateAgent(&req); err != nil {
		metrics.Registrations.WithLabelValues(string(domain.RoleAgent), "invalid").Inc()
		return nil, domain.Outbox{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, domain.Outbox{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	var res AgentResult
	err = s.tx.Run(ctx, func(repos repository.Repos) error {
		identity := domain.Identity{Email: req.Email, PasswordHash: string(hash)}
		if err := repos.Identities.Create(ctx, &identity); err != nil {
			return err
		}

		res.User = domain.User{
			IdentityID: identity.ID,
			Email:      req.Email,
			Name:       req.ContactName,
			Role:       domain.RoleAgent,
			Phone:      req.Phone,
		}
		if err := repos.Users.Create(ctx, &res.User); err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		res.Agent = domain.Agent{
			UserID:                   res.User.ID,
			CompanyName:              req.CompanyName,
			BusinessType:             req.BusinessType,
			TaxID:                    req.TaxID,
			LicenseNumber:            req.LicenseNumber,
			Address:                  req.Address,
			Website:                  req.Website,
			ContactName:              req.ContactName,
			ContactEmail:             req.Email,
			ContactPhone:             req.Phone,
			Status:                   domain.AgentPending,
			Plan:                     domain.PlanFree,
			Documents:                []string{},
			TermsAcceptedAt:          now,
			DataProcessingAcceptedAt: now,
		}
		if err := repos.Agents.Create(ctx, &res.Agent); err != nil {
			return fmt.Errorf("create agent: %w", err)
		}
		return nil
	})
	if err != nil {
		metrics.Registrations.WithLabelValues(string(domain.RoleAgent), "error").Inc()
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.Outbox{}, ErrEmailAlreadyExists
		}
		return nil, domain.Outbox{}, fmt.Errorf("register agent: %w", err)
	}
	metrics.Registrations.WithLabelValues(string(domain.RoleAgent), "ok").Inc()

	return &res, s.agentOutbox(ctx, &res), nil
}

func (s *Service) agentOutbox(ctx context.Context, res *AgentResult) domain.Outbox {
	var box domain.Outbox
	box.Log(domain.ActivityLog{
		UserID:       domain.Ref(res.User.ID),
		ActivityType: domain.ActivityRegistration,
		Description:  fmt.Sprintf("New agent registration: %s", res.Agent.CompanyName),
		EntityType:   domain.EntityAgent,
		EntityID:     domain.Ref(res.Agent.ID),
		Metadata: map[string]any{
			"company_name":  res.Agent.CompanyName,
			"business_type": res.Agent.BusinessType,
			"email":         res.User.Email,
		},
	})

	admins, err := s.users.ListByRole(ctx, domain.RoleSuperAdmin)
	if err != nil {
		s.log.Warn().Err(err).Int64("agent_id", res.Agent.ID).Msg("cannot load admins for registration notice")
		return box
	}
	for _, admin := range admins {
		box.Notify(domain.Notification{
			RecipientID: admin.ID,
			SenderID:    domain.Ref(res.User.ID),
			Title:       "New agent registration",
			Message:     fmt.Sprintf("%s has registered and is awaiting approval.", res.Agent.CompanyName),
			RelatedType: domain.EntityAgent,
			RelatedID:   domain.Ref(res.Agent.ID),
			ActionURL:   fmt.Sprintf("/admin/agents/%d", res.Agent.ID),
		})
	}
	return box
}

// RegisterCustomer creates identity and customer user atomically. No admin notice is sent.
func (s *Service) RegisterCustomer(ctx context.Context, req CustomerRequest) (*domain.User, domain.Outbox, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if fields := validator.Validate(&req); fields != nil {
		metrics.Registrations.WithLabelValues(string(domain.RoleCustomer), "invalid").Inc()
		return nil, domain.Outbox{}, &ValidationError{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, domain.Outbox{}, fmt.Errorf("hash password: %w", err)
	}

	var user domain.User
	err = s.tx.Run(ctx, func(repos repository.Repos) error {
		identity := domain.Identity{Email: req.Email, PasswordHash: string(hash)}
		if err := repos.Identities.Create(ctx, &identity); err != nil {
			return err
		}
		user = domain.User{
			IdentityID: identity.ID,
			Email:      req.Email,
			Name:       req.Name,
			Role:       domain.RoleCustomer,
			Phone:      req.Phone,
		}
		return repos.Users.Create(ctx, &user)
	})
	if err != nil {
		metrics.Registrations.WithLabelValues(string(domain.RoleCustomer), "error").Inc()
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.Outbox{}, ErrEmailAlreadyExists
		}
		return nil, domain.Outbox{}, fmt.Errorf("register customer: %w", err)
	}
	metrics.Registrations.WithLabelValues(string(domain.RoleCustomer), "ok").Inc()

	var box domain.Outbox
	box.Log(domain.ActivityLog{
		UserID:       domain.Ref(user.ID),
		ActivityType: domain.ActivityRegistration,
		Description:  "New customer registration",
		EntityType:   domain.EntityUser,
		EntityID:     domain.Ref(user.ID),
	})
	return &user, box, nil
}
