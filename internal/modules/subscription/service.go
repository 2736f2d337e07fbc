package subscription

import (
	"context"
	"errors"
	"fmt"

	"travelhub/internal/domain"
)

type AgentLookup interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Agent, error)
}

type PackageCounter interface {
	CountActiveByAgent(ctx context.Context, agentID int64) (int64, error)
}

// Usage reports how many plan slots an agent occupies. Remaining is -1 for unlimited plans.
type Usage struct {
	Packages  int64 `json:"packages"`
	Limit     int   `json:"limit"`
	Remaining int64 `json:"remaining"`
}

type Profile struct {
	Agent *domain.Agent `json:"agent"`
	Plan  domain.Plan   `json:"plan"`
	Usage Usage         `json:"usage"`
}

type Service struct {
	agents   AgentLookup
	packages PackageCounter
}

func NewService(agents AgentLookup, packages PackageCounter) *Service {
	return &Service{agents: agents, packages: packages}
}

func (s *Service) Plans() []domain.Plan {
	out := make([]domain.Plan, len(domain.Plans))
	copy(out, domain.Plans)
	return out
}

// Profile returns the caller's agent account together with its plan and usage.
func (s *Service) Profile(ctx context.Context, actor domain.Actor) (*Profile, error) {
	if actor.Role != domain.RoleAgent {
		return nil, domain.ErrForbidden
	}
	agent, err := s.agents.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}

	plan, ok := domain.PlanByID(agent.Plan)
	if !ok {
		plan = domain.Plans[0]
	}
	count, err := s.packages.CountActiveByAgent(ctx, agent.ID)
	if err != nil {
		return nil, fmt.Errorf("count packages: %w", err)
	}

	usage := Usage{Packages: count, Limit: plan.MaxPackages, Remaining: -1}
	if plan.MaxPackages >= 0 {
		usage.Remaining = max(int64(plan.MaxPackages)-count, 0)
	}
	return &Profile{Agent: agent, Plan: plan, Usage: usage}, nil
}
