package moderation

import (
	"context"
	"fmt"
	"time"

	"travelhub/internal/domain"
	"travelhub/internal/repository"
)

func (s *Service) ListAgents(ctx context.Context, actor domain.Actor, status domain.AgentStatus, page, limit int) (*PageResult[domain.Agent], error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	p := repository.Page{Page: page, Limit: limit}.Normalize()
	items, total, err := s.agents.List(ctx, repository.AgentFilter{Status: status, Page: p})
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	return &PageResult[domain.Agent]{Items: items, Total: total, Page: p.Page, Limit: p.Limit}, nil
}

func (s *Service) ListPackages(ctx context.Context, actor domain.Actor, status domain.PackageStatus, page, limit int) (*PageResult[domain.TravelPackage], error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	p := repository.Page{Page: page, Limit: limit}.Normalize()
	items, total, err := s.packages.List(ctx, repository.PackageFilter{Status: status, Page: p})
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	return &PageResult[domain.TravelPackage]{Items: items, Total: total, Page: p.Page, Limit: p.Limit}, nil
}

func (s *Service) ListUsers(ctx context.Context, actor domain.Actor, role domain.UserRole, query string, page, limit int) (*PageResult[domain.User], error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	p := repository.Page{Page: page, Limit: limit}.Normalize()
	items, total, err := s.users.List(ctx, repository.UserFilter{Role: role, Query: query, Page: p})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &PageResult[domain.User]{Items: items, Total: total, Page: p.Page, Limit: p.Limit}, nil
}

// ListActivity returns the audit trail, newest first.
func (s *Service) ListActivity(ctx context.Context, actor domain.Actor, f repository.ActivityFilter) (*PageResult[domain.ActivityLog], error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	f.Page = f.Page.Normalize()
	items, total, err := s.activities.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return &PageResult[domain.ActivityLog]{Items: items, Total: total, Page: f.Page.Page, Limit: f.Page.Limit}, nil
}

// Stats собирает счётчики для дашборда администратора. "Сегодня" считается по UTC.
func (s *Service) Stats(ctx context.Context, actor domain.Actor) (*Stats, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	var (
		st  Stats
		err error
	)
	if st.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if st.TotalAgents, err = s.agents.Count(ctx); err != nil {
		return nil, fmt.Errorf("count agents: %w", err)
	}
	if st.PendingAgents, err = s.agents.CountByStatus(ctx, domain.AgentPending); err != nil {
		return nil, fmt.Errorf("count pending agents: %w", err)
	}
	if st.ApprovedAgents, err = s.agents.CountByStatus(ctx, domain.AgentApproved); err != nil {
		return nil, fmt.Errorf("count approved agents: %w", err)
	}
	if st.TotalPackages, err = s.packages.Count(ctx); err != nil {
		return nil, fmt.Errorf("count packages: %w", err)
	}
	if st.PendingPackages, err = s.packages.CountByStatus(ctx, domain.PackagePending); err != nil {
		return nil, fmt.Errorf("count pending packages: %w", err)
	}
	if st.TotalBookings, err = s.bookings.Count(ctx); err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	now := s.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if st.BookingsToday, err = s.bookings.CountCreatedSince(ctx, midnight); err != nil {
		return nil, fmt.Errorf("count bookings today: %w", err)
	}
	if st.Revenue, err = s.bookings.Revenue(ctx); err != nil {
		return nil, fmt.Errorf("revenue: %w", err)
	}
	return &st, nil
}
