package moderation

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"travelhub/internal/domain"
	"travelhub/internal/pkg/metrics"
	"travelhub/internal/repository"
)

type Service struct {
	tx         TxRunner
	agents     AgentReader
	packages   PackageReader
	users      UserReader
	bookings   BookingStatsReader
	activities ActivityReader
	log        zerolog.Logger
	now        func() time.Time
}

func NewService(tx TxRunner, agents AgentReader, packages PackageReader, users UserReader, bookings BookingStatsReader, activities ActivityReader, log zerolog.Logger) *Service {
	return &Service{
		tx:         tx,
		agents:     agents,
		packages:   packages,
		users:      users,
		bookings:   bookings,
		activities: activities,
		log:        log,
		now:        time.Now,
	}
}

func requireAdmin(actor domain.Actor) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

// ModerateAgent applies approve/reject/suspend or a plan step. Re-applying the current
// status is a no-op and produces an empty outbox.
func (s *Service) ModerateAgent(ctx context.Context, actor domain.Actor, agentID int64, action domain.AgentAction, reason string) (*domain.Agent, domain.Outbox, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, domain.Outbox{}, err
	}
	if !action.Valid() {
		return nil, domain.Outbox{}, fmt.Errorf("%w: %q", domain.ErrUnknownAction, action)
	}
	reason = strings.TrimSpace(reason)
	if action == domain.AgentReject && reason == "" {
		return nil, domain.Outbox{}, domain.ErrReasonRequired
	}

	var (
		agent *domain.Agent
		box   domain.Outbox
	)
	err := s.tx.Run(ctx, func(repos repository.Repos) error {
		a, err := repos.Agents.GetByID(ctx, agentID)
		if err != nil {
			return err
		}
		agent = a
		now := s.now().UTC()

		if action.ChangesPlan() {
			prev := a.Plan
			next, err := domain.NextPlan(a.Status, a.Plan, action)
			if err != nil {
				return &domain.TransitionError{Entity: domain.EntityAgent, ID: a.ID, From: fmt.Sprintf("%s/%s", a.Status, a.Plan), Action: string(action)}
			}
			a.Plan = next
			if err := repos.Agents.Update(ctx, a); err != nil {
				return err
			}
			box = planChangedOutbox(actor, a, prev)
			return nil
		}

		prev := a.Status
		next, noop, err := domain.NextAgentStatus(a.Status, action)
		if err != nil {
			return &domain.TransitionError{Entity: domain.EntityAgent, ID: a.ID, From: string(a.Status), Action: string(action)}
		}
		if noop {
			return nil
		}

		a.Status = next
		switch action {
		case domain.AgentApprove:
			a.ApprovedBy = actor.UserRef()
			a.ApprovedAt = &now
			a.RejectionReason = ""
			a.SuspensionReason = ""
		case domain.AgentReject:
			a.RejectionReason = reason
		case domain.AgentSuspend:
			a.SuspensionReason = reason
		}
		if err := repos.Agents.Update(ctx, a); err != nil {
			return err
		}
		box = agentStatusOutbox(actor, a, prev, action, reason)
		return nil
	})
	if err != nil {
		return nil, domain.Outbox{}, err
	}

	if !box.Empty() {
		metrics.ModerationActions.WithLabelValues(domain.EntityAgent, string(action)).Inc()
		s.log.Info().
			Int64("admin_id", actor.UserID).
			Int64("agent_id", agent.ID).
			Str("action", string(action)).
			Str("status", string(agent.Status)).
			Str("plan", string(agent.Plan)).
			Msg("agent moderated")
	}
	return agent, box, nil
}

var agentActivity = map[domain.AgentAction]domain.ActivityType{
	domain.AgentApprove: domain.ActivityAgentApproved,
	domain.AgentReject:  domain.ActivityAgentRejected,
	domain.AgentSuspend: domain.ActivityAgentSuspended,
}

func agentStatusOutbox(actor domain.Actor, a *domain.Agent, prev domain.AgentStatus, action domain.AgentAction, reason string) domain.Outbox {
	var box domain.Outbox
	meta := map[string]any{"from": string(prev), "to": string(a.Status)}
	if reason != "" {
		meta["reason"] = reason
	}
	box.Log(domain.ActivityLog{
		UserID:       actor.UserRef(),
		ActivityType: agentActivity[action],
		Description:  fmt.Sprintf("Agent %s %s", a.CompanyName, a.Status),
		EntityType:   domain.EntityAgent,
		EntityID:     domain.Ref(a.ID),
		Metadata:     meta,
	})

	var title, message, url string
	switch action {
	case domain.AgentApprove:
		title = "Your agent account has been approved"
		message = "You can now create travel packages and submit them for review."
		url = "/agent/dashboard"
	case domain.AgentReject:
		title = "Your agent application was rejected"
		message = "Reason: " + reason
		url = "/agent/profile"
	case domain.AgentSuspend:
		title = "Your agent account has been suspended"
		message = "Your packages are hidden until the account is reinstated."
		if reason != "" {
			message += " Reason: " + reason
		}
		url = "/agent/profile"
	}
	box.Notify(domain.Notification{
		RecipientID: a.UserID,
		SenderID:    actor.UserRef(),
		Title:       title,
		Message:     message,
		RelatedType: domain.EntityAgent,
		RelatedID:   domain.Ref(a.ID),
		ActionURL:   url,
	})
	return box
}

func planChangedOutbox(actor domain.Actor, a *domain.Agent, prev domain.PlanID) domain.Outbox {
	var box domain.Outbox
	box.Log(domain.ActivityLog{
		UserID:       actor.UserRef(),
		ActivityType: domain.ActivityPlanChanged,
		Description:  fmt.Sprintf("Agent %s plan %s -> %s", a.CompanyName, prev, a.Plan),
		EntityType:   domain.EntityAgent,
		EntityID:     domain.Ref(a.ID),
		Metadata:     map[string]any{"from": string(prev), "to": string(a.Plan)},
	})
	plan, _ := domain.PlanByID(a.Plan)
	box.Notify(domain.Notification{
		RecipientID: a.UserID,
		SenderID:    actor.UserRef(),
		Title:       "Your subscription plan has changed",
		Message:     fmt.Sprintf("You are now on the %s plan.", plan.Name),
		RelatedType: domain.EntityAgent,
		RelatedID:   domain.Ref(a.ID),
		ActionURL:   "/agent/profile",
	})
	return box
}

func checkPackageAction(actor domain.Actor, action domain.PackageAction, reason string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if !action.Valid() || !action.AdminOnly() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownAction, action)
	}
	if action == domain.PackageReject && reason == "" {
		return domain.ErrReasonRequired
	}
	return nil
}

// ModeratePackage applies approve/reject/publish/unpublish to one package.
func (s *Service) ModeratePackage(ctx context.Context, actor domain.Actor, packageID int64, action domain.PackageAction, reason string) (*domain.TravelPackage, domain.Outbox, error) {
	reason = strings.TrimSpace(reason)
	if err := checkPackageAction(actor, action, reason); err != nil {
		return nil, domain.Outbox{}, err
	}

	var (
		pkg *domain.TravelPackage
		box domain.Outbox
	)
	err := s.tx.Run(ctx, func(repos repository.Repos) error {
		p, err := repos.Packages.GetByID(ctx, packageID)
		if err != nil {
			return err
		}
		pkg = p
		next, noop, err := planPackage(p, action)
		if err != nil || noop {
			return err
		}
		box, err = s.applyPackage(ctx, repos, actor, p, next, action, reason, map[int64]*domain.Agent{})
		return err
	})
	if err != nil {
		return nil, domain.Outbox{}, err
	}
	if !box.Empty() {
		metrics.ModerationActions.WithLabelValues(domain.EntityPackage, string(action)).Inc()
	}
	return pkg, box, nil
}

// BulkModeratePackages applies one action to exactly the selected packages inside one
// transaction. Every member is checked before anything is written: a missing id or a
// refused transition aborts the whole batch.
func (s *Service) BulkModeratePackages(ctx context.Context, actor domain.Actor, ids []int64, action domain.PackageAction, reason string) (*BulkResult, domain.Outbox, error) {
	reason = strings.TrimSpace(reason)
	if err := checkPackageAction(actor, action, reason); err != nil {
		return nil, domain.Outbox{}, err
	}
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, domain.Outbox{}, ErrEmptySelection
	}

	res := &BulkResult{Updated: []int64{}, Skipped: []int64{}}
	var box domain.Outbox
	err := s.tx.Run(ctx, func(repos repository.Repos) error {
		pkgs, err := repos.Packages.GetByIDsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		if len(pkgs) != len(ids) {
			return fmt.Errorf("%w: package %d", domain.ErrNotFound, firstMissing(ids, pkgs))
		}

		nexts := make([]domain.PackageState, len(pkgs))
		noops := make([]bool, len(pkgs))
		for i := range pkgs {
			nexts[i], noops[i], err = planPackage(&pkgs[i], action)
			if err != nil {
				return err
			}
		}

		agents := map[int64]*domain.Agent{}
		for i := range pkgs {
			if noops[i] {
				res.Skipped = append(res.Skipped, pkgs[i].ID)
				continue
			}
			out, err := s.applyPackage(ctx, repos, actor, &pkgs[i], nexts[i], action, reason, agents)
			if err != nil {
				return err
			}
			box.Merge(out)
			res.Updated = append(res.Updated, pkgs[i].ID)
		}
		return nil
	})
	if err != nil {
		return nil, domain.Outbox{}, err
	}

	metrics.ModerationActions.WithLabelValues(domain.EntityPackage, string(action)).Add(float64(len(res.Updated)))
	s.log.Info().
		Int64("admin_id", actor.UserID).
		Str("action", string(action)).
		Ints64("updated", res.Updated).
		Ints64("skipped", res.Skipped).
		Msg("bulk package moderation")
	return res, box, nil
}

func planPackage(p *domain.TravelPackage, action domain.PackageAction) (domain.PackageState, bool, error) {
	cur := domain.PackageState{Status: p.Status, Publish: p.PublishStatus}
	next, noop, err := domain.NextPackageState(cur, action)
	if err != nil {
		return cur, false, &domain.TransitionError{
			Entity: domain.EntityPackage,
			ID:     p.ID,
			From:   fmt.Sprintf("%s/%s", p.Status, p.PublishStatus),
			Action: string(action),
		}
	}
	return next, noop, nil
}

var packageActivity = map[domain.PackageAction]domain.ActivityType{
	domain.PackageApprove:   domain.ActivityPackageApproved,
	domain.PackageReject:    domain.ActivityPackageRejected,
	domain.PackagePublish:   domain.ActivityPackagePublished,
	domain.PackageUnpublish: domain.ActivityPackageUnpublished,
}

func (s *Service) applyPackage(ctx context.Context, repos repository.Repos, actor domain.Actor, p *domain.TravelPackage, next domain.PackageState, action domain.PackageAction, reason string, agents map[int64]*domain.Agent) (domain.Outbox, error) {
	prev := domain.PackageState{Status: p.Status, Publish: p.PublishStatus}
	p.Status = next.Status
	p.PublishStatus = next.Publish

	now := s.now().UTC()
	switch action {
	case domain.PackageApprove:
		p.RejectionReason = ""
		p.ReviewedBy = actor.UserRef()
		p.ReviewedAt = &now
	case domain.PackageReject:
		p.RejectionReason = reason
		p.ReviewedBy = actor.UserRef()
		p.ReviewedAt = &now
	}
	if err := repos.Packages.Update(ctx, p); err != nil {
		return domain.Outbox{}, err
	}

	agent, ok := agents[p.AgentID]
	if !ok {
		a, err := repos.Agents.GetByID(ctx, p.AgentID)
		if err != nil {
			return domain.Outbox{}, fmt.Errorf("load owner of package %d: %w", p.ID, err)
		}
		agent = a
		agents[p.AgentID] = a
	}

	var box domain.Outbox
	meta := map[string]any{
		"from_status":  string(prev.Status),
		"to_status":    string(p.Status),
		"from_publish": string(prev.Publish),
		"to_publish":   string(p.PublishStatus),
	}
	if reason != "" {
		meta["reason"] = reason
	}
	box.Log(domain.ActivityLog{
		UserID:       actor.UserRef(),
		ActivityType: packageActivity[action],
		Description:  fmt.Sprintf("Package %q %sd", p.Title, action),
		EntityType:   domain.EntityPackage,
		EntityID:     domain.Ref(p.ID),
		Metadata:     meta,
	})

	msg := fmt.Sprintf("Your package %q is now %s.", p.Title, describePackage(p))
	if action == domain.PackageReject {
		msg += " Reason: " + reason
	}
	box.Notify(domain.Notification{
		RecipientID: agent.UserID,
		SenderID:    actor.UserRef(),
		Title:       packageTitle(action),
		Message:     msg,
		RelatedType: domain.EntityPackage,
		RelatedID:   domain.Ref(p.ID),
		ActionURL:   fmt.Sprintf("/agent/packages/%d", p.ID),
	})
	return box, nil
}

func packageTitle(action domain.PackageAction) string {
	switch action {
	case domain.PackageApprove:
		return "Package approved"
	case domain.PackageReject:
		return "Package rejected"
	case domain.PackagePublish:
		return "Package published"
	default:
		return "Package unpublished"
	}
}

func describePackage(p *domain.TravelPackage) string {
	if p.Status == domain.PackageApproved {
		return string(p.PublishStatus)
	}
	return string(p.Status)
}

func dedupe(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func firstMissing(ids []int64, found []domain.TravelPackage) int64 {
	for _, id := range ids {
		if !slices.ContainsFunc(found, func(p domain.TravelPackage) bool { return p.ID == id }) {
			return id
		}
	}
	return 0
}
