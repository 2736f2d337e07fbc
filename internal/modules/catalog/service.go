package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"travelhub/internal/domain"
	"travelhub/internal/pkg/validator"
	"travelhub/internal/repository"
)

type Service struct {
	agents   AgentLookup
	packages PackageRepositoryInterface
	admins   AdminLister
	log      zerolog.Logger
}

func NewService(agents AgentLookup, packages PackageRepositoryInterface, admins AdminLister, log zerolog.Logger) *Service {
	return &Service{agents: agents, packages: packages, admins: admins, log: log}
}

// approvedAgent resolves the actor's agent account. Only approved agents manage packages.
func (s *Service) approvedAgent(ctx context.Context, actor domain.Actor) (*domain.Agent, error) {
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
	if agent.Status != domain.AgentApproved {
		return nil, ErrAgentNotApproved
	}
	return agent, nil
}

func (s *Service) ownPackage(ctx context.Context, agent *domain.Agent, id int64) (*domain.TravelPackage, error) {
	p, err := s.packages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.AgentID != agent.ID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func validatePrice(fields map[string]string, price decimal.Decimal) map[string]string {
	if price.IsPositive() {
		return fields
	}
	if fields == nil {
		fields = map[string]string{}
	}
	fields["price"] = "gt"
	return fields
}

func (s *Service) CreatePackage(ctx context.Context, actor domain.Actor, req CreatePackageRequest) (*domain.TravelPackage, domain.Outbox, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Destination = strings.TrimSpace(req.Destination)
	if fields := validatePrice(validator.Validate(&req), req.Price); fields != nil {
		return nil, domain.Outbox{}, &ValidationError{Fields: fields}
	}

	agent, err := s.approvedAgent(ctx, actor)
	if err != nil {
		return nil, domain.Outbox{}, err
	}

	count, err := s.packages.CountActiveByAgent(ctx, agent.ID)
	if err != nil {
		return nil, domain.Outbox{}, fmt.Errorf("count packages: %w", err)
	}
	plan, _ := domain.PlanByID(agent.Plan)
	if !plan.AllowsPackages(count) {
		return nil, domain.Outbox{}, fmt.Errorf("%w: %s plan allows %d packages", domain.ErrPlanLimit, plan.Name, plan.MaxPackages)
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "USD"
	}
	p := &domain.TravelPackage{
		AgentID:       agent.ID,
		Title:         req.Title,
		Description:   strings.TrimSpace(req.Description),
		Destination:   req.Destination,
		Price:         req.Price.Round(2),
		Currency:      currency,
		DurationDays:  req.DurationDays,
		Status:        domain.PackageDraft,
		PublishStatus: domain.PublishDraft,
	}

	// SlugExists and Create race with concurrent creators; retry past a taken slug.
	base := Slugify(req.Title)
	next := 1
	for attempt := 0; ; attempt++ {
		slug, err := s.uniqueSlug(ctx, base, next)
		if err != nil {
			return nil, domain.Outbox{}, err
		}
		p.Slug = slug
		err = s.packages.Create(ctx, p)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicate) || attempt >= 3 {
			return nil, domain.Outbox{}, fmt.Errorf("create package: %w", err)
		}
		next++
	}

	var box domain.Outbox
	box.Log(domain.ActivityLog{
		UserID:       actor.UserRef(),
		ActivityType: domain.ActivityPackageCreated,
		Description:  fmt.Sprintf("Package %q created", p.Title),
		EntityType:   domain.EntityPackage,
		EntityID:     domain.Ref(p.ID),
		Metadata:     map[string]any{"slug": p.Slug, "agent_id": agent.ID},
	})
	return p, box, nil
}

func (s *Service) UpdatePackage(ctx context.Context, actor domain.Actor, id int64, req UpdatePackageRequest) (*domain.TravelPackage, domain.Outbox, error) {
	trimPtr(req.Title)
	trimPtr(req.Description)
	trimPtr(req.Destination)
	fields := validator.Validate(&req)
	fields = requireNonBlank(fields, "title", req.Title)
	fields = requireNonBlank(fields, "destination", req.Destination)
	if req.Price != nil {
		fields = validatePrice(fields, *req.Price)
	}
	if fields != nil {
		return nil, domain.Outbox{}, &ValidationError{Fields: fields}
	}

	agent, err := s.approvedAgent(ctx, actor)
	if err != nil {
		return nil, domain.Outbox{}, err
	}
	p, err := s.ownPackage(ctx, agent, id)
	if err != nil {
		return nil, domain.Outbox{}, err
	}
	if p.Status != domain.PackageDraft && p.Status != domain.PackageRejected {
		return nil, domain.Outbox{}, ErrNotEditable
	}

	var changed []string
	if req.Title != nil {
		p.Title = *req.Title
		changed = append(changed, "title")
	}
	if req.Description != nil {
		p.Description = *req.Description
		changed = append(changed, "description")
	}
	if req.Destination != nil {
		p.Destination = *req.Destination
		changed = append(changed, "destination")
	}
	if req.Price != nil {
		p.Price = req.Price.Round(2)
		changed = append(changed, "price")
	}
	if req.Currency != nil {
		p.Currency = strings.ToUpper(*req.Currency)
		changed = append(changed, "currency")
	}
	if req.DurationDays != nil {
		p.DurationDays = *req.DurationDays
		changed = append(changed, "duration_days")
	}
	if len(changed) == 0 {
		return p, domain.Outbox{}, nil
	}

	if err := s.packages.Update(ctx, p); err != nil {
		return nil, domain.Outbox{}, fmt.Errorf("update package: %w", err)
	}

	var box domain.Outbox
	box.Log(domain.ActivityLog{
		UserID:       actor.UserRef(),
		ActivityType: domain.ActivityPackageUpdated,
		Description:  fmt.Sprintf("Package %q updated", p.Title),
		EntityType:   domain.EntityPackage,
		EntityID:     domain.Ref(p.ID),
		Metadata:     map[string]any{"fields": changed},
	})
	return p, box, nil
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// requireNonBlank flags a field that was sent but is empty once trimmed.
func requireNonBlank(fields map[string]string, name string, v *string) map[string]string {
	if v == nil || *v != "" {
		return fields
	}
	if fields == nil {
		fields = map[string]string{}
	}
	fields[name] = "required"
	return fields
}

// SubmitPackage sends a draft or rejected package to moderation and tells every super-admin.
func (s *Service) SubmitPackage(ctx context.Context, actor domain.Actor, id int64) (*domain.TravelPackage, domain.Outbox, error) {
	p, box, err := s.transition(ctx, actor, id, domain.PackageSubmit, domain.ActivityPackageSubmitted)
	if err != nil || box.Empty() {
		return p, box, err
	}

	admins, err := s.admins.ListByRole(ctx, domain.RoleSuperAdmin)
	if err != nil {
		s.log.Error().Err(err).Int64("package_id", p.ID).Msg("list admins for package review notice")
		return p, box, nil
	}
	for _, a := range admins {
		box.Notify(domain.Notification{
			RecipientID: a.ID,
			SenderID:    actor.UserRef(),
			Title:       "Package awaiting review",
			Message:     fmt.Sprintf("%q (%s) was submitted for review.", p.Title, p.Destination),
			RelatedType: domain.EntityPackage,
			RelatedID:   domain.Ref(p.ID),
			ActionURL:   fmt.Sprintf("/admin/packages/%d", p.ID),
		})
	}
	return p, box, nil
}

func (s *Service) ArchivePackage(ctx context.Context, actor domain.Actor, id int64) (*domain.TravelPackage, domain.Outbox, error) {
	return s.transition(ctx, actor, id, domain.PackageArchive, domain.ActivityPackageArchived)
}

func (s *Service) transition(ctx context.Context, actor domain.Actor, id int64, action domain.PackageAction, typ domain.ActivityType) (*domain.TravelPackage, domain.Outbox, error) {
	agent, err := s.approvedAgent(ctx, actor)
	if err != nil {
		return nil, domain.Outbox{}, err
	}
	p, err := s.ownPackage(ctx, agent, id)
	if err != nil {
		return nil, domain.Outbox{}, err
	}

	cur := domain.PackageState{Status: p.Status, Publish: p.PublishStatus}
	next, noop, err := domain.NextPackageState(cur, action)
	if err != nil {
		return nil, domain.Outbox{}, &domain.TransitionError{
			Entity: domain.EntityPackage,
			ID:     p.ID,
			From:   fmt.Sprintf("%s/%s", p.Status, p.PublishStatus),
			Action: string(action),
		}
	}
	if noop {
		return p, domain.Outbox{}, nil
	}

	p.Status, p.PublishStatus = next.Status, next.Publish
	if action == domain.PackageSubmit {
		p.RejectionReason = ""
	}
	if err := s.packages.Update(ctx, p); err != nil {
		return nil, domain.Outbox{}, fmt.Errorf("%s package: %w", action, err)
	}

	var box domain.Outbox
	box.Log(domain.ActivityLog{
		UserID:       actor.UserRef(),
		ActivityType: typ,
		Description:  fmt.Sprintf("Package %q %s", p.Title, p.Status),
		EntityType:   domain.EntityPackage,
		EntityID:     domain.Ref(p.ID),
		Metadata:     map[string]any{"from": string(cur.Status), "to": string(p.Status)},
	})
	return p, box, nil
}

// ListOwn returns every package of the caller's agent, archived included.
func (s *Service) ListOwn(ctx context.Context, actor domain.Actor) ([]domain.TravelPackage, error) {
	if actor.Role != domain.RoleAgent {
		return nil, domain.ErrForbidden
	}
	agent, err := s.agents.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return s.packages.ListByAgent(ctx, agent.ID)
}

// ListPublic lists bookable packages. Unparseable price bounds are a validation error.
func (s *Service) ListPublic(ctx context.Context, q PublicQuery) (*PackageList, error) {
	f := repository.PublicPackageFilter{
		Destination: strings.TrimSpace(q.Destination),
		Page:        repository.Page{Page: q.Page, Limit: q.Limit}.Normalize(),
	}
	fields := map[string]string{}
	if q.MinPrice != "" {
		d, err := decimal.NewFromString(q.MinPrice)
		if err != nil {
			fields["min_price"] = "decimal"
		} else {
			f.MinPrice = &d
		}
	}
	if q.MaxPrice != "" {
		d, err := decimal.NewFromString(q.MaxPrice)
		if err != nil {
			fields["max_price"] = "decimal"
		} else {
			f.MaxPrice = &d
		}
	}
	switch q.Sort {
	case "", repository.SortNewest, repository.SortPriceAsc, repository.SortPriceDesc:
		f.Sort = q.Sort
	default:
		fields["sort"] = "oneof"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	items, total, err := s.packages.ListPublic(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	return &PackageList{Items: items, Total: total, Page: f.Page.Page, Limit: f.Page.Limit}, nil
}

// GetBySlug returns a bookable package. Hidden packages look like missing ones.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.TravelPackage, error) {
	p, err := s.packages.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.Bookable() {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
