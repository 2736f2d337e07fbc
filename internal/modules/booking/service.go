package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"travelhub/internal/domain"
	"travelhub/internal/pkg/validator"
	"travelhub/internal/repository"
)

const dateLayout = "2006-01-02"

type Service struct {
	bookings BookingRepository
	packages PackageRepository
	agents   AgentRepository
	log      zerolog.Logger
	now      func() time.Time
	newCode  func() string
}

func NewService(bookings BookingRepository, packages PackageRepository, agents AgentRepository, log zerolog.Logger) *Service {
	return &Service{
		bookings: bookings,
		packages: packages,
		agents:   agents,
		log:      log,
		now:      time.Now,
		newCode:  NewBookingCode,
	}
}

// NewBookingCode returns a public booking reference such as BK-3F9A1C07.
func NewBookingCode() string {
	return "BK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *Service) CreateBooking(ctx context.Context, actor domain.Actor, req CreateBookingRequest) (*domain.Booking, domain.Outbox, error) {
	if actor.Role != domain.RoleCustomer {
		return nil, domain.Outbox{}, domain.ErrForbidden
	}
	if fields := validator.Validate(&req); fields != nil {
		return nil, domain.Outbox{}, fmt.Errorf("%w: %s", ErrValidation, strings.Join(validator.Fields(fields), ", "))
	}

	travelDate, err := time.Parse(dateLayout, req.TravelDate)
	if err != nil {
		return nil, domain.Outbox{}, fmt.Errorf("%w: travel_date", ErrValidation)
	}
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !travelDate.After(today) {
		return nil, domain.Outbox{}, ErrTravelDatePast
	}

	pkg, err := s.packages.GetByID(ctx, req.PackageID)
	if err != nil {
		return nil, domain.Outbox{}, err
	}
	if !pkg.Bookable() {
		return nil, domain.Outbox{}, ErrNotBookable
	}
	agent, err := s.agents.GetByID(ctx, pkg.AgentID)
	if err != nil {
		return nil, domain.Outbox{}, fmt.Errorf("load agent: %w", err)
	}
	if agent.Status != domain.AgentApproved {
		return nil, domain.Outbox{}, ErrNotBookable
	}

	b := &domain.Booking{
		PackageID:       pkg.ID,
		CustomerID:      actor.UserID,
		AgentID:         pkg.AgentID,
		TravelDate:      travelDate,
		Travelers:       req.Travelers,
		Amount:          pkg.Price.Mul(decimal.NewFromInt(int64(req.Travelers))).Round(2),
		Status:          domain.BookingPending,
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
	}
	// booking codes are random; a collision just draws again
	for attempt := 0; ; attempt++ {
		b.BookingID = s.newCode()
		err = s.bookings.Create(ctx, b)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicate) || attempt >= 3 {
			return nil, domain.Outbox{}, fmt.Errorf("create booking: %w", err)
		}
	}

	var box domain.Outbox
	box.Log(domain.ActivityLog{
		UserID:       actor.UserRef(),
		ActivityType: domain.ActivityBookingCreated,
		Description:  fmt.Sprintf("Booking %s for %q", b.BookingID, pkg.Title),
		EntityType:   domain.EntityBooking,
		EntityID:     domain.Ref(b.ID),
		Metadata: map[string]any{
			"package_id": pkg.ID,
			"travelers":  b.Travelers,
			"amount":     b.Amount.StringFixed(2),
		},
	})
	box.Notify(domain.Notification{
		RecipientID: agent.UserID,
		SenderID:    actor.UserRef(),
		Title:       "New booking request",
		Message:     fmt.Sprintf("%s: %d traveler(s) for %q on %s.", b.BookingID, b.Travelers, pkg.Title, req.TravelDate),
		RelatedType: domain.EntityBooking,
		RelatedID:   domain.Ref(b.ID),
		ActionURL:   "/agent/bookings",
	})

	s.log.Info().Str("booking_id", b.BookingID).Int64("package_id", pkg.ID).Int64("customer_id", actor.UserID).Msg("booking created")
	return b, box, nil
}

func (s *Service) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Booking, error) {
	if actor.Role != domain.RoleCustomer {
		return nil, domain.ErrForbidden
	}
	return s.bookings.ListByCustomer(ctx, actor.UserID)
}

func (s *Service) ListForAgent(ctx context.Context, actor domain.Actor, status domain.BookingStatus) ([]domain.Booking, error) {
	agent, err := s.actorAgent(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.bookings.ListByAgent(ctx, agent.ID, status)
}

// UpdateStatus applies confirm/cancel/complete on a booking of the agent's own package.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Actor, bookingID int64, action domain.BookingAction) (*domain.Booking, domain.Outbox, error) {
	agent, err := s.actorAgent(ctx, actor)
	if err != nil {
		return nil, domain.Outbox{}, err
	}
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, domain.Outbox{}, err
	}
	if b.AgentID != agent.ID {
		return nil, domain.Outbox{}, domain.ErrForbidden
	}
	return s.apply(ctx, actor, b, action, b.CustomerID)
}

// Cancel lets a customer withdraw a booking that the agent has not confirmed yet.
func (s *Service) Cancel(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, domain.Outbox, error) {
	if actor.Role != domain.RoleCustomer {
		return nil, domain.Outbox{}, domain.ErrForbidden
	}
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, domain.Outbox{}, err
	}
	if b.CustomerID != actor.UserID {
		return nil, domain.Outbox{}, domain.ErrForbidden
	}
	if b.Status != domain.BookingPending && b.Status != domain.BookingCancelled {
		return nil, domain.Outbox{}, &domain.TransitionError{Entity: domain.EntityBooking, ID: b.ID, From: string(b.Status), Action: string(domain.BookingCancel)}
	}

	agent, err := s.agents.GetByID(ctx, b.AgentID)
	if err != nil {
		return nil, domain.Outbox{}, fmt.Errorf("load agent: %w", err)
	}
	return s.apply(ctx, actor, b, domain.BookingCancel, agent.UserID)
}

func (s *Service) apply(ctx context.Context, actor domain.Actor, b *domain.Booking, action domain.BookingAction, notify int64) (*domain.Booking, domain.Outbox, error) {
	prev := b.Status
	next, noop, err := domain.NextBookingStatus(b.Status, action)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownAction) {
			return nil, domain.Outbox{}, fmt.Errorf("%w: %q", err, action)
		}
		return nil, domain.Outbox{}, &domain.TransitionError{Entity: domain.EntityBooking, ID: b.ID, From: string(b.Status), Action: string(action)}
	}
	if noop {
		return b, domain.Outbox{}, nil
	}
	if err := s.bookings.UpdateStatus(ctx, b.ID, next); err != nil {
		return nil, domain.Outbox{}, fmt.Errorf("update booking status: %w", err)
	}
	b.Status = next

	var box domain.Outbox
	box.Log(domain.ActivityLog{
		UserID:       actor.UserRef(),
		ActivityType: domain.ActivityBookingStatusChanged,
		Description:  fmt.Sprintf("Booking %s %s", b.BookingID, next),
		EntityType:   domain.EntityBooking,
		EntityID:     domain.Ref(b.ID),
		Metadata:     map[string]any{"from": string(prev), "to": string(next)},
	})
	url := "/bookings/my"
	if notify != b.CustomerID {
		url = "/agent/bookings"
	}
	box.Notify(domain.Notification{
		RecipientID: notify,
		SenderID:    actor.UserRef(),
		Title:       fmt.Sprintf("Booking %s", next),
		Message:     fmt.Sprintf("Booking %s is now %s.", b.BookingID, next),
		RelatedType: domain.EntityBooking,
		RelatedID:   domain.Ref(b.ID),
		ActionURL:   url,
	})
	return b, box, nil
}

func (s *Service) actorAgent(ctx context.Context, actor domain.Actor) (*domain.Agent, error) {
	if actor.Role != domain.RoleAgent {
		return nil, domain.ErrForbidden
	}
	agent, err := s.agents.GetByUserID(ctx, actor.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrForbidden
	}
	return agent, err
}
