package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"travelhub/internal/domain"
)

var ErrUnknownEntity = errors.New("unknown export entity")

const (
	EntityAgents   = "agents"
	EntityPackages = "packages"
	EntityBookings = "bookings"
)

var (
	agentColumns   = []string{"id", "company_name", "business_type", "contact_email", "status", "plan", "created_at"}
	packageColumns = []string{"id", "agent_id", "title", "slug", "price", "duration_days", "status", "publish_status"}
	bookingColumns = []string{"booking_id", "package_id", "customer_id", "agent_id", "travel_date", "travelers", "amount", "status"}
)

type AgentSource interface {
	All(ctx context.Context) ([]domain.Agent, error)
}

type PackageSource interface {
	All(ctx context.Context) ([]domain.TravelPackage, error)
}

type BookingSource interface {
	All(ctx context.Context) ([]domain.Booking, error)
}

type Service struct {
	agents   AgentSource
	packages PackageSource
	bookings BookingSource
	now      func() time.Time
}

func NewService(agents AgentSource, packages PackageSource, bookings BookingSource) *Service {
	return &Service{agents: agents, packages: packages, bookings: bookings, now: time.Now}
}

// Filename is the attachment name offered to the browser.
func (s *Service) Filename(entity string) string {
	return fmt.Sprintf("%s-%s.csv", entity, s.now().UTC().Format("20060102"))
}

// Export writes one header row plus one row per record. Quoting follows RFC 4180.
func (s *Service) Export(ctx context.Context, actor domain.Actor, entity string, w io.Writer) (int, domain.Outbox, error) {
	if !actor.IsAdmin() {
		return 0, domain.Outbox{}, domain.ErrForbidden
	}

	var (
		header []string
		rows   [][]string
	)
	switch entity {
	case EntityAgents:
		items, err := s.agents.All(ctx)
		if err != nil {
			return 0, domain.Outbox{}, fmt.Errorf("load agents: %w", err)
		}
		header = agentColumns
		for _, a := range items {
			rows = append(rows, []string{
				id(a.ID), a.CompanyName, a.BusinessType, a.ContactEmail,
				string(a.Status), string(a.Plan), a.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
	case EntityPackages:
		items, err := s.packages.All(ctx)
		if err != nil {
			return 0, domain.Outbox{}, fmt.Errorf("load packages: %w", err)
		}
		header = packageColumns
		for _, p := range items {
			rows = append(rows, []string{
				id(p.ID), id(p.AgentID), p.Title, p.Slug, p.Price.StringFixed(2),
				strconv.Itoa(p.DurationDays), string(p.Status), string(p.PublishStatus),
			})
		}
	case EntityBookings:
		items, err := s.bookings.All(ctx)
		if err != nil {
			return 0, domain.Outbox{}, fmt.Errorf("load bookings: %w", err)
		}
		header = bookingColumns
		for _, b := range items {
			rows = append(rows, []string{
				b.BookingID, id(b.PackageID), id(b.CustomerID), id(b.AgentID),
				b.TravelDate.UTC().Format("2006-01-02"), strconv.Itoa(b.Travelers),
				b.Amount.StringFixed(2), string(b.Status),
			})
		}
	default:
		return 0, domain.Outbox{}, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return 0, domain.Outbox{}, err
	}
	if err := cw.WriteAll(rows); err != nil {
		return 0, domain.Outbox{}, err
	}

	var box domain.Outbox
	box.Log(domain.ActivityLog{
		UserID:       actor.UserRef(),
		ActivityType: domain.ActivityDataExported,
		Description:  fmt.Sprintf("Exported %d %s", len(rows), entity),
		Metadata:     map[string]any{"entity": entity, "rows": len(rows)},
	})
	return len(rows), box, nil
}

func id(v int64) string { return strconv.FormatInt(v, 10) }
