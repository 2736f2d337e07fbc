package booking

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"travelhub/internal/domain"
	"travelhub/internal/repository"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if args.Error(0) == nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockBookingRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByAgent(ctx context.Context, agentID int64, status domain.BookingStatus) ([]domain.Booking, error) {
	args := m.Called(ctx, agentID, status)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) GetByID(ctx context.Context, id int64) (*domain.TravelPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TravelPackage), args.Error(1)
}

type MockAgentRepository struct {
	mock.Mock
}

func (m *MockAgentRepository) GetByID(ctx context.Context, id int64) (*domain.Agent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agent), args.Error(1)
}

func (m *MockAgentRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Agent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agent), args.Error(1)
}

var (
	customer   = domain.Actor{UserID: 10, Role: domain.RoleCustomer}
	agentActor = domain.Actor{UserID: 20, Role: domain.RoleAgent}
	agent      = &domain.Agent{ID: 2, UserID: 20, Status: domain.AgentApproved}
	fixedNow   = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
)

func bookablePackage() *domain.TravelPackage {
	return &domain.TravelPackage{
		ID: 5, AgentID: 2, Title: "Bali", Slug: "bali",
		Price: decimal.RequireFromString("1250.50"), Currency: "USD", DurationDays: 7,
		Status: domain.PackageApproved, PublishStatus: domain.PublishPublished,
	}
}

func newService() (*Service, *MockBookingRepository, *MockPackageRepository, *MockAgentRepository) {
	bookings := new(MockBookingRepository)
	packages := new(MockPackageRepository)
	agents := new(MockAgentRepository)
	svc := NewService(bookings, packages, agents, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc, bookings, packages, agents
}

func TestNewBookingCode(t *testing.T) {
	code := NewBookingCode()
	assert.Regexp(t, `^BK-[0-9A-F]{8}$`, code)
}

func TestCreateBooking_Success(t *testing.T) {
	svc, bookings, packages, agents := newService()
	svc.newCode = func() string { return "BK-TEST0001" }
	ctx := context.Background()

	packages.On("GetByID", ctx, int64(5)).Return(bookablePackage(), nil)
	agents.On("GetByID", ctx, int64(2)).Return(agent, nil)
	bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)

	b, box, err := svc.CreateBooking(ctx, customer, CreateBookingRequest{PackageID: 5, TravelDate: "2026-07-15", Travelers: 3})
	require.NoError(t, err)
	assert.Equal(t, "BK-TEST0001", b.BookingID)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.True(t, decimal.RequireFromString("3751.50").Equal(b.Amount))
	assert.Equal(t, int64(2), b.AgentID)

	require.Len(t, box.Notifications, 1)
	assert.Equal(t, agent.UserID, box.Notifications[0].RecipientID)
	assert.Equal(t, domain.ActivityBookingCreated, box.Activities[0].ActivityType)
	bookings.AssertExpectations(t)
}

func TestCreateBooking_RetriesCodeCollision(t *testing.T) {
	svc, bookings, packages, agents := newService()
	codes := []string{"BK-AAAAAAAA", "BK-BBBBBBBB"}
	svc.newCode = func() string {
		c := codes[0]
		codes = codes[1:]
		return c
	}
	ctx := context.Background()

	packages.On("GetByID", ctx, int64(5)).Return(bookablePackage(), nil)
	agents.On("GetByID", ctx, int64(2)).Return(agent, nil)
	bookings.On("Create", ctx, mock.MatchedBy(func(b *domain.Booking) bool { return b.BookingID == "BK-AAAAAAAA" })).Return(repository.ErrDuplicate).Once()
	bookings.On("Create", ctx, mock.MatchedBy(func(b *domain.Booking) bool { return b.BookingID == "BK-BBBBBBBB" })).Return(nil).Once()

	b, _, err := svc.CreateBooking(ctx, customer, CreateBookingRequest{PackageID: 5, TravelDate: "2026-07-15", Travelers: 1})
	require.NoError(t, err)
	assert.Equal(t, "BK-BBBBBBBB", b.BookingID)
	bookings.AssertExpectations(t)
}

func TestCreateBooking_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("past date", func(t *testing.T) {
		svc, _, _, _ := newService()
		_, _, err := svc.CreateBooking(ctx, customer, CreateBookingRequest{PackageID: 5, TravelDate: "2026-06-01", Travelers: 1})
		assert.ErrorIs(t, err, ErrTravelDatePast)
	})

	t.Run("no travelers", func(t *testing.T) {
		svc, _, _, _ := newService()
		_, _, err := svc.CreateBooking(ctx, customer, CreateBookingRequest{PackageID: 5, TravelDate: "2026-07-01", Travelers: 0})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("bad date format", func(t *testing.T) {
		svc, _, _, _ := newService()
		_, _, err := svc.CreateBooking(ctx, customer, CreateBookingRequest{PackageID: 5, TravelDate: "15.07.2026", Travelers: 1})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("not a customer", func(t *testing.T) {
		svc, _, _, _ := newService()
		_, _, err := svc.CreateBooking(ctx, agentActor, CreateBookingRequest{PackageID: 5, TravelDate: "2026-07-01", Travelers: 1})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unpublished package", func(t *testing.T) {
		svc, bookings, packages, _ := newService()
		p := bookablePackage()
		p.PublishStatus = domain.PublishUnpublished
		packages.On("GetByID", ctx, int64(5)).Return(p, nil)

		_, _, err := svc.CreateBooking(ctx, customer, CreateBookingRequest{PackageID: 5, TravelDate: "2026-07-01", Travelers: 1})
		assert.ErrorIs(t, err, ErrNotBookable)
		bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("suspended agent", func(t *testing.T) {
		svc, _, packages, agents := newService()
		packages.On("GetByID", ctx, int64(5)).Return(bookablePackage(), nil)
		agents.On("GetByID", ctx, int64(2)).Return(&domain.Agent{ID: 2, UserID: 20, Status: domain.AgentSuspended}, nil)

		_, _, err := svc.CreateBooking(ctx, customer, CreateBookingRequest{PackageID: 5, TravelDate: "2026-07-01", Travelers: 1})
		assert.ErrorIs(t, err, ErrNotBookable)
	})
}

func TestUpdateStatus_AgentFlow(t *testing.T) {
	svc, bookings, _, agents := newService()
	ctx := context.Background()
	b := &domain.Booking{ID: 7, BookingID: "BK-00000007", AgentID: 2, CustomerID: 10, Status: domain.BookingPending}

	agents.On("GetByUserID", ctx, int64(20)).Return(agent, nil)
	bookings.On("GetByID", ctx, int64(7)).Return(b, nil)
	bookings.On("UpdateStatus", ctx, int64(7), domain.BookingConfirmed).Return(nil)

	got, box, err := svc.UpdateStatus(ctx, agentActor, 7, domain.BookingConfirm)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)
	require.Len(t, box.Notifications, 1)
	assert.Equal(t, int64(10), box.Notifications[0].RecipientID)
	assert.Equal(t, domain.ActivityBookingStatusChanged, box.Activities[0].ActivityType)

	// confirmed -> confirm again is a no-op
	_, box, err = svc.UpdateStatus(ctx, agentActor, 7, domain.BookingConfirm)
	require.NoError(t, err)
	assert.True(t, box.Empty())
	bookings.AssertNumberOfCalls(t, "UpdateStatus", 1)
}

func TestUpdateStatus_Refusals(t *testing.T) {
	ctx := context.Background()

	t.Run("foreign booking", func(t *testing.T) {
		svc, bookings, _, agents := newService()
		agents.On("GetByUserID", ctx, int64(20)).Return(agent, nil)
		bookings.On("GetByID", ctx, int64(7)).Return(&domain.Booking{ID: 7, AgentID: 99, Status: domain.BookingPending}, nil)

		_, _, err := svc.UpdateStatus(ctx, agentActor, 7, domain.BookingConfirm)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("complete pending", func(t *testing.T) {
		svc, bookings, _, agents := newService()
		agents.On("GetByUserID", ctx, int64(20)).Return(agent, nil)
		bookings.On("GetByID", ctx, int64(7)).Return(&domain.Booking{ID: 7, AgentID: 2, Status: domain.BookingPending}, nil)

		_, _, err := svc.UpdateStatus(ctx, agentActor, 7, domain.BookingComplete)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown action", func(t *testing.T) {
		svc, bookings, _, agents := newService()
		agents.On("GetByUserID", ctx, int64(20)).Return(agent, nil)
		bookings.On("GetByID", ctx, int64(7)).Return(&domain.Booking{ID: 7, AgentID: 2, Status: domain.BookingPending}, nil)

		_, _, err := svc.UpdateStatus(ctx, agentActor, 7, "refund")
		assert.ErrorIs(t, err, domain.ErrUnknownAction)
	})
}

func TestCancel_Customer(t *testing.T) {
	ctx := context.Background()

	t.Run("own pending booking", func(t *testing.T) {
		svc, bookings, _, agents := newService()
		bookings.On("GetByID", ctx, int64(7)).Return(&domain.Booking{ID: 7, AgentID: 2, CustomerID: 10, Status: domain.BookingPending}, nil)
		bookings.On("UpdateStatus", ctx, int64(7), domain.BookingCancelled).Return(nil)
		agents.On("GetByID", ctx, int64(2)).Return(agent, nil)

		got, box, err := svc.Cancel(ctx, customer, 7)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingCancelled, got.Status)
		assert.Equal(t, agent.UserID, box.Notifications[0].RecipientID)
	})

	t.Run("confirmed booking", func(t *testing.T) {
		svc, bookings, _, _ := newService()
		bookings.On("GetByID", ctx, int64(7)).Return(&domain.Booking{ID: 7, AgentID: 2, CustomerID: 10, Status: domain.BookingConfirmed}, nil)

		_, _, err := svc.Cancel(ctx, customer, 7)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("someone else's booking", func(t *testing.T) {
		svc, bookings, _, _ := newService()
		bookings.On("GetByID", ctx, int64(7)).Return(&domain.Booking{ID: 7, AgentID: 2, CustomerID: 11, Status: domain.BookingPending}, nil)

		_, _, err := svc.Cancel(ctx, customer, 7)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}
