package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"travelhub/internal/database/databasetest"
	"travelhub/internal/domain"
)

func seedUser(t *testing.T, repos Repos, email string, role domain.UserRole) domain.User {
	t.Helper()
	ctx := context.Background()
	id := domain.Identity{Email: email, PasswordHash: "x"}
	require.NoError(t, repos.Identities.Create(ctx, &id))
	u := domain.User{IdentityID: id.ID, Email: email, Name: "User " + email, Role: role}
	require.NoError(t, repos.Users.Create(ctx, &u))
	return u
}

func seedAgent(t *testing.T, repos Repos, email string, status domain.AgentStatus) domain.Agent {
	t.Helper()
	u := seedUser(t, repos, email, domain.RoleAgent)
	a := domain.Agent{UserID: u.ID, CompanyName: "Co " + email, Status: status, Plan: domain.PlanFree}
	require.NoError(t, repos.Agents.Create(context.Background(), &a))
	return a
}

func TestIdentity_DuplicateEmail(t *testing.T) {
	repos := NewRepos(databasetest.Open(t))
	ctx := context.Background()

	first := domain.Identity{Email: "Agent@Example.com", PasswordHash: "h"}
	require.NoError(t, repos.Identities.Create(ctx, &first))
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "agent@example.com", first.Email)

	dup := domain.Identity{Email: "agent@example.com ", PasswordHash: "h"}
	err := repos.Identities.Create(ctx, &dup)
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := repos.Identities.GetByEmail(ctx, "AGENT@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = repos.Identities.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTxRunner_RollsBackOnError(t *testing.T) {
	db := databasetest.Open(t)
	runner := NewTxRunner(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := runner.Run(ctx, func(repos Repos) error {
		seedUser(t, repos, "tx@example.com", domain.RoleAgent)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int64
	require.NoError(t, db.Model(&domain.Identity{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&domain.User{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestTxRunner_Commits(t *testing.T) {
	db := databasetest.Open(t)
	runner := NewTxRunner(db)

	err := runner.Run(context.Background(), func(repos Repos) error {
		seedAgent(t, repos, "ok@example.com", domain.AgentPending)
		return nil
	})
	require.NoError(t, err)

	n, err := NewAgentRepository(db).CountByStatus(context.Background(), domain.AgentPending)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUsers_ListFiltersAndPaginates(t *testing.T) {
	repos := NewRepos(databasetest.Open(t))
	ctx := context.Background()

	seedUser(t, repos, "admin@example.com", domain.RoleSuperAdmin)
	for _, e := range []string{"a1@example.com", "a2@example.com", "a3@example.com"} {
		seedUser(t, repos, e, domain.RoleAgent)
	}
	seedUser(t, repos, "buyer@example.com", domain.RoleCustomer)

	admins, err := repos.Users.ListByRole(ctx, domain.RoleSuperAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin@example.com", admins[0].Email)

	users, total, err := repos.Users.List(ctx, UserFilter{Role: domain.RoleAgent, Page: Page{Page: 1, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 2)

	users, total, err = repos.Users.List(ctx, UserFilter{Query: "BUYER"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, domain.RoleCustomer, users[0].Role)
}

func TestPage_Normalize(t *testing.T) {
	assert.Equal(t, Page{Page: 1, Limit: 20}, Page{}.Normalize())
	assert.Equal(t, Page{Page: 3, Limit: 100}, Page{Page: 3, Limit: 500}.Normalize())
	assert.Equal(t, 40, Page{Page: 3, Limit: 20}.Offset())
}

func TestPackages_ListPublic(t *testing.T) {
	repos := NewRepos(databasetest.Open(t))
	ctx := context.Background()
	agent := seedAgent(t, repos, "dmc@example.com", domain.AgentApproved)

	mk := func(slug, dest string, price int64, st domain.PackageStatus, pub domain.PublishStatus) {
		p := domain.TravelPackage{
			AgentID: agent.ID, Title: slug, Slug: slug, Destination: dest,
			Price: decimal.NewFromInt(price), Currency: "USD", DurationDays: 5,
			Status: st, PublishStatus: pub,
		}
		require.NoError(t, repos.Packages.Create(ctx, &p))
	}
	mk("bali-cheap", "Bali", 500, domain.PackageApproved, domain.PublishPublished)
	mk("bali-lux", "Bali", 3000, domain.PackageApproved, domain.PublishPublished)
	mk("rome", "Rome", 1200, domain.PackageApproved, domain.PublishPublished)
	mk("hidden", "Bali", 800, domain.PackageApproved, domain.PublishUnpublished)
	mk("draft", "Bali", 900, domain.PackageDraft, domain.PublishDraft)

	all, total, err := repos.Packages.ListPublic(ctx, PublicPackageFilter{Sort: SortPriceAsc})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 3)
	assert.Equal(t, "bali-cheap", all[0].Slug)
	assert.Equal(t, "bali-lux", all[2].Slug)

	min := decimal.NewFromInt(1000)
	bali, total, err := repos.Packages.ListPublic(ctx, PublicPackageFilter{Destination: "bali", MinPrice: &min})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "bali-lux", bali[0].Slug)

	n, err := repos.Packages.CountActiveByAgent(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	dup := domain.TravelPackage{AgentID: agent.ID, Title: "x", Slug: "rome", Price: decimal.NewFromInt(1), DurationDays: 1, Status: domain.PackageDraft, PublishStatus: domain.PublishDraft}
	assert.ErrorIs(t, repos.Packages.Create(ctx, &dup), ErrDuplicate)
}

func TestNotifications_RecipientScopedToggle(t *testing.T) {
	repos := NewRepos(databasetest.Open(t))
	ctx := context.Background()
	owner := seedUser(t, repos, "owner@example.com", domain.RoleAgent)
	other := seedUser(t, repos, "other@example.com", domain.RoleAgent)

	batch := []domain.Notification{
		{RecipientID: owner.ID, Title: "one"},
		{RecipientID: owner.ID, Title: "two"},
	}
	require.NoError(t, repos.Notifications.CreateBatch(ctx, batch))
	assert.NotZero(t, batch[0].ID)
	assert.Equal(t, domain.NotificationUnread, batch[1].Status)

	err := repos.Notifications.SetStatus(ctx, batch[0].ID, other.ID, domain.NotificationRead)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repos.Notifications.SetStatus(ctx, batch[0].ID, owner.ID, domain.NotificationRead))
	got, err := repos.Notifications.GetByID(ctx, batch[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationRead, got.Status)
	assert.NotNil(t, got.ReadAt)

	unread, err := repos.Notifications.CountUnread(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	n, err := repos.Notifications.MarkAllRead(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	items, total, err := repos.Notifications.ListByRecipient(ctx, owner.ID, true, Page{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestBookings_Revenue(t *testing.T) {
	repos := NewRepos(databasetest.Open(t))
	ctx := context.Background()

	rev, err := repos.Bookings.Revenue(ctx)
	require.NoError(t, err)
	assert.True(t, rev.IsZero())

	for i, st := range []domain.BookingStatus{domain.BookingConfirmed, domain.BookingCompleted, domain.BookingCancelled, domain.BookingPending} {
		b := domain.Booking{
			BookingID: "BK-0000000" + string(rune('1'+i)), PackageID: 1, CustomerID: 1, AgentID: 1,
			TravelDate: time.Now().AddDate(0, 1, 0), Travelers: 2,
			Amount: decimal.RequireFromString("250.50"), Status: st,
		}
		require.NoError(t, repos.Bookings.Create(ctx, &b))
	}

	rev, err = repos.Bookings.Revenue(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("501").Equal(rev), rev.String())

	today, err := repos.Bookings.CountCreatedSince(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(4), today)
}

func TestActivities_List(t *testing.T) {
	repos := NewRepos(databasetest.Open(t))
	ctx := context.Background()

	require.NoError(t, repos.Activities.CreateBatch(ctx, []domain.ActivityLog{
		{UserID: domain.Ref(1), ActivityType: domain.ActivityRegistration, EntityType: domain.EntityAgent, EntityID: domain.Ref(7), Metadata: map[string]any{"email": "a@example.com"}},
		{UserID: domain.Ref(2), ActivityType: domain.ActivityLogin, EntityType: domain.EntityUser},
	}))

	items, total, err := repos.Activities.List(ctx, ActivityFilter{Type: domain.ActivityRegistration})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "a@example.com", items[0].Metadata["email"])
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: users.email")))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
}
