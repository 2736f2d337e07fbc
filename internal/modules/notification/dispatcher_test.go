package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"travelhub/internal/database/databasetest"
	"travelhub/internal/domain"
	"travelhub/internal/repository"
)

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

type staticUsers map[int64]domain.User

func (s staticUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

type failingChannel struct{ calls int }

func (f *failingChannel) Name() string { return "broken" }
func (f *failingChannel) Deliver(context.Context, domain.Notification) error {
	f.calls++
	return errors.New("provider down")
}

type mockOutboxStore struct {
	mock.Mock
}

func (m *mockOutboxStore) SaveOutbox(ctx context.Context, box domain.Outbox) error {
	args := m.Called(ctx, box)
	return args.Error(0)
}

func TestSyncDispatcher_WritesRowsAndPushes(t *testing.T) {
	db := databasetest.Open(t)
	repos := repository.NewRepos(db)
	pusher := &recordingPusher{}
	broken := &failingChannel{}
	d := NewSyncDispatcher(repository.NewTxRunner(db), pusher, zerolog.Nop(), broken)
	ctx := context.Background()

	var box domain.Outbox
	box.Log(domain.ActivityLog{ActivityType: domain.ActivityRegistration, Description: "new agent"})
	box.Notify(domain.Notification{RecipientID: 1, Title: "New agent"})
	box.Notify(domain.Notification{RecipientID: 2, Title: "New agent"})

	require.NoError(t, d.Dispatch(ctx, box))

	items, total, err := repos.Notifications.ListByRecipient(ctx, 2, true, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, domain.NotificationUnread, items[0].Status)

	acts, total, err := repos.Activities.List(ctx, repository.ActivityFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, domain.ActivityRegistration, acts[0].ActivityType)

	require.Len(t, pusher.pushed, 2)
	assert.NotZero(t, pusher.pushed[0].ID)
	assert.Equal(t, 2, broken.calls)
}

func TestSyncDispatcher_EmptyOutbox(t *testing.T) {
	store := new(mockOutboxStore)
	d := NewSyncDispatcher(store, nil, zerolog.Nop())
	assert.NoError(t, d.Dispatch(context.Background(), domain.Outbox{}))
	store.AssertNotCalled(t, "SaveOutbox", mock.Anything, mock.Anything)
}

func TestSyncDispatcher_ReportsStoreError(t *testing.T) {
	box := domain.Outbox{Activities: []domain.ActivityLog{{ActivityType: domain.ActivityLogin}}}
	store := new(mockOutboxStore)
	store.On("SaveOutbox", context.Background(), box).Return(errors.New("disk full"))
	pusher := &recordingPusher{}
	d := NewSyncDispatcher(store, pusher, zerolog.Nop())

	err := d.Dispatch(context.Background(), box)
	assert.ErrorContains(t, err, "disk full")
	assert.Empty(t, pusher.pushed)
}

func TestSyncDispatcher_FailedNotificationKeepsNoActivity(t *testing.T) {
	db := databasetest.Open(t)
	repos := repository.NewRepos(db)
	pusher := &recordingPusher{}
	d := NewSyncDispatcher(repository.NewTxRunner(db), pusher, zerolog.Nop())
	ctx := context.Background()

	var first domain.Outbox
	first.Notify(domain.Notification{RecipientID: 1, Title: "Welcome"})
	require.NoError(t, d.Dispatch(ctx, first))
	existing := first.Notifications[0].ID
	require.NotZero(t, existing)

	// the second notification collides on its primary key, the whole outbox must roll back
	var broken domain.Outbox
	broken.Log(domain.ActivityLog{ActivityType: domain.ActivityRegistration, Description: "new agent"})
	broken.Notify(domain.Notification{ID: existing, RecipientID: 2, Title: "New agent"})
	require.Error(t, d.Dispatch(ctx, broken))

	_, total, err := repos.Activities.List(ctx, repository.ActivityFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)

	// redelivery of a fixed outbox writes the activity exactly once
	broken.Notifications[0].ID = 0
	require.NoError(t, d.Dispatch(ctx, broken))
	_, total, err = repos.Activities.List(ctx, repository.ActivityFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, pusher.pushed, 2)
}

func TestEmailChannel_Deliver(t *testing.T) {
	users := staticUsers{7: {ID: 7, Email: "dmc@example.com"}}
	var sent *ses.SendEmailInput
	client := &MockSESService{
		SendEmailFunc: func(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			sent = params
			return &ses.SendEmailOutput{}, nil
		},
	}
	ch := NewEmailChannel(client, users, "noreply@travelhub.example")

	err := ch.Deliver(context.Background(), domain.Notification{RecipientID: 7, Title: "Approved", Message: "You are live", ActionURL: "/agent"})
	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, []string{"dmc@example.com"}, sent.Destination.ToAddresses)
	assert.Equal(t, "Approved", *sent.Message.Subject.Data)
	assert.Contains(t, *sent.Message.Body.Text.Data, "/agent")
	assert.Equal(t, "noreply@travelhub.example", *sent.Source)

	assert.ErrorIs(t, ch.Deliver(context.Background(), domain.Notification{RecipientID: 8}), domain.ErrNotFound)
}

func TestSMSChannel_OnlyAgentStatusNotices(t *testing.T) {
	users := staticUsers{7: {ID: 7, Phone: "+15550001111"}}
	var published []string
	client := &MockSNSService{
		PublishFunc: func(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			published = append(published, *params.PhoneNumber)
			return &sns.PublishOutput{}, nil
		},
	}
	ch := NewSMSChannel(client, users)
	ctx := context.Background()

	require.NoError(t, ch.Deliver(ctx, domain.Notification{RecipientID: 7, Title: "Package approved", RelatedType: domain.EntityPackage}))
	assert.Empty(t, published)

	require.NoError(t, ch.Deliver(ctx, domain.Notification{RecipientID: 7, Title: "Account approved", RelatedType: domain.EntityAgent}))
	assert.Equal(t, []string{"+15550001111"}, published)
}

func TestDeliver_SwallowsErrors(t *testing.T) {
	box := domain.Outbox{Activities: []domain.ActivityLog{{ActivityType: domain.ActivityLogin}}}
	store := new(mockOutboxStore)
	store.On("SaveOutbox", context.Background(), box).Return(errors.New("boom"))

	assert.NotPanics(t, func() {
		Deliver(context.Background(), NewSyncDispatcher(store, nil, zerolog.Nop()), box, zerolog.Nop())
	})
	store.AssertExpectations(t)
}
