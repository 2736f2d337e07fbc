package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"travelhub/internal/domain"
)

type mockChannel struct {
	mock.Mock
	published []amqp.Publishing
}

func (m *mockChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	a := m.Called(name, durable)
	return amqp.Queue{Name: name}, a.Error(0)
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	a := m.Called(exchange, key)
	if a.Error(0) == nil {
		m.published = append(m.published, msg)
	}
	return a.Error(0)
}

func (m *mockChannel) Close() error { return nil }

type mockApplier struct {
	mock.Mock
}

func (m *mockApplier) Dispatch(ctx context.Context, box domain.Outbox) error {
	return m.Called(ctx, box).Error(0)
}

func sampleOutbox() domain.Outbox {
	var box domain.Outbox
	box.Log(domain.ActivityLog{ActivityType: domain.ActivityAgentApproved, EntityType: domain.EntityAgent, EntityID: domain.Ref(4)})
	box.Notify(domain.Notification{RecipientID: 9, Title: "Account approved", RelatedType: domain.EntityAgent})
	return box
}

func TestPublisher_PublishesPersistentJSON(t *testing.T) {
	ch := new(mockChannel)
	ch.On("QueueDeclare", "travelhub.outbox", true).Return(nil)
	ch.On("PublishWithContext", "", "travelhub.outbox").Return(nil)

	p, err := NewPublisher(ch, "travelhub.outbox", zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, p.Dispatch(context.Background(), sampleOutbox()))
	require.Len(t, ch.published, 1)

	pub := ch.published[0]
	assert.Equal(t, amqp.Persistent, pub.DeliveryMode)
	assert.Equal(t, "application/json", pub.ContentType)

	var msg OutboxMessage
	require.NoError(t, json.Unmarshal(pub.Body, &msg))
	assert.Equal(t, pub.MessageId, msg.ID)
	require.Len(t, msg.Outbox.Notifications, 1)
	assert.Equal(t, int64(9), msg.Outbox.Notifications[0].RecipientID)
}

func TestPublisher_SkipsEmptyAndReportsErrors(t *testing.T) {
	ch := new(mockChannel)
	ch.On("QueueDeclare", "q", true).Return(nil)
	ch.On("PublishWithContext", "", "q").Return(errors.New("channel closed"))

	p, err := NewPublisher(ch, "q", zerolog.Nop())
	require.NoError(t, err)

	assert.NoError(t, p.Dispatch(context.Background(), domain.Outbox{}))
	ch.AssertNotCalled(t, "PublishWithContext", "", "q")

	assert.ErrorContains(t, p.Dispatch(context.Background(), sampleOutbox()), "channel closed")
}

func TestConsumer_HandleRoundTrip(t *testing.T) {
	applier := new(mockApplier)
	c := NewConsumer("amqp://unused", "q", 0, applier, zerolog.Nop())

	box := sampleOutbox()
	applier.On("Dispatch", mock.Anything, mock.MatchedBy(func(b domain.Outbox) bool {
		return len(b.Activities) == 1 && b.Activities[0].ActivityType == domain.ActivityAgentApproved &&
			len(b.Notifications) == 1 && b.Notifications[0].Title == "Account approved"
	})).Return(nil)

	body, err := json.Marshal(OutboxMessage{ID: "m1", Outbox: box})
	require.NoError(t, err)
	require.NoError(t, c.Handle(context.Background(), body))
	applier.AssertExpectations(t)

	assert.ErrorIs(t, c.Handle(context.Background(), []byte("{not json")), ErrMalformed)
}
