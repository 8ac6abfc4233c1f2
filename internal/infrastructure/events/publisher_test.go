package events

import (
	"context"
	"testing"

	"github.com/murmurchat/murmur/internal/infrastructure/contracts"
	"github.com/murmurchat/murmur/internal/infrastructure/messaging"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPublishWithoutConnectionIsContained(t *testing.T) {
	p := NewPublisher(messaging.New(), zap.NewNop().Sugar())
	ctx := context.Background()

	assert.False(t, p.IsConnected())

	// a broker outage yields errors, never panics, so callers can log and
	// keep serving requests
	assert.NotPanics(t, func() {
		assert.Error(t, p.PublishUserRegistered(ctx, contracts.UserRegistered{UserID: 1}))
		assert.Error(t, p.PublishMessageCreated(ctx, contracts.MessageCreated{MessageID: 1}))
		assert.Error(t, p.PublishUserJoinedRoom(ctx, contracts.UserJoinedRoom{RoomID: 1}))
	})
}
