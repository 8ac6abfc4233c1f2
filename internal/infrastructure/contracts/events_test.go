package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserRegistered(t *testing.T) {
	evt, err := Parse(EventUserRegistered, []byte(`{"user_id":42,"username":"alice","email":"alice@example.com"}`))
	require.NoError(t, err)

	e, ok := evt.(UserRegistered)
	require.True(t, ok)
	assert.Equal(t, int64(42), e.UserID)
	assert.Equal(t, "alice", e.Username)
	assert.Equal(t, "alice@example.com", e.Email)
	assert.Equal(t, EventUserRegistered, e.RoutingKey())
}

func TestParseAppliesDefaults(t *testing.T) {
	t.Run("user registered", func(t *testing.T) {
		evt, err := Parse(EventUserRegistered, []byte(`{}`))
		require.NoError(t, err)

		e := evt.(UserRegistered)
		assert.Equal(t, DefaultUsername, e.Username)
		assert.Zero(t, e.UserID)
		assert.Empty(t, e.Email)
	})

	t.Run("message created", func(t *testing.T) {
		evt, err := Parse(EventMessageCreated, []byte(`{}`))
		require.NoError(t, err)

		e := evt.(MessageCreated)
		assert.Equal(t, DefaultSender, e.SenderUsername)
		assert.Equal(t, DefaultRoomName, e.RoomName)
		assert.Equal(t, DefaultMessageType, e.MessageType)
		assert.Equal(t, DefaultTimestamp, e.Timestamp)
	})

	t.Run("user joined room", func(t *testing.T) {
		evt, err := Parse(EventUserJoinedRoom, []byte(`{}`))
		require.NoError(t, err)

		e := evt.(UserJoinedRoom)
		assert.Equal(t, DefaultUsername, e.Username)
		assert.Equal(t, DefaultRoomName, e.RoomName)
		assert.Equal(t, DefaultRole, e.Role)
	})
}

func TestParseIgnoresExtraFields(t *testing.T) {
	evt, err := Parse(EventUserRegistered,
		[]byte(`{"user_id":1,"username":"bob","email":"b@x.io","event_type":"user.registered","event_id":"abc"}`))
	require.NoError(t, err)

	e := evt.(UserRegistered)
	assert.Equal(t, "bob", e.Username)
}

func TestParseUnknownRoutingKey(t *testing.T) {
	body := []byte(`{"whatever":true}`)
	evt, err := Parse("room.archived", body)
	require.NoError(t, err)

	u, ok := evt.(Unknown)
	require.True(t, ok)
	assert.Equal(t, "room.archived", u.RoutingKey())
	assert.Equal(t, body, u.Body)
}

func TestParseMalformedBody(t *testing.T) {
	for _, key := range RoutingKeys() {
		evt, err := Parse(key, []byte(`{not json`))
		assert.Error(t, err, key)
		assert.Nil(t, evt, key)
	}
}

func TestRoutingKeysCoverAllVariants(t *testing.T) {
	keys := RoutingKeys()
	require.Len(t, keys, 3)
	assert.Contains(t, keys, EventUserRegistered)
	assert.Contains(t, keys, EventMessageCreated)
	assert.Contains(t, keys, EventUserJoinedRoom)
}
