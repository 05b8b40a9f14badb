package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageCenter(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }

	newCenter := func() *MessageCenter {
		mc := NewMessageCenter()
		mc.now = clock
		return mc
	}

	t.Run("success expires after the dismiss delay", func(t *testing.T) {
		mc := newCenter()
		mc.Success("Student added successfully!")

		require.Len(t, mc.Messages(), 1)

		now = now.Add(successTTL + time.Millisecond)
		defer func() { now = now.Add(-(successTTL + time.Millisecond)) }()
		assert.Empty(t, mc.Messages())
	})

	t.Run("errors stick until dismissed", func(t *testing.T) {
		mc := newCenter()
		msg := mc.Error("session expired, please log in again")

		now = now.Add(time.Hour)
		defer func() { now = now.Add(-time.Hour) }()
		require.Len(t, mc.Messages(), 1)

		mc.Dismiss(msg.ID)
		assert.Empty(t, mc.Messages())
	})

	t.Run("one kind displaces the other", func(t *testing.T) {
		mc := newCenter()
		mc.Error("boom")
		mc.Success("all good")

		msgs := mc.Messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, MessageSuccess, msgs[0].Kind)

		mc.Error("boom again")
		msgs = mc.Messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, MessageError, msgs[0].Kind)
		assert.Equal(t, "boom again", msgs[0].Text)
	})

	t.Run("newer message of the same kind replaces the older", func(t *testing.T) {
		mc := newCenter()
		mc.Error("first")
		mc.Error("second")

		msgs := mc.Messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, "second", msgs[0].Text)
	})

	t.Run("clear drops everything", func(t *testing.T) {
		mc := newCenter()
		mc.Error("boom")
		mc.Clear()
		assert.Empty(t, mc.Messages())
	})
}
