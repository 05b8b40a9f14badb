// Package ui holds the state controllers a rendering shell binds to: the
// list+search view, the create/edit form, the screen router and the message
// center. Everything here assumes the single-threaded UI event model; at most
// one user-initiated mutation is conceptually in flight at a time.
package ui

import (
	"time"

	"github.com/google/uuid"
)

type MessageKind int

const (
	MessageSuccess MessageKind = iota
	MessageError
)

// successTTL mirrors the auto-dismiss delay of success banners.
const successTTL = 3 * time.Second

type Message struct {
	ID        string
	Kind      MessageKind
	Text      string
	expiresAt time.Time
}

// MessageCenter keeps at most one success and one error visible: showing one
// kind dismisses the other, the way the alert banners behave.
type MessageCenter struct {
	messages []Message
	now      func() time.Time
}

func NewMessageCenter() *MessageCenter {
	return &MessageCenter{now: time.Now}
}

func (mc *MessageCenter) Success(text string) Message {
	msg := Message{
		ID:        uuid.NewString(),
		Kind:      MessageSuccess,
		Text:      text,
		expiresAt: mc.now().Add(successTTL),
	}
	mc.replace(MessageError, msg)
	return msg
}

func (mc *MessageCenter) Error(text string) Message {
	msg := Message{
		ID:   uuid.NewString(),
		Kind: MessageError,
		Text: text,
	}
	mc.replace(MessageSuccess, msg)
	return msg
}

// replace drops all messages of `other` kind plus any previous message of the
// new message's kind, then appends the new message.
func (mc *MessageCenter) replace(other MessageKind, msg Message) {
	kept := mc.messages[:0]
	for _, m := range mc.messages {
		if m.Kind != other && m.Kind != msg.Kind {
			kept = append(kept, m)
		}
	}
	mc.messages = append(kept, msg)
}

// Messages returns the visible messages, pruning expired successes.
func (mc *MessageCenter) Messages() []Message {
	now := mc.now()
	visible := make([]Message, 0, len(mc.messages))
	for _, m := range mc.messages {
		if m.Kind == MessageSuccess && now.After(m.expiresAt) {
			continue
		}
		visible = append(visible, m)
	}
	mc.messages = visible
	return visible
}

func (mc *MessageCenter) Dismiss(id string) {
	kept := mc.messages[:0]
	for _, m := range mc.messages {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	mc.messages = kept
}

func (mc *MessageCenter) Clear() {
	mc.messages = nil
}
