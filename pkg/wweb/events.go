package wweb

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"whatsweb/internal/privacy"
)

// Event names pushed by the browser runtime.
type Event string

const (
	EventMessage                Event = "message"
	EventMessageCreate          Event = "message_create"
	EventMessageRevokeEveryone  Event = "message_revoke_everyone"
	EventMessageRevokeMe        Event = "message_revoke_me"
	EventMessageEdit            Event = "message_edit"
	EventMessageCiphertext      Event = "message_ciphertext"
	EventMediaUploaded          Event = "media_uploaded"
	EventMessageReaction        Event = "message_reaction"
	EventVoteUpdate             Event = "vote_update"
	EventGroupJoin              Event = "group_join"
	EventGroupLeave             Event = "group_leave"
	EventGroupUpdate            Event = "group_update"
	EventGroupAdminChanged      Event = "group_admin_changed"
	EventGroupMembershipRequest Event = "group_membership_request"
	EventIncomingCall           Event = "incoming_call"
	EventChatArchived           Event = "chat_archived"
	EventChatRemoved            Event = "chat_removed"
	EventContactChanged         Event = "contact_changed"
)

// entityBuilders decides which entity each supported event carries.
var entityBuilders = map[Event]func(*Client, Raw) Entity{
	EventMessage:                buildMessage,
	EventMessageCreate:          buildMessage,
	EventMessageRevokeEveryone:  buildMessage,
	EventMessageRevokeMe:        buildMessage,
	EventMessageEdit:            buildMessage,
	EventMessageCiphertext:      buildMessage,
	EventMediaUploaded:          buildMessage,
	EventContactChanged:         buildMessage,
	EventMessageReaction:        func(c *Client, d Raw) Entity { return NewReaction(c, d) },
	EventVoteUpdate:             func(c *Client, d Raw) Entity { return NewPollVote(c, d) },
	EventGroupJoin:              buildGroupNotification,
	EventGroupLeave:             buildGroupNotification,
	EventGroupUpdate:            buildGroupNotification,
	EventGroupAdminChanged:      buildGroupNotification,
	EventGroupMembershipRequest: buildGroupNotification,
	EventIncomingCall:           func(c *Client, d Raw) Entity { return NewCall(c, d) },
	EventChatArchived:           func(c *Client, d Raw) Entity { return NewChat(c, d) },
	EventChatRemoved:            func(c *Client, d Raw) Entity { return NewChat(c, d) },
}

func buildMessage(c *Client, d Raw) Entity           { return NewMessage(c, d) }
func buildGroupNotification(c *Client, d Raw) Entity { return NewGroupNotification(c, d) }

// Supported reports whether the dispatcher knows how to build event.
func (e Event) Supported() bool {
	_, ok := entityBuilders[e]
	return ok
}

// EntityHandler receives the entity built for one event.
type EntityHandler func(ctx context.Context, event Event, entity Entity) error

// EventDispatcher turns pushed (event, payload) pairs into entities and
// hands them to the handlers registered for that event.
type EventDispatcher struct {
	client *Client

	mu       sync.RWMutex
	handlers map[Event][]EntityHandler
}

// NewEventDispatcher creates a dispatcher building entities with client.
func NewEventDispatcher(client *Client) *EventDispatcher {
	return &EventDispatcher{
		client:   client,
		handlers: make(map[Event][]EntityHandler),
	}
}

// On registers handler for event. Handlers run in registration order.
func (d *EventDispatcher) On(event Event, handler EntityHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = append(d.handlers[event], handler)
}

// OnMessage registers a handler for a message-carrying event.
func (d *EventDispatcher) OnMessage(event Event, fn func(context.Context, *Message) error) {
	d.On(event, func(ctx context.Context, _ Event, e Entity) error {
		if m, ok := e.(*Message); ok {
			return fn(ctx, m)
		}
		return nil
	})
}

// OnReaction registers a handler for message reactions.
func (d *EventDispatcher) OnReaction(fn func(context.Context, *Reaction) error) {
	d.On(EventMessageReaction, func(ctx context.Context, _ Event, e Entity) error {
		if r, ok := e.(*Reaction); ok {
			return fn(ctx, r)
		}
		return nil
	})
}

// OnVote registers a handler for poll votes.
func (d *EventDispatcher) OnVote(fn func(context.Context, *PollVote) error) {
	d.On(EventVoteUpdate, func(ctx context.Context, _ Event, e Entity) error {
		if v, ok := e.(*PollVote); ok {
			return fn(ctx, v)
		}
		return nil
	})
}

// OnGroupNotification registers a handler for a group event.
func (d *EventDispatcher) OnGroupNotification(event Event, fn func(context.Context, *GroupNotification) error) {
	d.On(event, func(ctx context.Context, _ Event, e Entity) error {
		if n, ok := e.(*GroupNotification); ok {
			return fn(ctx, n)
		}
		return nil
	})
}

// OnCall registers a handler for incoming calls.
func (d *EventDispatcher) OnCall(fn func(context.Context, *Call) error) {
	d.On(EventIncomingCall, func(ctx context.Context, _ Event, e Entity) error {
		if c, ok := e.(*Call); ok {
			return fn(ctx, c)
		}
		return nil
	})
}

// OnChat registers a handler for a chat-carrying event.
func (d *EventDispatcher) OnChat(event Event, fn func(context.Context, Chat) error) {
	d.On(event, func(ctx context.Context, _ Event, e Entity) error {
		if c, ok := e.(Chat); ok {
			return fn(ctx, c)
		}
		return nil
	})
}

// Dispatch builds the entity for event and runs its handlers. Unknown
// events are logged and ignored. Every handler runs; their errors are
// joined.
func (d *EventDispatcher) Dispatch(ctx context.Context, event string, payload json.RawMessage) (Entity, error) {
	log := d.client.log().WithField(privacy.FieldEvent, event)

	build, ok := entityBuilders[Event(event)]
	if !ok {
		log.Debug("Ignoring unsupported event")
		return nil, nil
	}

	data, err := ParseRaw(payload)
	if err != nil {
		return nil, unexpectedResult(event, err)
	}
	if data == nil {
		log.Warn("Event carried no payload")
		return nil, nil
	}
	entity := build(d.client, data)

	d.mu.RLock()
	handlers := append([]EntityHandler(nil), d.handlers[Event(event)]...)
	d.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, Event(event), entity); err != nil {
			log.WithError(err).Warn("Event handler failed")
			errs = append(errs, err)
		}
	}
	return entity, errors.Join(errs...)
}

// HandleBridgeEvent adapts Dispatch to a bridge event callback. Handler
// errors are logged only.
func (d *EventDispatcher) HandleBridgeEvent(ctx context.Context, event string, payload json.RawMessage) {
	if _, err := d.Dispatch(ctx, event, payload); err != nil {
		d.client.log().WithError(err).WithFields(logrus.Fields{
			privacy.FieldEvent: event,
		}).Error("Failed to dispatch event")
	}
}
