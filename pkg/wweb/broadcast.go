package wweb

import "context"

// Broadcast is a status or broadcast-list thread.
type Broadcast struct {
	client *Client
	data   Raw

	ID          ID         `json:"id"`
	Timestamp   int64      `json:"timestamp"`
	TotalCount  int        `json:"totalCount"`
	UnreadCount int        `json:"unreadCount"`
	Msgs        []*Message `json:"msgs,omitempty"`
}

// NewBroadcast creates a Broadcast, patching it when data is non-nil.
func NewBroadcast(client *Client, data Raw) *Broadcast {
	b := &Broadcast{client: client}
	if data != nil {
		b.Patch(data)
	}
	return b
}

// Patch replaces every field with values derived from data. Msgs stays nil
// when the payload carries no message list.
func (b *Broadcast) Patch(data Raw) Raw {
	*b = Broadcast{client: b.client, data: data}
	b.ID = data.ID("id")
	b.Timestamp = data.Int64("t")
	b.TotalCount = data.Int("totalCount")
	b.UnreadCount = data.Int("unreadCount")
	if msgs := data.Maps("msgs"); msgs != nil {
		b.Msgs = make([]*Message, 0, len(msgs))
		for _, m := range msgs {
			b.Msgs = append(b.Msgs, NewMessage(b.client, m))
		}
	}
	return data
}

// Client returns the client the broadcast was built with.
func (b *Broadcast) Client() *Client { return b.client }

// RawData returns the payload the broadcast was last patched from.
func (b *Broadcast) RawData() Raw { return b.data }

// GetChat returns the chat of the broadcast.
func (b *Broadcast) GetChat(ctx context.Context) (Chat, error) {
	if err := requireID("broadcast", b.ID); err != nil {
		return nil, err
	}
	return b.client.GetChatByID(ctx, b.ID.Serialized)
}

// GetContact returns the contact of the broadcast.
func (b *Broadcast) GetContact(ctx context.Context) (Contact, error) {
	if err := requireID("broadcast", b.ID); err != nil {
		return nil, err
	}
	return b.client.GetContactByID(ctx, b.ID.Serialized)
}
