package wweb

import (
	"context"

	"github.com/sirupsen/logrus"

	"whatsweb/internal/privacy"
)

// GetChatByID returns the chat with the given serialized id, or nil when
// the runtime does not know it.
func (c *Client) GetChatByID(ctx context.Context, chatID string) (Chat, error) {
	data, err := c.callRaw(ctx, fnGetChat, chatID)
	if err != nil || data == nil {
		return nil, err
	}
	c.saveSnapshot(ctx, KindChat, chatID, data)
	return NewChat(c, data), nil
}

// GetChats returns every loaded chat.
func (c *Client) GetChats(ctx context.Context) ([]Chat, error) {
	items, err := c.callRaws(ctx, fnGetChats)
	if err != nil {
		return nil, err
	}
	return c.chatsFrom(ctx, items), nil
}

func (c *Client) chatsFrom(ctx context.Context, items []Raw) []Chat {
	chats := make([]Chat, 0, len(items))
	for _, data := range items {
		c.saveSnapshot(ctx, KindChat, data.Serialized("id"), data)
		chats = append(chats, NewChat(c, data))
	}
	return chats
}

// GetContactByID returns the contact with the given serialized id, or nil.
func (c *Client) GetContactByID(ctx context.Context, contactID string) (Contact, error) {
	data, err := c.callRaw(ctx, fnGetContact, contactID)
	if err != nil || data == nil {
		return nil, err
	}
	c.saveSnapshot(ctx, KindContact, contactID, data)
	return NewContact(c, data), nil
}

// GetContacts returns every known contact.
func (c *Client) GetContacts(ctx context.Context) ([]Contact, error) {
	items, err := c.callRaws(ctx, fnGetContacts)
	if err != nil {
		return nil, err
	}
	contacts := make([]Contact, 0, len(items))
	for _, data := range items {
		c.saveSnapshot(ctx, KindContact, data.Serialized("id"), data)
		contacts = append(contacts, NewContact(c, data))
	}
	return contacts, nil
}

// GetMessageByID returns the message with the given serialized id, or nil.
func (c *Client) GetMessageByID(ctx context.Context, messageID string) (*Message, error) {
	data, err := c.callRaw(ctx, fnGetMessage, messageID)
	if err != nil || data == nil {
		return nil, err
	}
	c.saveSnapshot(ctx, KindMessage, messageID, data)
	return NewMessage(c, data), nil
}

// GetLabels returns every business label.
func (c *Client) GetLabels(ctx context.Context) ([]*Label, error) {
	items, err := c.callRaws(ctx, fnGetLabels)
	if err != nil {
		return nil, err
	}
	return labelsFrom(c, items), nil
}

// GetLabelByID returns one label, or nil.
func (c *Client) GetLabelByID(ctx context.Context, labelID string) (*Label, error) {
	data, err := c.callRaw(ctx, fnGetLabel, labelID)
	if err != nil || data == nil {
		return nil, err
	}
	return NewLabel(c, data), nil
}

// GetChatLabels returns the labels assigned to a chat.
func (c *Client) GetChatLabels(ctx context.Context, chatID string) ([]*Label, error) {
	items, err := c.callRaws(ctx, fnGetChatLabels, chatID)
	if err != nil {
		return nil, err
	}
	return labelsFrom(c, items), nil
}

func labelsFrom(c *Client, items []Raw) []*Label {
	labels := make([]*Label, 0, len(items))
	for _, data := range items {
		labels = append(labels, NewLabel(c, data))
	}
	return labels
}

// GetChatsByLabelID returns the chats carrying a label.
func (c *Client) GetChatsByLabelID(ctx context.Context, labelID string) ([]Chat, error) {
	items, err := c.callRaws(ctx, fnGetChatsByLabel, labelID)
	if err != nil {
		return nil, err
	}
	return c.chatsFrom(ctx, items), nil
}

// GetInfo describes the logged-in account, or returns nil before login.
func (c *Client) GetInfo(ctx context.Context) (*ClientInfo, error) {
	data, err := c.callRaw(ctx, fnGetClientInfo)
	if err != nil || data == nil {
		return nil, err
	}
	return NewClientInfo(c, data), nil
}

// GetBroadcasts returns status and broadcast-list threads.
func (c *Client) GetBroadcasts(ctx context.Context) ([]*Broadcast, error) {
	items, err := c.callRaws(ctx, fnGetBroadcasts)
	if err != nil {
		return nil, err
	}
	out := make([]*Broadcast, 0, len(items))
	for _, data := range items {
		out = append(out, NewBroadcast(c, data))
	}
	return out, nil
}

// GetPinnedMessages returns the messages pinned in a chat.
func (c *Client) GetPinnedMessages(ctx context.Context, chatID string) ([]*Message, error) {
	items, err := c.callRaws(ctx, fnGetPinnedMessages, chatID)
	if err != nil {
		return nil, err
	}
	return messagesFrom(c, items), nil
}

func (c *Client) fetchMessages(ctx context.Context, fn, chatID string, opts *SearchOptions) ([]*Message, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}
	items, err := c.callRaws(ctx, fn, chatID, opts)
	if err != nil {
		return nil, err
	}
	return messagesFrom(c, items), nil
}

func messagesFrom(c *Client, items []Raw) []*Message {
	msgs := make([]*Message, 0, len(items))
	for _, data := range items {
		msgs = append(msgs, NewMessage(c, data))
	}
	return msgs
}

// CachedChat rebuilds a chat from its last stored snapshot without calling
// the runtime. It returns nil when nothing is stored or no store is set.
func (c *Client) CachedChat(ctx context.Context, chatID string) (Chat, error) {
	data, err := c.loadSnapshot(ctx, KindChat, chatID)
	if err != nil || data == nil {
		return nil, err
	}
	c.log().WithFields(logrus.Fields{
		privacy.FieldChatID: privacy.MaskChatID(chatID),
	}).Debug("Rebuilt chat from snapshot")
	return NewChat(c, data), nil
}

// CachedContact rebuilds a contact from its last stored snapshot.
func (c *Client) CachedContact(ctx context.Context, contactID string) (Contact, error) {
	data, err := c.loadSnapshot(ctx, KindContact, contactID)
	if err != nil || data == nil {
		return nil, err
	}
	return NewContact(c, data), nil
}

// CachedMessage rebuilds a message from its last stored snapshot.
func (c *Client) CachedMessage(ctx context.Context, messageID string) (*Message, error) {
	data, err := c.loadSnapshot(ctx, KindMessage, messageID)
	if err != nil || data == nil {
		return nil, err
	}
	return NewMessage(c, data), nil
}
