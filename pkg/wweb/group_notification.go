package wweb

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// GroupNotification is a membership or settings change in a group.
type GroupNotification struct {
	client *Client
	data   Raw

	ID           ID                    `json:"id"`
	Body         string                `json:"body"`
	Type         GroupNotificationType `json:"type"`
	Timestamp    int64                 `json:"timestamp"`
	ChatID       string                `json:"chatId"`
	Author       string                `json:"author,omitempty"`
	RecipientIDs []string              `json:"recipientIds"`
}

// NewGroupNotification creates a GroupNotification, patching it when data is
// non-nil.
func NewGroupNotification(client *Client, data Raw) *GroupNotification {
	n := &GroupNotification{client: client}
	if data != nil {
		n.Patch(data)
	}
	return n
}

// Patch replaces every field with values derived from data.
func (n *GroupNotification) Patch(data Raw) Raw {
	*n = GroupNotification{client: n.client, data: data}
	n.ID = data.ID("id")
	n.Body = data.String("body")
	n.Type = GroupNotificationType(data.String("subtype"))
	n.Timestamp = data.Int64("t")
	n.ChatID = data.Map("id").Serialized("remote")
	n.Author = data.Serialized("author")
	n.RecipientIDs = data.Strings("recipients")
	if n.RecipientIDs == nil {
		n.RecipientIDs = []string{}
	}
	return data
}

// Client returns the client the notification was built with.
func (n *GroupNotification) Client() *Client { return n.client }

// RawData returns the payload the notification was last patched from.
func (n *GroupNotification) RawData() Raw { return n.data }

// GetChat returns the group the notification was sent in.
func (n *GroupNotification) GetChat(ctx context.Context) (Chat, error) {
	if err := n.requireChat(); err != nil {
		return nil, err
	}
	return n.client.GetChatByID(ctx, n.ChatID)
}

// GetContact returns the contact that caused the notification.
func (n *GroupNotification) GetContact(ctx context.Context) (Contact, error) {
	if err := requireSerialized("group notification", "author", n.Author); err != nil {
		return nil, err
	}
	return n.client.GetContactByID(ctx, n.Author)
}

// GetRecipients resolves every affected contact, preserving order.
func (n *GroupNotification) GetRecipients(ctx context.Context) ([]Contact, error) {
	contacts := make([]Contact, len(n.RecipientIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range n.RecipientIDs {
		g.Go(func() error {
			c, err := n.client.GetContactByID(gctx, id)
			contacts[i] = c
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return contacts, nil
}

// Reply sends content to the group the notification was sent in.
func (n *GroupNotification) Reply(ctx context.Context, content Content, opts *SendOptions) (*Message, error) {
	if err := n.requireChat(); err != nil {
		return nil, err
	}
	return n.client.SendMessage(ctx, n.ChatID, content, opts)
}

func (n *GroupNotification) requireChat() error {
	return requireSerialized("group notification", "id.remote", n.ChatID)
}
