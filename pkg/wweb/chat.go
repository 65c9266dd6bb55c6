package wweb

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"whatsweb/internal/privacy"
)

// ChatKind tags the concrete Chat variant.
type ChatKind string

// Chat variants.
const (
	ChatKindPrivate ChatKind = "private"
	ChatKindGroup   ChatKind = "group"
	ChatKindChannel ChatKind = "channel"
)

// Chat is one of *PrivateChat, *GroupChat or *Channel. Switch on Kind or on
// the concrete type to reach variant-specific fields.
type Chat interface {
	Kind() ChatKind
	ChatID() ID
	DisplayName() string
	Patch(data Raw) Raw
	Client() *Client
	RawData() Raw

	SendMessage(ctx context.Context, content Content, opts *SendOptions) (*Message, error)
	SendSeen(ctx context.Context) (bool, error)
	FetchMessages(ctx context.Context, opts *SearchOptions) ([]*Message, error)

	sealedChat()
}

// SearchOptions filters FetchMessages. A zero Limit returns the messages
// already loaded; FromMe, when set, keeps only messages of that direction.
type SearchOptions struct {
	Limit  int   `json:"limit,omitempty"`
	FromMe *bool `json:"fromMe,omitempty"`
}

// MuteState is the mute status reported after a mute change.
type MuteState struct {
	IsMuted        bool  `json:"isMuted"`
	MuteExpiration int64 `json:"muteExpiration"`
}

// ChatBase holds the fields and actions shared by private and group chats.
type ChatBase struct {
	client *Client
	data   Raw

	ID             ID       `json:"id"`
	Name           string   `json:"name"`
	IsGroup        bool     `json:"isGroup"`
	IsReadOnly     bool     `json:"isReadOnly"`
	UnreadCount    int      `json:"unreadCount"`
	Timestamp      int64    `json:"timestamp"`
	Archived       bool     `json:"archived"`
	Pinned         bool     `json:"pinned"`
	IsMuted        bool     `json:"isMuted"`
	MuteExpiration int64    `json:"muteExpiration"`
	LastMessage    *Message `json:"lastMessage,omitempty"`
}

func (c *ChatBase) patchShared(data Raw) {
	c.data = data
	c.ID = data.ID("id")
	c.Name = data.String("formattedTitle")
	c.IsGroup = data.Bool("isGroup")
	c.IsReadOnly = data.Bool("isReadOnly")
	c.UnreadCount = data.Int("unreadCount")
	c.Timestamp = data.Int64("t")
	c.Archived = data.Bool("archive")
	c.Pinned = data.Bool("pin")
	c.IsMuted = data.Bool("isMuted")
	c.MuteExpiration = data.Int64("muteExpiration")
	c.LastMessage = nil
	if last := data.Map("lastMessage"); last != nil {
		c.LastMessage = NewMessage(c.client, last)
	}
}

// ChatID returns the chat id.
func (c *ChatBase) ChatID() ID { return c.ID }

// DisplayName returns the formatted chat title.
func (c *ChatBase) DisplayName() string { return c.Name }

// Client returns the client the chat was built with.
func (c *ChatBase) Client() *Client { return c.client }

// RawData returns the payload the chat was last patched from.
func (c *ChatBase) RawData() Raw { return c.data }

func (c *ChatBase) log() *logrus.Entry {
	return c.client.log().WithField(privacy.FieldChatID, privacy.MaskChatID(c.ID.Serialized))
}

func (c *ChatBase) id() (string, error) {
	if err := requireID("chat", c.ID); err != nil {
		return "", err
	}
	return c.ID.Serialized, nil
}

// SendMessage sends content to this chat.
func (c *ChatBase) SendMessage(ctx context.Context, content Content, opts *SendOptions) (*Message, error) {
	id, err := c.id()
	if err != nil {
		return nil, err
	}
	return c.client.SendMessage(ctx, id, content, opts)
}

// SendSeen marks the chat as read.
func (c *ChatBase) SendSeen(ctx context.Context) (bool, error) {
	id, err := c.id()
	if err != nil {
		return false, err
	}
	return c.client.SendSeen(ctx, id)
}

// ClearMessages deletes every message in the chat.
func (c *ChatBase) ClearMessages(ctx context.Context) (bool, error) {
	return c.boolAction(ctx, fnClearChat)
}

// Delete removes the chat.
func (c *ChatBase) Delete(ctx context.Context) (bool, error) {
	return c.boolAction(ctx, fnDeleteChat)
}

// Archive moves the chat to the archive.
func (c *ChatBase) Archive(ctx context.Context) (bool, error) {
	id, err := c.id()
	if err != nil {
		return false, err
	}
	return c.client.ArchiveChat(ctx, id)
}

// Unarchive restores the chat from the archive.
func (c *ChatBase) Unarchive(ctx context.Context) (bool, error) {
	id, err := c.id()
	if err != nil {
		return false, err
	}
	return c.client.UnarchiveChat(ctx, id)
}

// Pin pins the chat to the top of the list.
func (c *ChatBase) Pin(ctx context.Context) (bool, error) {
	id, err := c.id()
	if err != nil {
		return false, err
	}
	return c.client.PinChat(ctx, id)
}

// Unpin unpins the chat.
func (c *ChatBase) Unpin(ctx context.Context) (bool, error) {
	id, err := c.id()
	if err != nil {
		return false, err
	}
	return c.client.UnpinChat(ctx, id)
}

// Mute silences the chat until the given instant, or forever when until is
// the zero time. Local mute fields follow the reported state.
func (c *ChatBase) Mute(ctx context.Context, until time.Time) (*MuteState, error) {
	id, err := c.id()
	if err != nil {
		return nil, err
	}
	state, err := c.client.MuteChat(ctx, id, until)
	if err != nil || state == nil {
		return state, err
	}
	c.IsMuted, c.MuteExpiration = state.IsMuted, state.MuteExpiration
	return state, nil
}

// Unmute lifts the mute. Local mute fields follow the reported state.
func (c *ChatBase) Unmute(ctx context.Context) (*MuteState, error) {
	id, err := c.id()
	if err != nil {
		return nil, err
	}
	state, err := c.client.UnmuteChat(ctx, id)
	if err != nil || state == nil {
		return state, err
	}
	c.IsMuted, c.MuteExpiration = state.IsMuted, state.MuteExpiration
	return state, nil
}

// MarkUnread flags the chat as unread.
func (c *ChatBase) MarkUnread(ctx context.Context) error {
	id, err := c.id()
	if err != nil {
		return err
	}
	return c.client.MarkChatUnread(ctx, id)
}

// FetchMessages loads messages of the chat, oldest first.
func (c *ChatBase) FetchMessages(ctx context.Context, opts *SearchOptions) ([]*Message, error) {
	id, err := c.id()
	if err != nil {
		return nil, err
	}
	return c.client.fetchMessages(ctx, fnFetchMessages, id, opts)
}

// SendStateTyping shows "typing..." for about 25 seconds.
func (c *ChatBase) SendStateTyping(ctx context.Context) error {
	return c.sendState(ctx, ChatStateTyping)
}

// SendStateRecording shows "recording audio..." for about 25 seconds.
func (c *ChatBase) SendStateRecording(ctx context.Context) error {
	return c.sendState(ctx, ChatStateRecording)
}

// ClearState stops any typing or recording indicator.
func (c *ChatBase) ClearState(ctx context.Context) error {
	return c.sendState(ctx, ChatStateStop)
}

func (c *ChatBase) sendState(ctx context.Context, state ChatState) error {
	id, err := c.id()
	if err != nil {
		return err
	}
	_, err = c.client.call(ctx, fnSendChatState, string(state), id)
	return err
}

// GetContact returns the contact behind the chat.
func (c *ChatBase) GetContact(ctx context.Context) (Contact, error) {
	id, err := c.id()
	if err != nil {
		return nil, err
	}
	return c.client.GetContactByID(ctx, id)
}

// GetLabels returns the labels assigned to the chat.
func (c *ChatBase) GetLabels(ctx context.Context) ([]*Label, error) {
	id, err := c.id()
	if err != nil {
		return nil, err
	}
	return c.client.GetChatLabels(ctx, id)
}

// ChangeLabels replaces the chat's labels with labelIDs.
func (c *ChatBase) ChangeLabels(ctx context.Context, labelIDs []string) error {
	id, err := c.id()
	if err != nil {
		return err
	}
	return c.client.AddOrRemoveLabels(ctx, labelIDs, []string{id})
}

// GetPinnedMessages returns the messages pinned in the chat.
func (c *ChatBase) GetPinnedMessages(ctx context.Context) ([]*Message, error) {
	id, err := c.id()
	if err != nil {
		return nil, err
	}
	return c.client.GetPinnedMessages(ctx, id)
}

// SyncHistory asks the primary device for older history.
func (c *ChatBase) SyncHistory(ctx context.Context) (bool, error) {
	return c.boolAction(ctx, fnSyncHistory)
}

func (c *ChatBase) boolAction(ctx context.Context, fn string) (bool, error) {
	id, err := c.id()
	if err != nil {
		return false, err
	}
	ok, err := c.client.callBool(ctx, fn, id)
	if err == nil && !ok {
		c.log().WithField(privacy.FieldFn, fn).Debug("Chat action reported failure")
	}
	return ok, err
}

// PrivateChat is a one-to-one conversation.
type PrivateChat struct {
	ChatBase
}

// NewPrivateChat creates a PrivateChat, patching it when data is non-nil.
func NewPrivateChat(client *Client, data Raw) *PrivateChat {
	c := &PrivateChat{ChatBase: ChatBase{client: client}}
	if data != nil {
		c.Patch(data)
	}
	return c
}

// Kind reports ChatKindPrivate.
func (*PrivateChat) Kind() ChatKind { return ChatKindPrivate }

// Patch replaces every field with values derived from data.
func (c *PrivateChat) Patch(data Raw) Raw {
	c.patchShared(data)
	return data
}

func (*PrivateChat) sealedChat() {}
