package wweb

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"whatsweb/internal/privacy"
)

// Receipt is one delivery, read or play acknowledgement.
type Receipt struct {
	ID ID    `json:"id"`
	T  int64 `json:"t"`
}

// MessageInfo reports delivery status of a message sent by this account.
type MessageInfo struct {
	Delivery          []Receipt `json:"delivery"`
	DeliveryRemaining int       `json:"deliveryRemaining"`
	Played            []Receipt `json:"played"`
	PlayedRemaining   int       `json:"playedRemaining"`
	Read              []Receipt `json:"read"`
	ReadRemaining     int       `json:"readRemaining"`
}

// ReactionList groups the senders of one emoji.
type ReactionList struct {
	ID              string      `json:"id"`
	AggregateEmoji  string      `json:"aggregateEmoji"`
	HasReactionByMe bool        `json:"hasReactionByMe"`
	Senders         []*Reaction `json:"senders"`
}

// EditOptions tunes Edit.
type EditOptions struct {
	// LinkPreview is on unless explicitly set to false.
	LinkPreview   *bool
	Mentions      []string
	GroupMentions []GroupMentionOption
	Extra         map[string]any
}

func (m *Message) log() *logrus.Entry {
	return m.client.log().WithField(privacy.FieldMessageID, privacy.MaskMessageID(m.ID.Serialized))
}

// Reload refreshes every field from the runtime. It returns nil when the
// message no longer exists.
func (m *Message) Reload(ctx context.Context) (*Message, error) {
	if err := requireID("message", m.ID); err != nil {
		return nil, err
	}
	data, err := m.client.callRaw(ctx, fnGetMessage, m.ID.Serialized)
	if err != nil || data == nil {
		return nil, err
	}
	m.Patch(data)
	return m, nil
}

// GetChat returns the chat the message was sent in.
func (m *Message) GetChat(ctx context.Context) (Chat, error) {
	chatID := m.chatID()
	if err := requireSerialized("message", m.chatField(), chatID); err != nil {
		return nil, err
	}
	return m.client.GetChatByID(ctx, chatID)
}

// GetContact returns the sender, which is the author in groups.
func (m *Message) GetContact(ctx context.Context) (Contact, error) {
	id := m.Author
	if id == "" {
		id = m.From
	}
	if err := requireSerialized("message", "from", id); err != nil {
		return nil, err
	}
	return m.client.GetContactByID(ctx, id)
}

// GetMentions resolves every mentioned contact, preserving order.
func (m *Message) GetMentions(ctx context.Context) ([]Contact, error) {
	contacts := make([]Contact, len(m.MentionedIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range m.MentionedIDs {
		g.Go(func() error {
			c, err := m.client.GetContactByID(gctx, id)
			contacts[i] = c
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return contacts, nil
}

// GetGroupMentions resolves every mentioned group, preserving order.
func (m *Message) GetGroupMentions(ctx context.Context) ([]Chat, error) {
	chats := make([]Chat, len(m.GroupMentions))
	g, gctx := errgroup.WithContext(ctx)
	for i, gm := range m.GroupMentions {
		g.Go(func() error {
			c, err := m.client.GetChatByID(gctx, gm.GroupJID.Serialized)
			chats[i] = c
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return chats, nil
}

// GetQuotedMessage returns the message this one replies to, or nil.
func (m *Message) GetQuotedMessage(ctx context.Context) (*Message, error) {
	if !m.HasQuotedMsg {
		return nil, nil
	}
	if err := requireID("message", m.ID); err != nil {
		return nil, err
	}
	data, err := m.client.callRaw(ctx, fnGetQuotedMessage, m.ID.Serialized)
	if err != nil || data == nil {
		return nil, err
	}
	return NewMessage(m.client, data), nil
}

// Reply sends content quoting this message. An empty chatID replies in the
// message's own chat.
func (m *Message) Reply(ctx context.Context, content Content, chatID string, opts *SendOptions) (*Message, error) {
	if err := requireID("message", m.ID); err != nil {
		return nil, err
	}
	if chatID == "" {
		chatID = m.chatID()
		if err := requireSerialized("message", m.chatField(), chatID); err != nil {
			return nil, err
		}
	}
	opts = opts.clone()
	opts.QuotedMessageID = m.ID.Serialized
	return m.client.SendMessage(ctx, chatID, content, opts)
}

// React sets this account's reaction. An empty reaction removes it.
func (m *Message) React(ctx context.Context, reaction string) error {
	if err := requireID("message", m.ID); err != nil {
		return err
	}
	_, err := m.client.call(ctx, fnReactToMessage, m.ID.Serialized, reaction)
	return err
}

// AcceptGroupV4Invite joins the group this invite message points to.
func (m *Message) AcceptGroupV4Invite(ctx context.Context) (Raw, error) {
	return m.client.AcceptGroupV4Invite(ctx, m.InviteV4)
}

// Forward copies the message to another chat.
func (m *Message) Forward(ctx context.Context, chatID string) error {
	if err := requireID("message", m.ID); err != nil {
		return err
	}
	_, err := m.client.call(ctx, fnForwardMessage, m.ID.Serialized, chatID)
	return err
}

// DownloadMedia fetches and decrypts the attachment. It returns nil when
// the message has no media or the media is no longer available.
func (m *Message) DownloadMedia(ctx context.Context) (*MessageMedia, error) {
	if !m.HasMedia {
		return nil, nil
	}
	if err := requireID("message", m.ID); err != nil {
		return nil, err
	}
	media := &MessageMedia{}
	found, err := m.client.callInto(ctx, media, fnDownloadMedia, m.ID.Serialized)
	if err != nil {
		return nil, err
	}
	if !found {
		m.log().Debug("Media no longer available")
		return nil, nil
	}
	return media, nil
}

// Delete removes the message, for everyone when allowed.
func (m *Message) Delete(ctx context.Context, everyone, clearMedia bool) error {
	if err := requireID("message", m.ID); err != nil {
		return err
	}
	_, err := m.client.call(ctx, fnDeleteMessage, m.ID.Serialized, everyone, clearMedia)
	return err
}

// Star marks the message as starred.
func (m *Message) Star(ctx context.Context) error {
	return m.setStar(ctx, true)
}

// Unstar removes the star.
func (m *Message) Unstar(ctx context.Context) error {
	return m.setStar(ctx, false)
}

func (m *Message) setStar(ctx context.Context, star bool) error {
	if err := requireID("message", m.ID); err != nil {
		return err
	}
	_, err := m.client.call(ctx, fnStarMessage, m.ID.Serialized, star)
	return err
}

// Pin action codes understood by the runtime.
const (
	pinActionPin   = 1
	pinActionUnpin = 2
)

// Pin pins the message for duration, truncated to whole seconds.
func (m *Message) Pin(ctx context.Context, duration time.Duration) (bool, error) {
	if err := requireID("message", m.ID); err != nil {
		return false, err
	}
	return m.client.callBool(ctx, fnPinMessage, m.ID.Serialized, pinActionPin, int64(duration/time.Second))
}

// Unpin unpins the message.
func (m *Message) Unpin(ctx context.Context) (bool, error) {
	if err := requireID("message", m.ID); err != nil {
		return false, err
	}
	return m.client.callBool(ctx, fnPinMessage, m.ID.Serialized, pinActionUnpin)
}

// GetInfo returns delivery status, or nil when the message does not exist
// or was not sent by this account.
func (m *Message) GetInfo(ctx context.Context) (*MessageInfo, error) {
	if err := requireID("message", m.ID); err != nil {
		return nil, err
	}
	info := &MessageInfo{}
	found, err := m.client.callInto(ctx, info, fnGetMessageInfo, m.ID.Serialized)
	if err != nil || !found {
		return nil, err
	}
	return info, nil
}

// GetOrder returns the order of an order message, or nil.
func (m *Message) GetOrder(ctx context.Context) (*Order, error) {
	if m.Type != MessageTypeOrder {
		return nil, nil
	}
	chatID := m.chatID()
	if err := requireSerialized("message", m.chatField(), chatID); err != nil {
		return nil, err
	}
	data, err := m.client.callRaw(ctx, fnGetOrderDetail, m.OrderID, m.Token, chatID)
	if err != nil || data == nil {
		return nil, err
	}
	return NewOrder(m.client, data), nil
}

// GetPayment returns the payment of a payment message, or nil.
func (m *Message) GetPayment(ctx context.Context) (*Payment, error) {
	if m.Type != MessageTypePayment {
		return nil, nil
	}
	if err := requireID("message", m.ID); err != nil {
		return nil, err
	}
	data, err := m.client.callRaw(ctx, fnGetPaymentMessage, m.ID.Serialized)
	if err != nil || data == nil {
		return nil, err
	}
	return NewPayment(m.client, data), nil
}

// GetReactions lists reactions grouped by emoji, or nil when there are none.
// Sender timestamps are converted from milliseconds to seconds.
func (m *Message) GetReactions(ctx context.Context) ([]ReactionList, error) {
	if !m.HasReaction {
		return nil, nil
	}
	if err := requireID("message", m.ID); err != nil {
		return nil, err
	}
	items, err := m.client.callRaws(ctx, fnGetReactions, m.ID.Serialized)
	if err != nil || items == nil {
		return nil, err
	}

	lists := make([]ReactionList, 0, len(items))
	for _, item := range items {
		list := ReactionList{
			ID:              item.String("id"),
			AggregateEmoji:  item.String("aggregateEmoji"),
			HasReactionByMe: item.Bool("hasReactionByMe"),
			Senders:         []*Reaction{},
		}
		for _, sender := range item.Maps("senders") {
			if sender.Has("timestamp") {
				sender["timestamp"] = math.Round(sender.Float64("timestamp") / 1000)
			}
			list.Senders = append(list.Senders, NewReaction(m.client, sender))
		}
		lists = append(lists, list)
	}
	return lists, nil
}

// Edit replaces the text of a message sent by this account. It returns nil
// when the message is not ours or cannot be edited.
func (m *Message) Edit(ctx context.Context, content string, opts *EditOptions) (*Message, error) {
	if !m.FromMe {
		return nil, nil
	}
	if err := requireID("message", m.ID); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &EditOptions{}
	}

	internal := map[string]any{
		"mentionedJidList": opts.Mentions,
		"groupMentions":    opts.GroupMentions,
		"extraOptions":     opts.Extra,
	}
	if opts.LinkPreview == nil || *opts.LinkPreview {
		internal["linkPreview"] = true
	}
	if opts.Mentions == nil {
		internal["mentionedJidList"] = []string{}
	}

	data, err := m.client.callRaw(ctx, fnEditMessage, m.ID.Serialized, content, internal)
	if err != nil || data == nil {
		return nil, err
	}
	return NewMessage(m.client, data), nil
}

// EditScheduledEvent replaces the event carried by a message sent by this
// account. It returns nil when the message is not ours.
func (m *Message) EditScheduledEvent(ctx context.Context, event *ScheduledEvent) (*Message, error) {
	if !m.FromMe {
		return nil, nil
	}
	if err := requireID("message", m.ID); err != nil {
		return nil, err
	}
	data, err := m.client.callRaw(ctx, fnEditScheduledEvent, m.ID.Serialized, event)
	if err != nil || data == nil {
		return nil, err
	}
	return NewMessage(m.client, data), nil
}
