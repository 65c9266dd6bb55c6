package wweb

import (
	"context"

	"github.com/sirupsen/logrus"

	"whatsweb/internal/privacy"
)

// Reaction settings of a channel, as exposed to callers.
const (
	ReactionSettingAll   = 0
	ReactionSettingBasic = 1
	ReactionSettingNone  = 2
)

const (
	channelMuteAction   = "MUTE"
	channelUnmuteAction = "UNMUTE"
	channelMutedForever = -1
	channelNotMuted     = 0
)

// reactionCodes maps caller-facing settings to the codes stored remotely.
var reactionCodes = map[int]int{
	ReactionSettingAll:   3,
	ReactionSettingBasic: 1,
	ReactionSettingNone:  0,
}

// ChannelSubscriber is a follower of a channel and their role.
type ChannelSubscriber struct {
	Contact Raw    `json:"contact"`
	Role    string `json:"role"`
}

// ChannelAdminInviteOptions tunes SendChannelAdminInvite.
type ChannelAdminInviteOptions struct {
	Comment string `json:"comment,omitempty"`
}

// TransferOwnershipOptions tunes TransferChannelOwnership.
type TransferOwnershipOptions struct {
	// ShouldDismissSelfAsAdmin drops this account's admin role afterwards.
	ShouldDismissSelfAsAdmin bool `json:"shouldDismissSelfAsAdmin"`
}

// Channel is a broadcast-only newsletter. Its description is copied from
// the channel metadata at patch time and only changes through Patch or a
// successful SetDescription.
type Channel struct {
	client *Client
	data   Raw

	ChannelMetadata Raw      `json:"channelMetadata,omitempty"`
	ID              ID       `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	IsChannel       bool     `json:"isChannel"`
	IsGroup         bool     `json:"isGroup"`
	IsReadOnly      bool     `json:"isReadOnly"`
	UnreadCount     int      `json:"unreadCount"`
	Timestamp       int64    `json:"timestamp"`
	IsMuted         bool     `json:"isMuted"`
	MuteExpiration  int64    `json:"muteExpiration"`
	LastMessage     *Message `json:"lastMessage,omitempty"`
}

// NewChannel creates a Channel, patching it when data is non-nil.
func NewChannel(client *Client, data Raw) *Channel {
	c := &Channel{client: client}
	if data != nil {
		c.Patch(data)
	}
	return c
}

// Patch replaces every field with values derived from data.
func (c *Channel) Patch(data Raw) Raw {
	*c = Channel{client: c.client, data: data}
	c.ChannelMetadata = data.Map("channelMetadata")
	c.ID = data.ID("id")
	c.Name = data.String("name")
	c.Description = c.ChannelMetadata.String("description")
	c.IsChannel = data.Bool("isChannel")
	c.IsGroup = data.Bool("isGroup")
	c.IsReadOnly = data.Bool("isReadOnly")
	c.UnreadCount = data.Int("unreadCount")
	c.Timestamp = data.Int64("t")
	c.IsMuted = data.Bool("isMuted")
	c.MuteExpiration = data.Int64("muteExpiration")
	if last := data.Map("lastMessage"); last != nil {
		c.LastMessage = NewMessage(c.client, last)
	}
	return data
}

// Kind reports ChatKindChannel.
func (*Channel) Kind() ChatKind { return ChatKindChannel }

// ChatID returns the channel id.
func (c *Channel) ChatID() ID { return c.ID }

// DisplayName returns the channel name.
func (c *Channel) DisplayName() string { return c.Name }

// Client returns the client the channel was built with.
func (c *Channel) Client() *Client { return c.client }

// RawData returns the payload the channel was last patched from.
func (c *Channel) RawData() Raw { return c.data }

func (*Channel) sealedChat() {}

func (c *Channel) id() (string, error) {
	if err := requireID("channel", c.ID); err != nil {
		return "", err
	}
	return c.ID.Serialized, nil
}

func (c *Channel) log() *logrus.Entry {
	return c.client.log().WithField(privacy.FieldChatID, privacy.MaskChatID(c.ID.Serialized))
}

// GetSubscribers lists followers. A non-positive limit returns all of them.
func (c *Channel) GetSubscribers(ctx context.Context, limit int) ([]ChannelSubscriber, error) {
	id, err := c.id()
	if err != nil {
		return nil, err
	}
	var arg any
	if limit > 0 {
		arg = limit
	}
	var out []ChannelSubscriber
	if _, err := c.client.callInto(ctx, &out, fnGetSubscribers, id, arg); err != nil {
		return nil, err
	}
	return out, nil
}

// SetSubject renames the channel.
func (c *Channel) SetSubject(ctx context.Context, subject string) (bool, error) {
	ok, err := c.setChannelMetadata(ctx, map[string]any{"name": subject}, map[string]bool{"editName": true})
	if ok {
		c.Name = subject
	}
	return ok, err
}

// SetDescription replaces the channel description.
func (c *Channel) SetDescription(ctx context.Context, description string) (bool, error) {
	ok, err := c.setChannelMetadata(ctx, map[string]any{"description": description}, map[string]bool{"editDescription": true})
	if ok {
		c.Description = description
	}
	return ok, err
}

// SetProfilePicture replaces the channel picture.
func (c *Channel) SetProfilePicture(ctx context.Context, picture *MessageMedia) (bool, error) {
	return c.setChannelMetadata(ctx, map[string]any{"picture": picture}, map[string]bool{"editPicture": true})
}

// SetReactionSetting sets which reactions followers may use: 0 for all, 1
// for a basic set, 2 for none. Any other value is rejected without a call.
func (c *Channel) SetReactionSetting(ctx context.Context, setting int) (bool, error) {
	code, known := reactionCodes[setting]
	if !known {
		return false, nil
	}
	ok, err := c.setChannelMetadata(ctx,
		map[string]any{"reactionCodesSetting": code},
		map[string]bool{"editReactionCodesSetting": true})
	if ok {
		if c.ChannelMetadata == nil {
			c.ChannelMetadata = Raw{}
		}
		c.ChannelMetadata["reactionCodesSetting"] = setting
	}
	return ok, err
}

// Mute silences the channel until unmuted.
func (c *Channel) Mute(ctx context.Context) (bool, error) {
	ok, err := c.muteUnmute(ctx, channelMuteAction)
	if ok {
		c.IsMuted, c.MuteExpiration = true, channelMutedForever
	}
	return ok, err
}

// Unmute lifts the mute.
func (c *Channel) Unmute(ctx context.Context) (bool, error) {
	ok, err := c.muteUnmute(ctx, channelUnmuteAction)
	if ok {
		c.IsMuted, c.MuteExpiration = false, channelNotMuted
	}
	return ok, err
}

// SendMessage posts content to the channel.
func (c *Channel) SendMessage(ctx context.Context, content Content, opts *SendOptions) (*Message, error) {
	id, err := c.id()
	if err != nil {
		return nil, err
	}
	return c.client.SendMessage(ctx, id, content, opts)
}

// SendSeen marks the channel as read.
func (c *Channel) SendSeen(ctx context.Context) (bool, error) {
	id, err := c.id()
	if err != nil {
		return false, err
	}
	return c.client.SendSeen(ctx, id)
}

// SendChannelAdminInvite invites the user behind chatID to administer the
// channel.
func (c *Channel) SendChannelAdminInvite(ctx context.Context, chatID string, opts *ChannelAdminInviteOptions) (bool, error) {
	id, err := c.id()
	if err != nil {
		return false, err
	}
	if opts == nil {
		opts = &ChannelAdminInviteOptions{}
	}
	return c.client.callBool(ctx, fnChannelAdminInvite, chatID, id, opts)
}

// AcceptChannelAdminInvite accepts an admin invite for this channel.
func (c *Channel) AcceptChannelAdminInvite(ctx context.Context) (bool, error) {
	id, err := c.id()
	if err != nil {
		return false, err
	}
	return c.client.callBool(ctx, fnAcceptAdminInvite, id)
}

// RevokeChannelAdminInvite withdraws an invite sent to userID.
func (c *Channel) RevokeChannelAdminInvite(ctx context.Context, userID string) (bool, error) {
	return c.userAction(ctx, fnRevokeAdminInvite, userID)
}

// DemoteChannelAdmin removes the admin role from userID.
func (c *Channel) DemoteChannelAdmin(ctx context.Context, userID string) (bool, error) {
	return c.userAction(ctx, fnDemoteChannelAdmin, userID)
}

// TransferChannelOwnership hands ownership to newOwnerID.
func (c *Channel) TransferChannelOwnership(ctx context.Context, newOwnerID string, opts *TransferOwnershipOptions) (bool, error) {
	id, err := c.id()
	if err != nil {
		return false, err
	}
	if opts == nil {
		opts = &TransferOwnershipOptions{}
	}
	return c.client.callBool(ctx, fnTransferOwnership, id, newOwnerID, opts)
}

// FetchMessages loads channel posts.
func (c *Channel) FetchMessages(ctx context.Context, opts *SearchOptions) ([]*Message, error) {
	id, err := c.id()
	if err != nil {
		return nil, err
	}
	return c.client.fetchMessages(ctx, fnFetchChannelMessages, id, opts)
}

// DeleteChannel deletes the channel.
func (c *Channel) DeleteChannel(ctx context.Context) (bool, error) {
	id, err := c.id()
	if err != nil {
		return false, err
	}
	return c.client.callBool(ctx, fnDeleteChannel, id)
}

func (c *Channel) userAction(ctx context.Context, fn, userID string) (bool, error) {
	id, err := c.id()
	if err != nil {
		return false, err
	}
	return c.client.callBool(ctx, fn, id, userID)
}

// setChannelMetadata is the single primitive behind every admin setter.
// Callers update local state only when it reports true.
func (c *Channel) setChannelMetadata(ctx context.Context, value map[string]any, property map[string]bool) (bool, error) {
	id, err := c.id()
	if err != nil {
		return false, err
	}
	ok, err := c.client.callBool(ctx, fnSetChannelMetadata, id, value, property)
	if err != nil {
		return false, err
	}
	if !ok {
		c.log().Debug("Channel metadata update rejected")
	}
	return ok, nil
}

func (c *Channel) muteUnmute(ctx context.Context, action string) (bool, error) {
	id, err := c.id()
	if err != nil {
		return false, err
	}
	ok, err := c.client.callBool(ctx, fnMuteUnmuteChannel, id, action)
	if err != nil {
		return false, err
	}
	if !ok {
		c.log().WithField("action", action).Debug("Channel mute change rejected")
	}
	return ok, nil
}
