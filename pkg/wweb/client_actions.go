package wweb

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "whatsweb/internal/errors"
	"whatsweb/internal/privacy"
)

// muteForever is the expiration sent for an indefinite mute.
const muteForever = -1

// SendMessage delivers content to chatID and returns the sent message, or
// nil when the runtime reports nothing. Media is converted to a sticker
// first when SendMediaAsSticker is set.
func (c *Client) SendMessage(ctx context.Context, chatID string, content Content, opts *SendOptions) (*Message, error) {
	if chatID == "" {
		return nil, apperrors.NewValidationError("chat_id", "", "chat id is required")
	}
	if content == nil {
		return nil, apperrors.NewValidationError("content", "", "content is required")
	}
	opts = opts.clone()

	if media, ok := content.(*MessageMedia); ok && opts.SendMediaAsSticker {
		sticker, err := c.FormatToWebpSticker(ctx, media, StickerMetadata{
			Name:       opts.StickerName,
			Author:     opts.StickerAuthor,
			Categories: opts.StickerCategories,
		})
		if err != nil {
			return nil, err
		}
		content = sticker
	}

	c.log().WithFields(logrus.Fields{
		privacy.FieldChatID: privacy.MaskChatID(chatID),
		"content_type":      content.contentType(),
	}).Debug("Sending message")

	data, err := c.callRaw(ctx, fnSendMessage, chatID, wireContent{Type: content.contentType(), Value: content}, opts)
	if err != nil || data == nil {
		return nil, err
	}
	return NewMessage(c, data), nil
}

// SendSeen marks a chat as read.
func (c *Client) SendSeen(ctx context.Context, chatID string) (bool, error) {
	return c.callBool(ctx, fnSendSeen, chatID)
}

// ArchiveChat archives a chat.
func (c *Client) ArchiveChat(ctx context.Context, chatID string) (bool, error) {
	return c.callBool(ctx, fnArchiveChat, chatID, true)
}

// UnarchiveChat restores a chat from the archive.
func (c *Client) UnarchiveChat(ctx context.Context, chatID string) (bool, error) {
	return c.callBool(ctx, fnArchiveChat, chatID, false)
}

// PinChat pins a chat.
func (c *Client) PinChat(ctx context.Context, chatID string) (bool, error) {
	return c.callBool(ctx, fnPinChat, chatID, true)
}

// UnpinChat unpins a chat.
func (c *Client) UnpinChat(ctx context.Context, chatID string) (bool, error) {
	return c.callBool(ctx, fnPinChat, chatID, false)
}

// MuteChat mutes a chat until the given instant, or indefinitely for the
// zero time. It returns nil when the runtime reports no state.
func (c *Client) MuteChat(ctx context.Context, chatID string, until time.Time) (*MuteState, error) {
	expiration := int64(muteForever)
	if !until.IsZero() {
		expiration = until.Unix()
	}
	return c.muteState(ctx, fnMuteChat, chatID, expiration)
}

// UnmuteChat unmutes a chat.
func (c *Client) UnmuteChat(ctx context.Context, chatID string) (*MuteState, error) {
	return c.muteState(ctx, fnUnmuteChat, chatID)
}

func (c *Client) muteState(ctx context.Context, fn string, args ...any) (*MuteState, error) {
	state := &MuteState{}
	found, err := c.callInto(ctx, state, fn, args...)
	if err != nil || !found {
		return nil, err
	}
	return state, nil
}

// MarkChatUnread flags a chat as unread.
func (c *Client) MarkChatUnread(ctx context.Context, chatID string) error {
	_, err := c.call(ctx, fnMarkChatUnread, chatID)
	return err
}

// AddOrRemoveLabels sets labelIDs on every chat in chatIDs, removing labels
// not listed.
func (c *Client) AddOrRemoveLabels(ctx context.Context, labelIDs, chatIDs []string) error {
	_, err := c.call(ctx, fnAddOrRemoveLabels, labelIDs, chatIDs)
	return err
}

// AcceptGroupV4Invite joins a group through an invite message.
func (c *Client) AcceptGroupV4Invite(ctx context.Context, invite *InviteV4) (Raw, error) {
	if invite == nil || invite.InviteCode == "" {
		return nil, apperrors.NewValidationError("invite_code", "", "invite code is required")
	}
	if invite.InviteCodeExp == 0 {
		return nil, apperrors.NewValidationError("invite_code_exp", "", "expired invite code")
	}
	return c.callRaw(ctx, fnAcceptGroupV4Invite, invite)
}

// GetProfilePicURL returns a profile picture URL, or "" when hidden.
func (c *Client) GetProfilePicURL(ctx context.Context, id string) (string, error) {
	return c.callString(ctx, fnGetProfilePicURL, id)
}

// GetFormattedNumber returns a number in international format.
func (c *Client) GetFormattedNumber(ctx context.Context, id string) (string, error) {
	return c.callString(ctx, fnGetFormattedNumber, id)
}

// GetCountryCode returns the calling code of a number.
func (c *Client) GetCountryCode(ctx context.Context, id string) (string, error) {
	return c.callString(ctx, fnGetCountryCode, id)
}

// GetCommonGroups returns the groups shared with a contact.
func (c *Client) GetCommonGroups(ctx context.Context, contactID string) ([]ID, error) {
	var ids []ID
	if _, err := c.callInto(ctx, &ids, fnGetCommonGroups, contactID); err != nil {
		return nil, err
	}
	return ids, nil
}

// callString accepts a string or a number result. A null result is "".
func (c *Client) callString(ctx context.Context, fn string, args ...any) (string, error) {
	var out any
	if _, err := c.callInto(ctx, &out, fn, args...); err != nil {
		return "", err
	}
	return Raw{"v": out}.Text("v"), nil
}
