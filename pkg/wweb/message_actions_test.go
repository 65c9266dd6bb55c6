package wweb

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func incomingMessage(client *Client, extra Raw) *Message {
	data := Raw{
		"id":   Raw{"fromMe": false, "remote": "1@c.us", "id": "ABC", "_serialized": "false_1@c.us_ABC"},
		"from": "1@c.us",
		"to":   "me@c.us",
		"type": "chat",
		"body": "hi",
	}
	for k, v := range extra {
		data[k] = v
	}
	return NewMessage(client, data)
}

func ownMessage(client *Client, extra Raw) *Message {
	m := incomingMessage(client, extra)
	raw := m.RawData()
	raw["id"] = Raw{"fromMe": true, "remote": "1@c.us", "id": "DEF", "_serialized": "true_1@c.us_DEF"}
	m.Patch(raw)
	return m
}

func TestMessage_Reload(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)
	m := incomingMessage(client, nil)

	fake.Respond(fnGetMessage, Raw{"id": Raw{"_serialized": "false_1@c.us_ABC"}, "body": "edited", "star": true})
	got, err := m.Reload(ctx)
	require.NoError(t, err)
	assert.Same(t, m, got)
	assert.Equal(t, "edited", m.Body)
	assert.True(t, m.IsStarred)

	call, _ := fake.LastCall(fnGetMessage)
	assert.Equal(t, "false_1@c.us_ABC", argString(t, call, 0))

	fake.Respond(fnGetMessage, nil)
	got, err = m.Reload(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, "edited", m.Body, "not-found leaves fields untouched")
}

func TestMessage_ActionsRequireIdentity(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)
	m := NewMessage(client, Raw{"body": "no id", "directPath": "/x", "hasReaction": true})

	_, err := m.Reload(ctx)
	assert.Equal(t, ErrCodeStructuralAccess, CodeOf(err))
	assert.Equal(t, ErrCodeStructuralAccess, CodeOf(m.React(ctx, "👍")))
	_, err = m.DownloadMedia(ctx)
	assert.Equal(t, ErrCodeStructuralAccess, CodeOf(err))
	_, err = m.GetReactions(ctx)
	assert.Equal(t, ErrCodeStructuralAccess, CodeOf(err))
	assert.Empty(t, fake.Calls())
}

func TestMessage_GetChatAndContact(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)
	fake.Handle(fnGetChat, func(args []json.RawMessage) (any, error) {
		var id string
		_ = json.Unmarshal(args[0], &id)
		return Raw{"id": id}, nil
	})
	fake.Handle(fnGetContact, func(args []json.RawMessage) (any, error) {
		var id string
		_ = json.Unmarshal(args[0], &id)
		return Raw{"id": id}, nil
	})

	in := incomingMessage(client, Raw{"author": "7@c.us"})
	chat, err := in.GetChat(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1@c.us", chat.ChatID().Serialized)

	contact, err := in.GetContact(ctx)
	require.NoError(t, err)
	assert.Equal(t, "7@c.us", contact.ContactID().Serialized)

	out := ownMessage(client, nil)
	chat, err = out.GetChat(ctx)
	require.NoError(t, err)
	assert.Equal(t, "me@c.us", chat.ChatID().Serialized)

	contact, err = incomingMessage(client, nil).GetContact(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1@c.us", contact.ContactID().Serialized)
}

func TestMessage_GetMentions(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)
	fake.Handle(fnGetContact, func(args []json.RawMessage) (any, error) {
		var id string
		_ = json.Unmarshal(args[0], &id)
		return Raw{"id": id, "isBusiness": id == "2@c.us"}, nil
	})
	fake.Handle(fnGetChat, func(args []json.RawMessage) (any, error) {
		var id string
		_ = json.Unmarshal(args[0], &id)
		return Raw{"id": id, "isGroup": true}, nil
	})

	m := incomingMessage(client, Raw{
		"mentionedJidList": []any{"1@c.us", "2@c.us", "3@c.us"},
		"groupMentions":    []any{Raw{"groupSubject": "G", "groupJid": Raw{"_serialized": "9@g.us"}}},
	})

	contacts, err := m.GetMentions(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 3)
	assert.Equal(t, "1@c.us", contacts[0].ContactID().Serialized)
	assert.Equal(t, ContactKindBusiness, contacts[1].Kind())
	assert.Equal(t, "3@c.us", contacts[2].ContactID().Serialized)

	groups, err := m.GetGroupMentions(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, ChatKindGroup, groups[0].Kind())

	fake.Fail(fnGetContact, errors.New("boom"))
	_, err = m.GetMentions(ctx)
	assert.Error(t, err)
}

func TestMessage_GetQuotedMessage(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)

	got, err := incomingMessage(client, nil).GetQuotedMessage(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, fake.Calls())

	quoting := incomingMessage(client, Raw{"quotedMsg": Raw{"body": "orig"}})
	fake.Respond(fnGetQuotedMessage, Raw{"id": Raw{"_serialized": "q"}, "body": "orig"})
	got, err = quoting.GetQuotedMessage(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "orig", got.Body)

	fake.Respond(fnGetQuotedMessage, nil)
	got, err = quoting.GetQuotedMessage(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMessage_Reply(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)
	fake.Respond(fnSendMessage, Raw{"id": Raw{"_serialized": "sent"}, "body": "ok"})

	m := incomingMessage(client, nil)
	opts := &SendOptions{Caption: "c"}
	sent, err := m.Reply(ctx, Text("ok"), "", opts)
	require.NoError(t, err)
	assert.Equal(t, "sent", sent.ID.Serialized)
	assert.Empty(t, opts.QuotedMessageID, "caller options are not modified")

	call, _ := fake.LastCall(fnSendMessage)
	assert.Equal(t, "1@c.us", argString(t, call, 0))
	var sentOpts SendOptions
	require.NoError(t, call.Arg(2, &sentOpts))
	assert.Equal(t, "false_1@c.us_ABC", sentOpts.QuotedMessageID)
	assert.Equal(t, "c", sentOpts.Caption)

	_, err = m.Reply(ctx, Text("ok"), "other@c.us", nil)
	require.NoError(t, err)
	call, _ = fake.LastCall(fnSendMessage)
	assert.Equal(t, "other@c.us", argString(t, call, 0))
}

func TestMessage_SimpleActions(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)
	for _, fn := range []string{fnReactToMessage, fnForwardMessage, fnDeleteMessage, fnStarMessage} {
		fake.Respond(fn, nil)
	}
	fake.Respond(fnPinMessage, true)

	m := incomingMessage(client, nil)

	require.NoError(t, m.React(ctx, "🔥"))
	call, _ := fake.LastCall(fnReactToMessage)
	assert.Equal(t, "🔥", argString(t, call, 1))

	require.NoError(t, m.Forward(ctx, "2@c.us"))
	call, _ = fake.LastCall(fnForwardMessage)
	assert.Equal(t, "2@c.us", argString(t, call, 1))

	require.NoError(t, m.Delete(ctx, true, false))
	call, _ = fake.LastCall(fnDeleteMessage)
	var everyone, clearMedia bool
	require.NoError(t, call.Arg(1, &everyone))
	require.NoError(t, call.Arg(2, &clearMedia))
	assert.True(t, everyone)
	assert.False(t, clearMedia)

	require.NoError(t, m.Star(ctx))
	require.NoError(t, m.Unstar(ctx))
	stars := fake.CallsTo(fnStarMessage)
	require.Len(t, stars, 2)
	var star bool
	require.NoError(t, stars[1].Arg(1, &star))
	assert.False(t, star)

	ok, err := m.Pin(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
	call, _ = fake.LastCall(fnPinMessage)
	var action, seconds int
	require.NoError(t, call.Arg(1, &action))
	require.NoError(t, call.Arg(2, &seconds))
	assert.Equal(t, pinActionPin, action)
	assert.Equal(t, 86400, seconds)

	fake.Respond(fnPinMessage, false)
	ok, err = m.Unpin(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMessage_DownloadMedia(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)

	media, err := incomingMessage(client, nil).DownloadMedia(ctx)
	require.NoError(t, err)
	assert.Nil(t, media)
	assert.Empty(t, fake.Calls())

	withMedia := incomingMessage(client, Raw{"directPath": "/enc/abc", "type": "image"})
	fake.Respond(fnDownloadMedia, Raw{"mimetype": "image/jpeg", "data": "AAEC", "filename": "a.jpg", "filesize": 3})
	media, err = withMedia.DownloadMedia(ctx)
	require.NoError(t, err)
	assert.Equal(t, &MessageMedia{Mimetype: "image/jpeg", Data: "AAEC", Filename: "a.jpg", Filesize: 3}, media)

	fake.Respond(fnDownloadMedia, nil)
	media, err = withMedia.DownloadMedia(ctx)
	require.NoError(t, err)
	assert.Nil(t, media)
}

func TestMessage_GetInfo(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)
	m := ownMessage(client, nil)

	fake.Respond(fnGetMessageInfo, Raw{
		"delivery":          []any{Raw{"id": Raw{"_serialized": "1@c.us"}, "t": 10}},
		"deliveryRemaining": 1,
		"read":              []any{Raw{"id": "2@c.us", "t": 11}},
	})
	info, err := m.GetInfo(ctx)
	require.NoError(t, err)
	require.Len(t, info.Delivery, 1)
	assert.Equal(t, "1@c.us", info.Delivery[0].ID.Serialized)
	assert.Equal(t, 1, info.DeliveryRemaining)
	assert.Equal(t, "2@c.us", info.Read[0].ID.Serialized)

	fake.Respond(fnGetMessageInfo, nil)
	info, err = m.GetInfo(ctx)
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestMessage_GetOrderAndPayment(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)

	order, err := incomingMessage(client, nil).GetOrder(ctx)
	require.NoError(t, err)
	assert.Nil(t, order)
	payment, err := incomingMessage(client, nil).GetPayment(ctx)
	require.NoError(t, err)
	assert.Nil(t, payment)
	assert.Empty(t, fake.Calls())

	fake.Respond(fnGetOrderDetail, Raw{"total": "10", "currency": "EUR", "products": []any{Raw{"id": "p1"}}})
	order, err = incomingMessage(client, Raw{"type": "order", "orderId": "o1", "token": "t1"}).GetOrder(ctx)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, "EUR", order.Currency)
	require.Len(t, order.Products, 1)
	call, _ := fake.LastCall(fnGetOrderDetail)
	assert.Equal(t, "o1", argString(t, call, 0))
	assert.Equal(t, "t1", argString(t, call, 1))
	assert.Equal(t, "1@c.us", argString(t, call, 2))

	fake.Respond(fnGetPaymentMessage, Raw{"paymentCurrency": "INR", "paymentAmount1000": 5000, "paymentNoteMsg": Raw{"body": "rent"}})
	payment, err = incomingMessage(client, Raw{"type": "payment"}).GetPayment(ctx)
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.Equal(t, "INR", payment.PaymentCurrency)
	assert.Equal(t, "rent", payment.PaymentNote)
}

func TestMessage_GetReactions(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)

	none, err := incomingMessage(client, nil).GetReactions(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	fake.Respond(fnGetReactions, []any{
		Raw{
			"id": "👍", "aggregateEmoji": "👍", "hasReactionByMe": true,
			"senders": []any{
				Raw{"msgKey": Raw{"_serialized": "r1"}, "reactionText": "👍", "timestamp": 1700000000499, "senderUserJid": "5@c.us"},
				Raw{"msgKey": Raw{"_serialized": "r2"}, "reactionText": "👍", "timestamp": 1700000000500},
			},
		},
	})
	lists, err := incomingMessage(client, Raw{"hasReaction": true}).GetReactions(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.True(t, lists[0].HasReactionByMe)
	require.Len(t, lists[0].Senders, 2)
	assert.Equal(t, int64(1700000000), lists[0].Senders[0].Timestamp)
	assert.Equal(t, int64(1700000001), lists[0].Senders[1].Timestamp)
	assert.Equal(t, "5@c.us", lists[0].Senders[0].SenderID)

	fake.Respond(fnGetReactions, nil)
	lists, err = incomingMessage(client, Raw{"hasReaction": true}).GetReactions(ctx)
	require.NoError(t, err)
	assert.Nil(t, lists)
}

func TestMessage_Edit(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)
	fake.Respond(fnEditMessage, Raw{"id": Raw{"_serialized": "true_1@c.us_DEF"}, "body": "fixed"})

	got, err := incomingMessage(client, nil).Edit(ctx, "x", nil)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, fake.Calls())

	got, err = ownMessage(client, nil).Edit(ctx, "fixed", nil)
	require.NoError(t, err)
	assert.Equal(t, "fixed", got.Body)

	call, _ := fake.LastCall(fnEditMessage)
	assert.Equal(t, "fixed", argString(t, call, 1))
	var opts map[string]any
	require.NoError(t, call.Arg(2, &opts))
	assert.Equal(t, true, opts["linkPreview"])
	assert.Equal(t, []any{}, opts["mentionedJidList"])

	off := false
	_, err = ownMessage(client, nil).Edit(ctx, "fixed", &EditOptions{LinkPreview: &off, Mentions: []string{"1@c.us"}})
	require.NoError(t, err)
	call, _ = fake.LastCall(fnEditMessage)
	opts = nil
	require.NoError(t, call.Arg(2, &opts))
	_, hasPreview := opts["linkPreview"]
	assert.False(t, hasPreview)
	assert.Equal(t, []any{"1@c.us"}, opts["mentionedJidList"])

	fake.Respond(fnEditMessage, nil)
	got, err = ownMessage(client, nil).Edit(ctx, "fixed", nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMessage_EditScheduledEvent(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)
	event, err := NewScheduledEvent("Standup", time.Unix(1700000000, 0), nil)
	require.NoError(t, err)

	got, err := incomingMessage(client, nil).EditScheduledEvent(ctx, event)
	require.NoError(t, err)
	assert.Nil(t, got)

	fake.Respond(fnEditScheduledEvent, Raw{"id": Raw{"_serialized": "e"}, "eventName": "Standup"})
	got, err = ownMessage(client, nil).EditScheduledEvent(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, "Standup", got.Body)

	call, _ := fake.LastCall(fnEditScheduledEvent)
	var sent ScheduledEvent
	require.NoError(t, call.Arg(1, &sent))
	assert.Equal(t, int64(1700000000), sent.StartTimeTs)
}

func TestMessage_AcceptGroupV4Invite(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)
	fake.Respond(fnAcceptGroupV4Invite, Raw{"status": 200})

	_, err := incomingMessage(client, nil).AcceptGroupV4Invite(ctx)
	assert.Equal(t, ErrCodeValidationFailed, CodeOf(err))

	m := incomingMessage(client, Raw{"type": "groups_v4_invite", "inviteCode": "C", "inviteCodeExp": 1800000000})
	res, err := m.AcceptGroupV4Invite(ctx)
	require.NoError(t, err)
	assert.Equal(t, 200, res.Int("status"))

	expired := incomingMessage(client, Raw{"type": "groups_v4_invite", "inviteCode": "C", "inviteCodeExp": 0})
	_, err = expired.AcceptGroupV4Invite(ctx)
	assert.Equal(t, ErrCodeValidationFailed, CodeOf(err))
}
