package wweb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChannel(t *testing.T, client *Client) *Channel {
	t.Helper()
	return NewChannel(client, rawJSON(t, `{
		"id": {"server": "newsletter", "user": "42", "_serialized": "42@newsletter"},
		"name": "Daily News",
		"isChannel": true,
		"isReadOnly": true,
		"channelMetadata": {"description": "headlines", "reactionCodesSetting": 3}
	}`))
}

func TestChannel_Patch(t *testing.T) {
	client, _ := newTestClient(t)
	c := newTestChannel(t, client)

	assert.Equal(t, ChatKindChannel, c.Kind())
	assert.Equal(t, "42@newsletter", c.ChatID().Serialized)
	assert.Equal(t, "Daily News", c.DisplayName())
	assert.True(t, c.IsChannel)
	assert.Equal(t, "headlines", c.Description)
}

func TestChannel_DescriptionIsSnapshot(t *testing.T) {
	client, _ := newTestClient(t)
	c := newTestChannel(t, client)

	c.ChannelMetadata["description"] = "changed elsewhere"
	assert.Equal(t, "headlines", c.Description)
}

func TestChannel_SetDescription(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)
	c := newTestChannel(t, client)

	fake.Respond(fnSetChannelMetadata, false)
	ok, err := c.SetDescription(ctx, "sports")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "headlines", c.Description)

	fake.Respond(fnSetChannelMetadata, true)
	ok, err = c.SetDescription(ctx, "sports")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sports", c.Description)

	call, _ := fake.LastCall(fnSetChannelMetadata)
	var value map[string]any
	var property map[string]bool
	require.NoError(t, call.Arg(1, &value))
	require.NoError(t, call.Arg(2, &property))
	assert.Equal(t, map[string]any{"description": "sports"}, value)
	assert.Equal(t, map[string]bool{"editDescription": true}, property)
}

func TestChannel_SetReactionSetting(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		setting  int
		wantCode int
	}{
		{ReactionSettingAll, 3},
		{ReactionSettingBasic, 1},
		{ReactionSettingNone, 0},
	}
	for _, tt := range tests {
		client, fake := newTestClient(t)
		fake.Respond(fnSetChannelMetadata, true)
		c := newTestChannel(t, client)

		ok, err := c.SetReactionSetting(ctx, tt.setting)
		require.NoError(t, err)
		assert.True(t, ok)

		call, _ := fake.LastCall(fnSetChannelMetadata)
		var value map[string]int
		require.NoError(t, call.Arg(1, &value))
		assert.Equal(t, tt.wantCode, value["reactionCodesSetting"])
		assert.Equal(t, tt.setting, c.ChannelMetadata["reactionCodesSetting"])
	}
}

func TestChannel_SetReactionSettingUnknown(t *testing.T) {
	client, fake := newTestClient(t)
	c := newTestChannel(t, client)

	ok, err := c.SetReactionSetting(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, fake.Calls())
	assert.EqualValues(t, 3, c.ChannelMetadata["reactionCodesSetting"])
}

func TestChannel_MuteUnmute(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)
	c := newTestChannel(t, client)

	fake.Respond(fnMuteUnmuteChannel, true)
	ok, err := c.Mute(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, c.IsMuted)
	assert.Equal(t, int64(-1), c.MuteExpiration)
	call, _ := fake.LastCall(fnMuteUnmuteChannel)
	assert.Equal(t, "MUTE", argString(t, call, 1))

	fake.Respond(fnMuteUnmuteChannel, false)
	ok, err = c.Unmute(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, c.IsMuted, "rejected unmute leaves state")

	fake.Respond(fnMuteUnmuteChannel, true)
	ok, err = c.Unmute(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, c.IsMuted)
	assert.Zero(t, c.MuteExpiration)
}

func TestChannel_GetSubscribers(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)
	fake.Respond(fnGetSubscribers, []any{Raw{"contact": Raw{"id": "1@c.us"}, "role": "SUBSCRIBER"}})
	c := newTestChannel(t, client)

	subs, err := c.GetSubscribers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "SUBSCRIBER", subs[0].Role)
	call, _ := fake.LastCall(fnGetSubscribers)
	assert.JSONEq(t, "null", string(call.Args[1]))

	_, err = c.GetSubscribers(ctx, 10)
	require.NoError(t, err)
	call, _ = fake.LastCall(fnGetSubscribers)
	assert.JSONEq(t, "10", string(call.Args[1]))
}

func TestChannel_AdminActions(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)
	for _, fn := range []string{fnChannelAdminInvite, fnAcceptAdminInvite, fnRevokeAdminInvite, fnDemoteChannelAdmin, fnTransferOwnership, fnDeleteChannel} {
		fake.Respond(fn, true)
	}
	c := newTestChannel(t, client)

	ok, err := c.SendChannelAdminInvite(ctx, "5@c.us", nil)
	require.NoError(t, err)
	assert.True(t, ok)
	call, _ := fake.LastCall(fnChannelAdminInvite)
	assert.Equal(t, "5@c.us", argString(t, call, 0))
	assert.Equal(t, "42@newsletter", argString(t, call, 1))

	_, err = c.RevokeChannelAdminInvite(ctx, "5@c.us")
	require.NoError(t, err)
	call, _ = fake.LastCall(fnRevokeAdminInvite)
	assert.Equal(t, "42@newsletter", argString(t, call, 0))
	assert.Equal(t, "5@c.us", argString(t, call, 1))

	_, err = c.TransferChannelOwnership(ctx, "5@c.us", &TransferOwnershipOptions{ShouldDismissSelfAsAdmin: true})
	require.NoError(t, err)
	call, _ = fake.LastCall(fnTransferOwnership)
	var opts TransferOwnershipOptions
	require.NoError(t, call.Arg(2, &opts))
	assert.True(t, opts.ShouldDismissSelfAsAdmin)

	for _, action := range []func(context.Context) (bool, error){c.AcceptChannelAdminInvite, c.DeleteChannel} {
		ok, err := action(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err = c.DemoteChannelAdmin(ctx, "5@c.us")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestChannel_FetchMessages(t *testing.T) {
	client, fake := newTestClient(t)
	fake.Respond(fnFetchChannelMessages, []any{Raw{"id": Raw{"_serialized": "p1"}, "body": "post"}})
	c := newTestChannel(t, client)

	msgs, err := c.FetchMessages(context.Background(), &SearchOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "post", msgs[0].Body)
}
