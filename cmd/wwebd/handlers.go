package main

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"whatsweb/internal/privacy"
	"whatsweb/pkg/wweb"
)

// registerDefaultHandlers logs the events the daemon cares about with masked
// identifiers. Messages are also persisted when snapshots is non-nil.
func registerDefaultHandlers(d *wweb.EventDispatcher, snapshots wweb.SnapshotStore, logger *logrus.Logger) {
	persist := func(ctx context.Context, msg *wweb.Message) error {
		if snapshots == nil || msg.ID.Serialized == "" {
			return nil
		}
		data, err := json.Marshal(msg.RawData())
		if err != nil {
			return err
		}
		return snapshots.SaveSnapshot(ctx, wweb.KindMessage, msg.ID.Serialized, data)
	}

	for _, event := range []wweb.Event{wweb.EventMessage, wweb.EventMessageCreate, wweb.EventMessageEdit} {
		d.OnMessage(event, func(ctx context.Context, msg *wweb.Message) error {
			logger.WithFields(logrus.Fields{
				privacy.FieldEvent:     string(event),
				privacy.FieldMessageID: privacy.MaskMessageID(msg.ID.Serialized),
				"from":                 privacy.MaskChatID(msg.From),
				"type":                 string(msg.Type),
				"has_media":            msg.HasMedia,
			}).Info("Message received")
			return persist(ctx, msg)
		})
	}

	for _, event := range []wweb.Event{wweb.EventMessageRevokeEveryone, wweb.EventMessageRevokeMe} {
		d.OnMessage(event, func(ctx context.Context, msg *wweb.Message) error {
			logger.WithFields(logrus.Fields{
				privacy.FieldEvent:     string(event),
				privacy.FieldMessageID: privacy.MaskMessageID(msg.ID.Serialized),
			}).Info("Message revoked")
			return nil
		})
	}

	d.OnReaction(func(ctx context.Context, r *wweb.Reaction) error {
		logger.WithFields(logrus.Fields{
			privacy.FieldMessageID: privacy.MaskMessageID(r.MsgID.Serialized),
			"sender":               privacy.MaskChatID(r.SenderID),
			"removed":              r.Reaction == "",
		}).Info("Reaction received")
		return nil
	})

	d.OnVote(func(ctx context.Context, v *wweb.PollVote) error {
		fields := logrus.Fields{
			"voter":    privacy.MaskChatID(v.Voter),
			"selected": len(v.SelectedOptions),
		}
		if v.ParentMessage != nil {
			fields[privacy.FieldMessageID] = privacy.MaskMessageID(v.ParentMessage.ID.Serialized)
		}
		logger.WithFields(fields).Info("Poll vote received")
		return nil
	})

	d.OnCall(func(ctx context.Context, c *wweb.Call) error {
		logger.WithFields(logrus.Fields{
			"from":     privacy.MaskChatID(c.From),
			"is_video": c.IsVideo,
			"is_group": c.IsGroup,
		}).Info("Incoming call")
		return nil
	})

	for _, event := range []wweb.Event{
		wweb.EventGroupJoin,
		wweb.EventGroupLeave,
		wweb.EventGroupUpdate,
		wweb.EventGroupAdminChanged,
		wweb.EventGroupMembershipRequest,
	} {
		d.OnGroupNotification(event, func(ctx context.Context, n *wweb.GroupNotification) error {
			logger.WithFields(logrus.Fields{
				privacy.FieldEvent:  string(event),
				privacy.FieldChatID: privacy.MaskChatID(n.ChatID),
				"type":              string(n.Type),
				"recipients":        len(n.RecipientIDs),
			}).Info("Group notification received")
			return nil
		})
	}
}
