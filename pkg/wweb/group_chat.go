package wweb

import (
	"context"
	"time"
)

// Group member-add modes.
const (
	MemberAddModeAdmins = "admin_add"
	MemberAddModeAll    = "all_member_add"
)

// GroupParticipant is a member of a group.
type GroupParticipant struct {
	ID           ID   `json:"id"`
	IsAdmin      bool `json:"isAdmin"`
	IsSuperAdmin bool `json:"isSuperAdmin"`
}

// AddParticipantsOptions tunes AddParticipants.
type AddParticipantsOptions struct {
	// AutoSendInviteV4 sends an invite to users that cannot be added
	// directly. Defaults to true.
	AutoSendInviteV4 *bool  `json:"autoSendInviteV4,omitempty"`
	Comment          string `json:"comment,omitempty"`
}

// AddParticipantResult is the outcome of adding one participant.
type AddParticipantResult struct {
	Code           int    `json:"code"`
	Message        string `json:"message"`
	IsInviteV4Sent bool   `json:"isInviteV4Sent"`
}

// StatusResult is the status object returned by participant changes.
type StatusResult struct {
	Status int `json:"status"`
}

// MembershipRequest is a pending request to join a group.
type MembershipRequest struct {
	ID            ID     `json:"id"`
	AddedBy       ID     `json:"addedBy"`
	ParentGroupID *ID    `json:"parentGroupId,omitempty"`
	RequestMethod string `json:"requestMethod"`
	T             int64  `json:"t"`
}

// MembershipRequestOptions selects requests to approve or reject. Empty
// RequesterIDs selects every pending request.
type MembershipRequestOptions struct {
	RequesterIDs []string `json:"requesterIds,omitempty"`
	// SleepMs is the [min, max] pause between consecutive requests.
	SleepMs []int `json:"sleep,omitempty"`
}

// MembershipRequestResult is the outcome for one requester.
type MembershipRequestResult struct {
	RequesterID string `json:"requesterId"`
	Error       int    `json:"error,omitempty"`
	Message     string `json:"message"`
}

// Membership request actions.
const (
	membershipApprove = "Approve"
	membershipReject  = "Reject"
)

// GroupChat is a multi-party chat. Group metadata is kept as received and
// read on every accessor call.
type GroupChat struct {
	ChatBase

	GroupMetadata Raw `json:"groupMetadata,omitempty"`
}

// NewGroupChat creates a GroupChat, patching it when data is non-nil.
func NewGroupChat(client *Client, data Raw) *GroupChat {
	c := &GroupChat{ChatBase: ChatBase{client: client}}
	if data != nil {
		c.Patch(data)
	}
	return c
}

// Kind reports ChatKindGroup.
func (*GroupChat) Kind() ChatKind { return ChatKindGroup }

// Patch replaces every field with values derived from data.
func (c *GroupChat) Patch(data Raw) Raw {
	c.GroupMetadata = data.Map("groupMetadata")
	c.patchShared(data)
	return data
}

func (*GroupChat) sealedChat() {}

// Owner returns the id of the group creator.
func (c *GroupChat) Owner() ID {
	return c.GroupMetadata.ID("owner")
}

// CreatedAt returns the creation time of the group.
func (c *GroupChat) CreatedAt() time.Time {
	return time.UnixMilli(c.GroupMetadata.Int64("creation") * 1000)
}

// Description returns the group description.
func (c *GroupChat) Description() string {
	return c.GroupMetadata.String("desc")
}

// Participants returns the current members.
func (c *GroupChat) Participants() []GroupParticipant {
	items := c.GroupMetadata.Maps("participants")
	out := make([]GroupParticipant, 0, len(items))
	for _, p := range items {
		out = append(out, GroupParticipant{
			ID:           p.ID("id"),
			IsAdmin:      p.Bool("isAdmin"),
			IsSuperAdmin: p.Bool("isSuperAdmin"),
		})
	}
	return out
}

func (c *GroupChat) setMetadata(key string, value any) {
	if c.GroupMetadata == nil {
		c.GroupMetadata = Raw{}
	}
	c.GroupMetadata[key] = value
}

// AddParticipants adds members, keyed by participant id in the result.
func (c *GroupChat) AddParticipants(ctx context.Context, ids []string, opts *AddParticipantsOptions) (map[string]AddParticipantResult, error) {
	id, err := c.id()
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &AddParticipantsOptions{}
	}
	if opts.AutoSendInviteV4 == nil {
		yes := true
		opts = &AddParticipantsOptions{AutoSendInviteV4: &yes, Comment: opts.Comment}
	}

	results := map[string]AddParticipantResult{}
	if _, err := c.client.callInto(ctx, &results, fnAddParticipants, id, ids, opts); err != nil {
		return nil, err
	}
	return results, nil
}

// RemoveParticipants removes members.
func (c *GroupChat) RemoveParticipants(ctx context.Context, ids []string) (*StatusResult, error) {
	return c.participantAction(ctx, fnRemoveParticipants, ids)
}

// PromoteParticipants grants admin rights.
func (c *GroupChat) PromoteParticipants(ctx context.Context, ids []string) (*StatusResult, error) {
	return c.participantAction(ctx, fnPromoteParticipants, ids)
}

// DemoteParticipants revokes admin rights.
func (c *GroupChat) DemoteParticipants(ctx context.Context, ids []string) (*StatusResult, error) {
	return c.participantAction(ctx, fnDemoteParticipants, ids)
}

func (c *GroupChat) participantAction(ctx context.Context, fn string, ids []string) (*StatusResult, error) {
	id, err := c.id()
	if err != nil {
		return nil, err
	}
	res := &StatusResult{}
	found, err := c.client.callInto(ctx, res, fn, id, ids)
	if err != nil || !found {
		return nil, err
	}
	return res, nil
}

// SetSubject renames the group.
func (c *GroupChat) SetSubject(ctx context.Context, subject string) (bool, error) {
	ok, err := c.gated(ctx, fnSetGroupSubject, subject)
	if ok {
		c.Name = subject
	}
	return ok, err
}

// SetDescription replaces the group description.
func (c *GroupChat) SetDescription(ctx context.Context, description string) (bool, error) {
	ok, err := c.gated(ctx, fnSetGroupDescription, description)
	if ok {
		c.setMetadata("desc", description)
	}
	return ok, err
}

// SetAddMembersAdminsOnly restricts who may add members.
func (c *GroupChat) SetAddMembersAdminsOnly(ctx context.Context, adminsOnly bool) (bool, error) {
	ok, err := c.gated(ctx, fnSetGroupMemberAdd, adminsOnly)
	if ok {
		mode := MemberAddModeAll
		if adminsOnly {
			mode = MemberAddModeAdmins
		}
		c.setMetadata("memberAddMode", mode)
	}
	return ok, err
}

// SetMessagesAdminsOnly restricts who may send messages.
func (c *GroupChat) SetMessagesAdminsOnly(ctx context.Context, adminsOnly bool) (bool, error) {
	ok, err := c.gated(ctx, fnSetGroupAnnounce, adminsOnly)
	if ok {
		c.setMetadata("announce", adminsOnly)
	}
	return ok, err
}

// SetInfoAdminsOnly restricts who may edit group info.
func (c *GroupChat) SetInfoAdminsOnly(ctx context.Context, adminsOnly bool) (bool, error) {
	ok, err := c.gated(ctx, fnSetGroupRestrict, adminsOnly)
	if ok {
		c.setMetadata("restrict", adminsOnly)
	}
	return ok, err
}

// DeletePicture removes the group picture.
func (c *GroupChat) DeletePicture(ctx context.Context) (bool, error) {
	return c.boolAction(ctx, fnDeletePicture)
}

// SetPicture replaces the group picture.
func (c *GroupChat) SetPicture(ctx context.Context, media *MessageMedia) (bool, error) {
	return c.gated(ctx, fnSetPicture, media)
}

func (c *GroupChat) gated(ctx context.Context, fn string, value any) (bool, error) {
	id, err := c.id()
	if err != nil {
		return false, err
	}
	ok, err := c.client.callBool(ctx, fn, id, value)
	if err != nil {
		return false, err
	}
	if !ok {
		c.log().WithField("fn", fn).Debug("Group update rejected")
	}
	return ok, nil
}

// GetInviteCode returns the current invite code.
func (c *GroupChat) GetInviteCode(ctx context.Context) (string, error) {
	return c.inviteCode(ctx, fnGetInviteCode)
}

// RevokeInvite invalidates the invite code and returns the new one.
func (c *GroupChat) RevokeInvite(ctx context.Context) (string, error) {
	return c.inviteCode(ctx, fnRevokeInvite)
}

func (c *GroupChat) inviteCode(ctx context.Context, fn string) (string, error) {
	id, err := c.id()
	if err != nil {
		return "", err
	}
	var res any
	if _, err := c.client.callInto(ctx, &res, fn, id); err != nil {
		return "", err
	}
	if s, ok := res.(string); ok {
		return s, nil
	}
	return asRaw(res).String("code"), nil
}

// GetGroupMembershipRequests lists pending join requests.
func (c *GroupChat) GetGroupMembershipRequests(ctx context.Context) ([]MembershipRequest, error) {
	id, err := c.id()
	if err != nil {
		return nil, err
	}
	var out []MembershipRequest
	if _, err := c.client.callInto(ctx, &out, fnMembershipRequests, id); err != nil {
		return nil, err
	}
	return out, nil
}

// ApproveGroupMembershipRequests admits pending requesters.
func (c *GroupChat) ApproveGroupMembershipRequests(ctx context.Context, opts *MembershipRequestOptions) ([]MembershipRequestResult, error) {
	return c.membershipAction(ctx, membershipApprove, opts)
}

// RejectGroupMembershipRequests declines pending requesters.
func (c *GroupChat) RejectGroupMembershipRequests(ctx context.Context, opts *MembershipRequestOptions) ([]MembershipRequestResult, error) {
	return c.membershipAction(ctx, membershipReject, opts)
}

func (c *GroupChat) membershipAction(ctx context.Context, action string, opts *MembershipRequestOptions) ([]MembershipRequestResult, error) {
	id, err := c.id()
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &MembershipRequestOptions{}
	}
	var out []MembershipRequestResult
	if _, err := c.client.callInto(ctx, &out, fnMembershipAction, id, action, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// Leave exits the group.
func (c *GroupChat) Leave(ctx context.Context) error {
	id, err := c.id()
	if err != nil {
		return err
	}
	_, err = c.client.call(ctx, fnLeaveGroup, id)
	return err
}
