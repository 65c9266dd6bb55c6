package wweb

import (
	"context"

	apperrors "whatsweb/internal/errors"
)

// Call is an incoming or outgoing voice or video call.
type Call struct {
	client *Client
	data   Raw

	ID                    string `json:"id"`
	From                  string `json:"from"`
	Timestamp             int64  `json:"timestamp"`
	IsVideo               bool   `json:"isVideo"`
	IsGroup               bool   `json:"isGroup"`
	FromMe                bool   `json:"fromMe"`
	CanHandleLocally      bool   `json:"canHandleLocally"`
	WebClientShouldHandle bool   `json:"webClientShouldHandle"`
	Participants          []any  `json:"participants,omitempty"`
}

// NewCall creates a Call, patching it when data is non-nil.
func NewCall(client *Client, data Raw) *Call {
	c := &Call{client: client}
	if data != nil {
		c.Patch(data)
	}
	return c
}

// Patch replaces every field with values derived from data.
func (c *Call) Patch(data Raw) Raw {
	*c = Call{client: c.client, data: data}
	c.ID = data.Text("id")
	c.From = data.Serialized("peerJid")
	c.Timestamp = data.Int64("offerTime")
	c.IsVideo = data.Bool("isVideo")
	c.IsGroup = data.Bool("isGroup")
	c.FromMe = data.Bool("outgoing")
	c.CanHandleLocally = data.Bool("canHandleLocally")
	c.WebClientShouldHandle = data.Bool("webClientShouldHandle")
	c.Participants = data.Slice("participants")
	return data
}

// Client returns the client the call was built with.
func (c *Call) Client() *Client { return c.client }

// RawData returns the payload the call was last patched from.
func (c *Call) RawData() Raw { return c.data }

// Reject declines the call.
func (c *Call) Reject(ctx context.Context) error {
	if c.ID == "" {
		return apperrors.NewStructuralError("call", "id")
	}
	_, err := c.client.call(ctx, fnRejectCall, c.From, c.ID)
	return err
}
