package wweb

// Reaction is one emoji reaction to a message. Field names differ from the
// payload: msgKey becomes ID, reactionText becomes Reaction, parentMsgKey
// becomes MsgID and senderUserJid becomes SenderID.
type Reaction struct {
	client *Client
	data   Raw

	ID           ID     `json:"id"`
	Orphan       int    `json:"orphan"`
	OrphanReason string `json:"orphanReason,omitempty"`
	Timestamp    int64  `json:"timestamp"`
	Reaction     string `json:"reaction"`
	Read         bool   `json:"read"`
	MsgID        ID     `json:"msgId"`
	SenderID     string `json:"senderId"`
	Ack          int    `json:"ack"`
}

// NewReaction creates a Reaction, patching it when data is non-nil.
func NewReaction(client *Client, data Raw) *Reaction {
	r := &Reaction{client: client}
	if data != nil {
		r.Patch(data)
	}
	return r
}

// Patch replaces every field with values derived from data.
func (r *Reaction) Patch(data Raw) Raw {
	*r = Reaction{client: r.client, data: data}
	r.ID = data.ID("msgKey")
	r.Orphan = data.Int("orphan")
	r.OrphanReason = data.Text("orphanReason")
	r.Timestamp = data.Int64("timestamp")
	r.Reaction = data.String("reactionText")
	r.Read = data.Bool("read")
	r.MsgID = data.ID("parentMsgKey")
	r.SenderID = data.Serialized("senderUserJid")
	r.Ack = data.Int("ack")
	return data
}

// Client returns the client the reaction was built with.
func (r *Reaction) Client() *Client { return r.client }

// RawData returns the payload the reaction was last patched from.
func (r *Reaction) RawData() Raw { return r.data }
