package wweb

// Entity is implemented by every server-sourced type. Patch normalizes a
// raw payload into typed fields and returns its input; it never calls the
// bridge.
type Entity interface {
	Patch(data Raw) Raw
	Client() *Client
	RawData() Raw
}

var (
	_ Entity = (*Message)(nil)
	_ Entity = (*PrivateChat)(nil)
	_ Entity = (*GroupChat)(nil)
	_ Entity = (*Channel)(nil)
	_ Entity = (*PrivateContact)(nil)
	_ Entity = (*BusinessContact)(nil)
	_ Entity = (*Broadcast)(nil)
	_ Entity = (*Call)(nil)
	_ Entity = (*ClientInfo)(nil)
	_ Entity = (*GroupNotification)(nil)
	_ Entity = (*Label)(nil)
	_ Entity = (*Order)(nil)
	_ Entity = (*Payment)(nil)
	_ Entity = (*Product)(nil)
	_ Entity = (*ProductMetadata)(nil)
	_ Entity = (*Reaction)(nil)
	_ Entity = (*PollVote)(nil)

	_ Chat    = (*PrivateChat)(nil)
	_ Chat    = (*GroupChat)(nil)
	_ Chat    = (*Channel)(nil)
	_ Contact = (*PrivateContact)(nil)
	_ Contact = (*BusinessContact)(nil)
)
