package wweb

// PollVote is a vote cast on a poll. An empty SelectedOptions means the
// voter withdrew every selection.
type PollVote struct {
	client *Client
	data   Raw

	Voter           string       `json:"voter"`
	SelectedOptions []PollOption `json:"selectedOptions"`
	InteractedAtTs  int64        `json:"interactedAtTs"`
	ParentMessage   *Message     `json:"parentMessage,omitempty"`
}

// NewPollVote creates a PollVote, patching it when data is non-nil.
func NewPollVote(client *Client, data Raw) *PollVote {
	v := &PollVote{client: client}
	if data != nil {
		v.Patch(data)
	}
	return v
}

// Patch replaces every field with values derived from data. Option names
// are resolved against the parent poll; an id the poll does not list keeps
// an empty name.
func (v *PollVote) Patch(data Raw) Raw {
	*v = PollVote{client: v.client, data: data}
	v.Voter = data.Serialized("sender")
	v.InteractedAtTs = data.Int64("senderTimestampMs")

	parent := data.Map("parentMessage")
	names := make(map[int64]string)
	for _, o := range parent.Maps("pollOptions") {
		names[o.Int64("localId")] = o.String("name")
	}

	selected := data.Slice("selectedOptionLocalIds")
	v.SelectedOptions = make([]PollOption, 0, len(selected))
	for _, item := range selected {
		localID, _ := toInt64(item)
		v.SelectedOptions = append(v.SelectedOptions, PollOption{Name: names[localID], LocalID: int(localID)})
	}

	if parent != nil {
		v.ParentMessage = NewMessage(v.client, parent)
	}
	return data
}

// Client returns the client the vote was built with.
func (v *PollVote) Client() *Client { return v.client }

// RawData returns the payload the vote was last patched from.
func (v *PollVote) RawData() Raw { return v.data }
