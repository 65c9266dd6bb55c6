package wweb

import "strings"

// PollOption is one answer of a poll, addressed by its zero-based LocalID.
type PollOption struct {
	Name    string `json:"name"`
	LocalID int    `json:"localId"`
}

// PollSendOptions carries the optional parts of a Poll.
type PollSendOptions struct {
	AllowMultipleAnswers bool  `json:"allowMultipleAnswers"`
	MessageSecret        []int `json:"messageSecret,omitempty"`
}

// Poll is a poll to be sent. Options are accepted as given: an empty or
// duplicated option list is not rejected.
type Poll struct {
	PollName    string          `json:"pollName"`
	PollOptions []PollOption    `json:"pollOptions"`
	Options     PollSendOptions `json:"options"`
}

// NewPoll trims the name and every option. opts may be nil.
func NewPoll(name string, options []string, opts *PollSendOptions) *Poll {
	p := &Poll{
		PollName:    strings.TrimSpace(name),
		PollOptions: make([]PollOption, 0, len(options)),
	}
	for i, option := range options {
		p.PollOptions = append(p.PollOptions, PollOption{Name: strings.TrimSpace(option), LocalID: i})
	}
	if opts != nil {
		p.Options = *opts
	}
	return p
}
