package wweb

// Content is anything SendMessage can deliver. The set of implementations is
// closed: Text, *MessageMedia, *Location, *Poll, *List, *ScheduledEvent and
// ContactCard.
type Content interface {
	contentType() string
}

// Text is a plain text message body.
type Text string

// ContactCard shares one or more contacts, given by serialized id.
type ContactCard []string

func (Text) contentType() string            { return "text" }
func (*MessageMedia) contentType() string   { return "media" }
func (*Location) contentType() string       { return "location" }
func (*Poll) contentType() string           { return "poll" }
func (*List) contentType() string           { return "list" }
func (*ScheduledEvent) contentType() string { return "scheduled_event" }
func (ContactCard) contentType() string     { return "contact_card" }

// GroupMentionOption mentions a group by subject when sending.
type GroupMentionOption struct {
	Subject string `json:"subject"`
	ID      string `json:"id"`
}

// SendOptions tunes SendMessage. A nil *SendOptions sends with defaults.
type SendOptions struct {
	// LinkPreview defaults to true when nil.
	LinkPreview         *bool                `json:"linkPreview,omitempty"`
	SendAudioAsVoice    bool                 `json:"sendAudioAsVoice,omitempty"`
	SendVideoAsGif      bool                 `json:"sendVideoAsGif,omitempty"`
	SendMediaAsSticker  bool                 `json:"sendMediaAsSticker,omitempty"`
	SendMediaAsDocument bool                 `json:"sendMediaAsDocument,omitempty"`
	SendMediaAsHD       bool                 `json:"sendMediaAsHd,omitempty"`
	IsViewOnce          bool                 `json:"isViewOnce,omitempty"`
	ParseVCards         *bool                `json:"parseVCards,omitempty"`
	Caption             string               `json:"caption,omitempty"`
	QuotedMessageID     string               `json:"quotedMessageId,omitempty"`
	Mentions            []string             `json:"mentionedJidList,omitempty"`
	GroupMentions       []GroupMentionOption `json:"groupMentions,omitempty"`
	SendSeen            *bool                `json:"sendSeen,omitempty"`
	InviteV4            *InviteV4            `json:"invitev4,omitempty"`
	Media               *MessageMedia        `json:"media,omitempty"`
	StickerName         string               `json:"stickerName,omitempty"`
	StickerAuthor       string               `json:"stickerAuthor,omitempty"`
	StickerCategories   []string             `json:"stickerCategories,omitempty"`
	Extra               map[string]any       `json:"extraOptions,omitempty"`
}

func (o *SendOptions) clone() *SendOptions {
	if o == nil {
		return &SendOptions{}
	}
	c := *o
	return &c
}

// wireContent is the tagged form of Content sent through the bridge.
type wireContent struct {
	Type  string  `json:"type"`
	Value Content `json:"value"`
}
