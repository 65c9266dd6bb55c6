package wweb

import (
	"sort"
	"strconv"
	"strings"
)

// InviteV4 is the group invitation carried by a groups_v4_invite message.
type InviteV4 struct {
	InviteCode    string `json:"inviteCode"`
	InviteCodeExp int64  `json:"inviteCodeExp"`
	GroupID       string `json:"groupId"`
	GroupName     string `json:"groupName"`
	FromID        string `json:"fromId"`
	ToID          string `json:"toId"`
}

// GroupMention is a group referenced by a message.
type GroupMention struct {
	GroupSubject string `json:"groupSubject"`
	GroupJID     ID     `json:"groupJid"`
}

// Link is a URL detected in a message body.
type Link struct {
	Link         string `json:"link"`
	IsSuspicious bool   `json:"isSuspicious"`
}

// Message is a single chat message.
type Message struct {
	client *Client
	data   Raw

	ID         ID          `json:"id"`
	Ack        MessageAck  `json:"ack"`
	Type       MessageType `json:"type"`
	Timestamp  int64       `json:"timestamp"`
	MediaKey   string      `json:"mediaKey,omitempty"`
	HasMedia   bool        `json:"hasMedia"`
	Body       string      `json:"body"`
	From       string      `json:"from"`
	To         string      `json:"to"`
	Author     string      `json:"author,omitempty"`
	DeviceType string      `json:"deviceType"`
	FromMe     bool        `json:"fromMe"`

	IsForwarded     bool   `json:"isForwarded"`
	ForwardingScore int    `json:"forwardingScore"`
	IsStatus        bool   `json:"isStatus"`
	IsStarred       bool   `json:"isStarred"`
	Broadcast       bool   `json:"broadcast"`
	HasQuotedMsg    bool   `json:"hasQuotedMsg"`
	HasReaction     bool   `json:"hasReaction"`
	Duration        string `json:"duration,omitempty"`
	IsGif           bool   `json:"isGif"`
	IsEphemeral     bool   `json:"isEphemeral"`

	Location      *Location      `json:"location,omitempty"`
	VCards        []string       `json:"vCards"`
	InviteV4      *InviteV4      `json:"inviteV4,omitempty"`
	MentionedIDs  []string       `json:"mentionedIds"`
	GroupMentions []GroupMention `json:"groupMentions"`
	Links         []Link         `json:"links,omitempty"`

	OrderID          string `json:"orderId,omitempty"`
	Token            string `json:"token,omitempty"`
	Title            string `json:"title,omitempty"`
	Description      string `json:"description,omitempty"`
	BusinessOwnerJID string `json:"businessOwnerJid,omitempty"`
	ProductID        string `json:"productId,omitempty"`

	LatestEditSenderTimestampMs int64 `json:"latestEditSenderTimestampMs,omitempty"`
	LatestEditMsgKey            *ID   `json:"latestEditMsgKey,omitempty"`

	DynamicReplyButtons []any  `json:"dynamicReplyButtons,omitempty"`
	SelectedButtonID    string `json:"selectedButtonId,omitempty"`
	SelectedRowID       string `json:"selectedRowId,omitempty"`

	// Set for poll_creation messages only.
	PollName              string       `json:"pollName,omitempty"`
	PollOptions           []PollOption `json:"pollOptions,omitempty"`
	AllowMultipleAnswers  bool         `json:"allowMultipleAnswers,omitempty"`
	PollInvalidated       bool         `json:"pollInvalidated,omitempty"`
	IsSentCagPollCreation bool         `json:"isSentCagPollCreation,omitempty"`
	MessageSecret         []int        `json:"messageSecret,omitempty"`
}

// NewMessage creates a Message, patching it when data is non-nil.
func NewMessage(client *Client, data Raw) *Message {
	m := &Message{client: client}
	if data != nil {
		m.Patch(data)
	}
	return m
}

// Client returns the client the message was built with.
func (m *Message) Client() *Client { return m.client }

// RawData returns the payload the message was last patched from.
func (m *Message) RawData() Raw { return m.data }

// Patch replaces every field with values derived from data.
func (m *Message) Patch(data Raw) Raw {
	*m = Message{client: m.client, data: data}

	id := data.Map("id")
	m.ID = data.ID("id")
	m.FromMe = id.Bool("fromMe")
	m.DeviceType = deviceType(id.Value("id"))

	m.MediaKey = data.String("mediaKey")
	m.Ack = MessageAck(data.Int("ack"))
	m.Type = MessageType(data.String("type"))
	m.Timestamp = data.Int64("t")
	m.HasMedia = data.Bool("directPath")
	if m.HasMedia {
		m.Body = data.String("caption")
	} else {
		m.Body = firstString(data, "body", "pollName", "eventName")
	}

	m.From = data.Serialized("from")
	m.To = data.Serialized("to")
	m.Author = data.Serialized("author")

	m.IsForwarded = data.Bool("isForwarded")
	m.ForwardingScore = data.Int("forwardingScore")
	m.IsStatus = data.Bool("isStatusV3") || id.Serialized("remote") == StatusBroadcast
	m.IsStarred = data.Bool("star")
	m.Broadcast = data.Bool("broadcast")
	m.HasQuotedMsg = data.Bool("quotedMsg")
	m.HasReaction = data.Bool("hasReaction")
	if data.Bool("duration") {
		m.Duration = data.Text("duration")
	}
	m.IsGif = data.Bool("isGif")
	m.IsEphemeral = data.Bool("isEphemeral")

	m.Location = messageLocation(data, m.Type)
	m.VCards = messageVCards(data, m.Type)
	if m.Type == MessageTypeGroupInvite {
		m.InviteV4 = &InviteV4{
			InviteCode:    data.String("inviteCode"),
			InviteCodeExp: data.Int64("inviteCodeExp"),
			GroupID:       data.Serialized("inviteGrp"),
			GroupName:     data.String("inviteGrpName"),
			FromID:        m.From,
			ToID:          m.To,
		}
	}

	m.MentionedIDs = data.Strings("mentionedJidList")
	if m.MentionedIDs == nil {
		m.MentionedIDs = []string{}
	}
	m.GroupMentions = []GroupMention{}
	for _, gm := range data.Maps("groupMentions") {
		m.GroupMentions = append(m.GroupMentions, GroupMention{
			GroupSubject: gm.String("groupSubject"),
			GroupJID:     gm.ID("groupJid"),
		})
	}
	for _, l := range data.Maps("links") {
		m.Links = append(m.Links, Link{Link: l.String("link"), IsSuspicious: l.Bool("isSuspicious")})
	}

	m.OrderID = data.Text("orderId")
	m.Token = data.String("token")
	m.Title = data.String("title")
	m.Description = data.String("description")
	m.BusinessOwnerJID = data.Serialized("businessOwnerJid")
	m.ProductID = data.Text("productId")
	m.LatestEditSenderTimestampMs = data.Int64("latestEditSenderTimestampMs")
	if data.Bool("latestEditMsgKey") {
		key := data.ID("latestEditMsgKey")
		m.LatestEditMsgKey = &key
	}
	m.DynamicReplyButtons = data.Slice("dynamicReplyButtons")
	m.SelectedButtonID = data.String("selectedButtonId")
	m.SelectedRowID = data.Map("listResponse").Map("singleSelectReply").String("selectedRowId")

	if m.Type == MessageTypePollCreation {
		m.PollName = data.String("pollName")
		m.PollOptions = pollOptionsFrom(data.Maps("pollOptions"))
		m.AllowMultipleAnswers = !data.Bool("pollSelectableOptionsCount")
		m.PollInvalidated = data.Bool("pollInvalidated")
		m.IsSentCagPollCreation = data.Bool("isSentCagPollCreation")
		m.MessageSecret = secretValues(data.Value("messageSecret"))
	}

	return data
}

// chatID is the chat the message lives in, seen from this account.
func (m *Message) chatID() string {
	if m.FromMe {
		return m.To
	}
	return m.From
}

// chatField names the payload field chatID reads.
func (m *Message) chatField() string {
	if m.FromMe {
		return "to"
	}
	return "from"
}

func deviceType(keyID any) string {
	s, ok := keyID.(string)
	switch {
	case ok && len(s) > 21:
		return DeviceAndroid
	case ok && strings.HasPrefix(s, "3A"):
		return DeviceIOS
	default:
		return DeviceWeb
	}
}

func firstString(data Raw, keys ...string) string {
	for _, k := range keys {
		if s := data.String(k); s != "" {
			return s
		}
	}
	return ""
}

func messageLocation(data Raw, t MessageType) *Location {
	if t != MessageTypeLocation {
		return nil
	}
	var opts *LocationOptions
	if loc := data.String("loc"); loc != "" {
		name, address, _ := strings.Cut(loc, "\n")
		if i := strings.IndexByte(address, '\n'); i >= 0 {
			address = address[:i]
		}
		opts = &LocationOptions{Name: name, Address: address, URL: data.String("clientUrl")}
	}
	return NewLocation(data.Float64("lat"), data.Float64("lng"), opts)
}

func messageVCards(data Raw, t MessageType) []string {
	switch t {
	case MessageTypeContactCardMulti:
		cards := []string{}
		for _, c := range data.Maps("vcardList") {
			cards = append(cards, c.String("vcard"))
		}
		return cards
	case MessageTypeContactCard:
		return []string{data.String("body")}
	}
	return []string{}
}

func pollOptionsFrom(items []Raw) []PollOption {
	opts := make([]PollOption, 0, len(items))
	for _, o := range items {
		opts = append(opts, PollOption{Name: o.String("name"), LocalID: o.Int("localId")})
	}
	return opts
}

// secretValues flattens a message secret sent either as an array or as an
// object keyed by index.
func secretValues(v any) []int {
	if items := asSlice(v); items != nil {
		out := make([]int, 0, len(items))
		for _, item := range items {
			n, _ := toInt64(item)
			out = append(out, int(n))
		}
		return out
	}

	obj := asRaw(v)
	if obj == nil {
		return []int{}
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
	out := make([]int, 0, len(keys))
	for _, k := range keys {
		out = append(out, obj.Int(k))
	}
	return out
}
