package wweb

import "context"

// ContactKind tags the concrete Contact variant.
type ContactKind string

// Contact variants.
const (
	ContactKindPrivate  ContactKind = "private"
	ContactKindBusiness ContactKind = "business"
)

// Contact is either *PrivateContact or *BusinessContact.
type Contact interface {
	Kind() ContactKind
	ContactID() ID
	Base() *ContactBase
	Patch(data Raw) Raw
	Client() *Client
	RawData() Raw

	sealedContact()
}

// ContactBase holds the fields and actions every contact has.
type ContactBase struct {
	client *Client
	data   Raw

	ID            ID       `json:"id"`
	Number        string   `json:"number"`
	IsBusiness    bool     `json:"isBusiness"`
	IsEnterprise  bool     `json:"isEnterprise"`
	Labels        []string `json:"labels,omitempty"`
	Name          string   `json:"name,omitempty"`
	Pushname      string   `json:"pushname,omitempty"`
	SectionHeader string   `json:"sectionHeader,omitempty"`
	ShortName     string   `json:"shortName,omitempty"`
	StatusMute    bool     `json:"statusMute"`
	Type          string   `json:"type,omitempty"`
	VerifiedLevel int      `json:"verifiedLevel,omitempty"`
	VerifiedName  string   `json:"verifiedName,omitempty"`
	IsMe          bool     `json:"isMe"`
	IsUser        bool     `json:"isUser"`
	IsGroup       bool     `json:"isGroup"`
	IsWAContact   bool     `json:"isWAContact"`
	IsMyContact   bool     `json:"isMyContact"`
	IsBlocked     bool     `json:"isBlocked"`
}

func (c *ContactBase) patchShared(data Raw) {
	*c = ContactBase{client: c.client, data: data}
	c.ID = data.ID("id")
	c.Number = data.Text("userid")
	c.IsBusiness = data.Bool("isBusiness")
	c.IsEnterprise = data.Bool("isEnterprise")
	c.Labels = data.Strings("labels")
	c.Name = data.String("name")
	c.Pushname = data.String("pushname")
	c.SectionHeader = data.String("sectionHeader")
	c.ShortName = data.String("shortName")
	c.StatusMute = data.Bool("statusMute")
	c.Type = data.String("type")
	c.VerifiedLevel = data.Int("verifiedLevel")
	c.VerifiedName = data.String("verifiedName")
	c.IsMe = data.Bool("isMe")
	c.IsUser = data.Bool("isUser")
	c.IsGroup = data.Bool("isGroup")
	c.IsWAContact = data.Bool("isWAContact")
	c.IsMyContact = data.Bool("isMyContact")
	c.IsBlocked = data.Bool("isBlocked")
}

// ContactID returns the contact id.
func (c *ContactBase) ContactID() ID { return c.ID }

// Base returns the shared contact fields.
func (c *ContactBase) Base() *ContactBase { return c }

// Client returns the client the contact was built with.
func (c *ContactBase) Client() *Client { return c.client }

// RawData returns the payload the contact was last patched from.
func (c *ContactBase) RawData() Raw { return c.data }

func (c *ContactBase) id() (string, error) {
	if err := requireID("contact", c.ID); err != nil {
		return "", err
	}
	return c.ID.Serialized, nil
}

// GetProfilePicURL returns the profile picture URL, or "" when hidden.
func (c *ContactBase) GetProfilePicURL(ctx context.Context) (string, error) {
	id, err := c.id()
	if err != nil {
		return "", err
	}
	return c.client.GetProfilePicURL(ctx, id)
}

// GetFormattedNumber returns the number in international format.
func (c *ContactBase) GetFormattedNumber(ctx context.Context) (string, error) {
	id, err := c.id()
	if err != nil {
		return "", err
	}
	return c.client.GetFormattedNumber(ctx, id)
}

// GetCountryCode returns the calling code of the number.
func (c *ContactBase) GetCountryCode(ctx context.Context) (string, error) {
	id, err := c.id()
	if err != nil {
		return "", err
	}
	return c.client.GetCountryCode(ctx, id)
}

// GetChat returns the chat with this contact, or nil for this account.
func (c *ContactBase) GetChat(ctx context.Context) (Chat, error) {
	if c.IsMe {
		return nil, nil
	}
	id, err := c.id()
	if err != nil {
		return nil, err
	}
	return c.client.GetChatByID(ctx, id)
}

// Block blocks the contact. Groups cannot be blocked and report false.
func (c *ContactBase) Block(ctx context.Context) (bool, error) {
	return c.setBlocked(ctx, fnBlockContact, true)
}

// Unblock unblocks the contact. Groups report false.
func (c *ContactBase) Unblock(ctx context.Context) (bool, error) {
	return c.setBlocked(ctx, fnUnblockContact, false)
}

func (c *ContactBase) setBlocked(ctx context.Context, fn string, blocked bool) (bool, error) {
	if c.IsGroup {
		return false, nil
	}
	id, err := c.id()
	if err != nil {
		return false, err
	}
	if _, err := c.client.call(ctx, fn, id); err != nil {
		return false, err
	}
	c.IsBlocked = blocked
	return true, nil
}

// GetAbout returns the contact's status text, or nil when it is not
// available.
func (c *ContactBase) GetAbout(ctx context.Context) (*string, error) {
	id, err := c.id()
	if err != nil {
		return nil, err
	}
	about, err := c.client.callRaw(ctx, fnGetAbout, id)
	if err != nil {
		return nil, err
	}
	status, ok := about.Value("status").(string)
	if !ok {
		return nil, nil
	}
	return &status, nil
}

// GetCommonGroups returns the groups shared with this contact.
func (c *ContactBase) GetCommonGroups(ctx context.Context) ([]ID, error) {
	id, err := c.id()
	if err != nil {
		return nil, err
	}
	return c.client.GetCommonGroups(ctx, id)
}

// PrivateContact is a regular user account.
type PrivateContact struct {
	ContactBase
}

// NewPrivateContact creates a PrivateContact, patching it when data is
// non-nil.
func NewPrivateContact(client *Client, data Raw) *PrivateContact {
	c := &PrivateContact{ContactBase: ContactBase{client: client}}
	if data != nil {
		c.Patch(data)
	}
	return c
}

// Kind reports ContactKindPrivate.
func (*PrivateContact) Kind() ContactKind { return ContactKindPrivate }

// Patch replaces every field with values derived from data.
func (c *PrivateContact) Patch(data Raw) Raw {
	c.patchShared(data)
	return data
}

func (*PrivateContact) sealedContact() {}

// BusinessContact is a business account with a public profile.
type BusinessContact struct {
	ContactBase

	BusinessProfile Raw `json:"businessProfile,omitempty"`
}

// NewBusinessContact creates a BusinessContact, patching it when data is
// non-nil.
func NewBusinessContact(client *Client, data Raw) *BusinessContact {
	c := &BusinessContact{ContactBase: ContactBase{client: client}}
	if data != nil {
		c.Patch(data)
	}
	return c
}

// Kind reports ContactKindBusiness.
func (*BusinessContact) Kind() ContactKind { return ContactKindBusiness }

// Patch replaces every field with values derived from data.
func (c *BusinessContact) Patch(data Raw) Raw {
	c.BusinessProfile = data.Map("businessProfile")
	c.patchShared(data)
	return data
}

func (*BusinessContact) sealedContact() {}
