package wweb

import "context"

// Label is a business chat label.
type Label struct {
	client *Client
	data   Raw

	ID       string `json:"id"`
	Name     string `json:"name"`
	HexColor string `json:"hexColor"`
}

// NewLabel creates a Label, patching it when data is non-nil.
func NewLabel(client *Client, data Raw) *Label {
	l := &Label{client: client}
	if data != nil {
		l.Patch(data)
	}
	return l
}

// Patch replaces every field with values derived from data.
func (l *Label) Patch(data Raw) Raw {
	*l = Label{client: l.client, data: data}
	l.ID = data.Text("id")
	l.Name = data.String("name")
	l.HexColor = data.String("hexColor")
	return data
}

// Client returns the client the label was built with.
func (l *Label) Client() *Client { return l.client }

// RawData returns the payload the label was last patched from.
func (l *Label) RawData() Raw { return l.data }

// GetChats returns every chat carrying this label.
func (l *Label) GetChats(ctx context.Context) ([]Chat, error) {
	return l.client.GetChatsByLabelID(ctx, l.ID)
}
