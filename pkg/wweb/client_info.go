package wweb

import "context"

// BatteryStatus reports the phone battery.
//
// Deprecated: multi-device sessions no longer report it, so Battery is
// usually zero.
type BatteryStatus struct {
	Battery int  `json:"battery"`
	Plugged bool `json:"plugged"`
}

// ClientInfo describes the logged-in account.
type ClientInfo struct {
	client *Client
	data   Raw

	Pushname string `json:"pushname"`
	WID      ID     `json:"wid"`
	Me       ID     `json:"me"`
	Phone    Raw    `json:"phone,omitempty"`
	Platform string `json:"platform"`
}

// NewClientInfo creates a ClientInfo, patching it when data is non-nil.
func NewClientInfo(client *Client, data Raw) *ClientInfo {
	ci := &ClientInfo{client: client}
	if data != nil {
		ci.Patch(data)
	}
	return ci
}

// Patch replaces every field with values derived from data.
func (ci *ClientInfo) Patch(data Raw) Raw {
	*ci = ClientInfo{client: ci.client, data: data}
	ci.Pushname = data.String("pushname")
	ci.WID = data.ID("wid")
	ci.Me = ci.WID
	ci.Phone = data.Map("phone")
	ci.Platform = data.String("platform")
	return data
}

// Client returns the client the info was built with.
func (ci *ClientInfo) Client() *Client { return ci.client }

// RawData returns the payload the info was last patched from.
func (ci *ClientInfo) RawData() Raw { return ci.data }

// GetBatteryStatus reads the phone battery state.
func (ci *ClientInfo) GetBatteryStatus(ctx context.Context) (*BatteryStatus, error) {
	status := &BatteryStatus{}
	found, err := ci.client.callInto(ctx, status, fnGetBatteryStatus)
	if err != nil || !found {
		return nil, err
	}
	return status, nil
}
