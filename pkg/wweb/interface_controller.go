package wweb

import "context"

// InterfaceController drives the WhatsApp Web UI of the running session.
type InterfaceController struct {
	client *Client
}

// NewInterfaceController returns a controller issuing UI commands through
// client.
func NewInterfaceController(client *Client) *InterfaceController {
	return &InterfaceController{client: client}
}

// UI commands understood by the runtime's interface controller.
const (
	uiOpenChatWindow    = "openChatWindow"
	uiOpenChatDrawer    = "openChatDrawer"
	uiOpenChatSearch    = "openChatSearch"
	uiOpenChatWindowAt  = "openChatWindowAt"
	uiOpenMessageDrawer = "openMessageDrawer"
	uiCloseRightDrawer  = "closeRightDrawer"
	uiGetFeatures       = "getFeatures"
	uiCheckFeature      = "checkFeatureStatus"
	uiEnableFeatures    = "enableFeatures"
	uiDisableFeatures   = "disableFeatures"
)

func (ic *InterfaceController) command(ctx context.Context, cmd string, args ...any) error {
	_, err := ic.client.call(ctx, fnInterface, append([]any{cmd}, args...)...)
	return err
}

// OpenChatWindow opens the chat in the main panel.
func (ic *InterfaceController) OpenChatWindow(ctx context.Context, chatID string) error {
	return ic.command(ctx, uiOpenChatWindow, chatID)
}

// OpenChatDrawer opens the chat info drawer.
func (ic *InterfaceController) OpenChatDrawer(ctx context.Context, chatID string) error {
	return ic.command(ctx, uiOpenChatDrawer, chatID)
}

// OpenChatSearch opens message search inside the chat.
func (ic *InterfaceController) OpenChatSearch(ctx context.Context, chatID string) error {
	return ic.command(ctx, uiOpenChatSearch, chatID)
}

// OpenChatWindowAt scrolls the chat to a message.
func (ic *InterfaceController) OpenChatWindowAt(ctx context.Context, messageID string) error {
	return ic.command(ctx, uiOpenChatWindowAt, messageID)
}

// OpenMessageDrawer opens the message info drawer.
func (ic *InterfaceController) OpenMessageDrawer(ctx context.Context, messageID string) error {
	return ic.command(ctx, uiOpenMessageDrawer, messageID)
}

// CloseRightDrawer closes whatever drawer is open on the right.
func (ic *InterfaceController) CloseRightDrawer(ctx context.Context) error {
	return ic.command(ctx, uiCloseRightDrawer)
}

// GetFeatures returns the feature flags of the web client.
func (ic *InterfaceController) GetFeatures(ctx context.Context) (map[string]bool, error) {
	features := map[string]bool{}
	if _, err := ic.client.callInto(ctx, &features, fnInterface, uiGetFeatures); err != nil {
		return nil, err
	}
	return features, nil
}

// CheckFeatureStatus reports whether one feature is enabled.
func (ic *InterfaceController) CheckFeatureStatus(ctx context.Context, feature string) (bool, error) {
	return ic.client.callBool(ctx, fnInterface, uiCheckFeature, feature)
}

// EnableFeatures turns features on.
func (ic *InterfaceController) EnableFeatures(ctx context.Context, features []string) error {
	return ic.command(ctx, uiEnableFeatures, features)
}

// DisableFeatures turns features off.
func (ic *InterfaceController) DisableFeatures(ctx context.Context, features []string) error {
	return ic.command(ctx, uiDisableFeatures, features)
}
