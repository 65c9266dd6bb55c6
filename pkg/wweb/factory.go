package wweb

import (
	"github.com/sirupsen/logrus"

	"whatsweb/internal/privacy"
)

// NewChat builds the Chat variant selected by the payload flags. isGroup is
// checked before isChannel, so a payload carrying both yields a GroupChat.
func NewChat(client *Client, data Raw) Chat {
	var chat Chat
	switch {
	case data.Bool("isGroup"):
		chat = NewGroupChat(client, data)
	case data.Bool("isChannel"):
		chat = NewChannel(client, data)
	default:
		chat = NewPrivateChat(client, data)
	}

	client.log().WithFields(logrus.Fields{
		privacy.FieldKind:   chat.Kind(),
		privacy.FieldChatID: privacy.MaskChatID(data.Serialized("id")),
	}).Debug("Built chat from payload")
	return chat
}

// NewContact builds a BusinessContact when isBusiness is set and a
// PrivateContact otherwise.
func NewContact(client *Client, data Raw) Contact {
	var contact Contact
	if data.Bool("isBusiness") {
		contact = NewBusinessContact(client, data)
	} else {
		contact = NewPrivateContact(client, data)
	}

	client.log().WithFields(logrus.Fields{
		privacy.FieldKind:      contact.Kind(),
		privacy.FieldContactID: privacy.MaskChatID(data.Serialized("id")),
	}).Debug("Built contact from payload")
	return contact
}
