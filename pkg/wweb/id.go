package wweb

import (
	"encoding/json"
	"strings"
)

// Well-known servers of a serialized id.
const (
	ServerUser       = "c.us"
	ServerGroup      = "g.us"
	ServerBroadcast  = "broadcast"
	ServerNewsletter = "newsletter"
	ServerLID        = "lid"

	// StatusBroadcast is the remote of every status update.
	StatusBroadcast = "status@broadcast"
)

// ID identifies a server-sourced entity. Serialized is the only form sent
// through the bridge, and two ids are equal when their Serialized forms are.
// Message keys additionally carry FromMe, Remote and the key ID.
type ID struct {
	Server     string `json:"server,omitempty"`
	User       string `json:"user,omitempty"`
	Serialized string `json:"_serialized"`

	FromMe bool   `json:"fromMe,omitempty"`
	Remote string `json:"remote,omitempty"`
	ID     string `json:"id,omitempty"`
}

// ParseID builds an ID from a "user@server" string.
func ParseID(s string) ID {
	id := ID{Serialized: s}
	if user, server, ok := strings.Cut(s, "@"); ok {
		id.User, id.Server = user, server
	}
	return id
}

func idFrom(v any) ID {
	if s, ok := v.(string); ok {
		return ParseID(s)
	}
	if id, ok := v.(ID); ok {
		return id
	}

	m := asRaw(v)
	if m == nil {
		return ID{}
	}
	return ID{
		Server:     m.String("server"),
		User:       m.String("user"),
		Serialized: m.String("_serialized"),
		FromMe:     m.Bool("fromMe"),
		Remote:     m.Serialized("remote"),
		ID:         m.String("id"),
	}
}

func (id ID) String() string {
	return id.Serialized
}

// IsZero reports whether the id carries no serialized form.
func (id ID) IsZero() bool {
	return id.Serialized == ""
}

// Equal compares serialized forms.
func (id ID) Equal(other ID) bool {
	return id.Serialized == other.Serialized
}

func (id ID) server() string {
	if id.Server != "" {
		return id.Server
	}
	_, server, _ := strings.Cut(id.Serialized, "@")
	return server
}

// IsGroup reports whether the id belongs to a group chat.
func (id ID) IsGroup() bool {
	return id.server() == ServerGroup
}

// IsNewsletter reports whether the id belongs to a channel.
func (id ID) IsNewsletter() bool {
	return id.server() == ServerNewsletter
}

// UnmarshalJSON accepts both the object form and a bare serialized string.
func (id *ID) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*id = idFrom(v)
	return nil
}
