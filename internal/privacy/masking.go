package privacy

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Log field names used across the client and daemon.
const (
	FieldChatID    = "chat_id"
	FieldContactID = "contact_id"
	FieldMessageID = "message_id"
	FieldEvent     = "event"
	FieldFn        = "fn"
	FieldKind      = "kind"
	FieldPushname  = "pushname"
)

// MaskChatID keeps the server suffix and the last four characters of the user part.
// Example: "1234567890@c.us" -> "******7890@c.us"
func MaskChatID(chatID string) string {
	if chatID == "" {
		return ""
	}

	user, server, found := strings.Cut(chatID, "@")
	if !found {
		return maskString(chatID, 4)
	}
	return maskString(user, 4) + "@" + server
}

// MaskMessageID masks both the chat and the key part of a serialized message id.
// Example: "true_1234567890@c.us_3EB0A1B2C3" -> "true_******7890@c.us_******B2C3"
func MaskMessageID(messageID string) string {
	if messageID == "" {
		return ""
	}

	parts := strings.SplitN(messageID, "_", 3)
	if len(parts) < 3 {
		return maskString(messageID, 8)
	}
	return parts[0] + "_" + MaskChatID(parts[1]) + "_" + maskString(parts[2], 4)
}

// MaskName hides all but the first character of a display name.
func MaskName(name string) string {
	r := []rune(name)
	if len(r) <= 1 {
		return strings.Repeat("*", len(r))
	}
	return string(r[0]) + strings.Repeat("*", len(r)-1)
}

func maskString(s string, keepLast int) string {
	if len(s) <= keepLast {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-keepLast) + s[len(s)-keepLast:]
}

// MaskFields returns a copy of fields with identifier values masked by key.
func MaskFields(fields logrus.Fields) logrus.Fields {
	if fields == nil {
		return nil
	}

	masked := make(logrus.Fields, len(fields))
	for k, v := range fields {
		s, ok := v.(string)
		if !ok {
			masked[k] = v
			continue
		}
		switch k {
		case FieldChatID, FieldContactID, "from", "to", "author":
			masked[k] = MaskChatID(s)
		case FieldMessageID:
			masked[k] = MaskMessageID(s)
		case FieldPushname:
			masked[k] = MaskName(s)
		default:
			masked[k] = v
		}
	}
	return masked
}
