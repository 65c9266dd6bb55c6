package privacy

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestMaskChatID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"private chat", "1234567890@c.us", "******7890@c.us"},
		{"group chat", "120363025246125486@g.us", "**************5486@g.us"},
		{"short user", "123@c.us", "***@c.us"},
		{"no server", "abcdefgh", "****efgh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskChatID(tt.input))
		})
	}
}

func TestMaskMessageID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"serialized key", "true_1234567890@c.us_3EB0A1B2C3", "true_******7890@c.us_******B2C3"},
		{"key with underscore", "false_1234@c.us_AB_CDEF", "false_****@c.us_***CDEF"},
		{"opaque", "ABCDEFGHIJKL", "****EFGHIJKL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskMessageID(tt.input))
		})
	}
}

func TestMaskName(t *testing.T) {
	assert.Equal(t, "", MaskName(""))
	assert.Equal(t, "*", MaskName("A"))
	assert.Equal(t, "A****", MaskName("Alice"))
	assert.Equal(t, "Ö**", MaskName("Öla"))
}

func TestMaskFields(t *testing.T) {
	masked := MaskFields(logrus.Fields{
		FieldChatID:    "1234567890@c.us",
		FieldMessageID: "true_1234567890@c.us_3EB0A1B2C3",
		FieldPushname:  "Alice",
		FieldEvent:     "message",
		"count":        3,
	})

	assert.Equal(t, "******7890@c.us", masked[FieldChatID])
	assert.Equal(t, "true_******7890@c.us_******B2C3", masked[FieldMessageID])
	assert.Equal(t, "A****", masked[FieldPushname])
	assert.Equal(t, "message", masked[FieldEvent])
	assert.Equal(t, 3, masked["count"])
	assert.Nil(t, MaskFields(nil))
}
