package wweb

import (
	"math/rand/v2"

	apperrors "whatsweb/internal/errors"
)

const rowIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// ListRow is a selectable entry of a list section. An empty ID is replaced by
// a generated one.
type ListRow struct {
	ID          string `json:"rowId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ListSection groups rows under an optional title.
type ListSection struct {
	Title string    `json:"title,omitempty"`
	Rows  []ListRow `json:"rows"`
}

// List is an interactive list message.
type List struct {
	Description string        `json:"description"`
	ButtonText  string        `json:"buttonText"`
	Title       string        `json:"title,omitempty"`
	Footer      string        `json:"footer,omitempty"`
	Sections    []ListSection `json:"sections"`
}

// NewList validates sections and returns the send-ready list. It never
// returns a partially built list.
func NewList(body, buttonText string, sections []ListSection, title, footer string) (*List, error) {
	formatted, err := formatSections(sections)
	if err != nil {
		return nil, err
	}
	return &List{
		Description: body,
		ButtonText:  buttonText,
		Title:       title,
		Footer:      footer,
		Sections:    formatted,
	}, nil
}

func formatSections(sections []ListSection) ([]ListSection, error) {
	if len(sections) == 0 {
		return nil, listError("sections", "LT02", "list without sections")
	}

	if len(sections) > 1 {
		untitled := 0
		for _, s := range sections {
			if s.Title == "" {
				untitled++
			}
		}
		if untitled > 1 {
			return nil, listError("sections", "LT05", "more than one section without a title")
		}
	}

	out := make([]ListSection, 0, len(sections))
	for _, s := range sections {
		if len(s.Rows) == 0 {
			return nil, listError("rows", "LT03", "section without rows")
		}
		rows := make([]ListRow, 0, len(s.Rows))
		for _, r := range s.Rows {
			if r.Title == "" {
				return nil, listError("title", "LT04", "row without title")
			}
			if r.ID == "" {
				r.ID = generateHash(6)
			}
			rows = append(rows, r)
		}
		out = append(out, ListSection{Title: s.Title, Rows: rows})
	}
	return out, nil
}

func listError(field, code, message string) error {
	return apperrors.NewValidationError(field, code, "["+code+"] "+message).
		WithContext("list_code", code)
}

func generateHash(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = rowIDAlphabet[rand.IntN(len(rowIDAlphabet))]
	}
	return string(b)
}
