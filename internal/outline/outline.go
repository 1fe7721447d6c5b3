// Package outline turns classified line records into a leveled, deduplicated,
// hierarchy-valid document outline with a selected title.
package outline

import (
	"encoding/json"
	"fmt"
)

// Level is a heading depth bucket, H1 (top) through H3 (deepest supported).
// It serializes as the string "H1".."H3".
type Level int

const (
	H1 Level = 1
	H2 Level = 2
	H3 Level = 3
)

func (l Level) String() string {
	switch l {
	case H1:
		return "H1"
	case H2:
		return "H2"
	case H3:
		return "H3"
	}
	return fmt.Sprintf("H%d", int(l))
}

// Rank returns the integer depth, H1=1..H3=3.
func (l Level) Rank() int { return int(l) }

func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "H1":
		*l = H1
	case "H2":
		*l = H2
	case "H3":
		*l = H3
	default:
		return fmt.Errorf("unknown heading level %q", s)
	}
	return nil
}

// Item is one outline entry. Page is 1-based in the external contract; the
// Builder converts from the 0-based page indices used during scanning.
type Item struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Outline is the navigational structure of one document.
// Items is empty, never nil, so it serializes as [].
type Outline struct {
	Title string `json:"title"`
	Items []Item `json:"outline"`
}

// Empty returns the canonical empty outline.
func Empty() Outline {
	return Outline{Title: "", Items: []Item{}}
}
