package domain

import (
	"encoding/json"
	"time"
)

type ID string

// Bookmark is the stored shape. Tags holds the JSON-encoded string sequence
// exactly as the client supplied it: order preserved, duplicates kept.
type Bookmark struct {
	ID          ID
	Title       string
	URL         string
	Description string
	Tags        string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// View is the projection returned across the service boundary. The owner id
// stays internal; it exists only for authorization.
type View struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func EncodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// DecodeTags parses a stored tag payload. An empty column decodes as an
// empty sequence.
func DecodeTags(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

func (b Bookmark) View() (View, error) {
	tags, err := DecodeTags(b.Tags)
	if err != nil {
		return View{}, err
	}
	return View{
		ID:          string(b.ID),
		Title:       b.Title,
		URL:         b.URL,
		Description: b.Description,
		Tags:        tags,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}, nil
}
