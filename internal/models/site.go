package models

import (
	"fmt"
	"strings"
)

// Site is a published text document. ID is derived from Owner and Title and is
// the collection key, so it is not stored inside the record.
type Site struct {
	ID      string `json:"-"`
	Owner   string `json:"owner"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SiteID keys sites per owner: two owners may publish the same title.
func SiteID(owner, title string) string {
	return owner + "/" + title
}

// NewSite trims title and content and rejects a record that would be empty.
func NewSite(owner, title, content string) (Site, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if owner == "" || title == "" || content == "" {
		return Site{}, fmt.Errorf("owner, title and content are required: %w", ErrInvalidInput)
	}
	if strings.Contains(owner, "/") {
		return Site{}, fmt.Errorf("owner %q contains '/': %w", owner, ErrInvalidInput)
	}
	return Site{
		ID:      SiteID(owner, title),
		Owner:   owner,
		Title:   title,
		Content: content,
	}, nil
}

// SearchResult is a match rendered for the interactive client.
type SearchResult struct {
	Site       Site   `json:"site"`
	DisplayURL string `json:"display_url"`
	Snippet    string `json:"snippet"`
}
