package types

import "time"

// TabID identifies a browser tab. IDs are never reused after a tab closes.
type TabID string

func (id TabID) String() string { return string(id) }

// Generation distinguishes successive navigations of one tab
type Generation uint64

// TabSnapshot is a point-in-time copy of a tab's state for the presentation layer
type TabSnapshot struct {
	ID           TabID         `json:"id"`
	URL          string        `json:"url"`
	Title        *string       `json:"title,omitempty"`
	Loading      bool          `json:"loading"`
	Generation   Generation    `json:"generation"`
	LastResponse *PageResponse `json:"last_response,omitempty"`
	LastLoaded   *time.Time    `json:"last_loaded,omitempty"`
}

// Clone returns a deep copy so callers never share memory with the registry
func (s TabSnapshot) Clone() TabSnapshot {
	out := s
	if s.Title != nil {
		title := *s.Title
		out.Title = &title
	}
	if s.LastResponse != nil {
		resp := s.LastResponse.Clone()
		out.LastResponse = &resp
	}
	if s.LastLoaded != nil {
		loaded := *s.LastLoaded
		out.LastLoaded = &loaded
	}
	return out
}

// TitleOr returns the title or fallback when unset
func (s TabSnapshot) TitleOr(fallback string) string {
	if s.Title == nil || *s.Title == "" {
		return fallback
	}
	return *s.Title
}
