// Package models defines the persisted entities of the smart ship
// technology comparison service and the denormalized view records
// assembled from them.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Technology is a single smart ship technology owned by exactly one
// company. Optional text columns are pointers so that absent values map
// to SQL NULL instead of empty strings.
type Technology struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	AcronymFull *string    `json:"acronym_full,omitempty"`
	Description *string    `json:"description,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
	CompanyID   uuid.UUID  `json:"company_id"`
	Link1       *string    `json:"link1,omitempty"`
	Link1Title  *string    `json:"link1_title,omitempty"`
	Link2       *string    `json:"link2,omitempty"`
	Link2Title  *string    `json:"link2_title,omitempty"`
	Link3       *string    `json:"link3,omitempty"`
	Link3Title  *string    `json:"link3_title,omitempty"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	UpdatedBy   *uuid.UUID `json:"updated_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Link is one external reference attached to a technology.
type Link struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Links returns the technology's non-empty link pairs in slot order.
// A slot with a URL but no title falls back to the URL as its title.
func (t *Technology) Links() []Link {
	var links []Link
	slots := []struct {
		url   *string
		title *string
	}{
		{t.Link1, t.Link1Title},
		{t.Link2, t.Link2Title},
		{t.Link3, t.Link3Title},
	}
	for _, s := range slots {
		if s.url == nil || *s.url == "" {
			continue
		}
		l := Link{URL: *s.url, Title: *s.url}
		if s.title != nil && *s.title != "" {
			l.Title = *s.title
		}
		links = append(links, l)
	}
	return links
}

// CategoryMapping is a join row linking a technology to a category.
// It has no lifecycle of its own beyond its parent rows.
type CategoryMapping struct {
	TechnologyID uuid.UUID `json:"technology_id"`
	CategoryID   uuid.UUID `json:"category_id"`
}

// CategoryRef is the slice of a category that management views attach to
// a technology.
type CategoryRef struct {
	ID   uuid.UUID    `json:"id"`
	Name string       `json:"name"`
	Type CategoryType `json:"type"`
}

// TechnologyDetail is the fully denormalized view record shown in the
// management table: the technology plus resolved company, admin, and
// category names.
type TechnologyDetail struct {
	Technology
	CompanyName   string        `json:"company_name"`
	Categories    []CategoryRef `json:"categories"`
	CreatedByName string        `json:"created_by_name,omitempty"`
	UpdatedByName string        `json:"updated_by_name,omitempty"`
}
