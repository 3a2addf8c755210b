package handlers

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Validation limits for technology fields.
const (
	maxTitleLen       = 300
	maxDescriptionLen = 10_000
	maxLinkLen        = 2_000
)

// validateTechnology checks a technology request and returns the first
// error found, or "" when the request is valid.
func validateTechnology(req *technologyRequest) string {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return "title is required"
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "title is too long (max 300 characters)"
	}
	if req.CompanyID == uuid.Nil {
		return "company is required"
	}
	if len(req.CategoryIDs) == 0 {
		return "at least one category is required"
	}
	if utf8.RuneCountInString(req.Description) > maxDescriptionLen {
		return "description is too long (max 10,000 characters)"
	}
	for _, link := range []string{req.Link1, req.Link2, req.Link3} {
		if utf8.RuneCountInString(link) > maxLinkLen {
			return "link is too long (max 2,000 characters)"
		}
	}
	return ""
}

// trimmed returns the string with surrounding whitespace removed.
func trimmed(s string) string {
	return strings.TrimSpace(s)
}

// optional normalizes an optional form value: whitespace-only input
// becomes NULL rather than an empty string in the database.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
