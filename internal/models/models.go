package models

import "strings"

// Record is a single user's displayed attributes.
type Record struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// FullName joins the first and last name, dropping whichever is empty.
func (r Record) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// Matches reports whether query is a case-insensitive substring of the first name, last name or email.
//
// The empty query matches every record.
func (r Record) Matches(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(r.FirstName), q) ||
		strings.Contains(strings.ToLower(r.LastName), q) ||
		strings.Contains(strings.ToLower(r.Email), q)
}
