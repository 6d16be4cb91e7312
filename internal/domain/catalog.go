package domain

import "time"

// Subject is a teachable unit candidates can enrol in.
type Subject struct {
	ID        string
	Name      string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Package bundles subjects into a sellable training package.
type Package struct {
	ID         string
	Name       string
	Code       string
	SubjectIDs []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
