// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package video holds the video record model, the payload validators and the
// in-memory store the HTTP layer mutates.
package video

import (
	"slices"
	"time"
)

// TimestampLayout is the ISO-8601 form (UTC, millisecond precision) used for
// createdAt and the derived publicationDate.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Video is one record of the collection.
type Video struct {
	ID                   int          `json:"id"`
	Title                string       `json:"title"`
	Author               string       `json:"author"`
	CanBeDownloaded      bool         `json:"canBeDownloaded"`
	MinAgeRestriction    *int         `json:"minAgeRestriction"`
	CreatedAt            string       `json:"createdAt"`
	PublicationDate      string       `json:"publicationDate"`
	AvailableResolutions []Resolution `json:"availableResolutions"`
}

// Draft carries the validated fields of a create payload.
type Draft struct {
	Title                string
	Author               string
	AvailableResolutions []Resolution
}

// Fields carries the validated fields of an update payload. Every field
// replaces the stored value; id and createdAt are never part of it.
type Fields struct {
	Title                string
	Author               string
	AvailableResolutions []Resolution
	CanBeDownloaded      bool
	MinAgeRestriction    *int
	PublicationDate      string
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func (v *Video) clone() Video {
	out := *v
	out.AvailableResolutions = slices.Clone(v.AvailableResolutions)
	if v.MinAgeRestriction != nil {
		age := *v.MinAgeRestriction
		out.MinAgeRestriction = &age
	}
	return out
}

func (v *Video) apply(f Fields) {
	v.Title = f.Title
	v.Author = f.Author
	v.AvailableResolutions = slices.Clone(f.AvailableResolutions)
	v.CanBeDownloaded = f.CanBeDownloaded
	v.MinAgeRestriction = nil
	if f.MinAgeRestriction != nil {
		age := *f.MinAgeRestriction
		v.MinAgeRestriction = &age
	}
	v.PublicationDate = f.PublicationDate
}
