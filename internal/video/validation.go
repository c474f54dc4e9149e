// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package video

import (
	"encoding/json"
	"math"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/ManuGH/videosvc/internal/validate"
)

// Field names as they appear in payloads and error bodies.
const (
	FieldID                   = "id"
	FieldTitle                = "title"
	FieldAuthor               = "author"
	FieldAvailableResolutions = "availableResolutions"
	FieldCanBeDownloaded      = "canBeDownloaded"
	FieldMinAgeRestriction    = "minAgeRestriction"
	FieldPublicationDate      = "publicationDate"
)

// Length bounds, measured after trimming.
const (
	MaxTitleLength  = 40
	MaxAuthorLength = 20
	MinAge          = 1
	MaxAge          = 18
)

// Error messages reported to API clients.
const (
	MsgInvalidTitle              = "Invalid title."
	MsgInvalidAuthor             = "Invalid author"
	MsgResolutionsEmpty          = "At least one resolution must be provided"
	MsgResolutionInvalid         = "Invalid resolution value"
	MsgTitleRequired             = "Title is required"
	MsgAuthorRequired            = "Author is required"
	MsgResolutionsRequired       = "Available resolutions is required"
	MsgCanBeDownloadedRequired   = "canBeDownloaded is required"
	MsgInvalidCanBeDownloaded    = "Invalid canBeDownloaded"
	MsgMinAgeRequired            = "minAgeRestriction is required"
	MsgInvalidMinAge             = "Invalid minAgeRestriction"
	MsgPublicationDateRequired   = "publicationDate is required"
	MsgInvalidPublicationDate    = "Invalid publicationDate"
	MsgInvalidPublicationDateFmt = "Invalid publicationDate format"
	MsgNotFound                  = "Video not found"
)

// ValidateTitle checks a title value: it must be a non-empty string whose
// trimmed length does not exceed MaxTitleLength. The emptiness check looks at
// the untrimmed value, so a whitespace-only title passes.
func ValidateTitle(title Optional) *validate.Error {
	if _, ok := boundedString(title, MaxTitleLength); !ok {
		return &validate.Error{Field: FieldTitle, Message: MsgInvalidTitle}
	}
	return nil
}

// ValidateAuthor is ValidateTitle with a MaxAuthorLength bound.
func ValidateAuthor(author Optional) *validate.Error {
	if _, ok := boundedString(author, MaxAuthorLength); !ok {
		return &validate.Error{Field: FieldAuthor, Message: MsgInvalidAuthor}
	}
	return nil
}

// ValidateResolutions checks that the value is a non-empty array whose
// members all belong to the supported set. At most one error is reported.
func ValidateResolutions(resolutions Optional) *validate.Error {
	if _, err := parseResolutions(resolutions); err != nil {
		return err
	}
	return nil
}

// ValidateCreate runs the title, author and resolution checks in that order.
// The returned Draft is only meaningful when no errors are returned.
func ValidateCreate(in CreateInput) (Draft, []validate.Error) {
	v := validate.New()
	v.Add(ValidateTitle(in.Title))
	v.Add(ValidateAuthor(in.Author))
	v.Add(ValidateResolutions(in.AvailableResolutions))
	if !v.IsValid() {
		return Draft{}, v.Errors()
	}

	title, _ := in.Title.String()
	author, _ := in.Author.String()
	res, _ := parseResolutions(in.AvailableResolutions)
	return Draft{Title: title, Author: author, AvailableResolutions: res}, nil
}

// ValidateUpdate checks all six update fields in a fixed order. An absent
// field yields a "required" error and skips its value check. The returned
// Fields are only meaningful when no errors are returned.
func ValidateUpdate(in UpdateInput) (Fields, []validate.Error) {
	v := validate.New()
	var out Fields

	if !in.Title.IsSet() {
		v.AddError(FieldTitle, MsgTitleRequired, nil)
	} else {
		v.Add(ValidateTitle(in.Title))
		out.Title, _ = in.Title.String()
	}

	if !in.Author.IsSet() {
		v.AddError(FieldAuthor, MsgAuthorRequired, nil)
	} else {
		v.Add(ValidateAuthor(in.Author))
		out.Author, _ = in.Author.String()
	}

	if !in.AvailableResolutions.IsSet() {
		v.AddError(FieldAvailableResolutions, MsgResolutionsRequired, nil)
	} else {
		res, err := parseResolutions(in.AvailableResolutions)
		v.Add(err)
		out.AvailableResolutions = res
	}

	if !in.CanBeDownloaded.IsSet() {
		v.AddError(FieldCanBeDownloaded, MsgCanBeDownloadedRequired, nil)
	} else if b, ok := in.CanBeDownloaded.Bool(); !ok {
		v.AddError(FieldCanBeDownloaded, MsgInvalidCanBeDownloaded, nil)
	} else {
		out.CanBeDownloaded = b
	}

	if !in.MinAgeRestriction.IsSet() {
		v.AddError(FieldMinAgeRestriction, MsgMinAgeRequired, nil)
	} else if !in.MinAgeRestriction.IsNull() {
		age, ok := minAge(in.MinAgeRestriction)
		if !ok {
			v.AddError(FieldMinAgeRestriction, MsgInvalidMinAge, nil)
		} else {
			out.MinAgeRestriction = &age
		}
	}

	if !in.PublicationDate.IsSet() {
		v.AddError(FieldPublicationDate, MsgPublicationDateRequired, nil)
	} else if s, ok := in.PublicationDate.String(); !ok || s == "" {
		v.AddError(FieldPublicationDate, MsgInvalidPublicationDate, nil)
	} else if _, err := ParseDate(s); err != nil {
		v.AddError(FieldPublicationDate, MsgInvalidPublicationDateFmt, s)
	} else {
		out.PublicationDate = s
	}

	if !v.IsValid() {
		return Fields{}, v.Errors()
	}
	return out, nil
}

func boundedString(o Optional, maxLen int) (string, bool) {
	s, ok := o.String()
	if !ok || s == "" {
		return "", false
	}
	if textLength(trimText(s)) > maxLen {
		return "", false
	}
	return s, true
}

func parseResolutions(o Optional) ([]Resolution, *validate.Error) {
	elems, ok := o.Array()
	if !ok || len(elems) == 0 {
		return nil, &validate.Error{Field: FieldAvailableResolutions, Message: MsgResolutionsEmpty}
	}
	out := make([]Resolution, 0, len(elems))
	for _, raw := range elems {
		var s string
		if len(raw) == 0 || raw[0] != '"' || json.Unmarshal(raw, &s) != nil || !Resolution(s).IsValid() {
			return nil, &validate.Error{Field: FieldAvailableResolutions, Message: MsgResolutionInvalid, Value: string(raw)}
		}
		out = append(out, Resolution(s))
	}
	return out, nil
}

// minAge accepts whole numbers in [MinAge, MaxAge].
func minAge(o Optional) (int, bool) {
	n, ok := o.Number()
	if !ok || n < MinAge || n > MaxAge || n != math.Trunc(n) {
		return 0, false
	}
	return int(n), true
}

// trimText strips leading and trailing white space, including the BOM.
func trimText(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

// textLength counts UTF-16 code units, which is how clients measure lengths.
func textLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}
