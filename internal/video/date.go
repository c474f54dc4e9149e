// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package video

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

// monthYearLayouts cover "Jan 2024" style values dateparse does not accept.
var monthYearLayouts = []string{"Jan 2006", "January 2006"}

// ParseDate parses s leniently: full or partial ISO-8601, date-only and the
// common RFC and US layouts are all accepted. Digit-only values must be a
// four-digit year; longer runs are not read as Unix timestamps. No ordering
// against createdAt is enforced by callers.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("parse date: empty value")
	}
	if allDigits(s) && len(s) != 4 {
		return time.Time{}, fmt.Errorf("parse date %q: bare number is not a date", s)
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err == nil {
		return t, nil
	}
	for _, layout := range monthYearLayouts {
		if mt, perr := time.ParseInLocation(layout, s, time.UTC); perr == nil {
			return mt, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
