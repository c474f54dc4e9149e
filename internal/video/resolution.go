// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package video

// Resolution is one of the fixed, closed set of supported video resolutions.
type Resolution string

const (
	P144  Resolution = "P144"
	P240  Resolution = "P240"
	P360  Resolution = "P360"
	P480  Resolution = "P480"
	P720  Resolution = "P720"
	P1080 Resolution = "P1080"
	P1440 Resolution = "P1440"
	P2160 Resolution = "P2160"
)

var resolutions = []Resolution{P144, P240, P360, P480, P720, P1080, P1440, P2160}

// Resolutions returns the supported resolutions in ascending order.
func Resolutions() []Resolution {
	out := make([]Resolution, len(resolutions))
	copy(out, resolutions)
	return out
}

// IsValid reports whether r is a member of the supported set.
func (r Resolution) IsValid() bool {
	switch r {
	case P144, P240, P360, P480, P720, P1080, P1440, P2160:
		return true
	default:
		return false
	}
}

// String returns the string representation
func (r Resolution) String() string {
	return string(r)
}
