// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package video

import (
	"bytes"
	"encoding/json"
)

// Optional is a JSON value that remembers whether its key was present at all.
// It distinguishes an absent key, an explicit null and any other value, and
// keeps the raw bytes so type checks can be made after decoding.
type Optional struct {
	set bool
	raw json.RawMessage
}

// Value builds a present Optional from any JSON-encodable value. It is meant
// for tests and callers that build payloads in Go.
func Value(v any) Optional {
	raw, err := json.Marshal(v)
	if err != nil {
		return Optional{}
	}
	return Optional{set: true, raw: raw}
}

// Null builds a present Optional holding an explicit JSON null.
func Null() Optional {
	return Optional{set: true, raw: json.RawMessage("null")}
}

// UnmarshalJSON implements json.Unmarshaler. It is called for every present
// key, including ones holding null.
func (o *Optional) UnmarshalJSON(b []byte) error {
	o.set = true
	o.raw = append(o.raw[:0], bytes.TrimSpace(b)...)
	return nil
}

// MarshalJSON implements json.Marshaler. Absent values encode as null.
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.set || len(o.raw) == 0 {
		return []byte("null"), nil
	}
	return o.raw, nil
}

// IsSet reports whether the key was present in the payload.
func (o Optional) IsSet() bool {
	return o.set
}

// IsNull reports whether the key was present and explicitly null.
func (o Optional) IsNull() bool {
	return o.set && string(o.raw) == "null"
}

// String returns the value if it is a JSON string.
func (o Optional) String() (string, bool) {
	if !o.set || len(o.raw) == 0 || o.raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(o.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Bool returns the value if it is a JSON boolean.
func (o Optional) Bool() (bool, bool) {
	switch string(o.raw) {
	case "true":
		return true, o.set
	case "false":
		return false, o.set
	default:
		return false, false
	}
}

// Number returns the value if it is a JSON number.
func (o Optional) Number() (float64, bool) {
	if !o.set || len(o.raw) == 0 {
		return 0, false
	}
	if c := o.raw[0]; c != '-' && (c < '0' || c > '9') {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(o.raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

// Array returns the raw elements if the value is a JSON array.
func (o Optional) Array() ([]json.RawMessage, bool) {
	if !o.set || len(o.raw) == 0 || o.raw[0] != '[' {
		return nil, false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(o.raw, &elems); err != nil {
		return nil, false
	}
	return elems, true
}

// decodeObject fills each Optional in fields from the member of the JSON
// object b with exactly that key. encoding/json folds key case when it
// decodes into structs, which would let "Title" stand in for "title".
func decodeObject(b []byte, fields map[string]*Optional) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(b, &members); err != nil {
		return err
	}
	for key, dst := range fields {
		*dst = Optional{}
		if raw, ok := members[key]; ok {
			if err := dst.UnmarshalJSON(raw); err != nil {
				return err
			}
		}
	}
	return nil
}

// CreateInput is the create payload as decoded from the request body.
// Any other keys in the body are ignored.
type CreateInput struct {
	Title                Optional `json:"title"`
	Author               Optional `json:"author"`
	AvailableResolutions Optional `json:"availableResolutions"`
}

// UnmarshalJSON matches keys case-sensitively.
func (in *CreateInput) UnmarshalJSON(b []byte) error {
	return decodeObject(b, map[string]*Optional{
		"title":                &in.Title,
		"author":               &in.Author,
		"availableResolutions": &in.AvailableResolutions,
	})
}

// UpdateInput is the update payload as decoded from the request body.
type UpdateInput struct {
	Title                Optional `json:"title"`
	Author               Optional `json:"author"`
	AvailableResolutions Optional `json:"availableResolutions"`
	CanBeDownloaded      Optional `json:"canBeDownloaded"`
	MinAgeRestriction    Optional `json:"minAgeRestriction"`
	PublicationDate      Optional `json:"publicationDate"`
}

// UnmarshalJSON matches keys case-sensitively.
func (in *UpdateInput) UnmarshalJSON(b []byte) error {
	return decodeObject(b, map[string]*Optional{
		"title":                &in.Title,
		"author":               &in.Author,
		"availableResolutions": &in.AvailableResolutions,
		"canBeDownloaded":      &in.CanBeDownloaded,
		"minAgeRestriction":    &in.MinAgeRestriction,
		"publicationDate":      &in.PublicationDate,
	})
}
