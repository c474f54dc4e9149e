// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package video

import "errors"

// ErrNotFound is returned by Store operations addressing an unknown id.
var ErrNotFound = errors.New("video not found")
