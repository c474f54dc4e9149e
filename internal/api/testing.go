// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"net/http"

	xglog "github.com/ManuGH/videosvc/internal/log"
)

// handleClearAllData empties the store. It is mounted only while
// testing.enabled is set.
func (s *Server) handleClearAllData(w http.ResponseWriter, r *http.Request) {
	removed := s.store.Len()
	s.store.Clear()

	logger := xglog.WithComponentFromContext(r.Context(), "api.testing")
	logger.Warn().
		Str(xglog.FieldEvent, "videos.cleared").
		Int("removed", removed).
		Msg("all videos deleted")
	writeNoContent(w)
}
