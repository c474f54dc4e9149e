// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	xglog "github.com/ManuGH/videosvc/internal/log"
	"github.com/ManuGH/videosvc/internal/metrics"
	"github.com/ManuGH/videosvc/internal/telemetry"
	"github.com/ManuGH/videosvc/internal/validate"
	"github.com/ManuGH/videosvc/internal/video"
)

const componentVideos = "api.videos"

func (s *Server) handleListVideos(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List())
}

func (s *Server) handleCreateVideo(w http.ResponseWriter, r *http.Request) {
	logger := xglog.WithComponentFromContext(r.Context(), componentVideos)

	var in video.CreateInput
	if !s.decodePayload(w, r, &in, logger) {
		return
	}

	draft, errs := video.ValidateCreate(in)
	if len(errs) > 0 {
		s.rejectPayload(w, r, video.OpCreate, errs, logger)
		return
	}

	created := s.store.Create(draft)
	telemetry.Annotate(r.Context(), telemetry.VideoAttributes(string(video.OpCreate), created.ID)...)
	logger.Info().
		Str(xglog.FieldEvent, "video.created").
		Int(xglog.FieldVideoID, created.ID).
		Msg("video created")

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := videoID(r)
	if !ok {
		writeNotFound(w)
		return
	}
	v, err := s.store.Get(id)
	if err != nil {
		writeNotFound(w)
		return
	}
	telemetry.Annotate(r.Context(), telemetry.VideoAttributes("get", id)...)
	writeJSON(w, http.StatusOK, v)
}

// handleUpdateVideo answers 404 for an unknown id before the payload is
// looked at.
func (s *Server) handleUpdateVideo(w http.ResponseWriter, r *http.Request) {
	logger := xglog.WithComponentFromContext(r.Context(), componentVideos)

	id, ok := videoID(r)
	if !ok || !s.store.Exists(id) {
		writeNotFound(w)
		return
	}
	telemetry.Annotate(r.Context(), telemetry.VideoAttributes(string(video.OpReplace), id)...)

	var in video.UpdateInput
	if !s.decodePayload(w, r, &in, logger) {
		return
	}

	fields, errs := video.ValidateUpdate(in)
	if len(errs) > 0 {
		s.rejectPayload(w, r, video.OpReplace, errs, logger.With().Int(xglog.FieldVideoID, id).Logger())
		return
	}

	// The record can vanish between the existence check and here.
	if err := s.store.Replace(id, fields); err != nil {
		if errors.Is(err, video.ErrNotFound) {
			writeNotFound(w)
			return
		}
		logger.Error().Err(err).Int(xglog.FieldVideoID, id).Msg("video update failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger.Info().
		Str(xglog.FieldEvent, "video.updated").
		Int(xglog.FieldVideoID, id).
		Msg("video updated")
	writeNoContent(w)
}

func (s *Server) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	logger := xglog.WithComponentFromContext(r.Context(), componentVideos)

	id, ok := videoID(r)
	if !ok {
		writeNotFound(w)
		return
	}
	if err := s.store.Delete(id); err != nil {
		writeNotFound(w)
		return
	}

	telemetry.Annotate(r.Context(), telemetry.VideoAttributes(string(video.OpDelete), id)...)
	logger.Info().
		Str(xglog.FieldEvent, "video.deleted").
		Int(xglog.FieldVideoID, id).
		Msg("video deleted")
	writeNoContent(w)
}

// videoID parses the {id} path segment. Anything that is not an integer
// addresses no record.
func videoID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, false
	}
	return id, true
}

// decodePayload reads the body into dst. A body that is not a JSON object
// leaves dst empty so the validators report every field. It returns false
// after answering 413 for an oversized body.
func (s *Server) decodePayload(w http.ResponseWriter, r *http.Request, dst any, logger zerolog.Logger) bool {
	body := http.MaxBytesReader(w, r.Body, s.cfg.API.MaxBodyBytes)
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn().
				Str(xglog.FieldEvent, "api.body_too_large").
				Int64("limit", tooLarge.Limit).
				Msg("request body exceeds limit")
			writeTooLarge(w)
			return false
		}
		logger.Debug().Err(err).Msg("request body unreadable, treating as empty")
		return true
	}
	if len(data) == 0 {
		return true
	}

	if err := json.Unmarshal(data, dst); err != nil {
		logger.Debug().Err(err).Msg("request body is not a JSON object, treating as empty")
		resetPayload(dst)
	}
	return true
}

func resetPayload(dst any) {
	switch p := dst.(type) {
	case *video.CreateInput:
		*p = video.CreateInput{}
	case *video.UpdateInput:
		*p = video.UpdateInput{}
	}
}

func (s *Server) rejectPayload(w http.ResponseWriter, r *http.Request, op video.Op, errs []validate.Error, logger zerolog.Logger) {
	fields := errorFields(errs)
	metrics.RecordValidationFailures(string(op), errs)
	telemetry.Annotate(r.Context(), telemetry.ValidationAttributes(fields)...)
	logger.Info().
		Str(xglog.FieldEvent, "video.rejected").
		Str(xglog.FieldOp, string(op)).
		Strs("fields", fields).
		Msg("video payload rejected")
	writeValidationErrors(w, errs)
}
