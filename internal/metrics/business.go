// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package metrics holds the Prometheus collectors describing the video
// collection. All collectors register with the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ManuGH/videosvc/internal/validate"
	"github.com/ManuGH/videosvc/internal/video"
)

var (
	videosStored = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "videosvc_videos_stored",
		Help: "Number of videos currently held in memory",
	})

	videoMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videosvc_video_mutations_total",
		Help: "Successful store mutations by operation",
	}, []string{"op"}) // op=create|replace|delete|clear

	validationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videosvc_validation_failures_total",
		Help: "Rejected payload fields by operation and field",
	}, []string{"op", "field"})

	buildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "videosvc_build_info",
		Help: "Build information; the value is always 1",
	}, []string{"version"})
)

// VideoObserver feeds store mutations into the collection metrics.
type VideoObserver struct{}

// ObserveMutation implements video.Observer.
func (VideoObserver) ObserveMutation(op video.Op, size int) {
	videoMutations.WithLabelValues(string(op)).Inc()
	videosStored.Set(float64(size))
}

// RecordStoreSize sets the stored-videos gauge, e.g. after seeding.
func RecordStoreSize(n int) { videosStored.Set(float64(n)) }

// RecordValidationFailures counts every rejected field of one request.
func RecordValidationFailures(op string, errs []validate.Error) {
	for _, e := range errs {
		validationFailures.WithLabelValues(op, e.Field).Inc()
	}
}

// SetBuildInfo publishes the running version.
func SetBuildInfo(version string) {
	if version == "" {
		version = "dev"
	}
	buildInfo.WithLabelValues(version).Set(1)
}
