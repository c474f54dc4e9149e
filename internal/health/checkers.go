// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"strconv"
	"sync/atomic"
)

// Sizer is anything that can report how many records it holds.
type Sizer interface {
	Len() int
}

// StoreChecker reports the size of the video collection. The in-memory
// store cannot fail, so the result is always healthy.
type StoreChecker struct {
	store Sizer
}

// NewStoreChecker creates a checker for the video store.
func NewStoreChecker(store Sizer) *StoreChecker {
	return &StoreChecker{store: store}
}

func (c *StoreChecker) Name() string {
	return "store"
}

func (c *StoreChecker) Check(_ context.Context) CheckResult {
	return CheckResult{
		Status:  StatusHealthy,
		Message: strconv.Itoa(c.store.Len()) + " videos",
	}
}

// DrainChecker turns unhealthy once Drain is called, so load balancers stop
// routing new traffic while in-flight requests finish.
type DrainChecker struct {
	draining atomic.Bool
}

// NewDrainChecker creates a checker that starts out healthy.
func NewDrainChecker() *DrainChecker {
	return &DrainChecker{}
}

// Drain marks the service as shutting down.
func (c *DrainChecker) Drain() {
	c.draining.Store(true)
}

func (c *DrainChecker) Name() string {
	return "lifecycle"
}

func (c *DrainChecker) Check(_ context.Context) CheckResult {
	if c.draining.Load() {
		return CheckResult{Status: StatusUnhealthy, Message: "shutting down"}
	}
	return CheckResult{Status: StatusHealthy, Message: "serving"}
}
