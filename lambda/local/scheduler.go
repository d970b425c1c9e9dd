// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

// Scheduler fires a scheduled event at a fixed rate, like an EventBridge
// rate rule targeting the function.
type Scheduler struct {
	invoker  *Invoker
	interval time.Duration
}

// NewScheduler returns a Scheduler invoking every interval.
func NewScheduler(invoker *Invoker, interval time.Duration) (*Scheduler, error) {
	if interval <= 0 {
		return nil, errors.New("schedule interval must be positive")
	}
	return &Scheduler{invoker: invoker, interval: interval}, nil
}

// Run invokes the function on every tick until ctx is cancelled. The first
// invocation happens one interval after Run is called.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.WithField("interval", s.interval).Info("Scheduler started")
	for {
		select {
		case <-ticker.C:
			resp, err := s.invoker.Invoke(ctx, nil)
			if err != nil {
				log.WithError(err).Error("Scheduled invocation failed")
				continue
			}
			log.WithField("statusCode", resp.StatusCode).Debug("Scheduled invocation finished")
		case <-ctx.Done():
			log.Info("Scheduler stopped")
			return nil
		}
	}
}
