// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cron_lambda"

// Collector records invocation outcomes of locally run functions.
type Collector struct {
	invocations *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewCollector registers the invocation metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		invocations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invocations_total",
			Help:      "Total number of handler invocations by response status code.",
		}, []string{"status_code"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invocation_duration_seconds",
			Help:      "Time spent in the handler.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
}

// Observe records one invocation that returned statusCode after d.
func (c *Collector) Observe(statusCode int, d time.Duration) {
	c.invocations.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.duration.Observe(d.Seconds())
}
