// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

var rateExpression = regexp.MustCompile(`^rate\(\s*(\d+)\s+([a-z]+)\s*\)$`)

var units = map[string]time.Duration{
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
}

// ErrInvalidRate is returned for malformed rate expressions.
var ErrInvalidRate = errors.New("invalid rate expression")

// ParseRate parses an EventBridge rate expression such as "rate(5 minutes)".
// The unit is singular exactly when the value is 1.
func ParseRate(expr string) (time.Duration, error) {
	m := rateExpression.FindStringSubmatch(expr)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRate, expr)
	}

	value, err := strconv.Atoi(m[1])
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: value must be a positive integer in %q", ErrInvalidRate, expr)
	}

	unit := m[2]
	if value != 1 {
		if unit[len(unit)-1] != 's' {
			return 0, fmt.Errorf("%w: unit must be plural in %q", ErrInvalidRate, expr)
		}
		unit = unit[:len(unit)-1]
	}

	d, ok := units[unit]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit in %q", ErrInvalidRate, expr)
	}
	if int64(value) > math.MaxInt64/int64(d) {
		return 0, fmt.Errorf("%w: value too large in %q", ErrInvalidRate, expr)
	}
	return time.Duration(value) * d, nil
}
