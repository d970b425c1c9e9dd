// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRate(t *testing.T) {
	d, err := ParseRate("rate(1 minute)")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)

	d, err = ParseRate("rate(5 minutes)")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, d)

	d, err = ParseRate("rate(1 hour)")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, d)

	d, err = ParseRate("rate(2 days)")
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, d)
}

func TestParseRateAcceptsLongestRepresentableInterval(t *testing.T) {
	d, err := ParseRate("rate(106751 days)")
	require.NoError(t, err)
	assert.Equal(t, 106751*24*time.Hour, d)
	assert.Positive(t, d)
}

func TestParseRateRejectsMalformedExpressions(t *testing.T) {
	for _, expr := range []string{
		"",
		"5 minutes",
		"rate(0 minutes)",
		"rate(1 minutes)",
		"rate(5 minute)",
		"rate(5 seconds)",
		"rate(-1 minute)",
		"cron(0 12 * * ? *)",
		"rate(106752 days)",
		"rate(213504 days)",
		"rate(2562048 hours)",
		"rate(99999999999999999999 minutes)",
	} {
		_, err := ParseRate(expr)
		assert.True(t, errors.Is(err, ErrInvalidRate), expr)
	}
}
