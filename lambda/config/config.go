// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/cronlambda/cron-lambda/lambda/env"
)

const (
	// RegionKey is the environment key holding the deployment region label.
	RegionKey = "region"
	// LambdaNameKey is the environment key holding the function name label.
	LambdaNameKey = "LambdaName"
)

// ErrEnvironmentUnavailable is returned when there is no environment to read from.
var ErrEnvironmentUnavailable = errors.New("environment is not available")

// Config holds the values the function echoes on every invocation.
// Neither field is validated; unset keys leave them empty.
type Config struct {
	Region     string `json:"region"`
	LambdaName string `json:"LambdaName"`
}

// Load reads Config from src.
func Load(src env.Source) (Config, error) {
	if src == nil {
		return Config{}, fmt.Errorf("cannot read %s: %w", RegionKey, ErrEnvironmentUnavailable)
	}

	return Config{
		Region:     env.Getenv(src, RegionKey),
		LambdaName: env.Getenv(src, LambdaNameKey),
	}, nil
}
