// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package errortype

// This package defines the error types reported in structured failure bodies
// and in the failure log line.

import (
	"errors"

	"github.com/cronlambda/cron-lambda/lambda/config"
)

// ErrorType classifies a handler failure.
type ErrorType string

const (
	EnvironmentUnavailable ErrorType = "Handler.EnvironmentUnavailable" // environment source was absent
	Panic                  ErrorType = "Handler.Panic"                  // handler body panicked
	Unknown                ErrorType = "Unknown"
)

// PanicError carries a value recovered from a panic in the handler body.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return err.Error()
	}
	if s, ok := e.Value.(string); ok {
		return s
	}
	return "handler panicked"
}

// Classify maps err to its ErrorType.
func Classify(err error) ErrorType {
	var panicErr *PanicError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, config.ErrEnvironmentUnavailable):
		return EnvironmentUnavailable
	case errors.As(err, &panicErr):
		return Panic
	}
	return Unknown
}
