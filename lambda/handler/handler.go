// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cronlambda/cron-lambda/lambda/config"
	"github.com/cronlambda/cron-lambda/lambda/env"
	"github.com/cronlambda/cron-lambda/lambda/errortype"
	"github.com/cronlambda/cron-lambda/lambda/invocation"
	"github.com/cronlambda/cron-lambda/lambda/logging"
	"github.com/cronlambda/cron-lambda/lambda/response"
)

// Handler serves scheduled invocations. It holds no per-invocation state
// and is safe for concurrent use.
type Handler struct {
	env              env.Source
	logger           logging.InvocationLogger
	metadata         invocation.FunctionMetadata
	structuredErrors bool
	now              func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithEnvironment sets the source configuration is read from on every
// invocation. A nil source makes every invocation fail.
func WithEnvironment(src env.Source) Option {
	return func(h *Handler) {
		h.env = src
	}
}

// WithInvocationLogger sets the collaborator that writes diagnostic lines.
func WithInvocationLogger(logger logging.InvocationLogger) Option {
	return func(h *Handler) {
		if logger == nil {
			logger = logging.NewDiscardInvocationLogger()
		}
		h.logger = logger
	}
}

// WithFunctionMetadata overrides the function metadata reported in the
// context line.
func WithFunctionMetadata(meta invocation.FunctionMetadata) Option {
	return func(h *Handler) {
		h.metadata = meta
	}
}

// WithStructuredErrors makes failures carry a response.ErrorBody instead of
// the bare error message.
func WithStructuredErrors(enabled bool) Option {
	return func(h *Handler) {
		h.structuredErrors = enabled
	}
}

// New returns a Handler reading the process environment and logging
// through the logrus standard logger unless overridden by opts.
func New(opts ...Option) *Handler {
	h := &Handler{
		env:      env.OS(),
		logger:   logging.NewInvocationLogger(nil),
		metadata: invocation.DefaultFunctionMetadata(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle processes one trigger event. The returned error is always nil:
// failures are reported through a 500 envelope.
func (h *Handler) Handle(ctx context.Context, event json.RawMessage) (resp response.Envelope, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = h.failure(&errortype.PanicError{Value: r})
			err = nil
		}
	}()

	cfg, loadErr := config.Load(h.env)
	if loadErr != nil {
		return h.failure(loadErr), nil
	}

	h.logger.LogConfiguration(cfg.LambdaName, cfg.Region)
	h.logger.LogEvent(invocation.ParseEvent(event))
	h.logger.LogContext(invocation.NewContext(ctx, h.metadata, h.now()))
	h.logger.LogOK()

	return response.Success(response.FixedPayload()), nil
}

func (h *Handler) failure(err error) response.Envelope {
	errorType := errortype.Classify(err)

	var resp response.Envelope
	if h.structuredErrors {
		resp = response.Failure(response.ErrorBody{
			ErrorMessage: err.Error(),
			ErrorType:    string(errorType),
		})
	} else {
		resp = response.Failure(err.Error())
	}

	h.logFailure(errorType, err)
	return resp
}

// logFailure runs outside Handle's recover, so a failing logger must not
// take the envelope down with it.
func (h *Handler) logFailure(errorType errortype.ErrorType, err error) {
	defer func() {
		_ = recover()
	}()
	h.logger.LogFailure(string(errorType), err)
}
