// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/cronlambda/cron-lambda/lambda/env"
	"github.com/cronlambda/cron-lambda/lambda/invocation"
	"github.com/cronlambda/cron-lambda/lambda/metrics"
	"github.com/cronlambda/cron-lambda/lambda/response"
)

const (
	defaultFunctionName    = "test_function"
	defaultFunctionVersion = "$LATEST"
	defaultRegion          = "us-east-1"
	defaultAccount         = "012345678912"
	defaultMemorySize      = 3008
	defaultTimeout         = 300 * time.Second
)

// Handler is the function being emulated.
type Handler interface {
	Handle(ctx context.Context, event json.RawMessage) (response.Envelope, error)
}

// FunctionConfig describes the emulated deployment.
type FunctionConfig struct {
	FunctionName    string
	FunctionVersion string
	Region          string
	Account         string
	MemorySize      int
	Timeout         time.Duration
}

// FunctionConfigFromEnv reads the AWS_LAMBDA_* variables the runtime
// emulator honours, falling back to its defaults.
func FunctionConfigFromEnv(src env.Source) (FunctionConfig, error) {
	cfg := FunctionConfig{
		FunctionName:    env.GetenvWithDefault(src, "AWS_LAMBDA_FUNCTION_NAME", defaultFunctionName),
		FunctionVersion: env.GetenvWithDefault(src, "AWS_LAMBDA_FUNCTION_VERSION", defaultFunctionVersion),
		Region:          env.GetenvWithDefault(src, "AWS_REGION", defaultRegion),
		Account:         defaultAccount,
		MemorySize:      defaultMemorySize,
		Timeout:         defaultTimeout,
	}

	if v := env.Getenv(src, "AWS_LAMBDA_FUNCTION_MEMORY_SIZE"); v != "" {
		memorySize, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid AWS_LAMBDA_FUNCTION_MEMORY_SIZE %q: %w", v, err)
		}
		cfg.MemorySize = memorySize
	}
	if v := env.Getenv(src, "AWS_LAMBDA_FUNCTION_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v + "s")
		if err != nil {
			return cfg, fmt.Errorf("invalid AWS_LAMBDA_FUNCTION_TIMEOUT %q: %w", v, err)
		}
		cfg.Timeout = timeout
	}
	return cfg, nil
}

// Metadata returns the function metadata the handler reports.
func (c FunctionConfig) Metadata() invocation.FunctionMetadata {
	return invocation.FunctionMetadata{
		FunctionName:    c.FunctionName,
		FunctionVersion: c.FunctionVersion,
		MemoryLimitInMB: c.MemorySize,
		LogGroupName:    "/aws/lambda/" + c.FunctionName,
		LogStreamName:   "$LATEST",
	}
}

// FunctionArn returns the ARN the emulated function is invoked under.
func (c FunctionConfig) FunctionArn() string {
	return fmt.Sprintf("arn:aws:lambda:%s:%s:function:%s", c.Region, c.Account, c.FunctionName)
}

// RuleArn returns the ARN of the schedule rule synthetic events come from.
func (c FunctionConfig) RuleArn() string {
	return fmt.Sprintf("arn:aws:events:%s:%s:rule/%s-schedule", c.Region, c.Account, c.FunctionName)
}

// Invoker runs the handler the way the Lambda service would for a single
// invoke, printing the platform START, END and REPORT lines.
type Invoker struct {
	handler   Handler
	config    FunctionConfig
	collector *metrics.Collector
	now       func() time.Time

	// outMu serializes platform lines from concurrent invokes onto out.
	outMu sync.Mutex
	out   io.Writer
}

// NewInvoker returns an Invoker. collector may be nil.
func NewInvoker(handler Handler, config FunctionConfig, collector *metrics.Collector, out io.Writer) *Invoker {
	return &Invoker{
		handler:   handler,
		config:    config,
		collector: collector,
		out:       out,
		now:       time.Now,
	}
}

// Config returns the emulated deployment.
func (i *Invoker) Config() FunctionConfig {
	return i.config
}

// Invoke calls the handler with payload. An empty payload is replaced by a
// scheduled event fired now.
func (i *Invoker) Invoke(ctx context.Context, payload []byte) (response.Envelope, error) {
	if len(payload) == 0 {
		event, err := invocation.NewScheduledEvent(i.config.Account, i.config.Region, i.config.RuleArn(), i.now())
		if err != nil {
			return response.Envelope{}, fmt.Errorf("failed to build scheduled event: %w", err)
		}
		payload = event
	}

	requestID := uuid.New().String()
	ctx, cancel := context.WithTimeout(ctx, i.config.Timeout)
	defer cancel()
	ctx = lambdacontext.NewContext(ctx, &lambdacontext.LambdaContext{
		AwsRequestID:       requestID,
		InvokedFunctionArn: i.config.FunctionArn(),
	})

	i.printStart(requestID)
	invokeStart := i.now()

	resp, err := i.handler.Handle(ctx, payload)

	elapsed := i.now().Sub(invokeStart)
	i.printEndReports(requestID, elapsed)
	statusCode := resp.StatusCode
	if err != nil {
		statusCode = http.StatusInternalServerError
	}
	if i.collector != nil {
		i.collector.Observe(statusCode, elapsed)
	}
	if err != nil {
		log.WithError(err).WithField("requestId", requestID).Error("Handler returned an error")
		return response.Envelope{}, err
	}
	return resp, nil
}

func (i *Invoker) printStart(requestID string) {
	i.outMu.Lock()
	defer i.outMu.Unlock()

	fmt.Fprintf(i.out, "START RequestId: %s Version: %s\n", requestID, i.config.FunctionVersion)
}

func (i *Invoker) printEndReports(requestID string, elapsed time.Duration) {
	invokeDuration := math.Min(float64(elapsed.Nanoseconds()),
		float64(i.config.Timeout.Nanoseconds())) / float64(time.Millisecond)

	i.outMu.Lock()
	defer i.outMu.Unlock()

	fmt.Fprintf(i.out, "END RequestId: %s\n", requestID)
	fmt.Fprintf(i.out,
		"REPORT RequestId: %s\tDuration: %.2f ms\tBilled Duration: %.f ms\tMemory Size: %d MB\tMax Memory Used: %d MB\t\n",
		requestID, invokeDuration, math.Ceil(invokeDuration), i.config.MemorySize, i.config.MemorySize)
}
