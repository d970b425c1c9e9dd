// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package invocation

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

// FunctionMetadata describes the deployed function. It does not change
// between invocations.
type FunctionMetadata struct {
	FunctionName    string
	FunctionVersion string
	MemoryLimitInMB int
	LogGroupName    string
	LogStreamName   string
}

// DefaultFunctionMetadata returns the metadata the Lambda runtime exposes
// to the running function.
func DefaultFunctionMetadata() FunctionMetadata {
	return FunctionMetadata{
		FunctionName:    lambdacontext.FunctionName,
		FunctionVersion: lambdacontext.FunctionVersion,
		MemoryLimitInMB: lambdacontext.MemoryLimitInMB,
		LogGroupName:    lambdacontext.LogGroupName,
		LogStreamName:   lambdacontext.LogStreamName,
	}
}

// Context is a read-only snapshot of the invocation context.
type Context struct {
	FunctionName          string `json:"functionName"`
	FunctionVersion       string `json:"functionVersion"`
	MemoryLimitInMB       string `json:"memoryLimitInMB"`
	LogGroupName          string `json:"logGroupName"`
	LogStreamName         string `json:"logStreamName"`
	InvokedFunctionArn    string `json:"invokedFunctionArn"`
	AwsRequestID          string `json:"awsRequestId"`
	RemainingTimeInMillis int64  `json:"remainingTimeInMillis"`
}

// NewContext snapshots the invocation context carried by ctx at now.
func NewContext(ctx context.Context, meta FunctionMetadata, now time.Time) Context {
	c := Context{
		FunctionName:    meta.FunctionName,
		FunctionVersion: meta.FunctionVersion,
		LogGroupName:    meta.LogGroupName,
		LogStreamName:   meta.LogStreamName,
	}
	if meta.MemoryLimitInMB > 0 {
		c.MemoryLimitInMB = strconv.Itoa(meta.MemoryLimitInMB)
	}

	if ctx == nil {
		return c
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		c.InvokedFunctionArn = lc.InvokedFunctionArn
		c.AwsRequestID = lc.AwsRequestID
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := deadline.Sub(now).Milliseconds(); remaining > 0 {
			c.RemainingTimeInMillis = remaining
		}
	}
	return c
}
