// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events/test"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cronlambda/cron-lambda/lambda/env"
	"github.com/cronlambda/cron-lambda/lambda/errortype"
	"github.com/cronlambda/cron-lambda/lambda/invocation"
	"github.com/cronlambda/cron-lambda/lambda/logging"
	"github.com/cronlambda/cron-lambda/lambda/response"
)

const mockEvent = `{
  "id": "cdc73f9d-aea9-11e3-9d5a-835b769c0d9c",
  "detail-type": "Scheduled Event",
  "source": "aws.events",
  "account": "123456789012",
  "time": "1970-01-01T00:00:00Z",
  "region": "us-east-1",
  "version": "1.0",
  "resources": ["arn:aws:events:us-east-1:123456789012:rule/ExampleRule"],
  "detail": "Scheduled Event"
}`

var mockMetadata = invocation.FunctionMetadata{
	FunctionName:    "cron-lambda-dev",
	FunctionVersion: "$LATEST",
	MemoryLimitInMB: 128,
	LogGroupName:    "/aws/lambda/cron-lambda-dev",
	LogStreamName:   "2022/04/05/[$LATEST]606bae8daa0c4838bf21b6fe6fae2154",
}

func mockContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	t.Cleanup(cancel)
	return lambdacontext.NewContext(ctx, &lambdacontext.LambdaContext{
		AwsRequestID:       "e41515b1-3920-4117-8e32-9f0460824844",
		InvokedFunctionArn: "arn:aws:lambda:us-west-2:689472803903:function:cron-lambda-dev",
	})
}

type mockInvocationLogger struct {
	mock.Mock
}

func (m *mockInvocationLogger) LogConfiguration(lambdaName, region string) {
	m.Called(lambdaName, region)
}

func (m *mockInvocationLogger) LogEvent(event interface{}) {
	m.Called(event)
}

func (m *mockInvocationLogger) LogContext(ctx interface{}) {
	m.Called(ctx)
}

func (m *mockInvocationLogger) LogOK() {
	m.Called()
}

func (m *mockInvocationLogger) LogFailure(errorType string, err error) {
	m.Called(errorType, err)
}

func TestHandleResolvesToSuccess(t *testing.T) {
	h := New(
		WithEnvironment(env.Map{"region": "us-east-1", "LambdaName": "cron-lambda-dev"}),
		WithInvocationLogger(logging.NewDiscardInvocationLogger()),
		WithFunctionMetadata(mockMetadata),
	)

	resp, err := h.Handle(mockContext(t), json.RawMessage(mockEvent))
	require.NoError(t, err)

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	test.AssertJsonsEqual(t, []byte(`{"body":{"messages":{},"content":[""],"status":200},"statusCode":200}`), b)
}

func TestHandleSucceedsWithUnsetKeys(t *testing.T) {
	h := New(WithEnvironment(env.Map{}), WithInvocationLogger(nil))

	resp, err := h.Handle(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, response.Success(response.FixedPayload()), resp)
}

func TestHandleResolvesToFailureWithoutEnvironment(t *testing.T) {
	h := New(WithEnvironment(nil), WithInvocationLogger(nil))

	resp, err := h.Handle(mockContext(t), json.RawMessage(mockEvent))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "cannot read region: environment is not available", resp.Body)

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	test.AssertJsonsEqual(t, []byte(`{"body":"cannot read region: environment is not available","statusCode":500}`), b)
}

func TestHandleStructuredFailure(t *testing.T) {
	h := New(WithEnvironment(nil), WithInvocationLogger(nil), WithStructuredErrors(true))

	resp, err := h.Handle(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, response.Failure(response.ErrorBody{
		ErrorMessage: "cannot read region: environment is not available",
		ErrorType:    string(errortype.EnvironmentUnavailable),
	}), resp)
}

type panickingSource struct{}

func (panickingSource) LookupEnv(string) (string, bool) {
	panic(errors.New("environment exploded"))
}

func TestHandleRecoversFromPanic(t *testing.T) {
	logger := &mockInvocationLogger{}
	logger.On("LogFailure", string(errortype.Panic), mock.AnythingOfType("*errortype.PanicError")).Once()

	h := New(WithEnvironment(panickingSource{}), WithInvocationLogger(logger))

	resp, err := h.Handle(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, response.Failure("environment exploded"), resp)
	logger.AssertExpectations(t)
}

func TestHandleSurvivesFailingFailureLogger(t *testing.T) {
	logger := &mockInvocationLogger{}
	logger.On("LogFailure", mock.Anything, mock.Anything).Panic("sink down")

	for _, source := range []env.Source{nil, panickingSource{}} {
		h := New(WithEnvironment(source), WithInvocationLogger(logger))

		var resp response.Envelope
		var err error
		assert.NotPanics(t, func() {
			resp, err = h.Handle(context.Background(), nil)
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	}
}

func TestHandleSurvivesLoggerFailingThroughout(t *testing.T) {
	logger := &mockInvocationLogger{}
	logger.On("LogConfiguration", "n", "r").Panic("sink down")
	logger.On("LogFailure", mock.Anything, mock.Anything).Panic("sink still down")

	h := New(WithEnvironment(env.Map{"region": "r", "LambdaName": "n"}), WithInvocationLogger(logger))

	var resp response.Envelope
	assert.NotPanics(t, func() {
		resp, _ = h.Handle(context.Background(), nil)
	})
	assert.Equal(t, response.Failure("sink down"), resp)
}

func TestHandleResultDoesNotDependOnInput(t *testing.T) {
	h := New(WithEnvironment(env.Map{"region": "r", "LambdaName": "n"}), WithInvocationLogger(nil))

	first, err := h.Handle(mockContext(t), json.RawMessage(mockEvent))
	require.NoError(t, err)
	second, err := h.Handle(context.Background(), json.RawMessage(`{"anything":["else"]}`))
	require.NoError(t, err)
	third, err := h.Handle(context.Background(), json.RawMessage(`"just a string"`))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first, third)
}

func TestHandleLogsDiagnosticLines(t *testing.T) {
	logger := &mockInvocationLogger{}
	logger.On("LogConfiguration", "cron-lambda-dev", "us-east-1").Once()
	logger.On("LogEvent", mock.MatchedBy(func(e invocation.Event) bool {
		header, ok := e.Scheduled()
		return ok && header.ID == "cdc73f9d-aea9-11e3-9d5a-835b769c0d9c"
	})).Once()
	logger.On("LogContext", mock.MatchedBy(func(c invocation.Context) bool {
		return c.FunctionName == "cron-lambda-dev" &&
			c.AwsRequestID == "e41515b1-3920-4117-8e32-9f0460824844" &&
			c.RemainingTimeInMillis > 0
	})).Once()
	logger.On("LogOK").Once()

	h := New(
		WithEnvironment(env.Map{"region": "us-east-1", "LambdaName": "cron-lambda-dev"}),
		WithInvocationLogger(logger),
		WithFunctionMetadata(mockMetadata),
	)

	_, err := h.Handle(mockContext(t), json.RawMessage(mockEvent))
	require.NoError(t, err)
	logger.AssertExpectations(t)
	logger.AssertNotCalled(t, "LogFailure", mock.Anything, mock.Anything)
}

func TestHandleLogsThroughLogrus(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	h := New(
		WithEnvironment(env.Map{"region": "us-east-1", "LambdaName": "cron-lambda-dev"}),
		WithInvocationLogger(logging.NewInvocationLogger(logger)),
		WithFunctionMetadata(mockMetadata),
	)
	_, err := h.Handle(mockContext(t), json.RawMessage(mockEvent))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Lambda Name: cron-lambda-dev, Lambda Region: us-east-1", entry["msg"])
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.True(t, strings.HasPrefix(entry["msg"].(string), `event: {"id":"cdc73f9d-aea9-11e3-9d5a-835b769c0d9c"`))
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &entry))
	assert.True(t, strings.HasPrefix(entry["msg"].(string), `context: {"functionName":"cron-lambda-dev"`))
	require.NoError(t, json.Unmarshal([]byte(lines[3]), &entry))
	assert.Equal(t, `{"message":"OK"}`, entry["msg"])
}

func TestHandleLogsOneLineOnFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	h := New(WithEnvironment(nil), WithInvocationLogger(logging.NewInvocationLogger(logger)))
	_, err := h.Handle(context.Background(), json.RawMessage(mockEvent))
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "Handler.EnvironmentUnavailable")
}
