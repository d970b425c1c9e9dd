// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// InvocationLogger writes the diagnostic lines of a single invocation.
type InvocationLogger interface {
	LogConfiguration(lambdaName, region string)
	LogEvent(event interface{})
	LogContext(ctx interface{})
	LogOK()
	LogFailure(errorType string, err error)
}

// FormattedInvocationLogger writes invocation lines through logrus.
type FormattedInvocationLogger struct {
	logger logrus.FieldLogger
}

// NewInvocationLogger returns an InvocationLogger writing to logger. A nil
// logger means the logrus standard logger.
func NewInvocationLogger(logger logrus.FieldLogger) *FormattedInvocationLogger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &FormattedInvocationLogger{logger: logger}
}

func (l *FormattedInvocationLogger) LogConfiguration(lambdaName, region string) {
	l.logger.Infof("Lambda Name: %s, Lambda Region: %s", lambdaName, region)
}

func (l *FormattedInvocationLogger) LogEvent(event interface{}) {
	l.logger.Infof("event: %s", serialize(event))
}

func (l *FormattedInvocationLogger) LogContext(ctx interface{}) {
	l.logger.Infof("context: %s", serialize(ctx))
}

func (l *FormattedInvocationLogger) LogOK() {
	l.logger.Info(serialize(map[string]string{"message": "OK"}))
}

// LogFailure logs err as {"body":"<serialized error>"}.
func (l *FormattedInvocationLogger) LogFailure(errorType string, err error) {
	message := ""
	if err != nil {
		message = err.Error()
	}
	body := serialize(struct {
		ErrorMessage string `json:"errorMessage"`
		ErrorType    string `json:"errorType"`
	}{message, errorType})

	l.logger.Error(serialize(map[string]string{"body": body}))
}

type discardInvocationLogger struct{}

func (discardInvocationLogger) LogConfiguration(string, string) {}
func (discardInvocationLogger) LogEvent(interface{}) {}
func (discardInvocationLogger) LogContext(interface{}) {}
func (discardInvocationLogger) LogOK() {}
func (discardInvocationLogger) LogFailure(string, error) {}

// NewDiscardInvocationLogger returns an InvocationLogger that writes nothing.
func NewDiscardInvocationLogger() InvocationLogger {
	return discardInvocationLogger{}
}

func serialize(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}
