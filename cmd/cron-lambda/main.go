// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"

	"github.com/cronlambda/cron-lambda/lambda/handler"
	"github.com/cronlambda/cron-lambda/lambda/logging"
)

type options struct {
	LogLevel         string `long:"log-level" env:"CRON_LAMBDA_LOG_LEVEL" default:"info" description:"log level"`
	LogFormat        string `long:"log-format" env:"CRON_LAMBDA_LOG_FORMAT" default:"text" choice:"text" choice:"json" description:"log format"`
	Quiet            bool   `long:"quiet" env:"CRON_LAMBDA_QUIET" description:"do not log event, context and configuration on each invocation"`
	StructuredErrors bool   `long:"structured-errors" env:"CRON_LAMBDA_STRUCTURED_ERRORS" description:"return failures as {errorMessage, errorType} instead of a plain message"`
}

func main() {
	opts, err := parseOptions(os.Args)
	if err != nil {
		log.WithError(err).Fatal("Failed to parse command line arguments:", os.Args)
	}

	logging.SetOutput(os.Stdout)
	if err := configureLogging(opts); err != nil {
		log.WithError(err).Fatal("Failed to configure logging")
	}

	lambda.Start(newHandler(opts).Handle)
}

func parseOptions(args []string) (options, error) {
	var opts options
	parser := flags.NewParser(&opts, flags.IgnoreUnknown)
	_, err := parser.ParseArgs(args)
	return opts, err
}

func configureLogging(opts options) error {
	if err := logging.SetLevel(opts.LogLevel); err != nil {
		return err
	}
	return logging.SetFormat(opts.LogFormat)
}

func newHandler(opts options) *handler.Handler {
	invocationLogger := logging.NewDiscardInvocationLogger()
	if !opts.Quiet {
		invocationLogger = logging.NewInvocationLogger(log.StandardLogger())
	}

	return handler.New(
		handler.WithInvocationLogger(invocationLogger),
		handler.WithStructuredErrors(opts.StructuredErrors),
	)
}
