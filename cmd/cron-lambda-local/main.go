// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/cronlambda/cron-lambda/lambda/env"
	"github.com/cronlambda/cron-lambda/lambda/handler"
	"github.com/cronlambda/cron-lambda/lambda/local"
	"github.com/cronlambda/cron-lambda/lambda/logging"
	"github.com/cronlambda/cron-lambda/lambda/metrics"
	"github.com/cronlambda/cron-lambda/lambda/schedule"
)

type options struct {
	LogLevel         string   `long:"log-level" env:"CRON_LAMBDA_LOG_LEVEL" default:"info" description:"log level"`
	LogFormat        string   `long:"log-format" env:"CRON_LAMBDA_LOG_FORMAT" default:"text" choice:"text" choice:"json" description:"log format"`
	Quiet            bool     `long:"quiet" env:"CRON_LAMBDA_QUIET" description:"do not log event, context and configuration on each invocation"`
	StructuredErrors bool     `long:"structured-errors" env:"CRON_LAMBDA_STRUCTURED_ERRORS" description:"return failures as {errorMessage, errorType} instead of a plain message"`
	EnvFile          string   `long:"env-file" description:"dotenv file with the function environment"`
	Env              []string `short:"e" long:"env" description:"KEY=VALUE function environment override, repeatable"`
	Event            string   `long:"event" description:"event JSON file, '-' for stdin; a scheduled event is generated when omitted"`
	Listen           string   `long:"listen" description:"host:port to serve the invoke API on"`
	Schedule         string   `long:"schedule" description:"rate expression to invoke the function on, e.g. 'rate(1 minute)'"`
}

func main() {
	var opts options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if err := logging.SetLevel(opts.LogLevel); err != nil {
		log.WithError(err).Fatal("Failed to configure logging")
	}
	if err := logging.SetFormat(opts.LogFormat); err != nil {
		log.WithError(err).Fatal("Failed to configure logging")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdin, os.Stdout); err != nil {
		log.WithError(err).Fatal("cron-lambda-local failed")
	}
}

func run(ctx context.Context, opts options, stdin io.Reader, stdout io.Writer) error {
	source, err := functionEnvironment(opts)
	if err != nil {
		return err
	}

	fnConfig, err := local.FunctionConfigFromEnv(source)
	if err != nil {
		return err
	}

	invocationLogger := logging.NewDiscardInvocationLogger()
	if !opts.Quiet {
		invocationLogger = logging.NewInvocationLogger(log.StandardLogger())
	}
	h := handler.New(
		handler.WithEnvironment(source),
		handler.WithInvocationLogger(invocationLogger),
		handler.WithFunctionMetadata(fnConfig.Metadata()),
		handler.WithStructuredErrors(opts.StructuredErrors),
	)

	registry := prometheus.NewRegistry()
	invoker := local.NewInvoker(h, fnConfig, metrics.NewCollector(registry), stdout)

	if opts.Listen == "" && opts.Schedule == "" {
		return invokeOnce(ctx, invoker, opts.Event, stdin, stdout)
	}

	var scheduler *local.Scheduler
	if opts.Schedule != "" {
		interval, err := schedule.ParseRate(opts.Schedule)
		if err != nil {
			return err
		}
		if scheduler, err = local.NewScheduler(invoker, interval); err != nil {
			return err
		}
	}

	var server *local.Server
	if opts.Listen != "" {
		host, port, err := splitListenAddress(opts.Listen)
		if err != nil {
			return err
		}
		server = local.NewServer(host, port, invoker, registry)
		if err := server.Listen(); err != nil {
			return fmt.Errorf("failed to listen on %s: %w", opts.Listen, err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	if server != nil {
		g.Go(func() error {
			return server.Serve(ctx)
		})
	}
	if scheduler != nil {
		g.Go(func() error {
			return scheduler.Run(ctx)
		})
	}

	return g.Wait()
}

// functionEnvironment layers --env overrides over the --env-file contents
// over the process environment.
func functionEnvironment(opts options) (env.Source, error) {
	overrides, err := env.ParsePairs(opts.Env)
	if err != nil {
		return nil, err
	}

	var fromFile env.Map
	if opts.EnvFile != "" {
		if fromFile, err = env.ReadFile(opts.EnvFile); err != nil {
			return nil, err
		}
	}

	return env.Layered{overrides, fromFile, env.OS()}, nil
}

func invokeOnce(ctx context.Context, invoker *local.Invoker, eventPath string, stdin io.Reader, stdout io.Writer) error {
	payload, err := readEvent(eventPath, stdin)
	if err != nil {
		return err
	}

	resp, err := invoker.Invoke(ctx, payload)
	if err != nil {
		return err
	}

	return json.NewEncoder(stdout).Encode(resp)
}

func readEvent(path string, stdin io.Reader) ([]byte, error) {
	switch path {
	case "":
		return nil, nil
	case "-":
		return ioutil.ReadAll(stdin)
	}

	payload, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event file: %w", err)
	}
	return payload, nil
}

func splitListenAddress(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid listen port %q: %w", portStr, err)
	}
	return host, port, nil
}
