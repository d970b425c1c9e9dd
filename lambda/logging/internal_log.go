// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// FormatText renders log entries as logfmt-style text.
	FormatText = "text"
	// FormatJSON renders log entries as one JSON object per line.
	FormatJSON = "json"
)

// SetOutput configures logging output for standard loggers.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
	logrus.SetOutput(w)
}

// SetLevel sets the logrus level by name. Unknown names leave the level
// unchanged and return an error.
func SetLevel(name string) error {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid log level %q, valid levels are %v: %w", name, logrus.AllLevels, err)
	}
	logrus.SetLevel(level)
	return nil
}

// SetFormat selects the logrus formatter by name.
func SetFormat(name string) error {
	formatter, err := NewFormatter(name)
	if err != nil {
		return err
	}
	logrus.SetFormatter(formatter)
	return nil
}

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string) (logrus.Formatter, error) {
	switch strings.ToLower(name) {
	case "", FormatText:
		return &logrus.TextFormatter{DisableTimestamp: true, DisableQuote: true}, nil
	case FormatJSON:
		return &logrus.JSONFormatter{}, nil
	}
	return nil, fmt.Errorf("invalid log format %q, valid formats are [%s %s]", name, FormatText, FormatJSON)
}
