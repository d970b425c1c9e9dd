// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package env

import (
	"os"
)

// Source looks up environment variables by key.
type Source interface {
	LookupEnv(key string) (string, bool)
}

type osSource struct{}

func (osSource) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// OS returns a Source backed by the process environment.
// Lookups happen on every call, so later changes are observed.
func OS() Source {
	return osSource{}
}

// Map is a fixed snapshot of environment variables.
type Map map[string]string

// LookupEnv returns the value stored under key.
func (m Map) LookupEnv(key string) (string, bool) {
	val, ok := m[key]
	return val, ok
}

// Layered resolves a key against each source in order and returns the
// first hit. Nil sources are skipped.
type Layered []Source

// LookupEnv implements Source.
func (l Layered) LookupEnv(key string) (string, bool) {
	for _, src := range l {
		if src == nil {
			continue
		}
		if val, ok := src.LookupEnv(key); ok {
			return val, true
		}
	}
	return "", false
}

// Getenv returns the value for key, or the empty string when the key is
// not set or src is nil.
func Getenv(src Source, key string) string {
	if src == nil {
		return ""
	}
	val, _ := src.LookupEnv(key)
	return val
}

// GetenvWithDefault returns the value for key, or defaultValue when the
// value is empty.
func GetenvWithDefault(src Source, key, defaultValue string) string {
	if val := Getenv(src, key); val != "" {
		return val
	}
	return defaultValue
}
