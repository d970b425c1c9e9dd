// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package env

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
)

// SplitEnvironmentVariable splits a KEY=VALUE pair.
func SplitEnvironmentVariable(envKeyVal string) (string, string, error) {
	splitKeyVal := strings.SplitN(envKeyVal, "=", 2) // values can contain '='
	if len(splitKeyVal) < 2 {
		return "", "", errors.New("could not split env var by '=' delimiter")
	}
	return splitKeyVal[0], splitKeyVal[1], nil
}

// ParsePairs parses a list of KEY=VALUE pairs into a Map. Later pairs
// override earlier ones.
func ParsePairs(pairs []string) (Map, error) {
	m := Map{}
	for _, pair := range pairs {
		key, val, err := SplitEnvironmentVariable(pair)
		if err != nil {
			return nil, fmt.Errorf("invalid environment variable %q: %w", pair, err)
		}
		m[key] = val
	}
	return m, nil
}

// ReadFile reads a dotenv file into a Map without touching the process
// environment.
func ReadFile(path string) (Map, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return Map(vars), nil
}
