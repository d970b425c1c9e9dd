// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package response

import (
	"encoding/json"
	"net/http"
)

// Result is the structured success payload.
type Result struct {
	Messages map[string]string `json:"messages"`
	Content  []string          `json:"content"`
	Status   int               `json:"status"`
}

// MarshalJSON always renders messages as an object and content as an array.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	p := plain(r)
	if p.Messages == nil {
		p.Messages = map[string]string{}
	}
	if p.Content == nil {
		p.Content = []string{}
	}
	return json.Marshal(p)
}

// Envelope is the value returned to the host platform.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Body       interface{} `json:"body"`
}

// ErrorBody is a structured failure body, laid out like a runtime
// invoke error response.
type ErrorBody struct {
	ErrorMessage string `json:"errorMessage"`
	ErrorType    string `json:"errorType"`
}

// FixedPayload returns the constant payload of a successful invocation.
func FixedPayload() Result {
	return Result{
		Messages: map[string]string{},
		Content:  []string{""},
		Status:   http.StatusOK,
	}
}

// Success wraps body in a 200 envelope.
func Success(body interface{}) Envelope {
	return build(http.StatusOK, body)
}

// Failure wraps body in a 500 envelope.
func Failure(body interface{}) Envelope {
	return build(http.StatusInternalServerError, body)
}

func build(statusCode int, body interface{}) Envelope {
	return Envelope{
		StatusCode: statusCode,
		Body:       body,
	}
}
