// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"io/ioutil"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"

	"github.com/cronlambda/cron-lambda/lambda/response"
)

const (
	defaultFunctionAlias = "function"

	errorTypeResourceNotFound    = "ResourceNotFoundException"
	errorTypeInvalidRequest      = "InvalidRequestContentException"
	errorTypeInternalServerError = "InternalServerError"
)

// NewInvokeRouter returns a chi router implementing the Lambda Invoke API
// for the emulated function.
func NewInvokeRouter(invoker *Invoker) http.Handler {
	router := chi.NewRouter()
	router.Post("/functions/{functionName}/invocations", NewInvokeHandler(invoker).ServeHTTP)
	return router
}

type invokeHandler struct {
	invoker *Invoker
}

// NewInvokeHandler returns a handler serving invocations. The function may
// be addressed as "function" or by its configured name.
func NewInvokeHandler(invoker *Invoker) http.Handler {
	return &invokeHandler{invoker: invoker}
}

func (h *invokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "functionName")
	if name != defaultFunctionAlias && name != h.invoker.Config().FunctionName {
		renderError(w, r, http.StatusNotFound, errorTypeResourceNotFound, "Function not found: "+name)
		return
	}

	payload, err := ioutil.ReadAll(r.Body)
	if err != nil {
		log.WithError(err).Error("Failed to read invoke body")
		renderError(w, r, http.StatusBadRequest, errorTypeInvalidRequest, "Could not read request body")
		return
	}

	resp, err := h.invoker.Invoke(r.Context(), payload)
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, errorTypeInternalServerError, err.Error())
		return
	}

	// The envelope status code is part of the function result, the
	// invoke itself succeeded.
	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

func renderError(w http.ResponseWriter, r *http.Request, status int, errorType, message string) {
	render.Status(r, status)
	render.JSON(w, r, &response.ErrorBody{
		ErrorType:    errorType,
		ErrorMessage: message,
	})
}

type pingHandler struct{}

func (h *pingHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	if _, err := writer.Write([]byte("pong")); err != nil {
		log.WithError(err).Warn("Failed to write 'pong' response")
	}
}

// NewPingHandler returns a new instance of http handler
// for serving /ping.
func NewPingHandler() http.Handler {
	return &pingHandler{}
}

// AccessLogMiddleware writes api access log.
func AccessLogMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			log.Debug("API request - ", r.Method, " ", r.URL, ", Headers:", r.Header)
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
