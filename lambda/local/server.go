// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const version20150331 = "/2015-03-31"

// Server exposes the invoke API of the emulated function.
type Server struct {
	host     string
	port     int
	server   *http.Server
	listener net.Listener
}

// NewServer creates a new invoke API server.
//
// Listen and Serve are separate so callers know the bound port before
// requests are accepted. When port is 0, the OS allocates one.
func NewServer(host string, port int, invoker *Invoker, gatherer prometheus.Gatherer) *Server {
	router := chi.NewRouter()
	router.Use(AccessLogMiddleware())
	router.Get("/ping", NewPingHandler().ServeHTTP)
	router.Mount(version20150331, NewInvokeRouter(invoker))
	if gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return &Server{
		host:   host,
		port:   port,
		server: &http.Server{Handler: router},
	}
}

// Listen on port
func (s *Server) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.listener = ln
	if s.port == 0 {
		s.port = ln.Addr().(*net.TCPAddr).Port
		log.WithField("port", s.port).Info("Listening port was dynamically allocated")
	}

	log.Infof("Invoke API listening on %s:%d", s.host, s.port)
	return nil
}

// Serve requests until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("server is not listening")
	}

	errs := make(chan error, 1)
	go func() {
		errs <- s.server.Serve(s.listener)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		if err := s.server.Shutdown(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to shut down invoke API server")
		}
		return nil
	}
}

// Host is server's host
func (s *Server) Host() string {
	return s.host
}

// Port is server's port
func (s *Server) Port() int {
	return s.port
}
