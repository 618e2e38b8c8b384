/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package api exposes the endpoint metadata HTTP API.
//
// @title hostmeta API
// @version 1.0
// @description Endpoint metadata enriched with fleet agent status and policy revisions.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	srHttp "github.com/carverauto/hostmeta/pkg/http"
	"github.com/carverauto/hostmeta/pkg/logger"
	"github.com/carverauto/hostmeta/pkg/models"
	"github.com/carverauto/hostmeta/pkg/swagger"
	"github.com/carverauto/hostmeta/pkg/version"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultIdleTimeout  = 60 * time.Second
	defaultTimeout      = 10 * time.Second
)

func NewAPIServer(config models.CORSConfig, options ...func(server *APIServer)) *APIServer {
	s := &APIServer{
		router:         mux.NewRouter(),
		corsConfig:     config,
		logger:         logger.NewTestLogger(),
		requestTimeout: defaultTimeout,
		version:        version.GetVersion(),
	}

	for _, o := range options {
		o(s)
	}

	s.setupRoutes()

	return s
}

func WithLogger(log logger.Logger) func(server *APIServer) {
	return func(server *APIServer) {
		if log != nil {
			server.logger = log
		}
	}
}

func WithMetadataService(m MetadataService) func(server *APIServer) {
	return func(server *APIServer) {
		server.metadata = m
	}
}

// WithAPIKey requires X-API-Key on every /api route.
func WithAPIKey(key string) func(server *APIServer) {
	return func(server *APIServer) {
		server.apiKey = key
	}
}

func WithRequestTimeout(timeout time.Duration) func(server *APIServer) {
	return func(server *APIServer) {
		if timeout > 0 {
			server.requestTimeout = timeout
		}
	}
}

// WithAddress sets the listen address used by Start.
func WithAddress(addr string) func(server *APIServer) {
	return func(server *APIServer) {
		server.addr = addr
	}
}

// Handler returns the routed handler with all middleware applied.
func (s *APIServer) Handler() http.Handler {
	return s.router
}

func (s *APIServer) setupRoutes() {
	s.setupMiddleware()

	s.router.HandleFunc("/health", s.getHealth).Methods(http.MethodGet)
	s.router.Handle("/swagger/doc.json", swagger.Handler()).Methods(http.MethodGet)

	apiRouter := s.router.PathPrefix("/api").Subrouter()
	apiRouter.Use(srHttp.APIKeyMiddlewareWithOptions(srHttp.APIKeyOptions{
		APIKey:          s.apiKey,
		LogUnauthorized: true,
		Logger:          s.logger,
	}))

	apiRouter.HandleFunc("/endpoint/metadata", s.listHosts(models.QueryStrategyVersion(""))).
		Methods(http.MethodGet, http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/endpoint/metadata/{id}", s.getHost(models.QueryStrategyVersion(""))).
		Methods(http.MethodGet, http.MethodOptions)

	apiRouter.HandleFunc("/endpoint/v1/metadata", s.listHosts(models.QueryStrategyV1)).
		Methods(http.MethodGet, http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/endpoint/v1/metadata/{id}", s.getHost(models.QueryStrategyV1)).
		Methods(http.MethodGet, http.MethodOptions)
}

func (s *APIServer) setupMiddleware() {
	corsConfig := models.CORSConfig{
		AllowedOrigins:   s.corsConfig.AllowedOrigins,
		AllowCredentials: s.corsConfig.AllowCredentials,
	}

	s.router.Use(srHttp.RequestIDMiddleware)
	s.router.Use(srHttp.LoggingMiddleware(s.logger))
	s.router.Use(func(next http.Handler) http.Handler {
		return srHttp.CommonMiddleware(next, corsConfig, s.logger)
	})
}

// @Summary Health check
// @Description Reports that the API is serving.
// @Tags System
// @Produce json
// @Success 200 {object} models.HealthResponse "Service is healthy"
// @Router /health [get]
func (s *APIServer) getHealth(w http.ResponseWriter, _ *http.Request) {
	if err := s.encodeJSONResponse(w, models.HealthResponse{Status: "ok", Version: s.version}); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode health response")
	}
}

// Start serves the API until ctx ends or Stop is called.
func (s *APIServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	s.mu.Lock()
	s.srv = srv
	s.mu.Unlock()

	s.logger.Info().Str("addr", s.addr).Msg("Starting HTTP API server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Stop drains in-flight requests.
func (s *APIServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	return srv.Shutdown(ctx)
}

func (*APIServer) encodeJSONResponse(w http.ResponseWriter, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")

	return json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(statusCode)

	errResponse := models.ErrorResponse{
		Message: message,
		Status:  statusCode,
	}

	if err := json.NewEncoder(w).Encode(errResponse); err != nil {
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
