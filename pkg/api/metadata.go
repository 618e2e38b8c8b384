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

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/carverauto/hostmeta/pkg/metadata"
	"github.com/carverauto/hostmeta/pkg/models"
)

const maxListBodyBytes = 1 << 20

var errMetadataUnavailable = errors.New("metadata service not configured")

// @Summary Get endpoint metadata
// @Description Returns the newest metadata document of a host or agent, enriched with fleet status and policy.
// @Tags Endpoint
// @Produce json
// @Param id path string true "Host ID or agent ID"
// @Success 200 {object} models.HostInfo "Enriched host"
// @Failure 400 {object} models.ErrorResponse "Endpoint is unenrolled"
// @Failure 404 {object} models.ErrorResponse "Endpoint Not Found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /api/endpoint/metadata/{id} [get]
// @Security ApiKeyAuth
func (s *APIServer) getHost(pinned models.QueryStrategyVersion) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.metadata == nil {
			s.writeServiceError(w, r, errMetadataUnavailable)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
		defer cancel()

		info, err := s.metadata.GetHost(ctx, mux.Vars(r)["id"], pinned)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		if err := s.encodeJSONResponse(w, info); err != nil {
			s.logger.Error().Err(err).Msg("failed to encode host response")
		}
	}
}

// @Summary List endpoint metadata
// @Description Lists enrolled hosts with paging, a KQL filter and host status filters.
// @Tags Endpoint
// @Accept json
// @Produce json
// @Param request body MetadataListRequest false "Paging and filters"
// @Param page_size query int false "Page size (GET only)"
// @Param page_index query int false "Page index (GET only)"
// @Param kql query string false "KQL filter (GET only)"
// @Param host_status query []string false "Host status filter (GET only)"
// @Success 200 {object} models.HostResultList "Page of enriched hosts"
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /api/endpoint/metadata [post]
// @Security ApiKeyAuth
func (s *APIServer) listHosts(pinned models.QueryStrategyVersion) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.metadata == nil {
			s.writeServiceError(w, r, errMetadataUnavailable)
			return
		}

		req, err := parseListRequest(r)
		if err != nil {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
		defer cancel()

		list, err := s.metadata.ListHosts(ctx, req, pinned)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		if err := s.encodeJSONResponse(w, list); err != nil {
			s.logger.Error().Err(err).Msg("failed to encode host list response")
		}
	}
}

func parseListRequest(r *http.Request) (metadata.ListRequest, error) {
	if r.Method == http.MethodGet {
		return parseListQuery(r)
	}

	var body MetadataListRequest

	err := json.NewDecoder(io.LimitReader(r.Body, maxListBodyBytes)).Decode(&body)
	if err != nil && !errors.Is(err, io.EOF) {
		return metadata.ListRequest{}, errors.New("invalid request body: " + err.Error())
	}

	return body.toListRequest(), nil
}

func parseListQuery(r *http.Request) (metadata.ListRequest, error) {
	q := r.URL.Query()

	req := metadata.ListRequest{KQL: q.Get("kql")}

	for _, status := range q["host_status"] {
		req.HostStatuses = append(req.HostStatuses, models.HostStatus(status))
	}

	var err error

	if raw := q.Get("page_size"); raw != "" {
		if req.PageSize, err = strconv.Atoi(raw); err != nil {
			return req, errors.New("invalid page_size")
		}
	}

	if raw := q.Get("page_index"); raw != "" {
		if req.PageIndex, err = strconv.Atoi(raw); err != nil {
			return req, errors.New("invalid page_index")
		}
	}

	return req, nil
}

// writeServiceError maps StatusError to its status and logs everything else as a 500.
func (s *APIServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var statusErr *metadata.StatusError
	if errors.As(err, &statusErr) {
		writeError(w, statusErr.Message, statusErr.Status)
		return
	}

	s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("endpoint metadata request failed")
	writeError(w, err.Error(), http.StatusInternalServerError)
}
