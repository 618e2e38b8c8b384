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
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/carverauto/hostmeta/pkg/logger"
	"github.com/carverauto/hostmeta/pkg/metadata"
	"github.com/carverauto/hostmeta/pkg/models"
)

// MetadataService is the host view the API serves.
type MetadataService interface {
	GetHost(ctx context.Context, id string, version models.QueryStrategyVersion) (*models.HostInfo, error)
	ListHosts(ctx context.Context, req metadata.ListRequest, version models.QueryStrategyVersion) (*models.HostResultList, error)
}

// APIServer serves the endpoint metadata API.
type APIServer struct {
	mu             sync.Mutex
	router         *mux.Router
	srv            *http.Server
	addr           string
	metadata       MetadataService
	corsConfig     models.CORSConfig
	apiKey         string
	logger         logger.Logger
	requestTimeout time.Duration
	version        string
}

// PagingProperty is one entry of paging_properties. Each entry sets a single field.
type PagingProperty struct {
	PageSize  *int `json:"page_size,omitempty" example:"10"`
	PageIndex *int `json:"page_index,omitempty" example:"0"`
}

// MetadataListFilters narrows a host list.
type MetadataListFilters struct {
	KQL        string              `json:"kql,omitempty" example:"host.os.platform:windows"`
	HostStatus []models.HostStatus `json:"host_status,omitempty"`
}

// MetadataListRequest is the body of a host list request.
// @Description Paging and filters for a host list.
type MetadataListRequest struct {
	PagingProperties []PagingProperty    `json:"paging_properties,omitempty"`
	Filters          MetadataListFilters `json:"filters"`
}

func (r *MetadataListRequest) toListRequest() metadata.ListRequest {
	req := metadata.ListRequest{
		KQL:          r.Filters.KQL,
		HostStatuses: r.Filters.HostStatus,
	}

	for _, p := range r.PagingProperties {
		if p.PageSize != nil {
			req.PageSize = *p.PageSize
		}

		if p.PageIndex != nil {
			req.PageIndex = *p.PageIndex
		}
	}

	return req
}
