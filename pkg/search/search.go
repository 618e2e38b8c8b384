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

// Package search queries the endpoint metadata store.
package search

import (
	"context"
	"errors"

	"github.com/carverauto/hostmeta/pkg/models"
)

//go:generate mockgen -destination=mock_search.go -package=search github.com/carverauto/hostmeta/pkg/search Client

var (
	ErrInvalidFilter   = errors.New("invalid kql filter")
	ErrUnknownField    = errors.New("unsupported kql field")
	ErrUnknownStrategy = errors.New("unknown query strategy version")
	ErrSearchFailed    = errors.New("metadata search failed")
)

// Query is a rendered metadata query plus the strategy that built it.
type Query struct {
	Version   models.QueryStrategyVersion
	SQL       string
	Args      []any
	CountSQL  string
	CountArgs []any
	PageSize  int
	PageIndex int
}

// Response holds the documents of one page and the total number of matches.
type Response struct {
	Documents []models.HostMetadata
	Total     int
}

// Client executes metadata queries.
type Client interface {
	Search(ctx context.Context, q *Query) (*Response, error)
}
