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

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/carverauto/hostmeta/pkg/db"
	"github.com/carverauto/hostmeta/pkg/logger"
	"github.com/carverauto/hostmeta/pkg/models"
)

const tracerName = "github.com/carverauto/hostmeta/pkg/search"

// CNPGClient runs metadata queries against CNPG.
type CNPGClient struct {
	querier db.Querier
	logger  logger.Logger
	tracer  trace.Tracer
}

func NewCNPGClient(querier db.Querier, log logger.Logger) *CNPGClient {
	return &CNPGClient{
		querier: querier,
		logger:  log,
		tracer:  otel.Tracer(tracerName),
	}
}

var _ Client = (*CNPGClient)(nil)

func (c *CNPGClient) Search(ctx context.Context, q *Query) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, "search.Search", trace.WithAttributes(
		attribute.String("hostmeta.query_strategy", string(q.Version)),
		attribute.Int("hostmeta.page_size", q.PageSize),
		attribute.Int("hostmeta.page_index", q.PageIndex),
	))
	defer span.End()

	start := time.Now()

	resp, err := c.search(ctx, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		recordSearchLatency(ctx, time.Since(start), q.Version, "error", 0)

		return nil, err
	}

	span.SetAttributes(attribute.Int("hostmeta.total", resp.Total))
	recordSearchLatency(ctx, time.Since(start), q.Version, "success", len(resp.Documents))

	return resp, nil
}

func (c *CNPGClient) search(ctx context.Context, q *Query) (*Response, error) {
	rows, err := c.querier.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	defer rows.Close()

	resp := &Response{Documents: []models.HostMetadata{}}

	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%w: scan: %w", ErrSearchFailed, err)
		}

		var doc models.HostMetadata
		if err := json.Unmarshal(raw, &doc); err != nil {
			c.logger.Warn().Err(err).Msg("skipping undecodable metadata document")

			continue
		}

		resp.Documents = append(resp.Documents, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate: %w", ErrSearchFailed, err)
	}

	resp.Total = len(resp.Documents)

	if q.CountSQL != "" {
		var total int64
		if err := c.querier.QueryRow(ctx, q.CountSQL, q.CountArgs...).Scan(&total); err != nil {
			return nil, fmt.Errorf("%w: count: %w", ErrSearchFailed, err)
		}

		resp.Total = int(total)
	}

	return resp, nil
}
