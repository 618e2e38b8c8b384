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
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/carverauto/hostmeta/pkg/db"
	"github.com/carverauto/hostmeta/pkg/models"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 10000
)

// ListOptions narrows a host list query.
type ListOptions struct {
	PageSize        int
	PageIndex       int
	ExcludeAgentIDs []string
	// StatusAgentIDs restricts results to these agents when StatusFiltered is set.
	// An empty slice then matches nothing.
	StatusAgentIDs []string
	StatusFiltered bool
	// Filter is a parsed KQL expression, nil for none.
	Filter sq.Sqlizer
}

// Strategy builds the queries for one storage layout of the metadata store.
type Strategy interface {
	Version() models.QueryStrategyVersion
	HostByID(id string) (*Query, error)
	List(opts ListOptions) (*Query, error)
}

// NewStrategy returns the builder for version.
func NewStrategy(version models.QueryStrategyVersion) (Strategy, error) {
	switch version {
	case models.QueryStrategyV1:
		return &streamStrategy{}, nil
	case models.QueryStrategyV2:
		return &currentStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, version)
	}
}

// streamStrategy reads the raw stream and keeps the newest document per agent.
type streamStrategy struct{}

func (*streamStrategy) Version() models.QueryStrategyVersion { return models.QueryStrategyV1 }

func (*streamStrategy) source() sq.SelectBuilder {
	return db.StatementBuilder().
		Select("DISTINCT ON (agent_id) agent_id", "host_id", "event_created", "document").
		From(db.TableEndpointMetadata).
		OrderBy("agent_id", "event_created DESC")
}

func (s *streamStrategy) HostByID(id string) (*Query, error) {
	return hostByID(s.Version(), db.TableEndpointMetadata, id)
}

func (s *streamStrategy) List(opts ListOptions) (*Query, error) {
	page := db.StatementBuilder().Select("document").FromSelect(s.source(), "latest")
	count := db.StatementBuilder().Select("count(*)").FromSelect(s.source(), "latest")

	return listQuery(s.Version(), page, count, opts)
}

// currentStrategy reads the table that already holds one row per agent.
type currentStrategy struct{}

func (*currentStrategy) Version() models.QueryStrategyVersion { return models.QueryStrategyV2 }

func (s *currentStrategy) HostByID(id string) (*Query, error) {
	return hostByID(s.Version(), db.TableEndpointMetadataCurrent, id)
}

func (s *currentStrategy) List(opts ListOptions) (*Query, error) {
	page := db.StatementBuilder().Select("document").From(db.TableEndpointMetadataCurrent)
	count := db.StatementBuilder().Select("count(*)").From(db.TableEndpointMetadataCurrent)

	return listQuery(s.Version(), page, count, opts)
}

func hostByID(version models.QueryStrategyVersion, table, id string) (*Query, error) {
	sql, args, err := db.StatementBuilder().
		Select("document").
		From(table).
		Where(sq.Or{
			sq.Eq{"host_id": id},
			sq.Eq{"agent_id": id},
			sq.Expr("document #>> '{agent,id}' = ?", id),
		}).
		OrderBy("event_created DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build host query: %w", err)
	}

	return &Query{Version: version, SQL: sql, Args: args, PageSize: 1}, nil
}

func listQuery(version models.QueryStrategyVersion, page, count sq.SelectBuilder, opts ListOptions) (*Query, error) {
	size, index := NormalizePaging(opts.PageSize, opts.PageIndex)

	where := sq.And{}

	if len(opts.ExcludeAgentIDs) > 0 {
		where = append(where, sq.NotEq{"agent_id": opts.ExcludeAgentIDs})
	}

	if opts.StatusFiltered {
		// sq.Eq with an empty slice renders (1=0)
		where = append(where, sq.Eq{"agent_id": emptyIfNil(opts.StatusAgentIDs)})
	}

	if opts.Filter != nil {
		where = append(where, opts.Filter)
	}

	if len(where) > 0 {
		page = page.Where(where)
		count = count.Where(where)
	}

	sql, args, err := page.
		OrderBy("event_created DESC").
		Limit(uint64(size)).
		Offset(uint64(size * index)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count query: %w", err)
	}

	return &Query{
		Version:   version,
		SQL:       sql,
		Args:      args,
		CountSQL:  countSQL,
		CountArgs: countArgs,
		PageSize:  size,
		PageIndex: index,
	}, nil
}

// NormalizePaging applies the default page size and clamps both values.
func NormalizePaging(size, index int) (int, int) {
	if size <= 0 {
		size = DefaultPageSize
	}

	if size > MaxPageSize {
		size = MaxPageSize
	}

	if index < 0 {
		index = 0
	}

	return size, index
}

func emptyIfNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}

	return ids
}
