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
	"fmt"

	"github.com/carverauto/hostmeta/pkg/db"
	"github.com/carverauto/hostmeta/pkg/logger"
	"github.com/carverauto/hostmeta/pkg/models"
)

// StrategySelector resolves which query strategy serves a request.
type StrategySelector interface {
	Select(ctx context.Context, version models.QueryStrategyVersion) (Strategy, error)
}

// Selector honours an explicit version, then a configured default, and otherwise
// prefers v2 whenever the current table holds any rows.
type Selector struct {
	querier  db.Querier
	fallback models.QueryStrategyVersion
	logger   logger.Logger
}

func NewSelector(querier db.Querier, fallback models.QueryStrategyVersion, log logger.Logger) *Selector {
	return &Selector{querier: querier, fallback: fallback, logger: log}
}

var _ StrategySelector = (*Selector)(nil)

func (s *Selector) Select(ctx context.Context, version models.QueryStrategyVersion) (Strategy, error) {
	if version == "" {
		version = s.fallback
	}

	if version != "" {
		recordStrategySelected(ctx, version, "pinned")

		return NewStrategy(version)
	}

	var populated bool

	sql := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s)", db.TableEndpointMetadataCurrent)
	if err := s.querier.QueryRow(ctx, sql).Scan(&populated); err != nil {
		return nil, fmt.Errorf("%w: probe current table: %w", ErrSearchFailed, err)
	}

	version = models.QueryStrategyV1
	if populated {
		version = models.QueryStrategyV2
	}

	s.logger.Debug().Str("query_strategy", string(version)).Msg("selected query strategy")
	recordStrategySelected(ctx, version, "probed")

	return NewStrategy(version)
}

// StaticSelector always answers with one version unless the caller pins another.
type StaticSelector models.QueryStrategyVersion

func (s StaticSelector) Select(_ context.Context, version models.QueryStrategyVersion) (Strategy, error) {
	if version == "" {
		version = models.QueryStrategyVersion(s)
	}

	return NewStrategy(version)
}
