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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/carverauto/hostmeta/pkg/models"
)

const (
	searchMeterName          = "hostmeta.search"
	metricSearchLatencyName  = "hostmeta_search_duration_seconds"
	metricStrategySelections = "hostmeta_search_strategy_selected_total"
)

var (
	searchMetricsOnce sync.Once

	searchLatency     metric.Float64Histogram
	strategySelection metric.Int64Counter
)

func initSearchMetrics() {
	meter := otel.Meter(searchMeterName)

	if hist, err := meter.Float64Histogram(
		metricSearchLatencyName,
		metric.WithDescription("Latency for endpoint metadata searches"),
		metric.WithUnit("s"),
	); err != nil {
		otel.Handle(err)
	} else {
		searchLatency = hist
	}

	if counter, err := meter.Int64Counter(
		metricStrategySelections,
		metric.WithDescription("Query strategy selections by version and source"),
	); err != nil {
		otel.Handle(err)
	} else {
		strategySelection = counter
	}
}

func recordSearchLatency(ctx context.Context, duration time.Duration, version models.QueryStrategyVersion, status string, results int) {
	searchMetricsOnce.Do(initSearchMetrics)
	if searchLatency == nil {
		return
	}

	if duration < 0 {
		duration = 0
	}

	searchLatency.Record(
		ctx,
		duration.Seconds(),
		metric.WithAttributes(
			attribute.String("query_strategy", string(version)),
			attribute.String("status", status),
			attribute.String("result_state", classifyResultSize(results)),
		),
	)
}

func recordStrategySelected(ctx context.Context, version models.QueryStrategyVersion, source string) {
	searchMetricsOnce.Do(initSearchMetrics)
	if strategySelection == nil {
		return
	}

	strategySelection.Add(ctx, 1, metric.WithAttributes(
		attribute.String("query_strategy", string(version)),
		attribute.String("source", source),
	))
}

func classifyResultSize(count int) string {
	switch {
	case count <= 0:
		return "empty"
	case count < 10:
		return "lt10"
	case count < 100:
		return "lt100"
	default:
		return "gte100"
	}
}
