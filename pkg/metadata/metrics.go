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

package metadata

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metadataMeterName    = "hostmeta.metadata"
	metricHostsEnriched  = "hostmeta.hosts.enriched"
	metricEnrichDegraded = "hostmeta.enrichment.degraded"
)

var (
	metadataMetricsOnce sync.Once

	hostsEnriched  metric.Int64Counter
	enrichDegraded metric.Int64Counter
)

func initMetadataMetrics() {
	meter := otel.Meter(metadataMeterName)

	if counter, err := meter.Int64Counter(
		metricHostsEnriched,
		metric.WithDescription("Hosts enriched with fleet status and policy"),
	); err != nil {
		otel.Handle(err)
	} else {
		hostsEnriched = counter
	}

	if counter, err := meter.Int64Counter(
		metricEnrichDegraded,
		metric.WithDescription("Enrichment steps that fell back to a default value"),
	); err != nil {
		otel.Handle(err)
	} else {
		enrichDegraded = counter
	}
}

func recordHostEnriched(ctx context.Context, status string) {
	metadataMetricsOnce.Do(initMetadataMetrics)
	if hostsEnriched == nil {
		return
	}

	hostsEnriched.Add(ctx, 1, metric.WithAttributes(attribute.String("host_status", status)))
}

func recordDegraded(ctx context.Context, step string) {
	metadataMetricsOnce.Do(initMetadataMetrics)
	if enrichDegraded == nil {
		return
	}

	enrichDegraded.Add(ctx, 1, metric.WithAttributes(attribute.String("step", step)))
}
