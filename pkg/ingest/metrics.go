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

package ingest

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	ingestMeterName      = "hostmeta.ingest"
	metricIngestMessages = "hostmeta_ingest_messages_total"

	resultStored   = "stored"
	resultRetried  = "retried"
	resultRejected = "rejected"
	resultInvalid  = "invalid"
)

var (
	ingestMetricsOnce sync.Once
	ingestMessages    metric.Int64Counter
)

func recordMessage(ctx context.Context, result string) {
	ingestMetricsOnce.Do(func() {
		counter, err := otel.Meter(ingestMeterName).Int64Counter(
			metricIngestMessages,
			metric.WithDescription("Metadata messages handled by outcome"),
		)
		if err != nil {
			otel.Handle(err)
			return
		}

		ingestMessages = counter
	})

	if ingestMessages == nil {
		return
	}

	ingestMessages.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
