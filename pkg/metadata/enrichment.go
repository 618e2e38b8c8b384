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

// Enrichment is the outcome of a best-effort lookup. A degraded enrichment carries
// the fallback value together with the reason the lookup failed.
type Enrichment[T any] struct {
	Value  T
	Reason error
}

func Ok[T any](value T) Enrichment[T] {
	return Enrichment[T]{Value: value}
}

func Degraded[T any](fallback T, reason error) Enrichment[T] {
	return Enrichment[T]{Value: fallback, Reason: reason}
}

func (e Enrichment[T]) IsDegraded() bool {
	return e.Reason != nil
}
