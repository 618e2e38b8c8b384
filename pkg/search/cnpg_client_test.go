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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/hostmeta/pkg/logger"
	"github.com/carverauto/hostmeta/pkg/models"
)

func TestCNPGClient_Search(t *testing.T) {
	q := &fakeQuerier{
		rows: [][]any{
			{[]byte(`{"agent":{"id":"a1"},"host":{"hostname":"web-01"}}`)},
			{[]byte(`not json`)},
			{[]byte(`{"agent":{"id":"a2"},"host":{"hostname":"web-02"}}`)},
		},
		row: []any{int64(42)},
	}

	client := NewCNPGClient(q, logger.NewTestLogger())

	resp, err := client.Search(context.Background(), &Query{
		Version:  models.QueryStrategyV2,
		SQL:      "SELECT document FROM endpoint_metadata_current",
		CountSQL: "SELECT count(*) FROM endpoint_metadata_current",
	})
	require.NoError(t, err)

	require.Len(t, resp.Documents, 2)
	assert.Equal(t, "web-01", resp.Documents[0].Host.Hostname)
	assert.Equal(t, "a2", resp.Documents[1].Agent.ID)
	assert.Equal(t, 42, resp.Total)
	assert.Len(t, q.queries, 2)
}

func TestCNPGClient_SearchWithoutCount(t *testing.T) {
	q := &fakeQuerier{rows: [][]any{{[]byte(`{"agent":{"id":"a1"}}`)}}}

	resp, err := NewCNPGClient(q, logger.NewTestLogger()).Search(context.Background(), &Query{SQL: "SELECT 1"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Len(t, q.queries, 1)
}

func TestCNPGClient_SearchEmpty(t *testing.T) {
	q := &fakeQuerier{row: []any{int64(0)}}

	resp, err := NewCNPGClient(q, logger.NewTestLogger()).Search(context.Background(), &Query{SQL: "x", CountSQL: "y"})
	require.NoError(t, err)
	assert.NotNil(t, resp.Documents)
	assert.Empty(t, resp.Documents)
	assert.Equal(t, 0, resp.Total)
}

func TestCNPGClient_SearchError(t *testing.T) {
	q := &fakeQuerier{queryErr: errFakeQuery}

	_, err := NewCNPGClient(q, logger.NewTestLogger()).Search(context.Background(), &Query{SQL: "x"})
	require.ErrorIs(t, err, ErrSearchFailed)
	require.ErrorIs(t, err, errFakeQuery)
}
