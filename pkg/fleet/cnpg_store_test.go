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

package fleet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/hostmeta/pkg/models"
)

var errConnReset = errors.New("connection reset")

type rowFunc func(dest ...any) error

func (f rowFunc) Scan(dest ...any) error { return f(dest...) }

// stubQuerier answers every QueryRow with the same row.
type stubQuerier struct {
	row  pgx.Row
	sqls []string
}

func (s *stubQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errConnReset
}

func (s *stubQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	s.sqls = append(s.sqls, sql)

	return s.row
}

func (*stubQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func TestQueries(t *testing.T) {
	sql, args, err := agentByIDQuery("a1")
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, active, policy_id, policy_revision, enrolled_at, last_checkin, last_checkin_status, "+
		"unenrollment_started_at, unenrolled_at, upgrade_started_at, upgraded_at, local_metadata FROM fleet_agents WHERE id = $1", sql)
	assert.Equal(t, []any{"a1"}, args)

	sql, args, err = unenrolledQuery()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM fleet_agents WHERE active = $1", sql)
	assert.Equal(t, []any{false}, args)

	sql, _, err = policyByIDQuery("p1")
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name, revision, package_policies, updated_at FROM agent_policies WHERE id = $1", sql)

	sql, _, err = listAgentsQuery()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM fleet_agents ORDER BY id")
}

func TestCNPGStore_NotFound(t *testing.T) {
	store := NewCNPGStore(&stubQuerier{row: rowFunc(func(...any) error { return pgx.ErrNoRows })})

	_, err := store.GetAgent(context.Background(), "missing")
	require.ErrorIs(t, err, ErrAgentNotFound)

	_, err = store.GetAgentStatusByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrAgentNotFound)

	_, err = store.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrPolicyNotFound)
}

func TestCNPGStore_QueryFailure(t *testing.T) {
	store := NewCNPGStore(&stubQuerier{row: rowFunc(func(...any) error { return errConnReset })})

	_, err := store.GetAgent(context.Background(), "a1")
	require.ErrorIs(t, err, ErrFleetQuery)
	require.NotErrorIs(t, err, ErrAgentNotFound)

	_, err = store.ListAgents(context.Background())
	require.ErrorIs(t, err, ErrFleetQuery)

	_, err = store.ListUnenrolledAgentIDs(context.Background())
	require.ErrorIs(t, err, ErrFleetQuery)
}

func TestCNPGStore_GetAgentStatusByID(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	checkin := now.Add(-5 * time.Second)

	store := NewCNPGStore(&stubQuerier{row: rowFunc(func(dest ...any) error {
		*dest[0].(*string) = "a1"
		*dest[1].(*bool) = true
		*dest[5].(**time.Time) = &checkin

		return nil
	})})
	store.now = func() time.Time { return now }

	status, err := store.GetAgentStatusByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, models.AgentStatusOnline, status)
}
