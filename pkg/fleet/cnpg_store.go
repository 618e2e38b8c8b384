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
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/carverauto/hostmeta/pkg/db"
	"github.com/carverauto/hostmeta/pkg/models"
)

var agentColumns = []string{
	"id",
	"active",
	"policy_id",
	"policy_revision",
	"enrolled_at",
	"last_checkin",
	"last_checkin_status",
	"unenrollment_started_at",
	"unenrolled_at",
	"upgrade_started_at",
	"upgraded_at",
	"local_metadata",
}

// CNPGStore serves AgentService and PolicyService from the fleet tables.
type CNPGStore struct {
	querier db.Querier
	now     func() time.Time
}

func NewCNPGStore(querier db.Querier) *CNPGStore {
	return &CNPGStore{querier: querier, now: time.Now}
}

var (
	_ AgentService  = (*CNPGStore)(nil)
	_ PolicyService = (*CNPGStore)(nil)
)

func agentByIDQuery(agentID string) (string, []any, error) {
	return db.StatementBuilder().
		Select(agentColumns...).
		From(db.TableFleetAgents).
		Where(sq.Eq{"id": agentID}).
		ToSql()
}

func listAgentsQuery() (string, []any, error) {
	return db.StatementBuilder().
		Select(agentColumns...).
		From(db.TableFleetAgents).
		OrderBy("id").
		ToSql()
}

func unenrolledQuery() (string, []any, error) {
	return db.StatementBuilder().
		Select("id").
		From(db.TableFleetAgents).
		Where(sq.Eq{"active": false}).
		ToSql()
}

func policyByIDQuery(policyID string) (string, []any, error) {
	return db.StatementBuilder().
		Select("id", "name", "revision", "package_policies", "updated_at").
		From(db.TableAgentPolicies).
		Where(sq.Eq{"id": policyID}).
		ToSql()
}

func scanAgent(row pgx.Row) (*models.Agent, error) {
	var a models.Agent

	err := row.Scan(
		&a.ID,
		&a.Active,
		&a.PolicyID,
		&a.PolicyRevision,
		&a.EnrolledAt,
		&a.LastCheckin,
		&a.LastCheckinStatus,
		&a.UnenrollmentStartedAt,
		&a.UnenrolledAt,
		&a.UpgradeStartedAt,
		&a.UpgradedAt,
		&a.LocalMetadata,
	)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

func (s *CNPGStore) GetAgent(ctx context.Context, agentID string) (*models.Agent, error) {
	sql, args, err := agentByIDQuery(agentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFleetQuery, err)
	}

	agent, err := scanAgent(s.querier.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrAgentNotFound, agentID)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: get agent %s: %w", ErrFleetQuery, agentID, err)
	}

	return agent, nil
}

func (s *CNPGStore) GetAgentStatusByID(ctx context.Context, agentID string) (models.AgentStatus, error) {
	agent, err := s.GetAgent(ctx, agentID)
	if err != nil {
		return "", err
	}

	return StatusOf(agent, s.now()), nil
}

func (s *CNPGStore) ListAgents(ctx context.Context) ([]models.Agent, error) {
	sql, args, err := listAgentsQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFleetQuery, err)
	}

	rows, err := s.querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list agents: %w", ErrFleetQuery, err)
	}
	defer rows.Close()

	var agents []models.Agent

	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan agent: %w", ErrFleetQuery, err)
		}

		agents = append(agents, *agent)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list agents: %w", ErrFleetQuery, err)
	}

	return agents, nil
}

func (s *CNPGStore) ListUnenrolledAgentIDs(ctx context.Context) ([]string, error) {
	sql, args, err := unenrolledQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFleetQuery, err)
	}

	rows, err := s.querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list unenrolled: %w", ErrFleetQuery, err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%w: list unenrolled: %w", ErrFleetQuery, err)
	}

	return ids, nil
}

func (s *CNPGStore) Get(ctx context.Context, policyID string) (*models.AgentPolicy, error) {
	sql, args, err := policyByIDQuery(policyID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFleetQuery, err)
	}

	var p models.AgentPolicy

	err = s.querier.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.Name, &p.Revision, &p.PackagePolicies, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPolicyNotFound, policyID)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: get policy %s: %w", ErrFleetQuery, policyID, err)
	}

	return &p, nil
}
