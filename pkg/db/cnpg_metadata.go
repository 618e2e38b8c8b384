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

package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carverauto/hostmeta/pkg/models"
)

const (
	TableEndpointMetadata        = "endpoint_metadata"
	TableEndpointMetadataCurrent = "endpoint_metadata_current"
	TableFleetAgents             = "fleet_agents"
	TableAgentPolicies           = "agent_policies"
)

// psql is the squirrel builder shared by every CNPG query in hostmeta.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// StatementBuilder returns the PostgreSQL-flavoured squirrel builder.
func StatementBuilder() sq.StatementBuilderType {
	return psql
}

// CNPGMetadataWriter implements MetadataWriter on a pgx pool.
type CNPGMetadataWriter struct {
	pool *pgxpool.Pool
}

func NewCNPGMetadataWriter(pool *pgxpool.Pool) *CNPGMetadataWriter {
	return &CNPGMetadataWriter{pool: pool}
}

var _ MetadataWriter = (*CNPGMetadataWriter)(nil)

func (w *CNPGMetadataWriter) StoreHostMetadata(ctx context.Context, agentID string, doc *models.HostMetadata) error {
	insert, current, err := buildMetadataWrites(agentID, doc)
	if err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, w.pool, func(tx pgx.Tx) error {
		for _, stmt := range []sq.Sqlizer{insert, current} {
			query, args, err := stmt.ToSql()
			if err != nil {
				return fmt.Errorf("%w: build: %w", ErrFailedToInsert, err)
			}

			if _, err := tx.Exec(ctx, query, args...); err != nil {
				if constraint, ok := ConstraintName(err); ok {
					return fmt.Errorf("%w: constraint %s: %w", ErrFailedToInsert, constraint, err)
				}

				return fmt.Errorf("%w: %w", ErrFailedToInsert, err)
			}
		}

		return nil
	})
}

// buildMetadataWrites renders the append and the newest-wins upsert for doc.
func buildMetadataWrites(agentID string, doc *models.HostMetadata) (sq.InsertBuilder, sq.InsertBuilder, error) {
	if doc == nil {
		return sq.InsertBuilder{}, sq.InsertBuilder{}, ErrDocumentNil
	}

	if agentID == "" {
		return sq.InsertBuilder{}, sq.InsertBuilder{}, ErrAgentIDRequired
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return sq.InsertBuilder{}, sq.InsertBuilder{}, fmt.Errorf("%w: encode document: %w", ErrFailedToInsert, err)
	}

	created := doc.Event.Created
	if created.IsZero() {
		created = time.Now().UTC()
	}

	insert := psql.Insert(TableEndpointMetadata).
		Columns("agent_id", "host_id", "event_created", "document").
		Values(agentID, doc.Host.ID, created, payload)

	current := psql.Insert(TableEndpointMetadataCurrent).
		Columns("agent_id", "host_id", "event_created", "document").
		Values(agentID, doc.Host.ID, created, payload).
		Suffix(`ON CONFLICT (agent_id) DO UPDATE SET
			host_id = EXCLUDED.host_id,
			event_created = EXCLUDED.event_created,
			document = EXCLUDED.document,
			updated_at = now()
		WHERE EXCLUDED.event_created >= ` + TableEndpointMetadataCurrent + `.event_created`)

	return insert, current, nil
}
