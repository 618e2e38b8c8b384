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

// Package db owns the CNPG (PostgreSQL) connection, schema and metadata writes.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carverauto/hostmeta/pkg/models"
)

//go:generate mockgen -destination=mock_db.go -package=db github.com/carverauto/hostmeta/pkg/db MetadataWriter

// MetadataWriter persists ingested endpoint metadata documents.
type MetadataWriter interface {
	// StoreHostMetadata appends doc to the metadata stream and refreshes the
	// agent's current row when doc is at least as new.
	StoreHostMetadata(ctx context.Context, agentID string, doc *models.HostMetadata) error
}

// Querier is the subset of pgxpool.Pool used by the read paths.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
