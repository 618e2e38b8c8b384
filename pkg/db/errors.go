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
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrFailedToQuery   = errors.New("failed to query")
	ErrFailedToInsert  = errors.New("failed to insert")
	ErrFailedToInit    = errors.New("failed to initialize schema")
	ErrCNPGConfig      = errors.New("cnpg configuration invalid")
	ErrCNPGTLSDisabled = errors.New("cnpg tls configured but ssl_mode is disable")
	ErrAgentIDRequired = errors.New("agent ID is required")
	ErrDocumentNil     = errors.New("host metadata document is nil")
)

// PostgreSQL SQLSTATE codes for integrity violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// ConstraintName reports the violated constraint when err is an integrity violation.
func ConstraintName(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}

	switch pgErr.Code {
	case pgUniqueViolation, pgForeignKeyViolation, pgCheckViolation, pgNotNullViolation:
		if pgErr.ConstraintName != "" {
			return pgErr.ConstraintName, true
		}
	}

	return "", false
}

// IsRetryable reports whether err is worth retrying. Integrity violations and
// malformed input are permanent; connection and server errors are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrAgentIDRequired) || errors.Is(err, ErrDocumentNil) {
		return false
	}

	if _, ok := ConstraintName(err); ok {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 22: data exception, class 42: syntax error or access rule violation
		return !(len(pgErr.Code) == 5 && (pgErr.Code[:2] == "22" || pgErr.Code[:2] == "42"))
	}

	return true
}
