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
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var errFakeQuery = errors.New("fake query failure")

// fakeQuerier replays canned rows; each row is a single scanned column.
type fakeQuerier struct {
	rows     [][]any
	row      []any
	queryErr error
	rowErr   error
	queries  []string
}

func (f *fakeQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	f.queries = append(f.queries, sql)

	if f.queryErr != nil {
		return nil, f.queryErr
	}

	return &fakeRows{rows: f.rows, idx: -1}, nil
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	f.queries = append(f.queries, sql)

	return fakeRow{values: f.row, err: f.rowErr}
}

func (*fakeQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}

	return assign(r.values, dest)
}

type fakeRows struct {
	rows [][]any
	idx  int
}

func (*fakeRows) Close() {}

func (*fakeRows) Err() error { return nil }

func (*fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (*fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (r *fakeRows) Values() ([]any, error) { return r.rows[r.idx], nil }

func (*fakeRows) RawValues() [][]byte { return nil }

func (*fakeRows) Conn() *pgx.Conn { return nil }

func (r *fakeRows) Scan(dest ...any) error { return assign(r.rows[r.idx], dest) }

func (r *fakeRows) Next() bool {
	r.idx++

	return r.idx < len(r.rows)
}

func assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values into %d targets", len(values), len(dest))
	}

	for i, v := range values {
		switch d := dest[i].(type) {
		case *[]byte:
			*d = v.([]byte)
		case *bool:
			*d = v.(bool)
		case *int64:
			*d = v.(int64)
		case *string:
			*d = v.(string)
		default:
			return fmt.Errorf("scan: unsupported target %T", d)
		}
	}

	return nil
}
