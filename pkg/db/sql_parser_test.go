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
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSQLStatements_IgnoresCommentsAndQuotes(t *testing.T) {
	content := `
-- leading comment; with a semicolon
INSERT INTO logs(message) VALUES('hello;world');
SELECT "odd;name" FROM t;

SELECT 1
`

	statements := splitSQLStatements(content)
	require.Len(t, statements, 3)

	assert.Equal(t, "INSERT INTO logs(message) VALUES('hello;world')", statements[0])
	assert.Equal(t, `SELECT "odd;name" FROM t`, statements[1])
	assert.Equal(t, "SELECT 1", statements[2])
}

func TestExtractVersion(t *testing.T) {
	assert.Equal(t, "00000000000001", extractVersion("00000000000001_endpoint_metadata.up.sql"))
	assert.Equal(t, "noprefix.sql", extractVersion("noprefix.sql"))
}

func TestEmbeddedMigrationsAreOrderedAndSplit(t *testing.T) {
	names, err := upMigrationNames()
	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.True(t, strings.HasPrefix(names[0], "00000000000001_"))

	content, err := fs.ReadFile(migrationsFS, "migrations/"+names[0])
	require.NoError(t, err)

	statements := splitSQLStatements(string(content))
	require.Len(t, statements, 5)
	assert.True(t, strings.HasPrefix(statements[0], "CREATE TABLE IF NOT EXISTS endpoint_metadata ("))
}
