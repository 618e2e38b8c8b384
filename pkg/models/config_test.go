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

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *HostMetaConfig {
	cfg := &HostMetaConfig{
		CNPG: &CNPGDatabase{Host: "cnpg-rw", Database: "hostmeta"},
	}
	cfg.ApplyDefaults()

	return cfg
}

func TestHostMetaConfig_ApplyDefaults(t *testing.T) {
	cfg := &HostMetaConfig{}
	cfg.ApplyDefaults()

	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultEnrichConcurrency, cfg.Metadata.EnrichConcurrency)
	assert.Equal(t, Duration(DefaultRequestTimeout), cfg.Metadata.RequestTimeout)
	assert.Equal(t, DefaultIngestStream, cfg.Ingest.Stream)
	assert.Equal(t, DefaultIngestSubject, cfg.Ingest.Subject)
	assert.Equal(t, DefaultIngestDurable, cfg.Ingest.Durable)
	assert.Equal(t, DefaultIngestBatchSize, cfg.Ingest.BatchSize)
	assert.Equal(t, Duration(DefaultIngestMaxWait), cfg.Ingest.MaxWait)
}

func TestHostMetaConfig_ApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &HostMetaConfig{
		ListenAddr: ":9000",
		Ingest:     IngestConfig{Stream: "S", BatchSize: 5, MaxWait: Duration(time.Second)},
		Metadata:   MetadataConfig{EnrichConcurrency: 3},
	}
	cfg.ApplyDefaults()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "S", cfg.Ingest.Stream)
	assert.Equal(t, 5, cfg.Ingest.BatchSize)
	assert.Equal(t, Duration(time.Second), cfg.Ingest.MaxWait)
	assert.Equal(t, 3, cfg.Metadata.EnrichConcurrency)
}

func TestHostMetaConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*HostMetaConfig)
		wantErr error
		errText string
	}{
		{name: "valid", mutate: func(*HostMetaConfig) {}},
		{name: "missing listen addr", mutate: func(c *HostMetaConfig) { c.ListenAddr = "" }, wantErr: errListenAddrRequired},
		{name: "missing cnpg", mutate: func(c *HostMetaConfig) { c.CNPG = nil }, wantErr: errCNPGRequired},
		{name: "missing cnpg host", mutate: func(c *HostMetaConfig) { c.CNPG.Host = "" }, wantErr: errCNPGHostRequired},
		{name: "missing cnpg database", mutate: func(c *HostMetaConfig) { c.CNPG.Database = "" }, wantErr: errCNPGDatabaseMissing},
		{name: "ingest without nats", mutate: func(c *HostMetaConfig) { c.Ingest.Enabled = true }, wantErr: errNATSURLRequired},
		{
			name: "ingest with nats",
			mutate: func(c *HostMetaConfig) {
				c.Ingest.Enabled = true
				c.NATS = &NATSConfig{URL: "nats://localhost:4222"}
			},
		},
		{name: "negative concurrency", mutate: func(c *HostMetaConfig) { c.Metadata.EnrichConcurrency = -1 }, wantErr: errConcurrencyInvalid},
		{name: "pinned v1", mutate: func(c *HostMetaConfig) { c.Metadata.QueryStrategy = QueryStrategyV1 }},
		{
			name:    "unknown strategy",
			mutate:  func(c *HostMetaConfig) { c.Metadata.QueryStrategy = "v3" },
			errText: `unsupported metadata query_strategy "v3"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.errText != "":
				require.EqualError(t, err, tt.errText)
			default:
				require.NoError(t, err)
			}
		})
	}
}
