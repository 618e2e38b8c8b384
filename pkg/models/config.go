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
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/hostmeta/pkg/logger"
)

var (
	errListenAddrRequired  = errors.New("listen_addr is required")
	errCNPGRequired        = errors.New("cnpg configuration is required")
	errCNPGHostRequired    = errors.New("cnpg host is required")
	errCNPGDatabaseMissing = errors.New("cnpg database is required")
	errNATSURLRequired     = errors.New("nats url is required when ingest is enabled")
	errConcurrencyInvalid  = errors.New("metadata enrich_concurrency must be positive")
)

// Duration is the JSON friendly duration shared with the logging configuration.
type Duration = logger.Duration

// TLSConfig holds client certificate material.
type TLSConfig struct {
	CertFile string `json:"cert_file"`
	KeyFile  string `json:"key_file"`
	CAFile   string `json:"ca_file"`
}

// CORSConfig controls which browser origins may call the API.
type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowCredentials bool     `json:"allow_credentials"`
}

// CNPGDatabase describes how to reach the CloudNativePG cluster holding metadata and fleet tables.
type CNPGDatabase struct {
	Host               string            `json:"host"`
	Port               int               `json:"port"`
	Database           string            `json:"database"`
	Username           string            `json:"username"`
	Password           string            `json:"password"`
	SSLMode            string            `json:"ssl_mode"`
	ApplicationName    string            `json:"application_name"`
	CertDir            string            `json:"cert_dir"`
	TLS                *TLSConfig        `json:"tls,omitempty"`
	MaxConnections     int32             `json:"max_connections"`
	MinConnections     int32             `json:"min_connections"`
	MaxConnLifetime    Duration          `json:"max_conn_lifetime"`
	HealthCheckPeriod  Duration          `json:"health_check_period"`
	StatementTimeout   Duration          `json:"statement_timeout"`
	ExtraRuntimeParams map[string]string `json:"extra_runtime_params,omitempty"`
	RunMigrations      bool              `json:"run_migrations"`
}

// NATSConfig describes the NATS JetStream connection used for ingestion.
type NATSConfig struct {
	URL      string     `json:"url"`
	Domain   string     `json:"domain,omitempty"`
	CredFile string     `json:"creds_file,omitempty"`
	TLS      *TLSConfig `json:"tls,omitempty"`
}

// IngestConfig controls the metadata ingest consumer.
type IngestConfig struct {
	Enabled   bool     `json:"enabled"`
	Stream    string   `json:"stream"`
	Subject   string   `json:"subject"`
	Durable   string   `json:"durable"`
	BatchSize int      `json:"batch_size"`
	MaxWait   Duration `json:"max_wait"`
}

// MetadataConfig tunes the enrichment orchestrator.
type MetadataConfig struct {
	// EnrichConcurrency bounds the number of hosts enriched in parallel for one list request.
	EnrichConcurrency int `json:"enrich_concurrency"`
	// QueryStrategy pins the default query strategy ("v1" or "v2"); empty selects automatically.
	QueryStrategy QueryStrategyVersion `json:"query_strategy,omitempty"`
	// RequestTimeout bounds each API request.
	RequestTimeout Duration `json:"request_timeout"`
}

// HostMetaConfig is the top level service configuration.
type HostMetaConfig struct {
	ListenAddr string         `json:"listen_addr"`
	GrpcAddr   string         `json:"grpc_addr"`
	APIKey     string         `json:"api_key,omitempty"`
	CORS       CORSConfig     `json:"cors"`
	CNPG       *CNPGDatabase  `json:"cnpg"`
	NATS       *NATSConfig    `json:"nats,omitempty"`
	Ingest     IngestConfig   `json:"ingest"`
	Metadata   MetadataConfig `json:"metadata"`
	Logging    *logger.Config `json:"logging,omitempty"`
}

const (
	DefaultListenAddr        = ":8090"
	DefaultEnrichConcurrency = 10
	DefaultRequestTimeout    = 10 * time.Second
	DefaultIngestStream      = "ENDPOINT_METADATA"
	DefaultIngestSubject     = "endpoint.metadata.>"
	DefaultIngestDurable     = "hostmeta-ingest"
	DefaultIngestBatchSize   = 50
	DefaultIngestMaxWait     = 5 * time.Second
)

// ApplyDefaults fills unset fields with their defaults.
func (c *HostMetaConfig) ApplyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}

	if c.Metadata.EnrichConcurrency == 0 {
		c.Metadata.EnrichConcurrency = DefaultEnrichConcurrency
	}

	if c.Metadata.RequestTimeout == 0 {
		c.Metadata.RequestTimeout = Duration(DefaultRequestTimeout)
	}

	if c.Ingest.Stream == "" {
		c.Ingest.Stream = DefaultIngestStream
	}

	if c.Ingest.Subject == "" {
		c.Ingest.Subject = DefaultIngestSubject
	}

	if c.Ingest.Durable == "" {
		c.Ingest.Durable = DefaultIngestDurable
	}

	if c.Ingest.BatchSize <= 0 {
		c.Ingest.BatchSize = DefaultIngestBatchSize
	}

	if c.Ingest.MaxWait <= 0 {
		c.Ingest.MaxWait = Duration(DefaultIngestMaxWait)
	}
}

// Validate implements config.Validator.
func (c *HostMetaConfig) Validate() error {
	if c.ListenAddr == "" {
		return errListenAddrRequired
	}

	if c.CNPG == nil {
		return errCNPGRequired
	}

	if c.CNPG.Host == "" {
		return errCNPGHostRequired
	}

	if c.CNPG.Database == "" {
		return errCNPGDatabaseMissing
	}

	if c.Ingest.Enabled && (c.NATS == nil || c.NATS.URL == "") {
		return errNATSURLRequired
	}

	if c.Metadata.EnrichConcurrency <= 0 {
		return errConcurrencyInvalid
	}

	switch c.Metadata.QueryStrategy {
	case "", QueryStrategyV1, QueryStrategyV2:
	default:
		return fmt.Errorf("unsupported metadata query_strategy %q", c.Metadata.QueryStrategy)
	}

	return nil
}
