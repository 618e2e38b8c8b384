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

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vrischmann/envconfig"

	"github.com/carverauto/hostmeta/pkg/logger"
	"github.com/carverauto/hostmeta/pkg/models"
)

var errConfigJSONMissing = errors.New("CONFIG_SOURCE=env requires HOSTMETA_CONFIG_JSON")

// EnvConfigLoader reads a whole JSON document from <prefix>CONFIG_JSON.
type EnvConfigLoader struct {
	logger logger.Logger
	prefix string
}

func NewEnvConfigLoader(log logger.Logger, prefix string) *EnvConfigLoader {
	return &EnvConfigLoader{
		logger: log,
		prefix: prefix,
	}
}

func (e *EnvConfigLoader) Load(_ context.Context, _ string, dst interface{}) error {
	raw := os.Getenv(e.prefix + "CONFIG_JSON")
	if raw == "" {
		return errConfigJSONMissing
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("failed to unmarshal %sCONFIG_JSON: %w", e.prefix, err)
	}

	e.logger.Info().Msg("Loaded configuration from environment")

	return nil
}

// envOverrides lists the scalar settings operators commonly change per deployment.
type envOverrides struct {
	ListenAddr        string        `envconfig:"HOSTMETA_LISTEN_ADDR"`
	GrpcAddr          string        `envconfig:"HOSTMETA_GRPC_ADDR"`
	APIKey            string        `envconfig:"HOSTMETA_API_KEY"`
	DatabaseHost      string        `envconfig:"HOSTMETA_CNPG_HOST"`
	DatabasePort      int           `envconfig:"HOSTMETA_CNPG_PORT"`
	DatabaseName      string        `envconfig:"HOSTMETA_CNPG_DATABASE"`
	DatabaseUser      string        `envconfig:"HOSTMETA_CNPG_USERNAME"`
	DatabasePassword  string        `envconfig:"HOSTMETA_CNPG_PASSWORD"`
	DatabaseSSLMode   string        `envconfig:"HOSTMETA_CNPG_SSL_MODE"`
	NATSURL           string        `envconfig:"HOSTMETA_NATS_URL"`
	IngestEnabled     string        `envconfig:"HOSTMETA_INGEST_ENABLED"`
	EnrichConcurrency int           `envconfig:"HOSTMETA_ENRICH_CONCURRENCY"`
	QueryStrategy     string        `envconfig:"HOSTMETA_QUERY_STRATEGY"`
	RequestTimeout    time.Duration `envconfig:"HOSTMETA_REQUEST_TIMEOUT"`
}

// ApplyEnvOverrides copies every set HOSTMETA_* override onto cfg.
func ApplyEnvOverrides(cfg *models.HostMetaConfig) error {
	var o envOverrides

	if err := envconfig.InitWithOptions(&o, envconfig.Options{AllOptional: true}); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}

	setString(&cfg.ListenAddr, o.ListenAddr)
	setString(&cfg.GrpcAddr, o.GrpcAddr)
	setString(&cfg.APIKey, o.APIKey)

	if o.DatabaseHost != "" || o.DatabaseName != "" || o.DatabaseUser != "" || o.DatabasePassword != "" {
		if cfg.CNPG == nil {
			cfg.CNPG = &models.CNPGDatabase{}
		}
	}

	if cfg.CNPG != nil {
		setString(&cfg.CNPG.Host, o.DatabaseHost)
		setString(&cfg.CNPG.Database, o.DatabaseName)
		setString(&cfg.CNPG.Username, o.DatabaseUser)
		setString(&cfg.CNPG.Password, o.DatabasePassword)
		setString(&cfg.CNPG.SSLMode, o.DatabaseSSLMode)

		if o.DatabasePort != 0 {
			cfg.CNPG.Port = o.DatabasePort
		}
	}

	if o.NATSURL != "" {
		if cfg.NATS == nil {
			cfg.NATS = &models.NATSConfig{}
		}

		cfg.NATS.URL = o.NATSURL
	}

	if o.IngestEnabled != "" {
		enabled, err := strconv.ParseBool(o.IngestEnabled)
		if err != nil {
			return fmt.Errorf("HOSTMETA_INGEST_ENABLED: %w", err)
		}

		cfg.Ingest.Enabled = enabled
	}

	if o.EnrichConcurrency != 0 {
		cfg.Metadata.EnrichConcurrency = o.EnrichConcurrency
	}

	if o.QueryStrategy != "" {
		cfg.Metadata.QueryStrategy = models.QueryStrategyVersion(o.QueryStrategy)
	}

	if o.RequestTimeout != 0 {
		cfg.Metadata.RequestTimeout = models.Duration(o.RequestTimeout)
	}

	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
