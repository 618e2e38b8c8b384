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

// Package app wires the hostmeta service together.
package app

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"

	"github.com/carverauto/hostmeta/pkg/api"
	"github.com/carverauto/hostmeta/pkg/config"
	"github.com/carverauto/hostmeta/pkg/db"
	"github.com/carverauto/hostmeta/pkg/fleet"
	grpcserver "github.com/carverauto/hostmeta/pkg/grpc"
	"github.com/carverauto/hostmeta/pkg/ingest"
	"github.com/carverauto/hostmeta/pkg/lifecycle"
	"github.com/carverauto/hostmeta/pkg/logger"
	"github.com/carverauto/hostmeta/pkg/metadata"
	"github.com/carverauto/hostmeta/pkg/models"
	"github.com/carverauto/hostmeta/pkg/natsutil"
	"github.com/carverauto/hostmeta/pkg/search"
	"github.com/carverauto/hostmeta/pkg/version"
)

const (
	serviceName = "hostmeta"

	// The gRPC listener only carries health checks.
	healthMaxRecvMsgSize = 4 << 10
)

// Options contains runtime configuration derived from CLI flags.
type Options struct {
	ConfigPath string
}

// Run boots hostmeta and blocks until shutdown.
func Run(ctx context.Context, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	bootLogger, err := lifecycle.CreateComponentLogger(ctx, "hostmeta-config", logger.DefaultConfig())
	if err != nil {
		return err
	}

	cfg, err := config.LoadHostMetaConfig(ctx, opts.ConfigPath, bootLogger)
	if err != nil {
		return err
	}

	if cfg.Logging == nil {
		cfg.Logging = logger.DefaultConfig()
	}

	mainLogger, err := lifecycle.CreateComponentLogger(ctx, "hostmeta-main", cfg.Logging)
	if err != nil {
		return err
	}

	defer func() {
		if shutdownErr := lifecycle.ShutdownLogger(); shutdownErr != nil {
			mainLogger.Error().Err(shutdownErr).Msg("Error shutting down logger")
		}
	}()

	tp, err := logger.InitializeTracing(ctx, logger.TracingConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.GetVersion(),
		Logger:         mainLogger,
		OTel:           &cfg.Logging.OTel,
	})
	if err != nil {
		return err
	}

	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			mainLogger.Error().Err(err).Msg("Error shutting down tracer provider")
		}
	}()

	if _, metricsErr := logger.InitializeMetrics(ctx, logger.MetricsConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.GetVersion(),
		OTel:           &cfg.Logging.OTel,
	}); metricsErr != nil && !errors.Is(metricsErr, logger.ErrOTelMetricsDisabled) {
		return metricsErr
	}

	pool, err := db.NewCNPGPool(ctx, cfg.CNPG, mainLogger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.CNPG.RunMigrations {
		if err := db.RunCNPGMigrations(ctx, pool, mainLogger); err != nil {
			return err
		}
	}

	store := fleet.NewCNPGStore(pool)

	svc := metadata.NewService(mainLogger,
		metadata.WithSearchClient(search.NewCNPGClient(pool, mainLogger)),
		metadata.WithStrategySelector(search.NewSelector(pool, cfg.Metadata.QueryStrategy, mainLogger)),
		metadata.WithFleet(store, store),
		metadata.WithEnrichConcurrency(cfg.Metadata.EnrichConcurrency),
	)

	apiServer := api.NewAPIServer(cfg.CORS,
		api.WithLogger(mainLogger),
		api.WithMetadataService(svc),
		api.WithAPIKey(cfg.APIKey),
		api.WithRequestTimeout(time.Duration(cfg.Metadata.RequestTimeout)),
		api.WithAddress(cfg.ListenAddr),
	)

	var background []lifecycle.Service

	if cfg.Ingest.Enabled {
		consumer, closeNATS, err := newIngestConsumer(cfg, db.NewCNPGMetadataWriter(pool), mainLogger)
		if err != nil {
			return err
		}
		defer closeNATS()

		background = append(background, consumer)
	}

	mainLogger.Info().
		Str("listen_addr", cfg.ListenAddr).
		Str("grpc_addr", cfg.GrpcAddr).
		Bool("ingest", cfg.Ingest.Enabled).
		Str("version", version.GetFullVersion()).
		Msg("Starting hostmeta")

	return lifecycle.RunServer(ctx, &lifecycle.ServerOptions{
		GrpcAddr:    cfg.GrpcAddr,
		GrpcOptions: []grpcserver.ServerOption{
			grpcserver.WithServerOptions(grpc.MaxRecvMsgSize(healthMaxRecvMsgSize)),
		},
		ServiceName: serviceName,
		Service:     apiServer,
		Background:  background,
		Logger:      mainLogger,
	})
}

func newIngestConsumer(
	cfg *models.HostMetaConfig, writer db.MetadataWriter, log logger.Logger) (*ingest.Consumer, func(), error) {
	nc, err := natsutil.Connect(cfg.NATS, serviceName, log)
	if err != nil {
		return nil, nil, err
	}

	js, err := natsutil.JetStream(nc, cfg.NATS.Domain)
	if err != nil {
		nc.Close()
		return nil, nil, err
	}

	closeNATS := func() {
		if err := nc.Drain(); err != nil {
			log.Warn().Err(err).Msg("Error draining NATS connection")
		}
	}

	return ingest.NewConsumer(js, cfg.Ingest, writer, log), closeNATS, nil
}
