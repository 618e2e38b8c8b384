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

// Package lifecycle runs long-lived hostmeta services until a shutdown signal arrives.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	grpcserver "github.com/carverauto/hostmeta/pkg/grpc"
	"github.com/carverauto/hostmeta/pkg/logger"
)

const defaultShutdownTimeout = 10 * time.Second

var errServiceRequired = errors.New("lifecycle: service is required")

// Service is a component with a blocking Start and a bounded Stop.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type ServerOptions struct {
	// GrpcAddr enables the gRPC health server when set.
	GrpcAddr        string
	GrpcOptions     []grpcserver.ServerOption
	ServiceName     string
	Service         Service
	Background      []Service
	Logger          logger.Logger
	ShutdownTimeout time.Duration
}

// RunServer starts the main service, background services and the health server,
// then blocks until ctx ends, SIGINT/SIGTERM arrives, or any of them fails.
func RunServer(ctx context.Context, opts *ServerOptions) error {
	if opts == nil || opts.Service == nil {
		return errServiceRequired
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	services := append([]Service{opts.Service}, opts.Background...)
	for _, svc := range services {
		g.Go(func() error {
			return svc.Start(gctx)
		})
	}

	var health *grpcserver.Server

	if opts.GrpcAddr != "" {
		health = grpcserver.NewServer(opts.GrpcAddr, log, opts.GrpcOptions...)
		health.SetServing(opts.ServiceName)

		g.Go(health.Start)
	}

	g.Go(func() error {
		<-gctx.Done()

		log.Info().Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if health != nil {
			health.Stop(shutdownCtx)
		}

		var errs []error

		for i := len(services) - 1; i >= 0; i-- {
			if err := services[i].Stop(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}

		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server exited: %w", err)
	}

	return nil
}
