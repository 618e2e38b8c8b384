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

package lifecycle

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	grpcserver "github.com/carverauto/hostmeta/pkg/grpc"
	"github.com/carverauto/hostmeta/pkg/logger"
)

var errStartFailed = errors.New("start failed")

type fakeService struct {
	startErr error
	stopped  atomic.Bool
}

func (f *fakeService) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}

	<-ctx.Done()

	return nil
}

func (f *fakeService) Stop(context.Context) error {
	f.stopped.Store(true)
	return nil
}

func TestRunServer_StopsOnContextCancel(t *testing.T) {
	primary := &fakeService{}
	bg := &fakeService{}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	err := RunServer(ctx, &ServerOptions{
		Service:    primary,
		Background: []Service{bg},
		Logger:     logger.NewTestLogger(),
	})
	require.NoError(t, err)
	assert.True(t, primary.stopped.Load())
	assert.True(t, bg.stopped.Load())
}

func TestRunServer_WithHealthServer(t *testing.T) {
	primary := &fakeService{}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	err := RunServer(ctx, &ServerOptions{
		GrpcAddr:        "127.0.0.1:0",
		GrpcOptions:     []grpcserver.ServerOption{grpcserver.WithTelemetryDisabled()},
		ServiceName:     "hostmeta",
		Service:         primary,
		Logger:          logger.NewTestLogger(),
		ShutdownTimeout: time.Second,
	})
	require.NoError(t, err)
	assert.True(t, primary.stopped.Load())
}

func TestRunServer_PropagatesStartFailure(t *testing.T) {
	primary := &fakeService{}
	bg := &fakeService{startErr: errStartFailed}

	err := RunServer(context.Background(), &ServerOptions{
		Service:    primary,
		Background: []Service{bg},
		Logger:     logger.NewTestLogger(),
	})
	require.ErrorIs(t, err, errStartFailed)
	assert.True(t, primary.stopped.Load())
}

func TestRunServer_RequiresService(t *testing.T) {
	require.ErrorIs(t, RunServer(context.Background(), &ServerOptions{}), errServiceRequired)
}
