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

// Package ingest writes endpoint metadata documents published on NATS JetStream into CNPG.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	retry "github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/hostmeta/pkg/db"
	"github.com/carverauto/hostmeta/pkg/logger"
	"github.com/carverauto/hostmeta/pkg/models"
	"github.com/carverauto/hostmeta/pkg/natsutil"
)

const (
	defaultWriteAttempts = 3
	defaultRetryDelay    = 200 * time.Millisecond
	defaultAckWait       = 30 * time.Second
	defaultMaxDeliver    = 5
	fetchErrorBackoff    = time.Second
)

var (
	errInvalidPayload = errors.New("invalid metadata payload")
	errMissingAgentID = errors.New("metadata document has no agent id")
)

type pullConsumer interface {
	Fetch(batch int, opts ...jetstream.FetchOpt) (jetstream.MessageBatch, error)
}

// Consumer is a durable JetStream pull consumer feeding a MetadataWriter.
type Consumer struct {
	js         jetstream.JetStream
	cfg        models.IngestConfig
	writer     db.MetadataWriter
	logger     logger.Logger
	consumer   pullConsumer
	now        func() time.Time
	retryDelay time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewConsumer(js jetstream.JetStream, cfg models.IngestConfig, writer db.MetadataWriter, log logger.Logger) *Consumer {
	return &Consumer{
		js:         js,
		cfg:        cfg,
		writer:     writer,
		logger:     log,
		now:        time.Now,
		retryDelay: defaultRetryDelay,
	}
}

// Start ensures the stream and durable consumer exist, then processes messages until
// ctx ends or Stop is called.
func (c *Consumer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	defer cancel()

	if err := c.setup(ctx); err != nil {
		return err
	}

	err := c.ProcessMessages(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

func (c *Consumer) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	return nil
}

func (c *Consumer) setup(ctx context.Context) error {
	if _, err := natsutil.EnsureStream(ctx, c.js, c.cfg.Stream, c.cfg.Subject); err != nil {
		return err
	}

	consumer, err := c.js.CreateOrUpdateConsumer(ctx, c.cfg.Stream, jetstream.ConsumerConfig{
		Durable:       c.cfg.Durable,
		FilterSubject: c.cfg.Subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       defaultAckWait,
		MaxDeliver:    defaultMaxDeliver,
		MaxAckPending: c.batchSize() * 4,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer %s on %s: %w", c.cfg.Durable, c.cfg.Stream, err)
	}

	c.consumer = consumer

	c.logger.Info().
		Str("stream", c.cfg.Stream).
		Str("consumer", c.cfg.Durable).
		Str("subject", c.cfg.Subject).
		Msg("Metadata ingest consumer ready")

	return nil
}

// ProcessMessages fetches batches until ctx ends. A closed connection is returned as fatal.
func (c *Consumer) ProcessMessages(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msgs, err := c.consumer.Fetch(c.batchSize(), jetstream.FetchMaxWait(c.maxWait()))
		if err != nil {
			if isFatalFetchErr(err) {
				return fmt.Errorf("fetch metadata messages: %w", err)
			}

			c.logger.Warn().Err(err).Msg("Failed to fetch metadata messages")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(fetchErrorBackoff):
			}

			continue
		}

		for msg := range msgs.Messages() {
			c.handleMessage(ctx, msg)
		}

		if fetchErr := msgs.Error(); fetchErr != nil && !errors.Is(fetchErr, nats.ErrTimeout) {
			if isFatalFetchErr(fetchErr) {
				return fmt.Errorf("fetch metadata messages: %w", fetchErr)
			}

			c.logger.Debug().Err(fetchErr).Msg("Fetch ended with error")
		}
	}
}

func (c *Consumer) batchSize() int {
	if c.cfg.BatchSize <= 0 {
		return models.DefaultIngestBatchSize
	}

	return c.cfg.BatchSize
}

func (c *Consumer) maxWait() time.Duration {
	if c.cfg.MaxWait <= 0 {
		return models.DefaultIngestMaxWait
	}

	return time.Duration(c.cfg.MaxWait)
}

func isFatalFetchErr(err error) bool {
	return errors.Is(err, nats.ErrConnectionClosed) ||
		errors.Is(err, jetstream.ErrConsumerDeleted) ||
		errors.Is(err, nats.ErrNoResponders)
}

func (c *Consumer) handleMessage(ctx context.Context, msg jetstream.Msg) {
	agentID, doc, err := c.decode(msg.Data())
	if err != nil {
		c.logger.Warn().Err(err).Str("subject", msg.Subject()).Msg("Dropping invalid metadata message")
		recordMessage(ctx, resultInvalid)

		if termErr := msg.Term(); termErr != nil {
			c.logger.Error().Err(termErr).Msg("Failed to terminate metadata message")
		}

		return
	}

	err = retry.Do(
		func() error {
			return c.writer.StoreHostMetadata(ctx, agentID, doc)
		},
		retry.Context(ctx),
		retry.Attempts(defaultWriteAttempts),
		retry.Delay(c.retryDelay),
		retry.RetryIf(db.IsRetryable),
		retry.LastErrorOnly(true),
	)

	switch {
	case err == nil:
		recordMessage(ctx, resultStored)

		if ackErr := msg.Ack(); ackErr != nil {
			c.logger.Error().Err(ackErr).Str("agent_id", agentID).Msg("Failed to ack metadata message")
		}
	case db.IsRetryable(err):
		c.logger.Warn().Err(err).Str("agent_id", agentID).Msg("Metadata write failed, redelivering")
		recordMessage(ctx, resultRetried)

		if nakErr := msg.Nak(); nakErr != nil {
			c.logger.Error().Err(nakErr).Msg("Failed to nak metadata message")
		}
	default:
		c.logger.Error().Err(err).Str("agent_id", agentID).Msg("Metadata write rejected")
		recordMessage(ctx, resultRejected)

		if termErr := msg.Term(); termErr != nil {
			c.logger.Error().Err(termErr).Msg("Failed to terminate metadata message")
		}
	}
}

func (c *Consumer) decode(data []byte) (string, *models.HostMetadata, error) {
	var doc models.HostMetadata
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", nil, fmt.Errorf("%w: %w", errInvalidPayload, err)
	}

	agentID, _ := doc.EffectiveAgentID()
	if agentID == "" {
		return "", nil, errMissingAgentID
	}

	if doc.Event.Created.IsZero() {
		doc.Event.Created = c.now().UTC()
	}

	return agentID, &doc, nil
}
