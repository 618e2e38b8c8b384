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

// Package metadata assembles host views from endpoint metadata documents and the
// fleet agent and policy stores.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/carverauto/hostmeta/pkg/fleet"
	"github.com/carverauto/hostmeta/pkg/logger"
	"github.com/carverauto/hostmeta/pkg/models"
	"github.com/carverauto/hostmeta/pkg/search"
)

const (
	tracerName               = "github.com/carverauto/hostmeta/pkg/metadata"
	defaultEnrichConcurrency = 10
	endpointNotFoundMessage  = "Endpoint Not Found"
)

// Option customises a Service.
type Option func(*Service)

// Service enriches endpoint metadata with fleet agent status and policy revisions.
type Service struct {
	search      search.Client
	selector    search.StrategySelector
	agents      fleet.AgentService
	policies    fleet.PolicyService
	logger      logger.Logger
	tracer      trace.Tracer
	concurrency int
	now         func() time.Time
}

// NewService builds a Service. Missing collaborators are reported per request.
func NewService(log logger.Logger, opts ...Option) *Service {
	s := &Service{
		logger:      log,
		tracer:      otel.Tracer(tracerName),
		concurrency: defaultEnrichConcurrency,
		selector:    search.StaticSelector(models.QueryStrategyV2),
		now:         time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

func WithSearchClient(client search.Client) Option {
	return func(s *Service) {
		s.search = client
	}
}

func WithStrategySelector(selector search.StrategySelector) Option {
	return func(s *Service) {
		if selector != nil {
			s.selector = selector
		}
	}
}

// WithFleet sets the agent and policy stores.
func WithFleet(agents fleet.AgentService, policies fleet.PolicyService) Option {
	return func(s *Service) {
		s.agents = agents
		s.policies = policies
	}
}

// WithEnrichConcurrency bounds the number of hosts enriched at once.
func WithEnrichConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func (s *Service) requireCollaborators() error {
	if s.search == nil {
		return BadRequest(errSearchClientMissing.Error(), errSearchClientMissing)
	}

	if s.agents == nil || s.policies == nil {
		return BadRequest(errPolicyStoreMissing.Error(), errPolicyStoreMissing)
	}

	return nil
}

// EnrichHostMetadata decorates doc with the agent's host status and policy revisions.
// Only a failed status lookup other than "agent not found" is returned as an error.
func (s *Service) EnrichHostMetadata(
	ctx context.Context, doc *models.HostMetadata, version models.QueryStrategyVersion) (*models.HostInfo, error) {
	if err := s.requireCollaborators(); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "metadata.EnrichHostMetadata")
	defer span.End()

	agentID, fallback := doc.EffectiveAgentID()
	if fallback {
		s.logger.Warn().
			Str("host_id", doc.Host.ID).
			Str("agent_id", agentID).
			Msg("metadata document has no fleet agent id, using endpoint agent id")
	}

	span.SetAttributes(attribute.String("hostmeta.agent_id", agentID))

	status, err := s.hostStatus(ctx, agentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "status lookup failed")

		return nil, err
	}

	if status.IsDegraded() {
		recordDegraded(ctx, "status")
	}

	policy := s.policyInfo(ctx, agentID)
	if policy.IsDegraded() {
		recordDegraded(ctx, "policy")
	}

	recordHostEnriched(ctx, string(status.Value))

	return &models.HostInfo{
		Metadata:             *doc,
		HostStatus:           status.Value,
		PolicyInfo:           policy.Value,
		QueryStrategyVersion: version,
	}, nil
}

func (s *Service) hostStatus(ctx context.Context, agentID string) (Enrichment[models.HostStatus], error) {
	raw, err := s.agents.GetAgentStatusByID(ctx, agentID)
	if errors.Is(err, fleet.ErrAgentNotFound) {
		s.logger.Warn().Err(err).Str("agent_id", agentID).Msg("agent not found, reporting host as unhealthy")

		return Degraded(models.HostStatusUnhealthy, err), nil
	}

	if err != nil {
		return Enrichment[models.HostStatus]{}, fmt.Errorf("agent status %s: %w", agentID, err)
	}

	status, known := MapAgentStatus(raw)
	if !known {
		s.logger.Debug().Str("agent_id", agentID).Str("agent_status", string(raw)).Msg("unknown agent status")
	}

	return Ok(status), nil
}

func (s *Service) policyInfo(ctx context.Context, agentID string) Enrichment[*models.PolicyInfo] {
	agent, err := s.agents.GetAgent(ctx, agentID)
	if err != nil {
		s.logger.Warn().Err(err).Str("agent_id", agentID).Msg("unable to load agent for policy info")

		return Degraded[*models.PolicyInfo](nil, err)
	}

	policy, err := s.policies.Get(ctx, agent.PolicyID)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("agent_id", agentID).
			Str("policy_id", agent.PolicyID).
			Msg("unable to load agent policy for policy info")

		return Degraded[*models.PolicyInfo](nil, err)
	}

	info := &models.PolicyInfo{
		Agent: models.AgentPolicyInfo{
			Applied:    models.PolicyRevision{ID: agent.PolicyID, Revision: agent.PolicyRevision},
			Configured: models.PolicyRevision{ID: policy.ID, Revision: policy.Revision},
		},
	}

	if pp := policy.EndpointPackagePolicy(); pp != nil {
		info.Endpoint = models.PolicyRevision{ID: pp.ID, Revision: pp.Revision}
	}

	return Ok(info)
}

// PageParams echoes the paging of the originating request.
type PageParams struct {
	PageSize  int
	PageIndex int
}

// MapToHostResultList enriches every document of resp concurrently and keeps their order.
func (s *Service) MapToHostResultList(
	ctx context.Context, params PageParams, resp *search.Response, version models.QueryStrategyVersion) (*models.HostResultList, error) {
	result := &models.HostResultList{
		Hosts:                []models.HostInfo{},
		RequestPageSize:      params.PageSize,
		RequestPageIndex:     params.PageIndex,
		QueryStrategyVersion: version,
	}

	if resp == nil || len(resp.Documents) == 0 {
		if resp != nil {
			result.Total = resp.Total
		}

		return result, nil
	}

	result.Total = resp.Total
	hosts := make([]models.HostInfo, len(resp.Documents))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range resp.Documents {
		doc := &resp.Documents[i]

		g.Go(func() error {
			info, err := s.EnrichHostMetadata(gctx, doc, version)
			if err != nil {
				return err
			}

			hosts[i] = *info

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Hosts = hosts

	return result, nil
}

// HostMetadataResult is a metadata document with the strategy that found it.
type HostMetadataResult struct {
	Metadata             models.HostMetadata
	QueryStrategyVersion models.QueryStrategyVersion
}

// GetHostMetadata returns the newest document for a host or agent id, or nil when none exists.
func (s *Service) GetHostMetadata(
	ctx context.Context, id string, version models.QueryStrategyVersion) (*HostMetadataResult, error) {
	if err := s.requireCollaborators(); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "metadata.GetHostMetadata", trace.WithAttributes(
		attribute.String("hostmeta.id", id),
	))
	defer span.End()

	strategy, err := s.selector.Select(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("select query strategy: %w", err)
	}

	query, err := strategy.HostByID(id)
	if err != nil {
		return nil, err
	}

	resp, err := s.search.Search(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")

		return nil, err
	}

	if len(resp.Documents) == 0 {
		return nil, nil
	}

	return &HostMetadataResult{
		Metadata:             resp.Documents[0],
		QueryStrategyVersion: strategy.Version(),
	}, nil
}

// GetHostData returns the enriched host, or nil when the id matches no document.
// An unenrolled agent is rejected.
func (s *Service) GetHostData(
	ctx context.Context, id string, version models.QueryStrategyVersion) (*models.HostInfo, error) {
	found, err := s.GetHostMetadata(ctx, id, version)
	if err != nil || found == nil {
		return nil, err
	}

	agentID, _ := found.Metadata.EffectiveAgentID()

	agent, err := s.agents.GetAgent(ctx, agentID)

	switch {
	case errors.Is(err, fleet.ErrAgentNotFound):
		s.logger.Warn().Str("agent_id", agentID).Msg("agent referenced by metadata is not known to fleet")
	case err != nil:
		return nil, fmt.Errorf("lookup agent %s: %w", agentID, err)
	case !agent.Active:
		return nil, BadRequest(errEndpointUnenrolled.Error(), errEndpointUnenrolled)
	}

	return s.EnrichHostMetadata(ctx, &found.Metadata, found.QueryStrategyVersion)
}

// GetHost is GetHostData with a missing host reported as a not-found StatusError.
func (s *Service) GetHost(
	ctx context.Context, id string, version models.QueryStrategyVersion) (*models.HostInfo, error) {
	info, err := s.GetHostData(ctx, id, version)
	if err != nil {
		return nil, err
	}

	if info == nil {
		return nil, NotFound(endpointNotFoundMessage)
	}

	return info, nil
}

// ListRequest is a paged host list query.
type ListRequest struct {
	PageSize     int
	PageIndex    int
	KQL          string
	HostStatuses []models.HostStatus
}

// ListHosts returns one page of enrolled hosts matching req.
func (s *Service) ListHosts(
	ctx context.Context, req ListRequest, version models.QueryStrategyVersion) (*models.HostResultList, error) {
	if err := s.requireCollaborators(); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "metadata.ListHosts")
	defer span.End()

	filter, err := search.ParseKQL(req.KQL)
	if err != nil {
		return nil, BadRequest(err.Error(), err)
	}

	unenrolled, err := s.agents.ListUnenrolledAgentIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unenrolled agents: %w", err)
	}

	exclude := make([]string, 0, len(unenrolled)+len(IgnoredAgentIDs))
	exclude = append(exclude, unenrolled...)
	exclude = append(exclude, IgnoredAgentIDs...)

	opts := search.ListOptions{
		PageSize:        req.PageSize,
		PageIndex:       req.PageIndex,
		ExcludeAgentIDs: exclude,
		Filter:          filter,
	}

	if len(req.HostStatuses) > 0 {
		ids, err := s.agentIDsWithStatus(ctx, req.HostStatuses)
		if err != nil {
			return nil, err
		}

		opts.StatusAgentIDs = ids
		opts.StatusFiltered = true
	}

	strategy, err := s.selector.Select(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("select query strategy: %w", err)
	}

	query, err := strategy.List(opts)
	if err != nil {
		return nil, err
	}

	resp, err := s.search.Search(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")

		return nil, err
	}

	span.SetAttributes(
		attribute.Int("hostmeta.total", resp.Total),
		attribute.String("hostmeta.query_strategy", string(strategy.Version())),
	)

	return s.MapToHostResultList(ctx, PageParams{PageSize: query.PageSize, PageIndex: query.PageIndex}, resp, strategy.Version())
}

func (s *Service) agentIDsWithStatus(ctx context.Context, statuses []models.HostStatus) ([]string, error) {
	wanted := make(map[models.HostStatus]struct{}, len(statuses))

	for _, status := range statuses {
		if !status.Valid() {
			err := fmt.Errorf("%w: %q", errInvalidHostStatus, status)

			return nil, BadRequest(err.Error(), err)
		}

		wanted[status] = struct{}{}
	}

	agents, err := s.agents.ListAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}

	now := s.now()
	ids := make([]string, 0, len(agents))

	for i := range agents {
		status, _ := MapAgentStatus(fleet.StatusOf(&agents[i], now))
		if _, ok := wanted[status]; ok {
			ids = append(ids, agents[i].ID)
		}
	}

	return ids, nil
}
