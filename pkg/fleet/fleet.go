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

// Package fleet answers agent and agent policy lookups for enrolled endpoints.
package fleet

import (
	"context"
	"errors"

	"github.com/carverauto/hostmeta/pkg/models"
)

//go:generate mockgen -destination=mock_fleet.go -package=fleet github.com/carverauto/hostmeta/pkg/fleet AgentService,PolicyService

var (
	ErrAgentNotFound  = errors.New("agent not found")
	ErrPolicyNotFound = errors.New("agent policy not found")
	ErrFleetQuery     = errors.New("fleet query failed")
)

// AgentService looks up fleet agents.
type AgentService interface {
	GetAgent(ctx context.Context, agentID string) (*models.Agent, error)
	// GetAgentStatusByID returns the derived raw fleet status; ErrAgentNotFound when unknown.
	GetAgentStatusByID(ctx context.Context, agentID string) (models.AgentStatus, error)
	ListAgents(ctx context.Context) ([]models.Agent, error)
	// ListUnenrolledAgentIDs returns every agent that is no longer active.
	ListUnenrolledAgentIDs(ctx context.Context) ([]string, error)
}

// PolicyService looks up agent policies.
type PolicyService interface {
	Get(ctx context.Context, policyID string) (*models.AgentPolicy, error)
}
