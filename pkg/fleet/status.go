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

package fleet

import (
	"time"

	"github.com/carverauto/hostmeta/pkg/models"
)

const (
	// AgentPollingInterval is how often an agent checks in.
	AgentPollingInterval = 30 * time.Second
	// MissedCheckinsBeforeOffline is how many intervals may pass before an agent is offline.
	MissedCheckinsBeforeOffline = 4
)

// StatusOf derives the raw fleet status of agent at now. Earlier checks win.
func StatusOf(agent *models.Agent, now time.Time) models.AgentStatus {
	switch {
	case !agent.Active:
		return models.AgentStatusInactive
	case agent.LastCheckin == nil:
		return models.AgentStatusEnrolling
	case agent.UnenrollmentStartedAt != nil && agent.UnenrolledAt == nil:
		return models.AgentStatusUnenrolling
	}

	switch models.AgentStatus(agent.LastCheckinStatus) {
	case models.AgentStatusError:
		return models.AgentStatusError
	case models.AgentStatusDegraded:
		return models.AgentStatusDegraded
	case models.AgentStatusWarning:
		return models.AgentStatusWarning
	}

	if agent.UpgradeStartedAt != nil && agent.UpgradedAt == nil {
		return models.AgentStatusUpdating
	}

	if now.Sub(*agent.LastCheckin) >= MissedCheckinsBeforeOffline*AgentPollingInterval {
		return models.AgentStatusOffline
	}

	return models.AgentStatusOnline
}
