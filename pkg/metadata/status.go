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

package metadata

import "github.com/carverauto/hostmeta/pkg/models"

// IgnoredAgentIDs are placeholder agent ids reported by unconfigured endpoints. Hosts
// carrying them are never listed.
var IgnoredAgentIDs = []string{
	"00000000-0000-0000-0000-000000000000",
	"11111111-1111-1111-1111-111111111111",
}

var hostStatusByAgentStatus = map[models.AgentStatus]models.HostStatus{
	models.AgentStatusOnline:      models.HostStatusHealthy,
	models.AgentStatusOffline:     models.HostStatusOffline,
	models.AgentStatusInactive:    models.HostStatusInactive,
	models.AgentStatusUnenrolling: models.HostStatusUpdating,
	models.AgentStatusEnrolling:   models.HostStatusUpdating,
	models.AgentStatusUpdating:    models.HostStatusUpdating,
	models.AgentStatusWarning:     models.HostStatusUnhealthy,
	models.AgentStatusError:       models.HostStatusUnhealthy,
	models.AgentStatusDegraded:    models.HostStatusUnhealthy,
}

// MapAgentStatus translates a raw fleet status. Unknown statuses map to unhealthy
// and report false.
func MapAgentStatus(raw models.AgentStatus) (models.HostStatus, bool) {
	status, ok := hostStatusByAgentStatus[raw]
	if !ok {
		return models.HostStatusUnhealthy, false
	}

	return status, true
}
