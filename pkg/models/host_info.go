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

// HostStatus is the health of an endpoint host as presented to API consumers.
type HostStatus string

const (
	HostStatusHealthy   HostStatus = "healthy"
	HostStatusOffline   HostStatus = "offline"
	HostStatusInactive  HostStatus = "inactive"
	HostStatusUpdating  HostStatus = "updating"
	HostStatusUnhealthy HostStatus = "unhealthy"
)

// Valid reports whether s is one of the known host statuses.
func (s HostStatus) Valid() bool {
	switch s {
	case HostStatusHealthy, HostStatusOffline, HostStatusInactive, HostStatusUpdating, HostStatusUnhealthy:
		return true
	default:
		return false
	}
}

// QueryStrategyVersion tags which query shape produced a result.
type QueryStrategyVersion string

const (
	// QueryStrategyV1 reads the raw metadata stream and collapses to the newest document per agent.
	QueryStrategyV1 QueryStrategyVersion = "v1"
	// QueryStrategyV2 reads the current table holding one document per agent.
	QueryStrategyV2 QueryStrategyVersion = "v2"
)

// PolicyRevision identifies one revision of a policy.
type PolicyRevision struct {
	ID       string `json:"id"`
	Revision int64  `json:"revision"`
}

// AgentPolicyInfo pairs the policy revision an agent applied with the one configured for it.
type AgentPolicyInfo struct {
	Applied    PolicyRevision `json:"applied"`
	Configured PolicyRevision `json:"configured"`
}

// PolicyInfo describes the policy revisions in effect for a host.
// @Description Applied and configured policy revisions for the host's agent and endpoint package.
type PolicyInfo struct {
	Agent    AgentPolicyInfo `json:"agent"`
	Endpoint PolicyRevision  `json:"endpoint"`
}

// HostInfo is the enriched view of a single host.
// @Description Endpoint metadata decorated with agent status and policy revisions.
type HostInfo struct {
	Metadata             HostMetadata         `json:"metadata"`
	HostStatus           HostStatus           `json:"host_status" example:"healthy"`
	PolicyInfo           *PolicyInfo          `json:"policy_info,omitempty"`
	QueryStrategyVersion QueryStrategyVersion `json:"query_strategy_version" example:"v2"`
}

// HostResultList is one page of enriched hosts.
// @Description Paged list of enriched endpoint hosts.
type HostResultList struct {
	Hosts                []HostInfo           `json:"hosts"`
	Total                int                  `json:"total" example:"42"`
	RequestPageSize      int                  `json:"request_page_size" example:"10"`
	RequestPageIndex     int                  `json:"request_page_index" example:"0"`
	QueryStrategyVersion QueryStrategyVersion `json:"query_strategy_version" example:"v2"`
}
