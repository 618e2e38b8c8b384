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

import "time"

// Agent is a fleet agent record.
// @Description Fleet-managed agent running on a monitored host.
type Agent struct {
	ID                    string            `json:"id"`
	Active                bool              `json:"active"`
	PolicyID              string            `json:"policy_id,omitempty"`
	PolicyRevision        int64             `json:"policy_revision,omitempty"`
	EnrolledAt            *time.Time        `json:"enrolled_at,omitempty"`
	LastCheckin           *time.Time        `json:"last_checkin,omitempty"`
	LastCheckinStatus     string            `json:"last_checkin_status,omitempty"`
	UnenrollmentStartedAt *time.Time        `json:"unenrollment_started_at,omitempty"`
	UnenrolledAt          *time.Time        `json:"unenrolled_at,omitempty"`
	UpgradeStartedAt      *time.Time        `json:"upgrade_started_at,omitempty"`
	UpgradedAt            *time.Time        `json:"upgraded_at,omitempty"`
	LocalMetadata         map[string]string `json:"local_metadata,omitempty"`
}

// AgentStatus is the raw status string reported by the fleet for an agent.
type AgentStatus string

const (
	AgentStatusOnline      AgentStatus = "online"
	AgentStatusOffline     AgentStatus = "offline"
	AgentStatusInactive    AgentStatus = "inactive"
	AgentStatusEnrolling   AgentStatus = "enrolling"
	AgentStatusUnenrolling AgentStatus = "unenrolling"
	AgentStatusUpdating    AgentStatus = "updating"
	AgentStatusWarning     AgentStatus = "warning"
	AgentStatusError       AgentStatus = "error"
	AgentStatusDegraded    AgentStatus = "degraded"
)

// AgentPolicy is the policy an agent is configured with.
type AgentPolicy struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Revision        int64           `json:"revision"`
	PackagePolicies []PackagePolicy `json:"package_policies"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// PackagePolicy is one integration package deployed through an agent policy.
type PackagePolicy struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Revision int64           `json:"revision"`
	Package  *PackageRelease `json:"package,omitempty"`
}

// PackageRelease names the package backing a package policy.
type PackageRelease struct {
	Name    string `json:"name"`
	Title   string `json:"title,omitempty"`
	Version string `json:"version,omitempty"`
}

// EndpointPackageName is the package name of the endpoint protection integration.
const EndpointPackageName = "endpoint"

// EndpointPackagePolicy returns the endpoint package policy of the agent policy, if any.
func (p *AgentPolicy) EndpointPackagePolicy() *PackagePolicy {
	if p == nil {
		return nil
	}

	for i := range p.PackagePolicies {
		pp := &p.PackagePolicies[i]
		if pp.Package != nil && pp.Package.Name == EndpointPackageName {
			return pp
		}
	}

	return nil
}
