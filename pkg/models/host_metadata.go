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

// HostMetadata is the endpoint metadata document stored for a host.
// @Description Raw endpoint metadata document as reported by the endpoint.
type HostMetadata struct {
	Timestamp int64           `json:"@timestamp"`
	Event     MetadataEvent   `json:"event"`
	Elastic   ElasticInfo     `json:"elastic"`
	Agent     EndpointAgent   `json:"agent"`
	Host      HostDetails     `json:"host"`
	Endpoint  EndpointDetails `json:"Endpoint"`
	// DataStream identifies the stream the document was written to.
	DataStream *DataStream `json:"data_stream,omitempty"`
}

// MetadataEvent holds the event envelope of a metadata document.
type MetadataEvent struct {
	ID       string    `json:"id,omitempty"`
	Kind     string    `json:"kind,omitempty"`
	Category []string  `json:"category,omitempty"`
	Type     []string  `json:"type,omitempty"`
	Module   string    `json:"module,omitempty"`
	Action   string    `json:"action,omitempty"`
	Dataset  string    `json:"dataset,omitempty"`
	Created  time.Time `json:"created"`
}

// ElasticInfo carries the fleet agent identity that shipped the document.
type ElasticInfo struct {
	Agent ElasticAgent `json:"agent"`
}

// ElasticAgent is the fleet-managed agent embedded in the document.
type ElasticAgent struct {
	ID string `json:"id"`
}

// EndpointAgent identifies the endpoint process itself.
type EndpointAgent struct {
	ID      string `json:"id"`
	Version string `json:"version,omitempty"`
	Type    string `json:"type,omitempty"`
}

// HostDetails describes the monitored machine.
type HostDetails struct {
	ID           string   `json:"id"`
	Hostname     string   `json:"hostname"`
	Name         string   `json:"name,omitempty"`
	IP           []string `json:"ip,omitempty"`
	MAC          []string `json:"mac,omitempty"`
	Architecture string   `json:"architecture,omitempty"`
	OS           HostOS   `json:"os"`
}

// HostOS describes the operating system of a host.
type HostOS struct {
	Name     string `json:"name,omitempty"`
	Full     string `json:"full,omitempty"`
	Version  string `json:"version,omitempty"`
	Platform string `json:"platform,omitempty"`
	Family   string `json:"family,omitempty"`
	Kernel   string `json:"kernel,omitempty"`
}

// EndpointDetails holds endpoint specific state.
type EndpointDetails struct {
	Status string         `json:"status,omitempty"`
	Policy EndpointPolicy `json:"policy"`
}

// EndpointPolicy wraps the policy the endpoint reports as applied.
type EndpointPolicy struct {
	Applied AppliedPolicy `json:"applied"`
}

// AppliedPolicy is the policy the endpoint last applied.
type AppliedPolicy struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Status string `json:"status,omitempty"`
}

// DataStream is the stream descriptor attached to a document.
type DataStream struct {
	Type      string `json:"type,omitempty"`
	Dataset   string `json:"dataset,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// EffectiveAgentID returns the fleet agent id of the document, falling back to the
// endpoint agent id. The boolean reports whether the fallback was used.
func (h *HostMetadata) EffectiveAgentID() (string, bool) {
	if h.Elastic.Agent.ID != "" {
		return h.Elastic.Agent.ID, false
	}

	return h.Agent.ID, true
}
