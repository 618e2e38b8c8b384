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

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/hostmeta/pkg/fleet"
	"github.com/carverauto/hostmeta/pkg/logger"
	"github.com/carverauto/hostmeta/pkg/models"
	"github.com/carverauto/hostmeta/pkg/search"
)

var errConnRefused = errors.New("connection refused")

type fixture struct {
	search   *search.MockClient
	agents   *fleet.MockAgentService
	policies *fleet.MockPolicyService
	svc      *Service
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &fixture{
		search:   search.NewMockClient(ctrl),
		agents:   fleet.NewMockAgentService(ctrl),
		policies: fleet.NewMockPolicyService(ctrl),
	}

	base := []Option{
		WithSearchClient(f.search),
		WithFleet(f.agents, f.policies),
	}

	f.svc = NewService(logger.NewTestLogger(), append(base, opts...)...)

	return f
}

func hostDoc(hostID, agentID string) models.HostMetadata {
	doc := models.HostMetadata{}
	doc.Host.ID = hostID
	doc.Host.Hostname = hostID + ".example.internal"
	doc.Elastic.Agent.ID = agentID
	doc.Agent.ID = "endpoint-" + agentID

	return doc
}

func endpointPolicy() *models.AgentPolicy {
	return &models.AgentPolicy{
		ID:       "policy-1",
		Revision: 5,
		PackagePolicies: []models.PackagePolicy{
			{ID: "pp-system", Revision: 2, Package: &models.PackageRelease{Name: "system"}},
			{ID: "pp-endpoint", Revision: 7, Package: &models.PackageRelease{Name: models.EndpointPackageName}},
		},
	}
}

func (f *fixture) expectHealthyAgent(agentID string) {
	f.agents.EXPECT().GetAgentStatusByID(gomock.Any(), agentID).Return(models.AgentStatusOnline, nil)
	f.agents.EXPECT().GetAgent(gomock.Any(), agentID).
		Return(&models.Agent{ID: agentID, Active: true, PolicyID: "policy-1", PolicyRevision: 4}, nil)
	f.policies.EXPECT().Get(gomock.Any(), "policy-1").Return(endpointPolicy(), nil)
}

func TestEnrichHostMetadata(t *testing.T) {
	f := newFixture(t)
	doc := hostDoc("host-1", "agent-1")
	f.expectHealthyAgent("agent-1")

	info, err := f.svc.EnrichHostMetadata(context.Background(), &doc, models.QueryStrategyV2)
	require.NoError(t, err)

	assert.Equal(t, doc, info.Metadata)
	assert.Equal(t, models.HostStatusHealthy, info.HostStatus)
	assert.Equal(t, models.QueryStrategyV2, info.QueryStrategyVersion)
	require.NotNil(t, info.PolicyInfo)
	assert.Equal(t, models.PolicyRevision{ID: "policy-1", Revision: 4}, info.PolicyInfo.Agent.Applied)
	assert.Equal(t, models.PolicyRevision{ID: "policy-1", Revision: 5}, info.PolicyInfo.Agent.Configured)
	assert.Equal(t, models.PolicyRevision{ID: "pp-endpoint", Revision: 7}, info.PolicyInfo.Endpoint)
}

func TestEnrichHostMetadata_FallsBackToEndpointAgentID(t *testing.T) {
	f := newFixture(t)
	doc := hostDoc("host-1", "")
	doc.Agent.ID = "endpoint-7"
	f.expectHealthyAgent("endpoint-7")

	info, err := f.svc.EnrichHostMetadata(context.Background(), &doc, models.QueryStrategyV1)
	require.NoError(t, err)
	assert.Equal(t, models.HostStatusHealthy, info.HostStatus)
}

func TestEnrichHostMetadata_AgentNotFoundIsUnhealthy(t *testing.T) {
	f := newFixture(t)
	doc := hostDoc("host-1", "agent-1")
	notFound := fmt.Errorf("%w: agent-1", fleet.ErrAgentNotFound)

	f.agents.EXPECT().GetAgentStatusByID(gomock.Any(), "agent-1").Return(models.AgentStatus(""), notFound)
	f.agents.EXPECT().GetAgent(gomock.Any(), "agent-1").Return(nil, notFound)

	info, err := f.svc.EnrichHostMetadata(context.Background(), &doc, models.QueryStrategyV2)
	require.NoError(t, err)
	assert.Equal(t, models.HostStatusUnhealthy, info.HostStatus)
	assert.Nil(t, info.PolicyInfo)
}

func TestEnrichHostMetadata_StatusFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	doc := hostDoc("host-1", "agent-1")

	f.agents.EXPECT().GetAgentStatusByID(gomock.Any(), "agent-1").Return(models.AgentStatus(""), errConnRefused)

	_, err := f.svc.EnrichHostMetadata(context.Background(), &doc, models.QueryStrategyV2)
	require.ErrorIs(t, err, errConnRefused)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
}

func TestEnrichHostMetadata_PolicyFailureOmitsPolicyInfo(t *testing.T) {
	f := newFixture(t)
	doc := hostDoc("host-1", "agent-1")

	f.agents.EXPECT().GetAgentStatusByID(gomock.Any(), "agent-1").Return(models.AgentStatusDegraded, nil)
	f.agents.EXPECT().GetAgent(gomock.Any(), "agent-1").
		Return(&models.Agent{ID: "agent-1", Active: true, PolicyID: "policy-9"}, nil)
	f.policies.EXPECT().Get(gomock.Any(), "policy-9").Return(nil, fleet.ErrPolicyNotFound)

	info, err := f.svc.EnrichHostMetadata(context.Background(), &doc, models.QueryStrategyV2)
	require.NoError(t, err)
	assert.Equal(t, models.HostStatusUnhealthy, info.HostStatus)
	assert.Nil(t, info.PolicyInfo)
	assert.Equal(t, "host-1", info.Metadata.Host.ID)
}

func TestEnrichHostMetadata_PolicyWithoutEndpointPackage(t *testing.T) {
	f := newFixture(t)
	doc := hostDoc("host-1", "agent-1")

	f.agents.EXPECT().GetAgentStatusByID(gomock.Any(), "agent-1").Return(models.AgentStatusOffline, nil)
	f.agents.EXPECT().GetAgent(gomock.Any(), "agent-1").
		Return(&models.Agent{ID: "agent-1", Active: true, PolicyID: "policy-2", PolicyRevision: 1}, nil)
	f.policies.EXPECT().Get(gomock.Any(), "policy-2").Return(&models.AgentPolicy{ID: "policy-2", Revision: 3}, nil)

	info, err := f.svc.EnrichHostMetadata(context.Background(), &doc, models.QueryStrategyV2)
	require.NoError(t, err)
	assert.Equal(t, models.HostStatusOffline, info.HostStatus)
	require.NotNil(t, info.PolicyInfo)
	assert.Equal(t, models.PolicyRevision{}, info.PolicyInfo.Endpoint)
	assert.Equal(t, int64(3), info.PolicyInfo.Agent.Configured.Revision)
}

func TestEnrichHostMetadata_MissingCollaborators(t *testing.T) {
	doc := hostDoc("host-1", "agent-1")

	svc := NewService(logger.NewTestLogger())
	_, err := svc.EnrichHostMetadata(context.Background(), &doc, models.QueryStrategyV2)
	require.ErrorIs(t, err, errSearchClientMissing)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))

	ctrl := gomock.NewController(t)
	svc = NewService(logger.NewTestLogger(), WithSearchClient(search.NewMockClient(ctrl)))
	_, err = svc.EnrichHostMetadata(context.Background(), &doc, models.QueryStrategyV2)
	require.ErrorIs(t, err, errPolicyStoreMissing)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
}

func TestMapAgentStatus(t *testing.T) {
	tests := []struct {
		raw   models.AgentStatus
		want  models.HostStatus
		known bool
	}{
		{models.AgentStatusOnline, models.HostStatusHealthy, true},
		{models.AgentStatusOffline, models.HostStatusOffline, true},
		{models.AgentStatusInactive, models.HostStatusInactive, true},
		{models.AgentStatusEnrolling, models.HostStatusUpdating, true},
		{models.AgentStatusUnenrolling, models.HostStatusUpdating, true},
		{models.AgentStatusUpdating, models.HostStatusUpdating, true},
		{models.AgentStatusWarning, models.HostStatusUnhealthy, true},
		{models.AgentStatusError, models.HostStatusUnhealthy, true},
		{models.AgentStatusDegraded, models.HostStatusUnhealthy, true},
		{"rebooting", models.HostStatusUnhealthy, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.raw), func(t *testing.T) {
			got, known := MapAgentStatus(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestMapToHostResultList_Empty(t *testing.T) {
	f := newFixture(t)

	list, err := f.svc.MapToHostResultList(context.Background(),
		PageParams{PageSize: 25, PageIndex: 3}, &search.Response{Total: 0}, models.QueryStrategyV1)
	require.NoError(t, err)

	assert.NotNil(t, list.Hosts)
	assert.Empty(t, list.Hosts)
	assert.Equal(t, 0, list.Total)
	assert.Equal(t, 25, list.RequestPageSize)
	assert.Equal(t, 3, list.RequestPageIndex)
	assert.Equal(t, models.QueryStrategyV1, list.QueryStrategyVersion)
}

func TestMapToHostResultList_PreservesOrder(t *testing.T) {
	f := newFixture(t, WithEnrichConcurrency(4))

	const hosts = 4

	resp := &search.Response{Total: 40}

	for i := range hosts {
		agentID := fmt.Sprintf("agent-%d", i)
		resp.Documents = append(resp.Documents, hostDoc(fmt.Sprintf("host-%d", i), agentID))

		// earlier entries finish last
		delay := time.Duration(hosts-i) * 10 * time.Millisecond

		f.agents.EXPECT().GetAgentStatusByID(gomock.Any(), agentID).
			DoAndReturn(func(context.Context, string) (models.AgentStatus, error) {
				time.Sleep(delay)

				return models.AgentStatusOnline, nil
			})
		f.agents.EXPECT().GetAgent(gomock.Any(), agentID).Return(nil, fleet.ErrAgentNotFound)
	}

	list, err := f.svc.MapToHostResultList(context.Background(),
		PageParams{PageSize: 4, PageIndex: 0}, resp, models.QueryStrategyV2)
	require.NoError(t, err)

	require.Len(t, list.Hosts, hosts)

	for i, host := range list.Hosts {
		assert.Equal(t, fmt.Sprintf("host-%d", i), host.Metadata.Host.ID)
		assert.Equal(t, models.HostStatusHealthy, host.HostStatus)
	}

	assert.Equal(t, 40, list.Total)
}

func TestMapToHostResultList_DegradedEntryDoesNotAffectSiblings(t *testing.T) {
	f := newFixture(t)
	resp := &search.Response{
		Total:     2,
		Documents: []models.HostMetadata{hostDoc("host-a", "agent-a"), hostDoc("host-b", "agent-b")},
	}

	f.agents.EXPECT().GetAgentStatusByID(gomock.Any(), "agent-a").Return(models.AgentStatus(""), fleet.ErrAgentNotFound)
	f.agents.EXPECT().GetAgent(gomock.Any(), "agent-a").Return(nil, fleet.ErrAgentNotFound)
	f.expectHealthyAgent("agent-b")

	list, err := f.svc.MapToHostResultList(context.Background(), PageParams{PageSize: 10}, resp, models.QueryStrategyV2)
	require.NoError(t, err)

	require.Len(t, list.Hosts, 2)
	assert.Equal(t, models.HostStatusUnhealthy, list.Hosts[0].HostStatus)
	assert.Nil(t, list.Hosts[0].PolicyInfo)
	assert.Equal(t, models.HostStatusHealthy, list.Hosts[1].HostStatus)
	assert.NotNil(t, list.Hosts[1].PolicyInfo)
}

func TestMapToHostResultList_FatalEntryFailsList(t *testing.T) {
	f := newFixture(t, WithEnrichConcurrency(1))
	resp := &search.Response{
		Total:     1,
		Documents: []models.HostMetadata{hostDoc("host-a", "agent-a")},
	}

	f.agents.EXPECT().GetAgentStatusByID(gomock.Any(), "agent-a").Return(models.AgentStatus(""), errConnRefused)

	_, err := f.svc.MapToHostResultList(context.Background(), PageParams{PageSize: 10}, resp, models.QueryStrategyV2)
	require.ErrorIs(t, err, errConnRefused)
}

func TestGetHostData_NotFound(t *testing.T) {
	f := newFixture(t)

	f.search.EXPECT().Search(gomock.Any(), gomock.Any()).Return(&search.Response{}, nil).Times(2)

	info, err := f.svc.GetHostData(context.Background(), "missing", "")
	require.NoError(t, err)
	assert.Nil(t, info)

	_, err = f.svc.GetHost(context.Background(), "missing", "")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Status)
	assert.Equal(t, "Endpoint Not Found", statusErr.Message)
}

func TestGetHostData_Unenrolled(t *testing.T) {
	f := newFixture(t)
	doc := hostDoc("host-1", "agent-1")

	f.search.EXPECT().Search(gomock.Any(), gomock.Any()).
		Return(&search.Response{Documents: []models.HostMetadata{doc}, Total: 1}, nil)
	f.agents.EXPECT().GetAgent(gomock.Any(), "agent-1").Return(&models.Agent{ID: "agent-1", Active: false}, nil)

	_, err := f.svc.GetHostData(context.Background(), "host-1", "")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.Status)
	assert.Equal(t, "the requested endpoint is unenrolled", statusErr.Message)
}

func TestGetHostData_UsesStrategyOfFetchedDocument(t *testing.T) {
	f := newFixture(t)
	doc := hostDoc("host-1", "agent-1")

	f.search.EXPECT().Search(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q *search.Query) (*search.Response, error) {
			assert.Equal(t, models.QueryStrategyV1, q.Version)
			assert.Equal(t, []any{"host-1", "host-1", "host-1"}, q.Args)

			return &search.Response{Documents: []models.HostMetadata{doc}, Total: 1}, nil
		})
	f.agents.EXPECT().GetAgent(gomock.Any(), "agent-1").Return(nil, fleet.ErrAgentNotFound)
	f.expectHealthyAgent("agent-1")

	info, err := f.svc.GetHostData(context.Background(), "host-1", models.QueryStrategyV1)
	require.NoError(t, err)
	assert.Equal(t, models.QueryStrategyV1, info.QueryStrategyVersion)
	assert.Equal(t, models.HostStatusHealthy, info.HostStatus)
}

func TestGetHostData_SearchFailure(t *testing.T) {
	f := newFixture(t)

	f.search.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, search.ErrSearchFailed)

	_, err := f.svc.GetHostData(context.Background(), "host-1", "")
	require.ErrorIs(t, err, search.ErrSearchFailed)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
}

func TestListHosts_ExcludesUnenrolledAndFiltersByStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-10 * time.Second)
	stale := now.Add(-10 * time.Minute)

	f := newFixture(t, WithClock(func() time.Time { return now }))

	f.agents.EXPECT().ListUnenrolledAgentIDs(gomock.Any()).Return([]string{"gone-1"}, nil)
	f.agents.EXPECT().ListAgents(gomock.Any()).Return([]models.Agent{
		{ID: "agent-online", Active: true, LastCheckin: &recent},
		{ID: "agent-offline", Active: true, LastCheckin: &stale},
		{ID: "agent-broken", Active: true, LastCheckin: &recent, LastCheckinStatus: "error"},
	}, nil)

	f.search.EXPECT().Search(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q *search.Query) (*search.Response, error) {
			assert.Contains(t, q.SQL, "agent_id NOT IN ($1,$2,$3)")
			assert.Contains(t, q.SQL, "agent_id IN ($4,$5)")
			assert.Contains(t, q.SQL, "document #>> '{host,os,platform}' = $6")
			assert.Equal(t, []any{
				"gone-1", IgnoredAgentIDs[0], IgnoredAgentIDs[1],
				"agent-online", "agent-broken",
				"windows",
			}, q.Args)
			assert.Equal(t, 5, q.PageSize)
			assert.Equal(t, 1, q.PageIndex)

			return &search.Response{Total: 0}, nil
		})

	list, err := f.svc.ListHosts(context.Background(), ListRequest{
		PageSize:     5,
		PageIndex:    1,
		KQL:          "host.os.platform:windows",
		HostStatuses: []models.HostStatus{models.HostStatusHealthy, models.HostStatusUnhealthy},
	}, models.QueryStrategyV2)
	require.NoError(t, err)

	assert.Empty(t, list.Hosts)
	assert.Equal(t, 5, list.RequestPageSize)
	assert.Equal(t, 1, list.RequestPageIndex)
	assert.Equal(t, models.QueryStrategyV2, list.QueryStrategyVersion)
}

func TestListHosts_NoAgentsMatchStatus(t *testing.T) {
	f := newFixture(t)

	f.agents.EXPECT().ListUnenrolledAgentIDs(gomock.Any()).Return(nil, nil)
	f.agents.EXPECT().ListAgents(gomock.Any()).Return([]models.Agent{{ID: "agent-1", Active: false}}, nil)
	f.search.EXPECT().Search(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q *search.Query) (*search.Response, error) {
			assert.Contains(t, q.SQL, "(1=0)")

			return &search.Response{}, nil
		})

	list, err := f.svc.ListHosts(context.Background(), ListRequest{
		HostStatuses: []models.HostStatus{models.HostStatusUpdating},
	}, "")
	require.NoError(t, err)
	assert.Empty(t, list.Hosts)
	assert.Equal(t, search.DefaultPageSize, list.RequestPageSize)
}

func TestListHosts_BadRequests(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListHosts(context.Background(), ListRequest{KQL: "secret.field:x"}, "")
	require.ErrorIs(t, err, search.ErrUnknownField)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))

	f.agents.EXPECT().ListUnenrolledAgentIDs(gomock.Any()).Return(nil, nil)

	_, err = f.svc.ListHosts(context.Background(), ListRequest{
		HostStatuses: []models.HostStatus{"sleepy"},
	}, "")
	require.ErrorIs(t, err, errInvalidHostStatus)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
}

func TestListHosts_UnenrolledLookupFailure(t *testing.T) {
	f := newFixture(t)

	f.agents.EXPECT().ListUnenrolledAgentIDs(gomock.Any()).Return(nil, errConnRefused)

	_, err := f.svc.ListHosts(context.Background(), ListRequest{}, "")
	require.ErrorIs(t, err, errConnRefused)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
}
