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

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/hostmeta/pkg/logger"
	"github.com/carverauto/hostmeta/pkg/metadata"
	"github.com/carverauto/hostmeta/pkg/models"
)

func newTestServer(t *testing.T, opts ...func(*APIServer)) (*APIServer, *MockMetadataService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := NewMockMetadataService(ctrl)

	base := []func(*APIServer){
		WithLogger(logger.NewTestLogger()),
		WithMetadataService(svc),
	}

	return NewAPIServer(models.CORSConfig{AllowedOrigins: []string{"*"}}, append(base, opts...)...), svc
}

func serve(s *APIServer, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()

	var resp models.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))

	return resp
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, WithAPIKey("secret"))

	rr := serve(s, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.HealthResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestSwaggerDocIsPublic(t *testing.T) {
	s, _ := newTestServer(t, WithAPIKey("secret"))

	rr := serve(s, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", http.NoBody))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/api/endpoint/metadata/{id}")
}

func TestGetHost(t *testing.T) {
	s, svc := newTestServer(t)

	info := &models.HostInfo{HostStatus: models.HostStatusHealthy, QueryStrategyVersion: models.QueryStrategyV2}
	info.Metadata.Host.ID = "host-1"

	svc.EXPECT().GetHost(gomock.Any(), "host-1", models.QueryStrategyVersion("")).Return(info, nil)

	rr := serve(s, httptest.NewRequest(http.MethodGet, "/api/endpoint/metadata/host-1", http.NoBody))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var got models.HostInfo
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, "host-1", got.Metadata.Host.ID)
	assert.Equal(t, models.HostStatusHealthy, got.HostStatus)
	assert.Nil(t, got.PolicyInfo)
}

func TestGetHost_V1RoutePinsStrategy(t *testing.T) {
	s, svc := newTestServer(t)

	svc.EXPECT().GetHost(gomock.Any(), "host-1", models.QueryStrategyV1).
		Return(&models.HostInfo{QueryStrategyVersion: models.QueryStrategyV1}, nil)

	rr := serve(s, httptest.NewRequest(http.MethodGet, "/api/endpoint/v1/metadata/host-1", http.NoBody))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGetHost_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", metadata.NotFound("Endpoint Not Found"), http.StatusNotFound, "Endpoint Not Found"},
		{
			"unenrolled",
			metadata.BadRequest("the requested endpoint is unenrolled", nil),
			http.StatusBadRequest,
			"the requested endpoint is unenrolled",
		},
		{"downstream", errors.New("fleet unavailable"), http.StatusInternalServerError, "fleet unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, svc := newTestServer(t)
			svc.EXPECT().GetHost(gomock.Any(), "host-1", gomock.Any()).Return(nil, tt.err)

			rr := serve(s, httptest.NewRequest(http.MethodGet, "/api/endpoint/metadata/host-1", http.NoBody))

			assert.Equal(t, tt.status, rr.Code)

			resp := decodeError(t, rr)
			assert.Equal(t, tt.message, resp.Message)
			assert.Equal(t, tt.status, resp.Status)
		})
	}
}

func TestListHosts_PostBody(t *testing.T) {
	s, svc := newTestServer(t)

	want := metadata.ListRequest{
		PageSize:     50,
		PageIndex:    2,
		KQL:          "host.os.platform:linux",
		HostStatuses: []models.HostStatus{models.HostStatusHealthy, models.HostStatusOffline},
	}

	svc.EXPECT().ListHosts(gomock.Any(), want, models.QueryStrategyVersion("")).
		Return(&models.HostResultList{
			Hosts:            []models.HostInfo{},
			Total:            0,
			RequestPageSize:  50,
			RequestPageIndex: 2,
		}, nil)

	body := `{
		"paging_properties": [{"page_size": 50}, {"page_index": 2}],
		"filters": {"kql": "host.os.platform:linux", "host_status": ["healthy", "offline"]}
	}`

	rr := serve(s, httptest.NewRequest(http.MethodPost, "/api/endpoint/metadata", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t,
		`{"hosts":[],"total":0,"request_page_size":50,"request_page_index":2,"query_strategy_version":""}`,
		rr.Body.String())
}

func TestListHosts_EmptyBody(t *testing.T) {
	s, svc := newTestServer(t)

	svc.EXPECT().ListHosts(gomock.Any(), metadata.ListRequest{}, models.QueryStrategyV1).
		Return(&models.HostResultList{Hosts: []models.HostInfo{}}, nil)

	rr := serve(s, httptest.NewRequest(http.MethodPost, "/api/endpoint/v1/metadata", http.NoBody))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestListHosts_GetQuery(t *testing.T) {
	s, svc := newTestServer(t)

	want := metadata.ListRequest{
		PageSize:     5,
		PageIndex:    1,
		KQL:          "host.hostname:web*",
		HostStatuses: []models.HostStatus{models.HostStatusUnhealthy},
	}

	svc.EXPECT().ListHosts(gomock.Any(), want, gomock.Any()).
		Return(&models.HostResultList{Hosts: []models.HostInfo{}}, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/api/endpoint/metadata?page_size=5&page_index=1&kql=host.hostname:web*&host_status=unhealthy", http.NoBody)

	rr := serve(s, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestListHosts_BadInput(t *testing.T) {
	s, _ := newTestServer(t)

	rr := serve(s, httptest.NewRequest(http.MethodPost, "/api/endpoint/metadata", strings.NewReader("{not json")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(s, httptest.NewRequest(http.MethodGet, "/api/endpoint/metadata?page_size=ten", http.NoBody))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid page_size", decodeError(t, rr).Message)
}

func TestListHosts_ServiceBadRequest(t *testing.T) {
	s, svc := newTestServer(t)

	svc.EXPECT().ListHosts(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, metadata.BadRequest("unsupported kql field: secret", nil))

	rr := serve(s, httptest.NewRequest(http.MethodPost, "/api/endpoint/metadata",
		strings.NewReader(`{"filters":{"kql":"secret:x"}}`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "unsupported kql field: secret", decodeError(t, rr).Message)
}

func TestAPIKeyRequired(t *testing.T) {
	s, svc := newTestServer(t, WithAPIKey("secret"))

	rr := serve(s, httptest.NewRequest(http.MethodGet, "/api/endpoint/metadata/host-1", http.NoBody))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	svc.EXPECT().GetHost(gomock.Any(), "host-1", gomock.Any()).Return(&models.HostInfo{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/endpoint/metadata/host-1", http.NoBody)
	req.Header.Set("X-API-Key", "secret")

	rr = serve(s, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMetadataServiceMissing(t *testing.T) {
	s := NewAPIServer(models.CORSConfig{}, WithLogger(logger.NewTestLogger()))

	rr := serve(s, httptest.NewRequest(http.MethodGet, "/api/endpoint/metadata/host-1", http.NoBody))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
