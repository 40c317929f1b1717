// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/go-arcade/groupfiles/internal/pkg/matrix"
	"github.com/go-arcade/groupfiles/pkg/http"
)

// filesPermissions mirrors the detail of GET /groups/:groupId/files/permissions.
type filesPermissions struct {
	Help       string             `json:"help"`
	Matrix     *matrix.Matrix     `json:"matrix"`
	Submission *matrix.Submission `json:"submission"`
}

type apiClient struct {
	c    *http.Client
	base string
}

func newAPIClient() *apiClient {
	return &apiClient{
		c:    http.NewClient(server, token, 30*time.Second),
		base: http.NormalizeContextPath(contextPath),
	}
}

func (a *apiClient) definitions(ctx context.Context) ([]matrix.Definition, error) {
	var defs []matrix.Definition
	err := a.c.Do(ctx, nethttp.MethodGet, a.base+"/files/permissions/definitions", nil, nil, &defs)
	return defs, err
}

func (a *apiClient) filesPermissions(ctx context.Context, groupId uint64) (*filesPermissions, error) {
	var out filesPermissions
	if err := a.c.Do(ctx, nethttp.MethodGet, a.groupPath(groupId), nil, nil, &out); err != nil {
		return nil, err
	}
	if out.Matrix == nil || out.Submission == nil {
		return nil, fmt.Errorf("group %d: empty reply", groupId)
	}
	return &out, nil
}

func (a *apiClient) saveFilesPermissions(ctx context.Context, groupId uint64, sub *matrix.Submission) error {
	return a.c.Do(ctx, nethttp.MethodPut, a.groupPath(groupId), nil, sub, nil)
}

func (a *apiClient) groupPath(groupId uint64) string {
	return fmt.Sprintf("%s/groups/%d/files/permissions", a.base, groupId)
}
