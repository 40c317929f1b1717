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

package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPermissionOperation(t *testing.T) {
	before := testutil.ToFloat64(PermissionOperationsTotal.WithLabelValues("save", ResultStale))
	RecordPermissionOperation("save", ResultStale, 3*time.Millisecond)
	after := testutil.ToFloat64(PermissionOperationsTotal.WithLabelValues("save", ResultStale))
	assert.Equal(t, before+1, after)

	saved := testutil.ToFloat64(PermissionEntriesSavedTotal)
	AddEntriesSaved(4)
	assert.Equal(t, saved+4, testutil.ToFloat64(PermissionEntriesSavedTotal))
}

func TestServer_Handler(t *testing.T) {
	s := NewMetricsServer(MetricsConfig{Enable: true})
	assert.Equal(t, "/metrics", s.Path())
	assert.False(t, s.Standalone())
	require.NoError(t, s.Start())

	RecordPermissionOperation("get_matrix", ResultOK, time.Millisecond)
	ObserveMatrixCells(12)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "groupfiles_permission_operations_total")
	assert.Contains(t, string(body), "groupfiles_permission_matrix_cells")
}
