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
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
	ResultStale = "stale"
)

var (
	// PermissionOperationsTotal counts matrix operations by outcome
	PermissionOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "groupfiles",
			Name:      "permission_operations_total",
			Help:      "Total number of permission matrix operations",
		},
		[]string{"operation", "result"},
	)

	// PermissionOperationDurationSeconds measures matrix operations
	PermissionOperationDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "groupfiles",
			Name:      "permission_operation_duration_seconds",
			Help:      "Duration of permission matrix operations in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation"},
	)

	// PermissionMatrixCells observes the size of assembled matrices
	PermissionMatrixCells = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "groupfiles",
			Name:      "permission_matrix_cells",
			Help:      "Number of permission cells in an assembled matrix",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	// PermissionEntriesSavedTotal counts persisted (folder, role) entries
	PermissionEntriesSavedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "groupfiles",
			Name:      "permission_entries_saved_total",
			Help:      "Total number of folder permission entries written",
		},
	)

	permissionMetricsOnce sync.Once
)

// RegisterPermissionMetrics registers all permission metrics once.
func RegisterPermissionMetrics(registry *prometheus.Registry) {
	permissionMetricsOnce.Do(func() {
		registry.MustRegister(
			PermissionOperationsTotal,
			PermissionOperationDurationSeconds,
			PermissionMatrixCells,
			PermissionEntriesSavedTotal,
		)
	})
}

// RecordPermissionOperation records one operation with its result label.
func RecordPermissionOperation(operation, result string, duration time.Duration) {
	PermissionOperationsTotal.WithLabelValues(operation, result).Inc()
	PermissionOperationDurationSeconds.WithLabelValues(operation).Observe(duration.Seconds())
}

func ObserveMatrixCells(cells int) {
	PermissionMatrixCells.Observe(float64(cells))
}

func AddEntriesSaved(n int) {
	PermissionEntriesSavedTotal.Add(float64(n))
}
