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

package shutdown

import (
	"sync"
	"sync/atomic"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(NewManager)

// Manager tracks whether the process is draining. Health checks report
// unavailable from the first Shutdown call on.
type Manager struct {
	draining atomic.Bool
	once     sync.Once
	done     chan struct{}
	reason   atomic.Value
}

func NewManager() *Manager {
	return &Manager{done: make(chan struct{})}
}

func (m *Manager) IsShuttingDown() bool {
	return m.draining.Load()
}

// Shutdown starts draining. Only the first call counts and returns true.
func (m *Manager) Shutdown(reason string) bool {
	first := false
	m.once.Do(func() {
		first = true
		m.reason.Store(reason)
		m.draining.Store(true)
		close(m.done)
	})
	return first
}

// Done is closed by the first Shutdown call.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Reason returns what the first Shutdown call was given.
func (m *Manager) Reason() string {
	r, _ := m.reason.Load().(string)
	return r
}
