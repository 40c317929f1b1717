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

package pprof

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"sync"
	"time"

	"github.com/go-arcade/groupfiles/pkg/log"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(NewPprofServer)

// PprofConfig configures the profiling endpoints. With Port 0 they are
// mounted on the application listener.
type PprofConfig struct {
	Enable bool   `mapstructure:"enable"`
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	Path   string `mapstructure:"path"`
}

func (p *PprofConfig) SetDefaults() {
	if p.Host == "" {
		p.Host = "127.0.0.1"
	}
	if p.Path == "" {
		p.Path = "/debug/pprof"
	}
}

type Server struct {
	config PprofConfig
	server *http.Server
	mu     sync.Mutex
}

// NewPprofServer applies config defaults; nothing listens until Start.
func NewPprofServer(config PprofConfig) *Server {
	config.SetDefaults()
	return &Server{config: config}
}

func (s *Server) Enabled() bool {
	return s.config.Enable
}

func (s *Server) Standalone() bool {
	return s.config.Port != 0
}

func (s *Server) Path() string {
	return s.config.Path
}

// Handler serves the runtime profiles below Path.
func (s *Server) Handler() http.Handler {
	prefix := s.config.Path
	mux := http.NewServeMux()
	mux.HandleFunc(prefix+"/", pprof.Index)
	mux.HandleFunc(prefix+"/cmdline", pprof.Cmdline)
	mux.HandleFunc(prefix+"/profile", pprof.Profile)
	mux.HandleFunc(prefix+"/symbol", pprof.Symbol)
	mux.HandleFunc(prefix+"/trace", pprof.Trace)
	return mux
}

// Start launches the dedicated listener when a port is configured.
func (s *Server) Start() error {
	if !s.config.Enable || !s.Standalone() {
		return nil
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.mu.Lock()
	s.server = &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	srv := s.server
	s.mu.Unlock()

	go func() {
		log.Infow("pprof server started", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("pprof server failed", "address", addr, "error", err)
		}
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
