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

package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeContextPath(t *testing.T) {
	tests := map[string]string{
		"":          "",
		"/":         "",
		"api":       "/api",
		"/api/v1/":  "/api/v1",
		" /api/v1 ": "/api/v1",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeContextPath(in), in)
	}
}

func TestHttp_SetDefaults(t *testing.T) {
	h := Http{ContextPath: "api/"}
	h.SetDefaults()
	assert.Equal(t, "0.0.0.0:8080", h.Addr())
	assert.Equal(t, "/api", h.ContextPath)
	assert.Equal(t, 24*time.Hour, h.Auth.AccessExpire)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusOf(BadRequest.Code))
	assert.Equal(t, http.StatusNotFound, StatusOf(NotFound.Code))
	assert.Equal(t, http.StatusConflict, StatusOf(StaleForm.Code))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(Failed.Code))
	assert.Equal(t, http.StatusOK, StatusOf(Success.Code))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(123456))
}

func TestClient_Do(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/ok":
			assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
			assert.Equal(t, "a", r.URL.Query().Get("folder"))
			_, _ = io.WriteString(w, `{"code":200,"msg":"Request Success","detail":{"name":"x"}}`)
		case "/stale":
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, `{"code":4090,"errMsg":"stale","path":"/stale"}`)
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, `upstream down`)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tkn", 5*time.Second)

	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/ok", map[string]string{"folder": "a"}, nil, &out))
	assert.Equal(t, "x", out.Name)

	err := c.Do(context.Background(), http.MethodPut, "/stale", nil, map[string]int{"a": 1}, nil)
	var repErr *ResponseErr
	require.True(t, errors.As(err, &repErr))
	assert.Equal(t, StaleForm.Code, repErr.ErrCode)

	err = c.Do(context.Background(), http.MethodGet, "/other", nil, nil, nil)
	require.True(t, errors.As(err, &repErr))
	assert.Equal(t, http.StatusBadGateway, repErr.ErrCode)
}
