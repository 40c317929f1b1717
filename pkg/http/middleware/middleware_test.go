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

package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	httpx "github.com/go-arcade/groupfiles/pkg/http"
	"github.com/go-arcade/groupfiles/pkg/http/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(ExceptionMiddleware, RequestMiddleware(), TraceMiddleware(), UnifiedResponseMiddleware())
	for _, h := range handlers {
		app.Use(h)
	}
	return app
}

func decode(t *testing.T, body io.Reader, v any) {
	t.Helper()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestRequestMiddleware(t *testing.T) {
	app := newApp()
	app.Get("/id", func(c *fiber.Ctx) error {
		c.Locals(DETAIL, c.Locals(REQUEST_ID))
		return nil
	})

	req := httptest.NewRequest("GET", "/id", nil)
	req.Header.Set(HeaderRequestId, "existing-request-id-12345")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "existing-request-id-12345", resp.Header.Get(HeaderRequestId))

	resp, err = app.Test(httptest.NewRequest("GET", "/id", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(HeaderRequestId), 36)
}

func TestUnifiedResponseMiddleware(t *testing.T) {
	app := newApp()
	app.Get("/detail", func(c *fiber.Ctx) error {
		c.Locals(DETAIL, map[string]int{"n": 1})
		return nil
	})
	app.Put("/op", func(c *fiber.Ctx) error {
		c.Locals(OPERATION, "save")
		return nil
	})
	app.Get("/err", func(c *fiber.Ctx) error {
		return httpx.WithRepErr(c, httpx.StaleForm)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/detail", nil))
	require.NoError(t, err)
	var rep httpx.Response
	decode(t, resp.Body, &rep)
	assert.Equal(t, httpx.Success.Code, rep.Code)
	assert.Equal(t, map[string]any{"n": float64(1)}, rep.Detail)

	resp, err = app.Test(httptest.NewRequest("PUT", "/op", nil))
	require.NoError(t, err)
	rep = httpx.Response{}
	decode(t, resp.Body, &rep)
	assert.Equal(t, httpx.Success.Code, rep.Code)
	assert.Nil(t, rep.Detail)

	resp, err = app.Test(httptest.NewRequest("GET", "/err", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	var repErr httpx.ResponseErr
	decode(t, resp.Body, &repErr)
	assert.Equal(t, httpx.StaleForm.Code, repErr.ErrCode)
	assert.Equal(t, "/err", repErr.Path)
}

func TestExceptionMiddleware(t *testing.T) {
	app := newApp()
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var repErr httpx.ResponseErr
	decode(t, resp.Body, &repErr)
	assert.Equal(t, httpx.InternalError.Code, repErr.ErrCode)
}

func TestErrorHandler_RouteNotFound(t *testing.T) {
	app := newApp()
	resp, err := app.Test(httptest.NewRequest("GET", "/nowhere", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var repErr httpx.ResponseErr
	decode(t, resp.Body, &repErr)
	assert.Equal(t, httpx.NotFound.Code, repErr.ErrCode)
}

func TestAuthorizationMiddleware(t *testing.T) {
	app := newApp(AuthorizationMiddleware(secret))
	app.Get("/me", func(c *fiber.Ctx) error {
		c.Locals(DETAIL, c.Locals(CLAIMS).(*jwt.AuthClaims).UserId)
		return nil
	})

	valid, err := jwt.GenToken("admin", []byte(secret), time.Hour)
	require.NoError(t, err)
	expired, err := jwt.GenToken("admin", []byte(secret), -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{name: "missing", header: "", wantCode: httpx.TokenBeEmpty.Code},
		{name: "wrong scheme", header: "Basic abc", wantCode: httpx.AuthorizationInvalid.Code},
		{name: "garbage", header: "Bearer abc", wantCode: httpx.InvalidToken.Code},
		{name: "expired", header: "Bearer " + expired, wantCode: httpx.TokenExpired.Code},
		{name: "valid", header: "Bearer " + valid, wantCode: httpx.Success.Code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)

			var body struct {
				Code   int `json:"code"`
				Detail any `json:"detail"`
			}
			decode(t, resp.Body, &body)
			assert.Equal(t, tt.wantCode, body.Code)
			if tt.wantCode == httpx.Success.Code {
				assert.Equal(t, "admin", body.Detail)
			} else {
				assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			}
		})
	}
}
