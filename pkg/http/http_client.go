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
	"encoding/json"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
)

// Client calls a service that answers with the Response/ResponseErr
// envelopes.
type Client struct {
	rc *resty.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if token != "" {
		rc.SetAuthToken(token)
	}
	return &Client{rc: rc}
}

// Do sends body (may be nil) and decodes the detail of the reply into out
// (may be nil). Error replies come back as *ResponseErr.
func (c *Client) Do(ctx context.Context, method, path string, query map[string]string, body, out any) error {
	req := c.rc.R().SetContext(ctx).SetQueryParams(query)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.IsError() {
		var rep ResponseErr
		if err := sonic.Unmarshal(resp.Body(), &rep); err != nil || rep.ErrCode == 0 {
			return &ResponseErr{ErrCode: resp.StatusCode(), ErrMsg: resp.Status(), Path: path}
		}
		return &rep
	}

	envelope := struct {
		Code   int             `json:"code"`
		Detail json.RawMessage `json:"detail"`
		Msg    string          `json:"msg"`
	}{}
	if err := sonic.Unmarshal(resp.Body(), &envelope); err != nil {
		return fmt.Errorf("decode reply of %s %s: %w", method, path, err)
	}
	if out == nil || len(envelope.Detail) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(envelope.Detail, out); err != nil {
		return fmt.Errorf("decode detail of %s %s: %w", method, path, err)
	}
	return nil
}
