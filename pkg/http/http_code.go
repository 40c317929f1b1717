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

import "net/http"

var statuses = map[int]int{}

var (
	Failed = failed(500, http.StatusInternalServerError, "Request failed")

	// 401
	Unauthorized         = failed(4401, http.StatusUnauthorized, "Unauthorized")
	AuthorizationInvalid = failed(4403, http.StatusUnauthorized, "The authorization header format is incorrect")
	InvalidToken         = failed(4405, http.StatusUnauthorized, "Invalid token")
	TokenBeEmpty         = failed(4406, http.StatusUnauthorized, "Token cannot be empty")
	TokenExpired         = failed(4407, http.StatusUnauthorized, "Token is expired")

	// 400
	BadRequest = failed(4000, http.StatusBadRequest, "Bad request")
	NotFound   = failed(4004, http.StatusNotFound, "Not found")

	// 409
	StaleForm = failed(4090, http.StatusConflict, "The form has become outdated, reload it and try again")

	InternalError = failed(5000, http.StatusInternalServerError, "Internal error, please contact the administrator")
)

var (
	Success = success(200, "Request Success")
)

func failed(code, status int, msg string) *Response {
	statuses[code] = status
	return &Response{
		Code: code,
		Msg:  msg,
	}
}

func success(code int, msg string) *Response {
	statuses[code] = http.StatusOK
	return &Response{
		Code: code,
		Msg:  msg,
	}
}

// StatusOf maps a response code to its HTTP status.
func StatusOf(code int) int {
	if s, ok := statuses[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}
