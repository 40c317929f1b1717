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
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/go-arcade/groupfiles/pkg/http"
	"github.com/go-arcade/groupfiles/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// ExceptionMiddleware turns a panic in a handler into an InternalError reply.
func ExceptionMiddleware(c *fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.WithContext(c.UserContext()).Errorw("panic recovered",
				"path", c.Path(),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			err = http.WithRepErrMsg(c, http.InternalError.Code, http.InternalError.Msg, c.Path())
		}
	}()
	return c.Next()
}

// ErrorHandler is the fiber error handler: fiber errors (404 route, 405,
// body too large) keep their status, anything else is an InternalError.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := http.Failed.Code
		switch fe.Code {
		case fiber.StatusNotFound:
			code = http.NotFound.Code
		case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusMethodNotAllowed:
			code = http.BadRequest.Code
		}
		return c.Status(fe.Code).JSON(http.ResponseErr{ErrCode: code, ErrMsg: fe.Message, Path: c.Path()})
	}

	log.WithContext(c.UserContext()).Errorw("unhandled error", "path", c.Path(), "error", err)
	return http.WithRepErrMsg(c, http.InternalError.Code, http.InternalError.Msg, c.Path())
}
