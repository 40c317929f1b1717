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

// Package retry runs an operation again after failures, waiting an
// exponentially growing, jittered delay between attempts.
package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// Func is the operation to run. It must respect ctx.
type Func func(ctx context.Context) error

type config struct {
	attempts int
	base     time.Duration
	max      time.Duration
	jitter   bool
	onRetry  func(attempt int, err error, wait time.Duration)
}

type Option func(*config)

// WithMaxAttempts sets the number of attempts, the first one included.
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.attempts = n
		}
	}
}

// WithBackoff sets the first delay and its upper bound. max <= 0 means
// unbounded.
func WithBackoff(base, max time.Duration) Option {
	return func(c *config) {
		c.base, c.max = base, max
	}
}

// WithoutJitter waits exactly the backoff delay.
func WithoutJitter() Option {
	return func(c *config) { c.jitter = false }
}

// OnRetry is called before each wait.
func OnRetry(fn func(attempt int, err error, wait time.Duration)) Option {
	return func(c *config) { c.onRetry = fn }
}

// Do runs fn until it succeeds, the attempts are used up or ctx is done.
// Context errors returned by fn are not retried. The last error of fn is
// returned.
func Do(ctx context.Context, fn Func, opts ...Option) error {
	cfg := &config{attempts: 3, base: 500 * time.Millisecond, max: 10 * time.Second, jitter: true}
	for _, opt := range opts {
		opt(cfg)
	}

	var err error
	for attempt := 0; attempt < cfg.attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Join(err, ctxErr)
		}
		if err = fn(ctx); err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if attempt == cfg.attempts-1 {
			break
		}

		wait := cfg.delay(attempt)
		if cfg.onRetry != nil {
			cfg.onRetry(attempt+1, err, wait)
		}
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		}
	}
	return err
}

func (c *config) delay(attempt int) time.Duration {
	d := c.base
	for i := 0; i < attempt && d < 24*time.Hour && (c.max <= 0 || d < c.max); i++ {
		d *= 2
	}
	if c.max > 0 && d > c.max {
		d = c.max
	}
	if c.jitter && d > 0 {
		// half fixed, half random
		d = d/2 + rand.N(d/2+1)
	}
	return d
}
