// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package metrics

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submissions counts the requests that reach the HTTP API, per route and
// response status.
type Submissions struct {
	requests *prometheus.CounterVec
}

// NewSubmissions creates the request counter and registers it.
func NewSubmissions(reg prometheus.Registerer) *Submissions {
	opts := prometheus.CounterOpts{
		Name:      "http_submissions_total",
		Namespace: namespace,
		Help:      "number of API requests per method, route and status",
	}

	s := Submissions{
		requests: promauto.With(reg).NewCounterVec(opts, []string{"method", "route", "status"}),
	}

	return &s
}

// Middleware returns the echo middleware counting requests.
func (s *Submissions) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			err := next(ctx)
			status := ctx.Response().Status
			if err != nil {
				status = echo.ErrInternalServerError.Code
				httpErr, ok := err.(*echo.HTTPError)
				if ok {
					status = httpErr.Code
				}
			}
			s.requests.WithLabelValues(ctx.Request().Method, ctx.Path(), strconv.Itoa(status)).Inc()
			return err
		}
	}
}
