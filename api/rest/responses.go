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

package rest

import (
	"errors"

	"github.com/hashicorp/go-multierror"
)

// Message is a single error reported to API clients.
type Message struct {
	Msg string `json:"msg"`
}

// ErrorResponse is the body of a rejected request.
type ErrorResponse struct {
	Errors []Message `json:"errors"`
}

// VerifyResponse is the result of checking an encoded record.
type VerifyResponse struct {
	Valid  bool   `json:"valid"`
	Class  string `json:"class,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// SubmitResponse acknowledges a bond submission.
type SubmitResponse struct {
	Accepted int `json:"accepted"`
}

func rejection(err error) ErrorResponse {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		return ErrorResponse{Errors: []Message{{Msg: err.Error()}}}
	}
	res := ErrorResponse{Errors: make([]Message, 0, len(merr.Errors))}
	for _, err := range merr.Errors {
		res.Errors = append(res.Errors, Message{Msg: err.Error()})
	}
	return res
}
