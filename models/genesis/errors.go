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

package genesis

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	ErrMalformedInput  = errors.New("malformed input")
	ErrSchemaMismatch  = errors.New("schema mismatch")
	ErrTruncatedInput  = errors.New("truncated input")
	ErrEmptyField      = errors.New("empty field")
	ErrInvalidField    = errors.New("invalid field")
	ErrDuplicateSigner = errors.New("duplicate signer")
	ErrUnknownFormat   = errors.New("unknown format")
	ErrNotFound        = errors.New("not found")
)

// EmptyFieldError is returned by validation when a required field has no
// value. Field is the serialized name of the field, and Namespace locates it
// within the validated record, such as `signatures[1].pub_key`.
type EmptyFieldError struct {
	Field     string
	Namespace string
}

func (e EmptyFieldError) Error() string {
	if e.Namespace == "" || e.Namespace == e.Field {
		return fmt.Sprintf("empty field (%s)", e.Field)
	}
	return fmt.Sprintf("empty field (%s at %s)", e.Field, e.Namespace)
}

func (e EmptyFieldError) Is(target error) bool {
	return target == ErrEmptyField
}

// InvalidFieldError is returned by validation when a field has a value that
// breaks a rule other than presence, such as a non-numeric bond amount.
type InvalidFieldError struct {
	Field     string
	Namespace string
	Rule      string
}

func (e InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field (%s at %s, rule: %s)", e.Field, e.Namespace, e.Rule)
}

func (e InvalidFieldError) Is(target error) bool {
	return target == ErrInvalidField
}

// Classify returns a short name for the class of a codec or validation
// error, for use in responses and metric labels.
func Classify(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrTruncatedInput):
		return "truncated_input"
	case errors.Is(err, ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, ErrSchemaMismatch):
		return "schema_mismatch"
	case errors.Is(err, ErrEmptyField):
		return "empty_field"
	case errors.Is(err, ErrInvalidField):
		return "invalid_field"
	case errors.Is(err, ErrDuplicateSigner):
		return "duplicate_signer"
	case errors.Is(err, ErrUnknownFormat):
		return "unknown_format"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "unknown"
	}
}
