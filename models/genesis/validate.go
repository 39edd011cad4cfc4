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
	"math/big"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

const (
	amountField = "amount"
	positiveTag = "positive"
	utf8Tag     = "utf8"
)

// The validator caches struct metadata and is safe for concurrent use, so a
// single instance serves all callers.
var validate = newValidator()

func newValidator() *validator.Validate {

	v := validator.New()

	// Report fields under their serialized names, so that errors point at
	// `pub_key` rather than `PubKey`.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails on an empty tag.
	_ = v.RegisterValidation(utf8Tag, func(fl validator.FieldLevel) bool {
		return utf8.ValidString(fl.Field().String())
	})

	v.RegisterStructValidation(bondValidator, Bond{})

	return v
}

// Validate checks the structure of a record: every contained
// signature must have a non-empty public key and signature, both valid UTF-8. It does not check
// the cryptographic validity of the signatures.
func Validate(record Record) error {
	return check(record)
}

// ValidateBond checks that a bond has a source, a validator, a positive
// decimal amount and at least one valid signature.
func ValidateBond(bond *Bond) error {
	return check(bond)
}

// ValidateBonds checks all bonds of a submission.
func ValidateBonds(bonds *Bonds) error {
	return check(bonds)
}

func check(value interface{}) error {

	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	// InvalidValidationError is returned when the value is not a struct or
	// is a nil pointer.
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("could not validate value (%T): %w", value, ErrSchemaMismatch)
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return fmt.Errorf("could not validate value (%T): %w", value, err)
	}

	var errs *multierror.Error
	for _, violation := range violations {
		errs = multierror.Append(errs, convert(violation))
	}
	if errs.Len() == 1 {
		return errs.Errors[0]
	}

	return errs.ErrorOrNil()
}

// CheckText returns an error wrapping ErrMalformedInput when the value of the
// named field is not valid UTF-8.
func CheckText(field string, value string) error {
	if !utf8.ValidString(value) {
		return fmt.Errorf("field is not valid UTF-8 (field: %s): %w", field, ErrMalformedInput)
	}
	return nil
}

func convert(violation validator.FieldError) error {

	// The namespace starts with the name of the validated struct type, which
	// carries no information for the caller.
	namespace := violation.Namespace()
	index := strings.Index(namespace, ".")
	if index >= 0 {
		namespace = namespace[index+1:]
	}

	switch violation.Tag() {
	case "required", "min":
		return EmptyFieldError{
			Field:     violation.Field(),
			Namespace: namespace,
		}
	default:
		return InvalidFieldError{
			Field:     violation.Field(),
			Namespace: namespace,
			Rule:      violation.Tag(),
		}
	}
}

func bondValidator(sl validator.StructLevel) {
	bond := sl.Current().Interface().(Bond)

	// Amounts that are not decimal numbers are reported by the `numeric` tag.
	amount, ok := new(big.Rat).SetString(bond.Amount)
	if !ok {
		return
	}
	if amount.Sign() <= 0 {
		sl.ReportError(bond.Amount, amountField, "Amount", positiveTag, "")
	}
}
