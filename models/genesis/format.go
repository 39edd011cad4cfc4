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
	"fmt"
	"strings"
)

// Format identifies one of the wire forms of the signature records.
type Format uint8

// Supported formats.
const (
	FormatJSON Format = iota + 1
	FormatBorsh
	FormatCBOR
)

// ParseFormat returns the format with the given name. Names are case
// insensitive; `structured` and `binary` are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json", "structured":
		return FormatJSON, nil
	case "borsh", "binary":
		return FormatBorsh, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return 0, fmt.Errorf("%w (name: %s)", ErrUnknownFormat, name)
	}
}

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatBorsh:
		return "borsh"
	case FormatCBOR:
		return "cbor"
	default:
		return fmt.Sprintf("format(%d)", uint8(f))
	}
}

// ContentType returns the MIME type used when serving the format over HTTP.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCBOR:
		return "application/cbor"
	default:
		return "application/octet-stream"
	}
}
