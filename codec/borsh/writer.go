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

package borsh

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/optakt/genesis-signatures/models/genesis"
)

const prefixSize = 4

// Writer appends borsh-encoded values to a byte slice.
type Writer struct {
	data []byte
}

// NewWriter creates a writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	w := Writer{
		data: make([]byte, 0, capacity),
	}

	return &w
}

// WriteUint32 appends a little-endian unsigned 32-bit integer.
func (w *Writer) WriteUint32(value uint32) {
	var buf [prefixSize]byte
	binary.LittleEndian.PutUint32(buf[:], value)
	w.data = append(w.data, buf[:]...)
}

// WriteString appends the byte length of the string followed by its bytes.
// The string must be valid UTF-8.
func (w *Writer) WriteString(value string) error {
	if uint64(len(value)) > math.MaxUint32 {
		return fmt.Errorf("string too long for length prefix (length: %d)", len(value))
	}
	if !utf8.ValidString(value) {
		return fmt.Errorf("string is not valid UTF-8 (offset: %d): %w", len(w.data), genesis.ErrMalformedInput)
	}

	w.WriteUint32(uint32(len(value)))
	w.data = append(w.data, value...)

	return nil
}

// WriteCount appends the element count of a sequence.
func (w *Writer) WriteCount(count int) error {
	if uint64(count) > math.MaxUint32 {
		return fmt.Errorf("sequence too long for count prefix (count: %d)", count)
	}

	w.WriteUint32(uint32(count))

	return nil
}

// Bytes returns the encoded data.
func (w *Writer) Bytes() []byte {
	return w.data
}
