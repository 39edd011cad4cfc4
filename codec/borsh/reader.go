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
	"unicode/utf8"

	"github.com/optakt/genesis-signatures/models/genesis"
)

// Reader consumes borsh-encoded values from a byte slice.
type Reader struct {
	data   []byte
	offset int
}

// NewReader creates a reader positioned at the start of the data.
func NewReader(data []byte) *Reader {
	r := Reader{
		data: data,
	}

	return &r
}

// Remaining returns the number of bytes that have not been consumed yet.
func (r *Reader) Remaining() int {
	return len(r.data) - r.offset
}

// ReadUint32 reads a little-endian unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	if r.Remaining() < prefixSize {
		return 0, fmt.Errorf("could not read prefix (offset: %d, remaining: %d): %w", r.offset, r.Remaining(), genesis.ErrTruncatedInput)
	}

	value := binary.LittleEndian.Uint32(r.data[r.offset:])
	r.offset += prefixSize

	return value, nil
}

// ReadString reads a length-prefixed UTF-8 string.
func (r *Reader) ReadString() (string, error) {

	start := r.offset
	length, err := r.ReadUint32()
	if err != nil {
		return "", err
	}

	if uint64(length) > uint64(r.Remaining()) {
		return "", fmt.Errorf("could not read string (offset: %d, length: %d, remaining: %d): %w", start, length, r.Remaining(), genesis.ErrTruncatedInput)
	}

	raw := r.data[r.offset : r.offset+int(length)]
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("string is not valid UTF-8 (offset: %d): %w", start, genesis.ErrMalformedInput)
	}
	r.offset += int(length)

	return string(raw), nil
}

// ReadCount reads a sequence count, and checks that the remaining data can
// hold that many elements of at least the given minimum size.
func (r *Reader) ReadCount(minElementSize int) (int, error) {

	start := r.offset
	count, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}

	if uint64(count)*uint64(minElementSize) > uint64(r.Remaining()) {
		return 0, fmt.Errorf("count exceeds remaining data (offset: %d, count: %d, remaining: %d): %w", start, count, r.Remaining(), genesis.ErrMalformedInput)
	}

	return int(count), nil
}

// Finish checks that all of the data was consumed.
func (r *Reader) Finish() error {
	if r.Remaining() != 0 {
		return fmt.Errorf("trailing bytes after record (offset: %d, remaining: %d): %w", r.offset, r.Remaining(), genesis.ErrMalformedInput)
	}

	return nil
}
