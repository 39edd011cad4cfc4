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

package codec

import (
	"fmt"

	"github.com/optakt/genesis-signatures/codec/borsh"
	"github.com/optakt/genesis-signatures/codec/structured"
	"github.com/optakt/genesis-signatures/codec/zbor"
	"github.com/optakt/genesis-signatures/models/genesis"
)

// New returns the record codec for the given format.
func New(format genesis.Format) (genesis.Codec, error) {
	switch format {
	case genesis.FormatJSON:
		return structured.NewCodec(), nil
	case genesis.FormatBorsh:
		return borsh.NewCodec(), nil
	case genesis.FormatCBOR:
		codec, err := zbor.NewRecordCodec()
		if err != nil {
			return nil, err
		}
		return codec, nil
	default:
		return nil, fmt.Errorf("%w (format: %s)", genesis.ErrUnknownFormat, format)
	}
}

// Set holds one codec per supported format.
type Set struct {
	codecs map[genesis.Format]genesis.Codec
}

// NewSet creates the codecs for all supported formats.
func NewSet() (*Set, error) {

	formats := []genesis.Format{genesis.FormatJSON, genesis.FormatBorsh, genesis.FormatCBOR}
	codecs := make(map[genesis.Format]genesis.Codec, len(formats))
	for _, format := range formats {
		codec, err := New(format)
		if err != nil {
			return nil, fmt.Errorf("could not initialize codec (format: %s): %w", format, err)
		}
		codecs[format] = codec
	}

	s := Set{
		codecs: codecs,
	}

	return &s, nil
}

// For returns the codec of the given format.
func (s *Set) For(format genesis.Format) (genesis.Codec, error) {
	codec, ok := s.codecs[format]
	if !ok {
		return nil, fmt.Errorf("%w (format: %s)", genesis.ErrUnknownFormat, format)
	}
	return codec, nil
}

// Decorate replaces the codec of every format with the one returned by the
// given function, for example to instrument them.
func (s *Set) Decorate(decorate func(genesis.Format, genesis.Codec) genesis.Codec) {
	for format, codec := range s.codecs {
		s.codecs[format] = decorate(format, codec)
	}
}

// Convert decodes the data from one format into the given record, validates
// it, and encodes it into the other format. The record is left holding the
// decoded value.
func (s *Set) Convert(data []byte, from genesis.Format, to genesis.Format, record genesis.Record) ([]byte, error) {

	decoder, err := s.For(from)
	if err != nil {
		return nil, err
	}
	encoder, err := s.For(to)
	if err != nil {
		return nil, err
	}

	err = decoder.Decode(data, record)
	if err != nil {
		return nil, fmt.Errorf("could not decode record (format: %s): %w", from, err)
	}
	err = genesis.Validate(record)
	if err != nil {
		return nil, fmt.Errorf("could not validate record: %w", err)
	}
	converted, err := encoder.Encode(record)
	if err != nil {
		return nil, fmt.Errorf("could not encode record (format: %s): %w", to, err)
	}

	return converted, nil
}
