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

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/optakt/genesis-signatures/codec"
	"github.com/optakt/genesis-signatures/codec/bondfile"
	"github.com/optakt/genesis-signatures/codec/structured"
	"github.com/optakt/genesis-signatures/models/genesis"
)

const formatTOML = "toml"

type converter struct {
	codecs *codec.Set
	hex    bool
}

// Convert decodes the input as a record of the given kind in one format,
// validates it, and encodes it in the other format.
func (c converter) Convert(input []byte, kind string, from string, to string) ([]byte, error) {

	if kind == "bonds" {
		return c.convertBonds(input, from, to)
	}

	var record genesis.Record
	switch kind {
	case "signature":
		record = &genesis.GenesisSignature{}
	case "response":
		record = &genesis.GetTxSignatureResponse{}
	default:
		return nil, fmt.Errorf("unknown record kind (%s)", kind)
	}

	format, err := genesis.ParseFormat(from)
	if err != nil {
		return nil, err
	}
	decoder, err := c.codecs.For(format)
	if err != nil {
		return nil, err
	}
	err = c.decoder(format, decoder).Decode(input, record)
	if err != nil {
		return nil, fmt.Errorf("could not decode record: %w", err)
	}
	err = genesis.Validate(record)
	if err != nil {
		return nil, fmt.Errorf("could not validate record: %w", err)
	}

	return c.Encode(record, to)
}

// Encode encodes the record in the named format, as hexadecimal text for
// binary formats when requested.
func (c converter) Encode(record genesis.Record, to string) ([]byte, error) {

	if strings.EqualFold(to, formatTOML) {
		return nil, fmt.Errorf("only bonds can be rendered as %s: %w", formatTOML, genesis.ErrUnknownFormat)
	}
	format, err := genesis.ParseFormat(to)
	if err != nil {
		return nil, err
	}
	encoder, err := c.codecs.For(format)
	if err != nil {
		return nil, err
	}
	data, err := encoder.Encode(record)
	if err != nil {
		return nil, fmt.Errorf("could not encode record: %w", err)
	}
	if c.hex && format != genesis.FormatJSON {
		return []byte(hex.EncodeToString(data)), nil
	}
	return data, nil
}

func (c converter) convertBonds(input []byte, from string, to string) ([]byte, error) {

	var (
		bonds []genesis.Bond
		err   error
	)
	switch strings.ToLower(from) {
	case "json", "structured":
		bonds, err = structured.NewCodec().DecodeBonds(input)
	case formatTOML:
		bonds, err = bondfile.Decode(input)
	default:
		return nil, fmt.Errorf("bonds are only read from json or %s (format: %s): %w", formatTOML, from, genesis.ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("could not decode bonds: %w", err)
	}

	err = genesis.ValidateBonds(&genesis.Bonds{Bonds: bonds})
	if err != nil {
		return nil, fmt.Errorf("could not validate bonds: %w", err)
	}

	switch strings.ToLower(to) {
	case "json", "structured":
		return structured.NewCodec().EncodeBonds(bonds)
	case formatTOML:
		return bondfile.Encode(bonds)
	default:
		return nil, fmt.Errorf("bonds are only written as json or %s (format: %s): %w", formatTOML, to, genesis.ErrUnknownFormat)
	}
}

// decoder wraps the codec so that binary input is read as hexadecimal text
// when requested.
func (c converter) decoder(format genesis.Format, codec genesis.Codec) genesis.Codec {
	if !c.hex || format == genesis.FormatJSON {
		return codec
	}
	return hexCodec{Codec: codec}
}

type hexCodec struct {
	genesis.Codec
}

func (h hexCodec) Decode(data []byte, record genesis.Record) error {
	decoded, err := hex.DecodeString(string(bytes.TrimSpace(data)))
	if err != nil {
		return fmt.Errorf("invalid hexadecimal input: %w", genesis.ErrMalformedInput)
	}
	return h.Codec.Decode(decoded, record)
}
