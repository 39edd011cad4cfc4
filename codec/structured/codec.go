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

package structured

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/optakt/genesis-signatures/models/genesis"
)

const (
	fieldPubKey     = "pub_key"
	fieldSignature  = "signature"
	fieldSignatures = "signatures"
	fieldBonds      = "bonds"
	fieldSource     = "source"
	fieldValidator  = "validator"
	fieldAmount     = "amount"
)

// Codec encodes signature records as JSON documents. Decoding is strict about
// the presence and the types of the known fields, and ignores any other field.
type Codec struct{}

// NewCodec creates a new JSON codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Encode returns the compact JSON document for the record. Fields appear in
// declaration order, and an empty response encodes its signatures as `[]`.
func (c *Codec) Encode(record genesis.Record) ([]byte, error) {
	switch r := record.(type) {
	case *genesis.GenesisSignature:
		if r == nil {
			return nil, fmt.Errorf("nil record (%T): %w", record, genesis.ErrSchemaMismatch)
		}
		err := checkSignature(*r, "")
		if err != nil {
			return nil, err
		}
		return json.Marshal(r)
	case *genesis.GetTxSignatureResponse:
		if r == nil {
			return nil, fmt.Errorf("nil record (%T): %w", record, genesis.ErrSchemaMismatch)
		}
		err := checkSignatures(r.Signatures, "")
		if err != nil {
			return nil, err
		}
		signatures := r.Signatures
		if signatures == nil {
			signatures = []genesis.GenesisSignature{}
		}
		return json.Marshal(genesis.GetTxSignatureResponse{Signatures: signatures})
	default:
		return nil, fmt.Errorf("unsupported record type (%T)", record)
	}
}

// Decode parses a JSON document into the given record.
func (c *Codec) Decode(data []byte, record genesis.Record) error {

	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON document: %w", genesis.ErrMalformedInput)
	}

	switch r := record.(type) {
	case *genesis.GenesisSignature:
		if r == nil {
			return fmt.Errorf("nil record (%T): %w", record, genesis.ErrSchemaMismatch)
		}
		signature, err := decodeSignature(data, "")
		if err != nil {
			return err
		}
		*r = signature
		return nil

	case *genesis.GetTxSignatureResponse:
		if r == nil {
			return fmt.Errorf("nil record (%T): %w", record, genesis.ErrSchemaMismatch)
		}
		fields, err := decodeObject(data, "")
		if err != nil {
			return err
		}
		signatures, err := decodeSignatures(fields, "")
		if err != nil {
			return err
		}
		r.Signatures = signatures
		return nil

	default:
		return fmt.Errorf("unsupported record type (%T)", record)
	}
}

// EncodeBonds returns the JSON submission body for the given bonds.
func (c *Codec) EncodeBonds(bonds []genesis.Bond) ([]byte, error) {
	body := genesis.Bonds{Bonds: make([]genesis.Bond, 0, len(bonds))}
	for i, bond := range bonds {
		path := fmt.Sprintf("%s[%d].", fieldBonds, i)
		err := checkBond(bond, path)
		if err != nil {
			return nil, err
		}
		if bond.Signatures == nil {
			bond.Signatures = []genesis.GenesisSignature{}
		}
		body.Bonds = append(body.Bonds, bond)
	}

	return json.Marshal(body)
}

// DecodeBonds parses a JSON submission body, with the same rules as the
// decoding of records.
func (c *Codec) DecodeBonds(data []byte) ([]genesis.Bond, error) {

	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid JSON document: %w", genesis.ErrMalformedInput)
	}

	fields, err := decodeObject(data, "")
	if err != nil {
		return nil, err
	}
	elements, err := decodeArray(fields, fieldBonds, "")
	if err != nil {
		return nil, err
	}

	bonds := make([]genesis.Bond, 0, len(elements))
	for i, element := range elements {
		path := fmt.Sprintf("%s[%d].", fieldBonds, i)
		bond, err := decodeBond(element, path)
		if err != nil {
			return nil, err
		}
		bonds = append(bonds, bond)
	}

	return bonds, nil
}

func decodeBond(data []byte, path string) (genesis.Bond, error) {

	fields, err := decodeObject(data, path)
	if err != nil {
		return genesis.Bond{}, err
	}

	var bond genesis.Bond
	bond.Source, err = decodeString(fields, fieldSource, path)
	if err != nil {
		return genesis.Bond{}, err
	}
	bond.Validator, err = decodeString(fields, fieldValidator, path)
	if err != nil {
		return genesis.Bond{}, err
	}
	bond.Amount, err = decodeString(fields, fieldAmount, path)
	if err != nil {
		return genesis.Bond{}, err
	}
	bond.Signatures, err = decodeSignatures(fields, path)
	if err != nil {
		return genesis.Bond{}, err
	}

	return bond, nil
}

func decodeSignatures(fields map[string]json.RawMessage, path string) ([]genesis.GenesisSignature, error) {

	elements, err := decodeArray(fields, fieldSignatures, path)
	if err != nil {
		return nil, err
	}

	signatures := make([]genesis.GenesisSignature, 0, len(elements))
	for i, element := range elements {
		signature, err := decodeSignature(element, fmt.Sprintf("%s%s[%d].", path, fieldSignatures, i))
		if err != nil {
			return nil, err
		}
		signatures = append(signatures, signature)
	}

	return signatures, nil
}

func decodeSignature(data []byte, path string) (genesis.GenesisSignature, error) {

	fields, err := decodeObject(data, path)
	if err != nil {
		return genesis.GenesisSignature{}, err
	}

	pubKey, err := decodeString(fields, fieldPubKey, path)
	if err != nil {
		return genesis.GenesisSignature{}, err
	}
	signature, err := decodeString(fields, fieldSignature, path)
	if err != nil {
		return genesis.GenesisSignature{}, err
	}

	return genesis.GenesisSignature{PubKey: pubKey, Signature: signature}, nil
}

// decodeObject splits a JSON object into its raw fields. The data is assumed
// to be valid JSON already.
func decodeObject(data []byte, path string) (map[string]json.RawMessage, error) {

	if !hasPrefix(data, '{') {
		return nil, fmt.Errorf("value is not an object (path: %s): %w", describe(path), genesis.ErrSchemaMismatch)
	}

	var fields map[string]json.RawMessage
	err := json.Unmarshal(data, &fields)
	if err != nil {
		return nil, fmt.Errorf("could not decode object (path: %s): %w", describe(path), genesis.ErrSchemaMismatch)
	}

	return fields, nil
}

func decodeArray(fields map[string]json.RawMessage, name string, path string) ([]json.RawMessage, error) {

	raw, ok := fields[name]
	if !ok {
		return nil, fmt.Errorf("missing field (path: %s%s): %w", path, name, genesis.ErrSchemaMismatch)
	}
	if !hasPrefix(raw, '[') {
		return nil, fmt.Errorf("field is not a list (path: %s%s): %w", path, name, genesis.ErrSchemaMismatch)
	}

	var elements []json.RawMessage
	err := json.Unmarshal(raw, &elements)
	if err != nil {
		return nil, fmt.Errorf("could not decode list (path: %s%s): %w", path, name, genesis.ErrSchemaMismatch)
	}

	return elements, nil
}

func decodeString(fields map[string]json.RawMessage, name string, path string) (string, error) {

	raw, ok := fields[name]
	if !ok {
		return "", fmt.Errorf("missing field (path: %s%s): %w", path, name, genesis.ErrSchemaMismatch)
	}
	if !hasPrefix(raw, '"') {
		return "", fmt.Errorf("field is not a string (path: %s%s): %w", path, name, genesis.ErrSchemaMismatch)
	}

	if !utf8.Valid(raw) {
		return "", fmt.Errorf("string is not valid UTF-8 (path: %s%s): %w", path, name, genesis.ErrMalformedInput)
	}

	var value string
	err := json.Unmarshal(raw, &value)
	if err != nil {
		return "", fmt.Errorf("could not decode string (path: %s%s): %w", path, name, genesis.ErrSchemaMismatch)
	}

	return value, nil
}

func hasPrefix(data []byte, delim byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == delim
}

func describe(path string) string {
	if path == "" {
		return "root"
	}
	return strings.TrimSuffix(path, ".")
}

// The JSON encoder replaces invalid UTF-8 with U+FFFD, so strings are checked
// before encoding rather than being changed on the way.
func checkBond(bond genesis.Bond, path string) error {
	err := genesis.CheckText(path+fieldSource, bond.Source)
	if err != nil {
		return err
	}
	err = genesis.CheckText(path+fieldValidator, bond.Validator)
	if err != nil {
		return err
	}
	err = genesis.CheckText(path+fieldAmount, bond.Amount)
	if err != nil {
		return err
	}
	return checkSignatures(bond.Signatures, path)
}

func checkSignatures(signatures []genesis.GenesisSignature, path string) error {
	for i, signature := range signatures {
		err := checkSignature(signature, fmt.Sprintf("%s%s[%d].", path, fieldSignatures, i))
		if err != nil {
			return err
		}
	}
	return nil
}

func checkSignature(signature genesis.GenesisSignature, path string) error {
	err := genesis.CheckText(path+fieldPubKey, signature.PubKey)
	if err != nil {
		return err
	}
	return genesis.CheckText(path+fieldSignature, signature.Signature)
}
