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

package zbor

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/optakt/genesis-signatures/models/genesis"
)

// CBOR major types, found in the three high bits of the initial byte.
const (
	majorText  = 3
	majorArray = 4
	majorMap   = 5
)

// RecordCodec encodes signature records as canonical CBOR maps keyed by the
// serialized field names. Like the JSON codec, it requires the known fields
// to be present with the right types and ignores any other entry.
type RecordCodec struct {
	encoder cbor.EncMode
	decoder cbor.DecMode
}

// NewRecordCodec creates a new CBOR record codec.
func NewRecordCodec() (*RecordCodec, error) {

	encoder, err := encOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("could not initialize encoder: %w", err)
	}
	decoder, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("could not initialize decoder: %w", err)
	}

	r := RecordCodec{
		encoder: encoder,
		decoder: decoder,
	}

	return &r, nil
}

func (r *RecordCodec) Encode(record genesis.Record) ([]byte, error) {
	switch v := record.(type) {
	case *genesis.GenesisSignature:
		if v == nil {
			return nil, fmt.Errorf("nil record (%T): %w", record, genesis.ErrSchemaMismatch)
		}
		err := checkSignature(*v)
		if err != nil {
			return nil, err
		}
		return r.encoder.Marshal(v)
	case *genesis.GetTxSignatureResponse:
		if v == nil {
			return nil, fmt.Errorf("nil record (%T): %w", record, genesis.ErrSchemaMismatch)
		}
		for i, signature := range v.Signatures {
			err := checkSignature(signature)
			if err != nil {
				return nil, fmt.Errorf("could not encode signature (index: %d): %w", i, err)
			}
		}
		signatures := v.Signatures
		if signatures == nil {
			signatures = []genesis.GenesisSignature{}
		}
		return r.encoder.Marshal(genesis.GetTxSignatureResponse{Signatures: signatures})
	default:
		return nil, fmt.Errorf("unsupported record type (%T)", record)
	}
}

func (r *RecordCodec) Decode(data []byte, record genesis.Record) error {

	err := cbor.Valid(data)
	if err != nil {
		return classify(err)
	}

	switch v := record.(type) {
	case *genesis.GenesisSignature:
		if v == nil {
			return fmt.Errorf("nil record (%T): %w", record, genesis.ErrSchemaMismatch)
		}
		signature, err := r.decodeSignature(data)
		if err != nil {
			return err
		}
		*v = signature
		return nil

	case *genesis.GetTxSignatureResponse:
		if v == nil {
			return fmt.Errorf("nil record (%T): %w", record, genesis.ErrSchemaMismatch)
		}
		fields, err := r.decodeMap(data)
		if err != nil {
			return err
		}
		elements, err := r.decodeArray(fields, "signatures")
		if err != nil {
			return err
		}
		signatures := make([]genesis.GenesisSignature, 0, len(elements))
		for i, element := range elements {
			signature, err := r.decodeSignature(element)
			if err != nil {
				return fmt.Errorf("could not decode signature (index: %d): %w", i, err)
			}
			signatures = append(signatures, signature)
		}
		v.Signatures = signatures
		return nil

	default:
		return fmt.Errorf("unsupported record type (%T)", record)
	}
}

func (r *RecordCodec) decodeSignature(data []byte) (genesis.GenesisSignature, error) {

	fields, err := r.decodeMap(data)
	if err != nil {
		return genesis.GenesisSignature{}, err
	}
	pubKey, err := r.decodeText(fields, "pub_key")
	if err != nil {
		return genesis.GenesisSignature{}, err
	}
	signature, err := r.decodeText(fields, "signature")
	if err != nil {
		return genesis.GenesisSignature{}, err
	}

	return genesis.GenesisSignature{PubKey: pubKey, Signature: signature}, nil
}

func (r *RecordCodec) decodeMap(data []byte) (map[string]cbor.RawMessage, error) {

	if major(data) != majorMap {
		return nil, fmt.Errorf("value is not a map: %w", genesis.ErrSchemaMismatch)
	}

	var fields map[string]cbor.RawMessage
	err := r.decoder.Unmarshal(data, &fields)
	if err != nil {
		return nil, fmt.Errorf("could not decode map: %w", genesis.ErrSchemaMismatch)
	}

	return fields, nil
}

func (r *RecordCodec) decodeArray(fields map[string]cbor.RawMessage, name string) ([]cbor.RawMessage, error) {

	raw, ok := fields[name]
	if !ok {
		return nil, fmt.Errorf("missing field (%s): %w", name, genesis.ErrSchemaMismatch)
	}
	if major(raw) != majorArray {
		return nil, fmt.Errorf("field is not an array (%s): %w", name, genesis.ErrSchemaMismatch)
	}

	var elements []cbor.RawMessage
	err := r.decoder.Unmarshal(raw, &elements)
	if err != nil {
		return nil, fmt.Errorf("could not decode array (%s): %w", name, genesis.ErrSchemaMismatch)
	}

	return elements, nil
}

func (r *RecordCodec) decodeText(fields map[string]cbor.RawMessage, name string) (string, error) {

	raw, ok := fields[name]
	if !ok {
		return "", fmt.Errorf("missing field (%s): %w", name, genesis.ErrSchemaMismatch)
	}
	if major(raw) != majorText {
		return "", fmt.Errorf("field is not a text string (%s): %w", name, genesis.ErrSchemaMismatch)
	}

	var value string
	err := r.decoder.Unmarshal(raw, &value)
	var semantic *cbor.SemanticError
	if errors.As(err, &semantic) {
		return "", fmt.Errorf("invalid text string (%s): %w", name, genesis.ErrMalformedInput)
	}
	if err != nil {
		return "", fmt.Errorf("could not decode text string (%s): %w", name, genesis.ErrSchemaMismatch)
	}

	return value, nil
}

func major(data []byte) byte {
	if len(data) == 0 {
		return 0xff
	}
	return data[0] >> 5
}

func classify(err error) error {
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("incomplete CBOR data (%s): %w", err.Error(), genesis.ErrTruncatedInput)
	default:
		return fmt.Errorf("invalid CBOR data (%s): %w", err.Error(), genesis.ErrMalformedInput)
	}
}

// CBOR text strings must be valid UTF-8, which the encoder does not check.
func checkSignature(signature genesis.GenesisSignature) error {
	err := genesis.CheckText("pub_key", signature.PubKey)
	if err != nil {
		return err
	}
	return genesis.CheckText("signature", signature.Signature)
}
