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
	"fmt"

	"github.com/optakt/genesis-signatures/models/genesis"
)

// minSignatureSize is the size of a signature with two empty strings, which
// is only made of its two length prefixes.
const minSignatureSize = 2 * prefixSize

// Codec encodes signature records with the borsh binary layout: strings are
// a 32-bit little-endian byte length followed by the UTF-8 bytes, sequences
// are a 32-bit little-endian count followed by the elements in order.
type Codec struct{}

// NewCodec creates a new borsh codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Encode returns the binary encoding of the record. Equal records always
// produce identical bytes.
func (c *Codec) Encode(record genesis.Record) ([]byte, error) {
	switch r := record.(type) {
	case *genesis.GenesisSignature:
		if r == nil {
			return nil, fmt.Errorf("nil record (%T): %w", record, genesis.ErrSchemaMismatch)
		}
		w := NewWriter(signatureSize(*r))
		err := writeSignature(w, *r)
		if err != nil {
			return nil, err
		}
		return w.Bytes(), nil

	case *genesis.GetTxSignatureResponse:
		if r == nil {
			return nil, fmt.Errorf("nil record (%T): %w", record, genesis.ErrSchemaMismatch)
		}
		size := prefixSize
		for _, signature := range r.Signatures {
			size += signatureSize(signature)
		}
		w := NewWriter(size)
		err := w.WriteCount(len(r.Signatures))
		if err != nil {
			return nil, err
		}
		for i, signature := range r.Signatures {
			err = writeSignature(w, signature)
			if err != nil {
				return nil, fmt.Errorf("could not write signature (index: %d): %w", i, err)
			}
		}
		return w.Bytes(), nil

	default:
		return nil, fmt.Errorf("unsupported record type (%T)", record)
	}
}

// Decode reads the record from its binary encoding. The data must hold
// exactly one record.
func (c *Codec) Decode(data []byte, record genesis.Record) error {

	r := NewReader(data)
	switch v := record.(type) {
	case *genesis.GenesisSignature:
		if v == nil {
			return fmt.Errorf("nil record (%T): %w", record, genesis.ErrSchemaMismatch)
		}
		signature, err := readSignature(r)
		if err != nil {
			return err
		}
		err = r.Finish()
		if err != nil {
			return err
		}
		*v = signature
		return nil

	case *genesis.GetTxSignatureResponse:
		if v == nil {
			return fmt.Errorf("nil record (%T): %w", record, genesis.ErrSchemaMismatch)
		}
		count, err := r.ReadCount(minSignatureSize)
		if err != nil {
			return fmt.Errorf("could not read signature count: %w", err)
		}
		signatures := make([]genesis.GenesisSignature, 0, count)
		for i := 0; i < count; i++ {
			signature, err := readSignature(r)
			if err != nil {
				return fmt.Errorf("could not read signature (index: %d): %w", i, err)
			}
			signatures = append(signatures, signature)
		}
		err = r.Finish()
		if err != nil {
			return err
		}
		v.Signatures = signatures
		return nil

	default:
		return fmt.Errorf("unsupported record type (%T)", record)
	}
}

func signatureSize(signature genesis.GenesisSignature) int {
	return minSignatureSize + len(signature.PubKey) + len(signature.Signature)
}

func writeSignature(w *Writer, signature genesis.GenesisSignature) error {
	err := w.WriteString(signature.PubKey)
	if err != nil {
		return fmt.Errorf("could not write public key: %w", err)
	}
	err = w.WriteString(signature.Signature)
	if err != nil {
		return fmt.Errorf("could not write signature: %w", err)
	}

	return nil
}

func readSignature(r *Reader) (genesis.GenesisSignature, error) {
	pubKey, err := r.ReadString()
	if err != nil {
		return genesis.GenesisSignature{}, fmt.Errorf("could not read public key: %w", err)
	}
	signature, err := r.ReadString()
	if err != nil {
		return genesis.GenesisSignature{}, fmt.Errorf("could not read signature: %w", err)
	}

	return genesis.GenesisSignature{PubKey: pubKey, Signature: signature}, nil
}
