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

package genesis_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/genesis-signatures/models/genesis"
)

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		record    genesis.Record
		wantField string
		wantNS    string
	}{
		"valid signature": {
			record: &genesis.GenesisSignature{PubKey: "tpknam1", Signature: "sig"},
		},
		"empty public key": {
			record:    &genesis.GenesisSignature{PubKey: "", Signature: "x"},
			wantField: "pub_key",
			wantNS:    "pub_key",
		},
		"empty signature": {
			record:    &genesis.GenesisSignature{PubKey: "tpknam1", Signature: ""},
			wantField: "signature",
			wantNS:    "signature",
		},
		"empty response": {
			record: &genesis.GetTxSignatureResponse{},
		},
		"valid response with duplicates": {
			record: &genesis.GetTxSignatureResponse{Signatures: []genesis.GenesisSignature{
				{PubKey: "a", Signature: "1"},
				{PubKey: "a", Signature: "1"},
			}},
		},
		"response with empty nested signature": {
			record: &genesis.GetTxSignatureResponse{Signatures: []genesis.GenesisSignature{
				{PubKey: "a", Signature: "1"},
				{PubKey: "b", Signature: ""},
			}},
			wantField: "signature",
			wantNS:    "signatures[1].signature",
		},
	}

	for desc, test := range tests {
		test := test
		t.Run(desc, func(t *testing.T) {
			t.Parallel()

			err := genesis.Validate(test.record)

			if test.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, genesis.ErrEmptyField))

			var empty genesis.EmptyFieldError
			require.True(t, errors.As(err, &empty))
			assert.Equal(t, test.wantField, empty.Field)
			assert.Equal(t, test.wantNS, empty.Namespace)
		})
	}
}

func TestValidate_MultipleViolations(t *testing.T) {
	record := &genesis.GetTxSignatureResponse{Signatures: []genesis.GenesisSignature{
		{PubKey: "", Signature: "1"},
		{PubKey: "b", Signature: ""},
	}}

	err := genesis.Validate(record)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "signatures[0].pub_key")
	assert.Contains(t, err.Error(), "signatures[1].signature")

	var empty genesis.EmptyFieldError
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, "pub_key", empty.Field)
}

func TestValidate_InvalidText(t *testing.T) {
	tests := map[string]struct {
		record genesis.Record
		wantNS string
	}{
		"public key": {
			record: &genesis.GenesisSignature{PubKey: "pk\xff", Signature: "sig"},
			wantNS: "pub_key",
		},
		"nested signature": {
			record: &genesis.GetTxSignatureResponse{Signatures: []genesis.GenesisSignature{
				{PubKey: "a", Signature: "1"},
				{PubKey: "b", Signature: "\xc3\x28"},
			}},
			wantNS: "signatures[1].signature",
		},
	}

	for desc, test := range tests {
		test := test
		t.Run(desc, func(t *testing.T) {
			t.Parallel()

			err := genesis.Validate(test.record)

			require.Error(t, err)
			assert.True(t, errors.Is(err, genesis.ErrInvalidField))

			var invalid genesis.InvalidFieldError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, "utf8", invalid.Rule)
			assert.Equal(t, test.wantNS, invalid.Namespace)
		})
	}
}

func TestCheckText(t *testing.T) {
	assert.NoError(t, genesis.CheckText("pub_key", "tpknam1ü"))

	err := genesis.CheckText("pub_key", "pk\xff")
	assert.True(t, errors.Is(err, genesis.ErrMalformedInput))
}

func TestValidate_NilRecord(t *testing.T) {
	var record *genesis.GenesisSignature

	err := genesis.Validate(record)

	assert.True(t, errors.Is(err, genesis.ErrSchemaMismatch))
}

func TestValidateBond(t *testing.T) {
	valid := func() genesis.Bond {
		return genesis.Bond{
			Source:    "tpknam1source",
			Validator: "tnam1validator",
			Amount:    "1000.5",
			Signatures: []genesis.GenesisSignature{
				{PubKey: "tpknam1source", Signature: "sig"},
			},
		}
	}

	tests := map[string]struct {
		mutate    func(*genesis.Bond)
		wantErr   error
		wantField string
	}{
		"nominal case": {
			mutate: func(*genesis.Bond) {},
		},
		"missing source": {
			mutate:    func(b *genesis.Bond) { b.Source = "" },
			wantErr:   genesis.ErrEmptyField,
			wantField: "source",
		},
		"missing validator": {
			mutate:    func(b *genesis.Bond) { b.Validator = "" },
			wantErr:   genesis.ErrEmptyField,
			wantField: "validator",
		},
		"missing signatures": {
			mutate:    func(b *genesis.Bond) { b.Signatures = nil },
			wantErr:   genesis.ErrEmptyField,
			wantField: "signatures",
		},
		"empty signatures": {
			mutate:    func(b *genesis.Bond) { b.Signatures = []genesis.GenesisSignature{} },
			wantErr:   genesis.ErrEmptyField,
			wantField: "signatures",
		},
		"non-numeric amount": {
			mutate:    func(b *genesis.Bond) { b.Amount = "ten" },
			wantErr:   genesis.ErrInvalidField,
			wantField: "amount",
		},
		"zero amount": {
			mutate:    func(b *genesis.Bond) { b.Amount = "0" },
			wantErr:   genesis.ErrInvalidField,
			wantField: "amount",
		},
		"negative amount": {
			mutate:    func(b *genesis.Bond) { b.Amount = "-5" },
			wantErr:   genesis.ErrInvalidField,
			wantField: "amount",
		},
	}

	for desc, test := range tests {
		test := test
		t.Run(desc, func(t *testing.T) {
			t.Parallel()

			bond := valid()
			test.mutate(&bond)

			err := genesis.ValidateBond(&bond)

			if test.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, test.wantErr))
			assert.Contains(t, err.Error(), test.wantField)
		})
	}
}

func TestDeduplicate(t *testing.T) {
	signatures := []genesis.GenesisSignature{
		{PubKey: "b", Signature: "1"},
		{PubKey: "a", Signature: "2"},
		{PubKey: "b", Signature: "3"},
	}

	got := genesis.Deduplicate(signatures)

	want := []genesis.GenesisSignature{
		{PubKey: "b", Signature: "1"},
		{PubKey: "a", Signature: "2"},
	}
	assert.Equal(t, want, got)
}
