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

package structured_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/genesis-signatures/codec/structured"
	"github.com/optakt/genesis-signatures/models/genesis"
	"github.com/optakt/genesis-signatures/testing/mocks"
)

func TestCodec_Encode(t *testing.T) {
	codec := structured.NewCodec()

	t.Run("signature keeps field order", func(t *testing.T) {
		t.Parallel()

		got, err := codec.Encode(&genesis.GenesisSignature{PubKey: "pk", Signature: "sig"})

		require.NoError(t, err)
		assert.Equal(t, `{"pub_key":"pk","signature":"sig"}`, string(got))
	})

	t.Run("response keeps signature order", func(t *testing.T) {
		t.Parallel()

		got, err := codec.Encode(&genesis.GetTxSignatureResponse{Signatures: []genesis.GenesisSignature{
			{PubKey: "b", Signature: "2"},
			{PubKey: "a", Signature: "1"},
		}})

		require.NoError(t, err)
		assert.Equal(t, `{"signatures":[{"pub_key":"b","signature":"2"},{"pub_key":"a","signature":"1"}]}`, string(got))
	})

	t.Run("nil signatures encode as empty list", func(t *testing.T) {
		t.Parallel()

		got, err := codec.Encode(&genesis.GetTxSignatureResponse{})

		require.NoError(t, err)
		assert.Equal(t, `{"signatures":[]}`, string(got))
	})

	t.Run("deterministic output", func(t *testing.T) {
		t.Parallel()

		first, err := codec.Encode(mocks.GenericResponse(3))
		require.NoError(t, err)
		second, err := codec.Encode(mocks.GenericResponse(3))
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := structured.NewCodec()

	t.Run("signature", func(t *testing.T) {
		t.Parallel()

		want := mocks.GenericSignature(0)
		data, err := codec.Encode(&want)
		require.NoError(t, err)

		var got genesis.GenesisSignature
		err = codec.Decode(data, &got)

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("response", func(t *testing.T) {
		t.Parallel()

		want := mocks.GenericResponse(4)
		data, err := codec.Encode(want)
		require.NoError(t, err)

		var got genesis.GetTxSignatureResponse
		err = codec.Decode(data, &got)

		require.NoError(t, err)
		assert.Equal(t, want, &got)
	})

	t.Run("empty response", func(t *testing.T) {
		t.Parallel()

		data, err := codec.Encode(&genesis.GetTxSignatureResponse{})
		require.NoError(t, err)

		var got genesis.GetTxSignatureResponse
		err = codec.Decode(data, &got)

		require.NoError(t, err)
		assert.NotNil(t, got.Signatures)
		assert.Empty(t, got.Signatures)
	})

	t.Run("escaped characters", func(t *testing.T) {
		t.Parallel()

		want := genesis.GenesisSignature{PubKey: "<pk&\"quoted\">", Signature: "línea\nnueva"}
		data, err := codec.Encode(&want)
		require.NoError(t, err)

		var got genesis.GenesisSignature
		err = codec.Decode(data, &got)

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestCodec_EncodeInvalid(t *testing.T) {
	codec := structured.NewCodec()

	invalid := mocks.GenericResponse(2)
	invalid.Signatures[1].PubKey = "pk\xff"

	tests := map[string]struct {
		record  genesis.Record
		wantErr error
	}{
		"invalid UTF-8 public key": {
			record:  &genesis.GenesisSignature{PubKey: "pk\xff", Signature: "sig"},
			wantErr: genesis.ErrMalformedInput,
		},
		"invalid UTF-8 in response": {
			record:  invalid,
			wantErr: genesis.ErrMalformedInput,
		},
		"nil signature": {
			record:  (*genesis.GenesisSignature)(nil),
			wantErr: genesis.ErrSchemaMismatch,
		},
		"nil response": {
			record:  (*genesis.GetTxSignatureResponse)(nil),
			wantErr: genesis.ErrSchemaMismatch,
		},
	}

	for desc, test := range tests {
		test := test
		t.Run(desc, func(t *testing.T) {
			t.Parallel()

			_, err := codec.Encode(test.record)

			require.Error(t, err)
			assert.True(t, errors.Is(err, test.wantErr), "unexpected error: %v", err)
		})
	}
}

func TestCodec_Decode(t *testing.T) {
	codec := structured.NewCodec()

	tests := map[string]struct {
		data    string
		record  func() genesis.Record
		want    genesis.Record
		wantErr error
	}{
		"unknown fields are ignored": {
			data:   `{"pub_key":"pk","extra":{"nested":[1,2]},"signature":"sig"}`,
			record: func() genesis.Record { return &genesis.GenesisSignature{} },
			want:   &genesis.GenesisSignature{PubKey: "pk", Signature: "sig"},
		},
		"unknown fields in nested signatures are ignored": {
			data:   `{"version":2,"signatures":[{"pub_key":"a","signature":"1","index":0}]}`,
			record: func() genesis.Record { return &genesis.GetTxSignatureResponse{} },
			want:   &genesis.GetTxSignatureResponse{Signatures: []genesis.GenesisSignature{{PubKey: "a", Signature: "1"}}},
		},
		"surrounding whitespace": {
			data:   " \n{\"pub_key\" : \"pk\", \"signature\" : \"sig\"}\n",
			record: func() genesis.Record { return &genesis.GenesisSignature{} },
			want:   &genesis.GenesisSignature{PubKey: "pk", Signature: "sig"},
		},
		"empty strings decode and are left to validation": {
			data:   `{"pub_key":"","signature":""}`,
			record: func() genesis.Record { return &genesis.GenesisSignature{} },
			want:   &genesis.GenesisSignature{},
		},
		"invalid syntax": {
			data:    `{"pub_key":"pk",`,
			record:  func() genesis.Record { return &genesis.GenesisSignature{} },
			wantErr: genesis.ErrMalformedInput,
		},
		"empty document": {
			data:    ``,
			record:  func() genesis.Record { return &genesis.GenesisSignature{} },
			wantErr: genesis.ErrMalformedInput,
		},
		"missing public key": {
			data:    `{"signature":"sig"}`,
			record:  func() genesis.Record { return &genesis.GenesisSignature{} },
			wantErr: genesis.ErrSchemaMismatch,
		},
		"public key is not a string": {
			data:    `{"pub_key":42,"signature":"sig"}`,
			record:  func() genesis.Record { return &genesis.GenesisSignature{} },
			wantErr: genesis.ErrSchemaMismatch,
		},
		"signature is null": {
			data:    `{"pub_key":"pk","signature":null}`,
			record:  func() genesis.Record { return &genesis.GenesisSignature{} },
			wantErr: genesis.ErrSchemaMismatch,
		},
		"document is not an object": {
			data:    `["pk","sig"]`,
			record:  func() genesis.Record { return &genesis.GenesisSignature{} },
			wantErr: genesis.ErrSchemaMismatch,
		},
		"missing signatures": {
			data:    `{}`,
			record:  func() genesis.Record { return &genesis.GetTxSignatureResponse{} },
			wantErr: genesis.ErrSchemaMismatch,
		},
		"signatures is not a list": {
			data:    `{"signatures":{"pub_key":"a","signature":"1"}}`,
			record:  func() genesis.Record { return &genesis.GetTxSignatureResponse{} },
			wantErr: genesis.ErrSchemaMismatch,
		},
		"signatures is null": {
			data:    `{"signatures":null}`,
			record:  func() genesis.Record { return &genesis.GetTxSignatureResponse{} },
			wantErr: genesis.ErrSchemaMismatch,
		},
		"list element is not an object": {
			data:    `{"signatures":["a"]}`,
			record:  func() genesis.Record { return &genesis.GetTxSignatureResponse{} },
			wantErr: genesis.ErrSchemaMismatch,
		},
		"list element misses a field": {
			data:    `{"signatures":[{"pub_key":"a","signature":"1"},{"pub_key":"b"}]}`,
			record:  func() genesis.Record { return &genesis.GetTxSignatureResponse{} },
			wantErr: genesis.ErrSchemaMismatch,
		},
		"public key is not valid UTF-8": {
			data:    "{\"pub_key\":\"pk\xff\",\"signature\":\"sig\"}",
			record:  func() genesis.Record { return &genesis.GenesisSignature{} },
			wantErr: genesis.ErrMalformedInput,
		},
		"nil signature": {
			data:    `{"pub_key":"pk","signature":"sig"}`,
			record:  func() genesis.Record { return (*genesis.GenesisSignature)(nil) },
			wantErr: genesis.ErrSchemaMismatch,
		},
		"nil response": {
			data:    `{"signatures":[]}`,
			record:  func() genesis.Record { return (*genesis.GetTxSignatureResponse)(nil) },
			wantErr: genesis.ErrSchemaMismatch,
		},
	}

	for desc, test := range tests {
		test := test
		t.Run(desc, func(t *testing.T) {
			t.Parallel()

			got := test.record()
			err := codec.Decode([]byte(test.data), got)

			if test.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, test.wantErr), "unexpected error: %v", err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestCodec_Bonds(t *testing.T) {
	codec := structured.NewCodec()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		want := []genesis.Bond{mocks.GenericBond(0), mocks.GenericBond(1)}
		data, err := codec.EncodeBonds(want)
		require.NoError(t, err)

		got, err := codec.DecodeBonds(data)

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("bond with invalid UTF-8 validator", func(t *testing.T) {
		t.Parallel()

		bond := mocks.GenericBond(0)
		bond.Validator = "tnam1\xfe"
		_, err := codec.EncodeBonds([]genesis.Bond{bond})

		assert.True(t, errors.Is(err, genesis.ErrMalformedInput), "unexpected error: %v", err)
	})

	t.Run("bond without amount", func(t *testing.T) {
		t.Parallel()

		data := `{"bonds":[{"source":"s","validator":"v","signatures":[]}]}`

		_, err := codec.DecodeBonds([]byte(data))

		require.Error(t, err)
		assert.True(t, errors.Is(err, genesis.ErrSchemaMismatch))
		assert.Contains(t, err.Error(), "bonds[0].amount")
	})

	t.Run("invalid syntax", func(t *testing.T) {
		t.Parallel()

		_, err := codec.DecodeBonds([]byte(`{"bonds":[`))

		assert.True(t, errors.Is(err, genesis.ErrMalformedInput))
	})
}
