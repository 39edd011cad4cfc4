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
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/genesis-signatures/codec"
	"github.com/optakt/genesis-signatures/models/genesis"
	"github.com/optakt/genesis-signatures/testing/mocks"
)

func testConverter(t *testing.T, hex bool) converter {
	t.Helper()

	codecs, err := codec.NewSet()
	require.NoError(t, err)

	return converter{codecs: codecs, hex: hex}
}

func TestConverter_Convert(t *testing.T) {
	const (
		signatureJSON = `{"pub_key":"pk","signature":"sig"}`
		bondsJSON     = `{"bonds":[{"source":"src","validator":"val","amount":"10","signatures":[{"pub_key":"pk","signature":"sig"}]}]}`
	)
	signatureBorsh := []byte{2, 0, 0, 0, 'p', 'k', 3, 0, 0, 0, 's', 'i', 'g'}

	tests := []struct {
		desc string

		hex   bool
		input []byte
		kind  string
		from  string
		to    string

		want    []byte
		wantErr error
	}{
		{
			desc:  "signature from json to borsh",
			input: []byte(signatureJSON),
			kind:  "signature",
			from:  "json",
			to:    "borsh",

			want: signatureBorsh,
		},
		{
			desc:  "signature from hex borsh to json",
			hex:   true,
			input: []byte(hex.EncodeToString(signatureBorsh) + "\n"),
			kind:  "signature",
			from:  "binary",
			to:    "structured",

			want: []byte(signatureJSON),
		},
		{
			desc:  "signature to hex borsh",
			hex:   true,
			input: []byte(signatureJSON),
			kind:  "signature",
			from:  "json",
			to:    "borsh",

			want: []byte(hex.EncodeToString(signatureBorsh)),
		},
		{
			desc:  "invalid hexadecimal input",
			hex:   true,
			input: []byte("zz"),
			kind:  "signature",
			from:  "borsh",
			to:    "json",

			wantErr: genesis.ErrMalformedInput,
		},
		{
			desc:  "empty field",
			input: []byte(`{"pub_key":"","signature":"sig"}`),
			kind:  "signature",
			from:  "json",
			to:    "cbor",

			wantErr: genesis.ErrEmptyField,
		},
		{
			desc:  "responses cannot be rendered as toml",
			input: []byte(`{"signatures":[]}`),
			kind:  "response",
			from:  "json",
			to:    "toml",

			wantErr: genesis.ErrUnknownFormat,
		},
		{
			desc:  "bonds from json to toml and back",
			input: []byte(bondsJSON),
			kind:  "bonds",
			from:  "json",
			to:    "toml",
		},
		{
			desc:  "bonds from binary",
			input: []byte(bondsJSON),
			kind:  "bonds",
			from:  "borsh",
			to:    "json",

			wantErr: genesis.ErrUnknownFormat,
		},
		{
			desc:  "unknown kind",
			input: []byte(`{}`),
			kind:  "bond",
			from:  "json",
			to:    "json",

			wantErr: errors.New("unknown record kind (bond)"),
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.desc, func(t *testing.T) {
			t.Parallel()

			conv := testConverter(t, test.hex)

			got, err := conv.Convert(test.input, test.kind, test.from, test.to)

			if test.wantErr != nil {
				require.Error(t, err)
				if errors.Is(test.wantErr, genesis.ErrMalformedInput) ||
					errors.Is(test.wantErr, genesis.ErrEmptyField) ||
					errors.Is(test.wantErr, genesis.ErrUnknownFormat) {
					assert.ErrorIs(t, err, test.wantErr)
				} else {
					assert.EqualError(t, err, test.wantErr.Error())
				}
				return
			}
			require.NoError(t, err)
			if test.want != nil {
				assert.Equal(t, test.want, got)
			}
			if test.kind == "bonds" && test.to == "toml" {
				back, err := conv.Convert(got, "bonds", "toml", "json")
				require.NoError(t, err)
				assert.JSONEq(t, string(test.input), string(back))
			}
		})
	}
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	conv := testConverter(t, false)

	paths := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		data, err := structuredSignature(mocks.GenericSignature(i % 2))
		require.NoError(t, err)
		path := filepath.Join(dir, filepath.Base(mocks.GenericSignature(i).PubKey)+".json")
		require.NoError(t, os.WriteFile(path, data, 0o600))
		paths = append(paths, path)
	}

	t.Run("keeps argument order", func(t *testing.T) {
		out, err := collect(mocks.NoopLogger, conv, paths, "json", "json", false)

		require.NoError(t, err)
		assert.JSONEq(t, `{"signatures":[
			{"pub_key":"tpknam1qp0000","signature":"signam1qs00002a"},
			{"pub_key":"tpknam1qp0001","signature":"signam1qs00012b"},
			{"pub_key":"tpknam1qp0000","signature":"signam1qs00002a"}
		]}`, string(out))
	})

	t.Run("deduplicates signers", func(t *testing.T) {
		out, err := collect(mocks.NoopLogger, conv, paths, "json", "json", true)

		require.NoError(t, err)
		assert.JSONEq(t, `{"signatures":[
			{"pub_key":"tpknam1qp0000","signature":"signam1qs00002a"},
			{"pub_key":"tpknam1qp0001","signature":"signam1qs00012b"}
		]}`, string(out))
	})

	t.Run("fails on missing file", func(t *testing.T) {
		_, err := collect(mocks.NoopLogger, conv, append(paths, filepath.Join(dir, "missing.json")), "json", "json", false)

		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func structuredSignature(signature genesis.GenesisSignature) ([]byte, error) {
	set, err := codec.NewSet()
	if err != nil {
		return nil, err
	}
	c, err := set.For(genesis.FormatJSON)
	if err != nil {
		return nil, err
	}
	return c.Encode(&signature)
}
