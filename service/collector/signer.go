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

package collector

import (
	"context"
	"fmt"
	"os"

	"github.com/optakt/genesis-signatures/models/genesis"
)

// Signer represents a party that contributes one signature to a genesis
// transaction.
type Signer interface {
	Sign(ctx context.Context) (genesis.GenesisSignature, error)
}

// SignerFunc adapts a function to the Signer interface.
type SignerFunc func(ctx context.Context) (genesis.GenesisSignature, error)

func (f SignerFunc) Sign(ctx context.Context) (genesis.GenesisSignature, error) {
	return f(ctx)
}

// FileSigner provides a signature that was encoded into a file by its signer.
type FileSigner struct {
	path  string
	codec genesis.Codec
}

// NewFileSigner creates a signer reading the file at the given path with the
// given codec.
func NewFileSigner(path string, codec genesis.Codec) *FileSigner {
	f := FileSigner{
		path:  path,
		codec: codec,
	}
	return &f
}

func (f *FileSigner) Sign(ctx context.Context) (genesis.GenesisSignature, error) {
	var signature genesis.GenesisSignature
	err := ctx.Err()
	if err != nil {
		return signature, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return signature, fmt.Errorf("could not read signature file: %w", err)
	}
	err = f.codec.Decode(data, &signature)
	if err != nil {
		return signature, fmt.Errorf("could not decode signature file (path: %s): %w", f.path, err)
	}
	return signature, nil
}
