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

package mocks

import (
	"context"
	"testing"

	"github.com/optakt/genesis-signatures/models/genesis"
)

type Signer struct {
	SignFunc func(ctx context.Context) (genesis.GenesisSignature, error)
}

// BaselineSigner returns a signer that signs with the generic signature of
// the given index.
func BaselineSigner(t *testing.T, index int) *Signer {
	t.Helper()

	s := Signer{
		SignFunc: func(context.Context) (genesis.GenesisSignature, error) {
			return GenericSignature(index), nil
		},
	}

	return &s
}

func (s *Signer) Sign(ctx context.Context) (genesis.GenesisSignature, error) {
	return s.SignFunc(ctx)
}
