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
	"testing"

	"github.com/optakt/genesis-signatures/models/genesis"
)

type Reader struct {
	SignaturesFunc func(txID string) (*genesis.GetTxSignatureResponse, error)
	BondsFunc      func(source string) ([]genesis.Bond, error)
}

func BaselineReader(t *testing.T) *Reader {
	t.Helper()

	r := Reader{
		SignaturesFunc: func(string) (*genesis.GetTxSignatureResponse, error) {
			return GenericResponse(2), nil
		},
		BondsFunc: func(string) ([]genesis.Bond, error) {
			return []genesis.Bond{GenericBond(0)}, nil
		},
	}

	return &r
}

func (r *Reader) Signatures(txID string) (*genesis.GetTxSignatureResponse, error) {
	return r.SignaturesFunc(txID)
}

func (r *Reader) Bonds(source string) ([]genesis.Bond, error) {
	return r.BondsFunc(source)
}
