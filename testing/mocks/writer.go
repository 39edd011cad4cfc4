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

type Writer struct {
	AppendSignaturesFunc func(txID string, signatures ...genesis.GenesisSignature) (*genesis.Collection, error)
	SubmitBondsFunc      func(bonds []genesis.Bond) error
}

// BaselineWriter returns a writer that accepts everything, and reports the
// appended signatures as the whole collection.
func BaselineWriter(t *testing.T) *Writer {
	t.Helper()

	w := Writer{
		AppendSignaturesFunc: func(txID string, signatures ...genesis.GenesisSignature) (*genesis.Collection, error) {
			return &genesis.Collection{TxID: txID, Signatures: signatures}, nil
		},
		SubmitBondsFunc: func([]genesis.Bond) error {
			return nil
		},
	}

	return &w
}

func (w *Writer) AppendSignatures(txID string, signatures ...genesis.GenesisSignature) (*genesis.Collection, error) {
	return w.AppendSignaturesFunc(txID, signatures...)
}

func (w *Writer) SubmitBonds(bonds []genesis.Bond) error {
	return w.SubmitBondsFunc(bonds)
}
