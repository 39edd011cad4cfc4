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

package rest

import (
	"github.com/optakt/genesis-signatures/models/genesis"
)

// Reader represents something that can read stored signatures and bonds.
type Reader interface {
	Signatures(txID string) (*genesis.GetTxSignatureResponse, error)
	Bonds(source string) ([]genesis.Bond, error)
}

// Writer represents something that can store signatures and bonds.
type Writer interface {
	AppendSignatures(txID string, signatures ...genesis.GenesisSignature) (*genesis.Collection, error)
	SubmitBonds(bonds []genesis.Bond) error
}

// Codecs represents something that provides the codec of each format.
type Codecs interface {
	For(format genesis.Format) (genesis.Codec, error)
}
