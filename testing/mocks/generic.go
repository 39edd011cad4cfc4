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
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/optakt/genesis-signatures/models/genesis"
)

// Global variables that can be used for testing. They are non-nil valid values
// for the types commonly needed to test the signature components.
var (
	NoopLogger = zerolog.New(io.Discard)

	GenericError = errors.New("dummy error")

	GenericBytes = []byte(`test`)

	GenericTxID = "f0e2b6a1c4d3"

	GenericSource = "tpknam1qpsource"

	GenericValidator = "tnam1qvalidator"
)

// GenericSignature returns a deterministic, valid signature. Public keys sort
// in the same order as the index.
func GenericSignature(index int) genesis.GenesisSignature {
	return genesis.GenesisSignature{
		PubKey:    fmt.Sprintf("tpknam1qp%04d", index),
		Signature: fmt.Sprintf("signam1qs%04d%x", index, 42+index),
	}
}

// GenericResponse returns a valid response with the given number of signatures.
func GenericResponse(count int) *genesis.GetTxSignatureResponse {
	signatures := make([]genesis.GenesisSignature, 0, count)
	for i := 0; i < count; i++ {
		signatures = append(signatures, GenericSignature(i))
	}
	return &genesis.GetTxSignatureResponse{Signatures: signatures}
}

// GenericBond returns a valid bond from the generic source. Its signatures are
// sorted by public key.
func GenericBond(index int) genesis.Bond {
	return genesis.Bond{
		Source:    GenericSource,
		Validator: fmt.Sprintf("%s%d", GenericValidator, index),
		Amount:    fmt.Sprintf("%d.5", 100*(index+1)),
		Signatures: []genesis.GenesisSignature{
			GenericSignature(2 * index),
			GenericSignature(2*index + 1),
		},
	}
}
