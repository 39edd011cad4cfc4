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

package genesis

// Bond is a signed genesis bond transaction. The source is the public key of
// the delegating account, and the signatures are those returned by the
// signing round for the bond transaction.
type Bond struct {
	Source     string             `json:"source" cbor:"source" validate:"required,utf8"`
	Validator  string             `json:"validator" cbor:"validator" validate:"required,utf8"`
	Amount     string             `json:"amount" cbor:"amount" validate:"required,numeric"`
	Signatures []GenesisSignature `json:"signatures" cbor:"signatures" validate:"required,min=1,dive"`
}

// Bonds is the body used to submit bonds, or to list the bonds of a source.
type Bonds struct {
	Bonds []Bond `json:"bonds" cbor:"bonds" validate:"dive"`
}
