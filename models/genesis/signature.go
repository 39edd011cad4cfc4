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

// Record is implemented by the record types that the format codecs know how
// to encode and decode.
type Record interface {
	record()
}

// GenesisSignature asserts that the holder of the public key produced the
// signature over a genesis transaction. The signed payload is not part of
// the record; verifying the signature requires it to be supplied separately.
type GenesisSignature struct {
	PubKey    string `json:"pub_key" cbor:"pub_key" validate:"required,utf8"`
	Signature string `json:"signature" cbor:"signature" validate:"required,utf8"`
}

// GetTxSignatureResponse is the result of a signature collection round. The
// order of the signatures is the order in which they were assembled, and it
// is preserved by every encoding.
type GetTxSignatureResponse struct {
	Signatures []GenesisSignature `json:"signatures" cbor:"signatures" validate:"dive"`
}

func (*GenesisSignature) record()       {}
func (*GetTxSignatureResponse) record() {}

// Deduplicate returns the signatures with only the first occurrence of each
// public key kept. The relative order of the kept signatures is unchanged.
func Deduplicate(signatures []GenesisSignature) []GenesisSignature {
	seen := make(map[string]struct{}, len(signatures))
	deduped := make([]GenesisSignature, 0, len(signatures))
	for _, signature := range signatures {
		_, ok := seen[signature.PubKey]
		if ok {
			continue
		}
		seen[signature.PubKey] = struct{}{}
		deduped = append(deduped, signature)
	}

	return deduped
}

// Collection is the set of signatures gathered so far for one transaction,
// identified by an opaque transaction identifier such as its hash.
type Collection struct {
	TxID       string             `json:"tx_id" cbor:"tx_id" validate:"required,utf8"`
	Signatures []GenesisSignature `json:"signatures" cbor:"signatures" validate:"dive"`
}

// Response returns the collected signatures as a signature response.
func (c *Collection) Response() *GetTxSignatureResponse {
	signatures := make([]GenesisSignature, len(c.Signatures))
	copy(signatures, c.Signatures)
	return &GetTxSignatureResponse{Signatures: signatures}
}
