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

package metrics

import (
	"fmt"

	"github.com/optakt/genesis-signatures/models/genesis"
)

// StorageCodec decorates the codec of the index so that the size of every
// stored value is counted, before and after compression.
type StorageCodec struct {
	genesis.Storage
	size Size
}

func NewStorageCodec(codec genesis.Storage, size Size) *StorageCodec {
	c := StorageCodec{
		Storage: codec,
		size:    size,
	}
	return &c
}

func (c *StorageCodec) Marshal(value interface{}) ([]byte, error) {
	data, err := c.Encode(value)
	if err != nil {
		return nil, fmt.Errorf("could not encode value: %w", err)
	}
	compressed, err := c.Compress(data)
	if err != nil {
		return nil, fmt.Errorf("could not compress data: %w", err)
	}
	c.size.Bytes(kind(value), len(data), len(compressed))
	return compressed, nil
}

func kind(value interface{}) string {
	switch value.(type) {
	case uint64:
		return "uint64"
	case *genesis.Collection:
		return "collection"
	case []genesis.Bond:
		return "bonds"
	case *genesis.GenesisSignature:
		return "signature"
	case *genesis.GetTxSignatureResponse:
		return "response"
	default:
		return "other"
	}
}
