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

package index

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/optakt/genesis-signatures/models/genesis"
	"github.com/optakt/genesis-signatures/service/storage"
)

// Reader reads collected signatures and submitted bonds from the index.
type Reader struct {
	db    *badger.DB
	lib   *storage.Library
	cache *Cache
}

// NewReader creates a reader on top of the given database. The cache may be
// nil.
func NewReader(db *badger.DB, lib *storage.Library, cache *Cache) *Reader {

	r := Reader{
		db:    db,
		lib:   lib,
		cache: cache,
	}

	return &r
}

// Collection returns the signatures collected for a transaction.
func (r *Reader) Collection(txID string) (*genesis.Collection, error) {
	var collection genesis.Collection
	err := r.db.View(r.lib.RetrieveCollection(txID, &collection))
	if err != nil {
		return nil, notFound(err)
	}
	return &collection, nil
}

// Signatures returns the signatures collected for a transaction as a response.
func (r *Reader) Signatures(txID string) (*genesis.GetTxSignatureResponse, error) {
	collection, err := r.Collection(txID)
	if err != nil {
		return nil, err
	}
	return collection.Response(), nil
}

// Bonds returns the bonds submitted for a source. The key can also be the
// public key of one of the signers of those bonds.
func (r *Reader) Bonds(key string) ([]genesis.Bond, error) {

	cached, ok := r.cache.get(key)
	if ok {
		return clone(cached), nil
	}

	var bonds []genesis.Bond
	err := r.db.View(storage.Fallback(
		r.lib.RetrieveBonds(key, &bonds),
		func(tx *badger.Txn) error {
			var source string
			err := r.lib.RetrieveSourceForSigner(key, &source)(tx)
			if err != nil {
				return err
			}
			return r.lib.RetrieveBonds(source, &bonds)(tx)
		},
	))
	if err != nil {
		return nil, notFound(err)
	}

	// Only entries keyed by source are invalidated on submission.
	if len(bonds) > 0 && bonds[0].Source == key {
		r.cache.set(key, bonds)
	}

	return clone(bonds), nil
}

// SourceForSigner returns the source of the bonds that carry a signature from
// the given public key.
func (r *Reader) SourceForSigner(pubKey string) (string, error) {
	var source string
	err := r.db.View(r.lib.RetrieveSourceForSigner(pubKey, &source))
	if err != nil {
		return "", notFound(err)
	}
	return source, nil
}

// BondCount returns the number of bonds stored in the index.
func (r *Reader) BondCount() (uint64, error) {
	var count uint64
	err := r.db.View(r.lib.RetrieveBondCount(&count))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

func notFound(err error) error {
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%s: %w", err.Error(), genesis.ErrNotFound)
	}
	return err
}

func clone(bonds []genesis.Bond) []genesis.Bond {
	cloned := make([]genesis.Bond, len(bonds))
	for i, bond := range bonds {
		cloned[i] = bond
		if bond.Signatures != nil {
			cloned[i].Signatures = make([]genesis.GenesisSignature, len(bond.Signatures))
			copy(cloned[i].Signatures, bond.Signatures)
		}
	}
	return cloned
}
