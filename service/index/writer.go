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

// Writer stores collected signatures and submitted bonds in the index.
type Writer struct {
	db    *badger.DB
	lib   *storage.Library
	cache *Cache
	cfg   Config
}

// NewWriter creates a writer on top of the given database. The cache, which
// may be nil, is the one used by the readers of the same database.
func NewWriter(db *badger.DB, lib *storage.Library, cache *Cache, options ...func(*Config)) *Writer {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	w := Writer{
		db:    db,
		lib:   lib,
		cache: cache,
		cfg:   cfg,
	}

	return &w
}

// AppendSignatures validates the signatures and appends them, in the given
// order, to those already collected for the transaction. It returns the
// collection as stored after the append.
func (w *Writer) AppendSignatures(txID string, signatures ...genesis.GenesisSignature) (*genesis.Collection, error) {

	if txID == "" {
		return nil, genesis.EmptyFieldError{Field: "tx_id", Namespace: "tx_id"}
	}
	for i := range signatures {
		err := genesis.Validate(&signatures[i])
		if err != nil {
			return nil, fmt.Errorf("invalid signature (index: %d): %w", i, err)
		}
	}

	var collection genesis.Collection
	err := w.update(func(tx *badger.Txn) error {
		collection = genesis.Collection{}
		err := w.lib.RetrieveCollection(txID, &collection)(tx)
		if errors.Is(err, badger.ErrKeyNotFound) {
			collection = genesis.Collection{TxID: txID}
			err = nil
		}
		if err != nil {
			return fmt.Errorf("could not retrieve collection: %w", err)
		}

		collection.Signatures = append(collection.Signatures, signatures...)

		err = w.lib.SaveCollection(&collection)(tx)
		if err != nil {
			return fmt.Errorf("could not save collection: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not append signatures (tx: %s): %w", txID, err)
	}

	return &collection, nil
}

// SubmitBonds validates the bonds and stores them grouped by source. A
// submission replaces the bonds previously stored for each of its sources,
// indexes every signer of the bonds, and removes from the index the signers
// of the replaced bonds that no longer sign for the source.
func (w *Writer) SubmitBonds(bonds []genesis.Bond) error {

	err := genesis.ValidateBonds(&genesis.Bonds{Bonds: bonds})
	if err != nil {
		return fmt.Errorf("invalid bonds: %w", err)
	}

	sources := make([]string, 0, len(bonds))
	grouped := make(map[string][]genesis.Bond)
	for _, bond := range bonds {
		_, ok := grouped[bond.Source]
		if !ok {
			sources = append(sources, bond.Source)
		}
		grouped[bond.Source] = append(grouped[bond.Source], bond)
	}

	err = w.update(func(tx *badger.Txn) error {

		var count uint64
		err := w.lib.RetrieveBondCount(&count)(tx)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("could not retrieve bond count: %w", err)
		}

		for _, source := range sources {
			var previous []genesis.Bond
			err := w.lib.RetrieveBonds(source, &previous)(tx)
			if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("could not retrieve previous bonds (source: %s): %w", source, err)
			}
			count -= uint64(len(previous))

			ops := []func(*badger.Txn) error{w.lib.SaveBonds(source, grouped[source])}
			signers := make(map[string]struct{})
			for _, bond := range grouped[source] {
				for _, signature := range bond.Signatures {
					signers[signature.PubKey] = struct{}{}
					ops = append(ops, w.lib.IndexSourceForSigner(signature.PubKey, source))
				}
			}
			for _, bond := range previous {
				for _, signature := range bond.Signatures {
					_, ok := signers[signature.PubKey]
					if ok {
						continue
					}
					ops = append(ops, w.lib.DeleteSourceForSigner(signature.PubKey, source))
				}
			}
			err = storage.Combine(ops...)(tx)
			if err != nil {
				return fmt.Errorf("could not save bonds (source: %s): %w", source, err)
			}
			count += uint64(len(grouped[source]))
		}

		err = w.lib.SaveBondCount(count)(tx)
		if err != nil {
			return fmt.Errorf("could not save bond count: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("could not submit bonds: %w", err)
	}

	for _, source := range sources {
		w.cache.invalidate(source)
	}

	return nil
}

// update runs the operation in a read-write transaction, and retries it when
// it conflicts with a concurrent transaction.
func (w *Writer) update(op func(*badger.Txn) error) error {
	var err error
	for attempt := uint(0); attempt <= w.cfg.ConflictRetries; attempt++ {
		err = w.db.Update(op)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}
