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

package storage

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/optakt/genesis-signatures/models/genesis"
)

// signer is the value stored in the signer index. It keeps the public key so
// that a lookup can tell a hash collision from a match.
type signer struct {
	PubKey string `cbor:"pub_key"`
	Source string `cbor:"source"`
}

// SaveCollection is an operation that writes the signatures collected for a
// transaction.
func (l *Library) SaveCollection(collection *genesis.Collection) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixCollection, collection.TxID), collection)
}

// RetrieveCollection is an operation that reads the signatures collected for
// a transaction.
func (l *Library) RetrieveCollection(txID string, collection *genesis.Collection) func(*badger.Txn) error {
	key := EncodeKey(PrefixCollection, txID)
	return func(tx *badger.Txn) error {
		err := l.retrieve(key, collection)(tx)
		if err != nil {
			return err
		}
		if collection.TxID != txID {
			return fmt.Errorf("collection identifier mismatch (key: %x): %w", key, badger.ErrKeyNotFound)
		}
		return nil
	}
}

// SaveBonds is an operation that writes the bonds submitted for a source,
// replacing any previous submission.
func (l *Library) SaveBonds(source string, bonds []genesis.Bond) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixBonds, source), bonds)
}

// RetrieveBonds is an operation that reads the bonds submitted for a source.
func (l *Library) RetrieveBonds(source string, bonds *[]genesis.Bond) func(*badger.Txn) error {
	key := EncodeKey(PrefixBonds, source)
	return func(tx *badger.Txn) error {
		var stored []genesis.Bond
		err := l.retrieve(key, &stored)(tx)
		if err != nil {
			return err
		}
		for _, bond := range stored {
			if bond.Source != source {
				return fmt.Errorf("bond source mismatch (key: %x): %w", key, badger.ErrKeyNotFound)
			}
		}
		*bonds = stored
		return nil
	}
}

// IndexSourceForSigner is an operation that indexes the source of the bonds
// that a public key signed.
func (l *Library) IndexSourceForSigner(pubKey string, source string) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixSourceForSigner, pubKey), signer{PubKey: pubKey, Source: source})
}

// RetrieveSourceForSigner is an operation that reads the source of the bonds
// that a public key signed.
func (l *Library) RetrieveSourceForSigner(pubKey string, source *string) func(*badger.Txn) error {
	key := EncodeKey(PrefixSourceForSigner, pubKey)
	return func(tx *badger.Txn) error {
		var entry signer
		err := l.retrieve(key, &entry)(tx)
		if err != nil {
			return err
		}
		if entry.PubKey != pubKey {
			return fmt.Errorf("signer mismatch (key: %x): %w", key, badger.ErrKeyNotFound)
		}
		*source = entry.Source
		return nil
	}
}

// DeleteSourceForSigner is an operation that removes a public key from the
// signer index, as long as the entry still points to the given source. A
// missing entry is not an error.
func (l *Library) DeleteSourceForSigner(pubKey string, source string) func(*badger.Txn) error {
	key := EncodeKey(PrefixSourceForSigner, pubKey)
	return func(tx *badger.Txn) error {
		var entry signer
		err := l.retrieve(key, &entry)(tx)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if entry.PubKey != pubKey || entry.Source != source {
			return nil
		}

		err = tx.Delete(key)
		if err != nil {
			return fmt.Errorf("could not delete value (key: %x): %w", key, err)
		}

		return nil
	}
}

// SaveBondCount is an operation that writes the number of stored bonds.
func (l *Library) SaveBondCount(count uint64) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixBondCount), count)
}

// RetrieveBondCount is an operation that reads the number of stored bonds.
func (l *Library) RetrieveBondCount(count *uint64) func(*badger.Txn) error {
	return l.retrieve(EncodeKey(PrefixBondCount), count)
}
