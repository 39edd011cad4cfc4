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

package bondfile

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/optakt/genesis-signatures/models/genesis"
)

const suffix = "-bond.toml"

// file mirrors the layout of the bond files in the genesis repository. Each
// bond is a `[[bond]]` table with its signatures in a `[bond.signatures]`
// table that maps public keys to signatures.
type file struct {
	Bond []entry `toml:"bond"`
}

type entry struct {
	Source     string            `toml:"source"`
	Validator  string            `toml:"validator"`
	Amount     string            `toml:"amount"`
	Signatures map[string]string `toml:"signatures"`
}

// Encode renders the bonds as a bond file. Signatures are keyed by public key,
// so a bond that holds two signatures for the same key cannot be rendered.
func Encode(bonds []genesis.Bond) ([]byte, error) {

	f := file{
		Bond: make([]entry, 0, len(bonds)),
	}
	for i, bond := range bonds {
		err := checkBond(bond)
		if err != nil {
			return nil, fmt.Errorf("could not render bond (index: %d): %w", i, err)
		}
		signatures := make(map[string]string, len(bond.Signatures))
		for _, signature := range bond.Signatures {
			_, ok := signatures[signature.PubKey]
			if ok {
				return nil, fmt.Errorf("could not render bond (index: %d, pub_key: %s): %w", i, signature.PubKey, genesis.ErrDuplicateSigner)
			}
			signatures[signature.PubKey] = signature.Signature
		}
		e := entry{
			Source:     bond.Source,
			Validator:  bond.Validator,
			Amount:     bond.Amount,
			Signatures: signatures,
		}
		f.Bond = append(f.Bond, e)
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	err := enc.Encode(f)
	if err != nil {
		return nil, fmt.Errorf("could not encode bond file: %w", err)
	}

	return buf.Bytes(), nil
}

// Decode parses a bond file and validates each of its bonds. The signatures
// of each bond are returned sorted by public key.
func Decode(data []byte) ([]genesis.Bond, error) {

	var f file
	_, err := toml.Decode(string(data), &f)
	var parseErr toml.ParseError
	if errors.As(err, &parseErr) {
		return nil, fmt.Errorf("invalid bond file (line: %d): %w", parseErr.Position.Line, genesis.ErrMalformedInput)
	}
	if err != nil {
		return nil, fmt.Errorf("unexpected bond file content (%s): %w", err.Error(), genesis.ErrSchemaMismatch)
	}

	bonds := make([]genesis.Bond, 0, len(f.Bond))
	for i, e := range f.Bond {
		keys := make([]string, 0, len(e.Signatures))
		for key := range e.Signatures {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		signatures := make([]genesis.GenesisSignature, 0, len(keys))
		for _, key := range keys {
			signatures = append(signatures, genesis.GenesisSignature{PubKey: key, Signature: e.Signatures[key]})
		}
		bond := genesis.Bond{
			Source:     e.Source,
			Validator:  e.Validator,
			Amount:     e.Amount,
			Signatures: signatures,
		}
		err = genesis.ValidateBond(&bond)
		if err != nil {
			return nil, fmt.Errorf("invalid bond (index: %d): %w", i, err)
		}
		bonds = append(bonds, bond)
	}

	return bonds, nil
}

// FileName returns the name under which the bonds of a participant are filed
// in the genesis repository, derived from their contact handle.
func FileName(handle string) string {
	name := strings.ToLower(strings.NewReplacer("@", "", "#", "").Replace(handle))
	name = strings.TrimSpace(name)
	if name == "" {
		name = "anon"
	}
	return name + suffix
}

func checkBond(bond genesis.Bond) error {
	fields := map[string]string{
		"source":    bond.Source,
		"validator": bond.Validator,
		"amount":    bond.Amount,
	}
	for field, value := range fields {
		err := genesis.CheckText(field, value)
		if err != nil {
			return err
		}
	}
	for _, signature := range bond.Signatures {
		err := genesis.CheckText("pub_key", signature.PubKey)
		if err != nil {
			return err
		}
		err = genesis.CheckText("signature", signature.Signature)
		if err != nil {
			return err
		}
	}
	return nil
}
